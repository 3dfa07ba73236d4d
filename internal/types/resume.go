package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// CreateResumeRequest represents the request to create a new resume. Sections
// are optional raw section objects; when omitted the server seeds the default
// section set. Template, when set, names a preset bundle to start from.
type CreateResumeRequest struct {
	Title    string            `json:"title" validate:"required,min=1,max=200"`
	JobTitle string            `json:"job_title,omitempty" validate:"max=200"`
	Template string            `json:"template,omitempty"`
	Sections []json.RawMessage `json:"sections,omitempty"`
}

// UpdateResumeRequest represents a full-document update. The sections array
// replaces the stored content wholesale; identity and counters are
// server-controlled and ignored if present.
type UpdateResumeRequest struct {
	Title    string            `json:"title" validate:"required,min=1,max=200"`
	JobTitle string            `json:"job_title,omitempty" validate:"max=200"`
	Styling  *StylingRequest   `json:"styling,omitempty"`
	Sections []json.RawMessage `json:"sections" validate:"required"`
}

// StylingRequest carries document-level appearance settings.
type StylingRequest struct {
	Template    string `json:"template" validate:"omitempty,oneof=modern classic minimal creative"`
	ColorScheme string `json:"color_scheme" validate:"omitempty,oneof=blue green purple gray black"`
	FontSize    string `json:"font_size" validate:"omitempty,oneof=small medium large"`
}

// GenerateSummaryRequest represents the request for AI summary generation.
type GenerateSummaryRequest struct {
	JobTitle        string `json:"job_title" validate:"required,min=1,max=200"`
	ExperienceLevel string `json:"experience_level,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
	Industry        string `json:"industry,omitempty" validate:"max=200"`
}

// GenerateExperienceRequest represents the request for AI experience bullet generation.
type GenerateExperienceRequest struct {
	JobTitle    string `json:"job_title" validate:"required,min=1,max=200"`
	Company     string `json:"company,omitempty" validate:"max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// GenerateSkillsRequest represents the request for AI skills generation.
type GenerateSkillsRequest struct {
	JobTitle        string `json:"job_title" validate:"required,min=1,max=200"`
	Industry        string `json:"industry,omitempty" validate:"max=200"`
	ExperienceLevel string `json:"experience_level,omitempty" validate:"omitempty,oneof=entry mid senior executive"`
}

// ImproveContentRequest represents the request to improve existing text.
type ImproveContentRequest struct {
	Content     string `json:"content" validate:"required,min=1,max=5000"`
	ContentType string `json:"content_type,omitempty" validate:"omitempty,oneof=summary experience general"`
}

// ExportRequest carries PDF export options.
type ExportRequest struct {
	Format    string `json:"format,omitempty" validate:"omitempty,oneof=A4 Letter"`
	Landscape bool   `json:"landscape,omitempty"`
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateResumeRequest using the validator.
func (r *UpdateResumeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateSummaryRequest using the validator.
func (r *GenerateSummaryRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateExperienceRequest using the validator.
func (r *GenerateExperienceRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateSkillsRequest using the validator.
func (r *GenerateSkillsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ImproveContentRequest using the validator.
func (r *ImproveContentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ExportRequest using the validator.
func (r *ExportRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
