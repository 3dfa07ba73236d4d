// Package resume defines the resume document aggregate: typed sections,
// document-level metadata, and the pure mutation operations the editing
// session composes.
package resume

import (
	"encoding/json"
	"fmt"
)

// SectionType identifies the shape of a section's content payload.
type SectionType string

// Known section types.
const (
	SectionPersonal       SectionType = "personal"
	SectionSummary        SectionType = "summary"
	SectionExperience     SectionType = "experience"
	SectionEducation      SectionType = "education"
	SectionSkills         SectionType = "skills"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionCustom         SectionType = "custom"
)

// Valid reports whether t is a known section type.
func (t SectionType) Valid() bool {
	switch t {
	case SectionPersonal, SectionSummary, SectionExperience, SectionEducation,
		SectionSkills, SectionProjects, SectionCertifications, SectionCustom:
		return true
	}
	return false
}

// SectionContent is the tagged union of per-type content payloads.
// The concrete type is determined by the owning Section's Type field.
type SectionContent interface {
	sectionContent()
}

// PersonalContent is the payload for personal sections.
type PersonalContent struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// SummaryContent is the payload for summary sections.
type SummaryContent struct {
	Text string `json:"text"`
}

// Experience is a single work experience entry.
type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate,omitempty"` // empty means current
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ExperienceContent is the payload for experience sections.
type ExperienceContent struct {
	Experiences []Experience `json:"experiences"`
}

// Education is a single education entry.
type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field,omitempty"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// EducationContent is the payload for education sections.
type EducationContent struct {
	Education []Education `json:"education"`
}

// SkillsContent is the payload for skills sections.
type SkillsContent struct {
	Skills []string `json:"skills"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	GitHubURL    string   `json:"githubUrl,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// ProjectsContent is the payload for projects sections.
type ProjectsContent struct {
	Projects []Project `json:"projects"`
}

// Certification is a single certification entry.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	IssueDate    string `json:"issueDate,omitempty"`
	ExpiryDate   string `json:"expiryDate,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
	URL          string `json:"url,omitempty"`
}

// CertificationsContent is the payload for certifications sections.
type CertificationsContent struct {
	Certifications []Certification `json:"certifications"`
}

// CustomContent is the opaque payload for custom sections.
type CustomContent struct {
	Fields map[string]any `json:"-"`
}

func (PersonalContent) sectionContent()       {}
func (SummaryContent) sectionContent()        {}
func (ExperienceContent) sectionContent()     {}
func (EducationContent) sectionContent()      {}
func (SkillsContent) sectionContent()         {}
func (ProjectsContent) sectionContent()       {}
func (CertificationsContent) sectionContent() {}
func (CustomContent) sectionContent()         {}

// MarshalJSON flattens the free-form fields of a custom section.
func (c CustomContent) MarshalJSON() ([]byte, error) {
	if c.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Fields)
}

// UnmarshalJSON captures arbitrary keys of a custom section.
func (c *CustomContent) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &c.Fields)
}

// newContent returns the zero-value payload for a section type.
func newContent(t SectionType) (SectionContent, error) {
	switch t {
	case SectionPersonal:
		return &PersonalContent{}, nil
	case SectionSummary:
		return &SummaryContent{}, nil
	case SectionExperience:
		return &ExperienceContent{Experiences: []Experience{}}, nil
	case SectionEducation:
		return &EducationContent{Education: []Education{}}, nil
	case SectionSkills:
		return &SkillsContent{Skills: []string{}}, nil
	case SectionProjects:
		return &ProjectsContent{Projects: []Project{}}, nil
	case SectionCertifications:
		return &CertificationsContent{Certifications: []Certification{}}, nil
	case SectionCustom:
		return &CustomContent{Fields: map[string]any{}}, nil
	default:
		return nil, fmt.Errorf("unknown section type: %s", t)
	}
}

// decodeContent parses raw JSON into the payload shape for a section type.
func decodeContent(t SectionType, raw json.RawMessage) (SectionContent, error) {
	content, err := newContent(t)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return content, nil
	}
	if err := json.Unmarshal(raw, content); err != nil {
		return nil, fmt.Errorf("failed to parse %s content: %w", t, err)
	}
	return content, nil
}

// Section is one typed block of resume content.
type Section struct {
	ID        string         `json:"id"`
	Type      SectionType    `json:"type"`
	Title     string         `json:"title"`
	Content   SectionContent `json:"content"`
	IsVisible bool           `json:"isVisible"`
	Order     int            `json:"order"`
}

// sectionJSON is the wire form of a Section; Content is deferred so it can be
// decoded according to Type.
type sectionJSON struct {
	ID        string          `json:"id"`
	Type      SectionType     `json:"type"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	IsVisible bool            `json:"isVisible"`
	Order     int             `json:"order"`
}

// UnmarshalJSON decodes a section, selecting the content payload by type.
func (s *Section) UnmarshalJSON(data []byte) error {
	var wire sectionJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if !wire.Type.Valid() {
		return fmt.Errorf("unknown section type: %s", wire.Type)
	}
	content, err := decodeContent(wire.Type, wire.Content)
	if err != nil {
		return err
	}
	s.ID = wire.ID
	s.Type = wire.Type
	s.Title = wire.Title
	s.Content = content
	s.IsVisible = wire.IsVisible
	s.Order = wire.Order
	return nil
}

// clone returns a deep copy of the section via the JSON round trip.
func (s Section) clone() Section {
	data, err := json.Marshal(s)
	if err != nil {
		// Sections are always marshalable; a failure here is a programming error.
		panic(fmt.Sprintf("clone section: %v", err))
	}
	var out Section
	if err := json.Unmarshal(data, &out); err != nil {
		panic(fmt.Sprintf("clone section: %v", err))
	}
	return out
}
