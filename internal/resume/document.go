package resume

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a document is reachable through its share token.
type Visibility string

// Document visibility states.
const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// Styling holds the display choices for a document. Values are free-form
// enumerated strings; the renderer treats unknown values as the defaults.
type Styling struct {
	Template    string `json:"template"`
	ColorScheme string `json:"colorScheme"`
	FontSize    string `json:"fontSize"`
}

// DefaultStyling returns the styling applied to new documents.
func DefaultStyling() Styling {
	return Styling{Template: "modern", ColorScheme: "blue", FontSize: "medium"}
}

// Document is the resume aggregate: ordered typed sections plus metadata.
// Mutators operate on a single owned instance and never reach across documents;
// counters are mutated only through the persistence gateway's increments.
type Document struct {
	ID         uuid.UUID  `json:"id,omitempty"`
	OwnerID    string     `json:"ownerId,omitempty"`
	Title      string     `json:"title"`
	JobTitle   string     `json:"jobTitle,omitempty"`
	Sections   []Section  `json:"sections"`
	Styling    Styling    `json:"styling"`
	Visibility Visibility `json:"visibility"`
	ShareToken string     `json:"shareToken,omitempty"`

	ViewCount     int `json:"viewCount"`
	DownloadCount int `json:"downloadCount"`

	// AIGeneratedSectionIDs records which sections currently hold
	// AI-generated content. Cleared per section on hand edits.
	AIGeneratedSectionIDs []string `json:"aiGeneratedSectionIds,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ErrSectionNotFound indicates a section id that is not present in the document.
type ErrSectionNotFound struct {
	SectionID string
}

func (e *ErrSectionNotFound) Error() string {
	return fmt.Sprintf("section not found: %s", e.SectionID)
}

// ErrInvalidContent indicates a field merge or item operation that does not fit
// the section's content shape.
type ErrInvalidContent struct {
	SectionID string
	Reason    string
}

func (e *ErrInvalidContent) Error() string {
	return fmt.Sprintf("invalid content for section %s: %s", e.SectionID, e.Reason)
}

// NewDefault builds a new unsaved document with the default section set:
// personal, summary, experience and skills, ordered 1..4, all visible.
func NewDefault(ownerID string) *Document {
	return &Document{
		OwnerID:    ownerID,
		Title:      "New Resume",
		Visibility: VisibilityPrivate,
		Styling:    DefaultStyling(),
		Sections: []Section{
			{
				ID:        uuid.NewString(),
				Type:      SectionPersonal,
				Title:     "Personal Information",
				Content:   &PersonalContent{},
				IsVisible: true,
				Order:     1,
			},
			{
				ID:        uuid.NewString(),
				Type:      SectionSummary,
				Title:     "Professional Summary",
				Content:   &SummaryContent{},
				IsVisible: true,
				Order:     2,
			},
			{
				ID:        uuid.NewString(),
				Type:      SectionExperience,
				Title:     "Work Experience",
				Content:   &ExperienceContent{Experiences: []Experience{}},
				IsVisible: true,
				Order:     3,
			},
			{
				ID:        uuid.NewString(),
				Type:      SectionSkills,
				Title:     "Skills",
				Content:   &SkillsContent{Skills: []string{}},
				IsVisible: true,
				Order:     4,
			},
		},
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := *d
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		out.Sections[i] = s.clone()
	}
	out.AIGeneratedSectionIDs = append([]string(nil), d.AIGeneratedSectionIDs...)
	return &out
}

// Section returns a pointer to the section with the given id, or an
// ErrSectionNotFound error.
func (d *Document) Section(sectionID string) (*Section, error) {
	for i := range d.Sections {
		if d.Sections[i].ID == sectionID {
			return &d.Sections[i], nil
		}
	}
	return nil, &ErrSectionNotFound{SectionID: sectionID}
}

// ApplyTemplate replaces the document's sections wholesale with the template's
// preset sections. Identity, visibility and counters survive; styling adopts
// the template's defaults.
func (d *Document) ApplyTemplate(t *Template) {
	sections := make([]Section, len(t.Sections))
	for i, s := range t.Sections {
		sections[i] = s.clone()
		sections[i].ID = uuid.NewString()
	}
	d.Sections = sections
	d.Styling = t.Styling
	d.AIGeneratedSectionIDs = nil
}

// UpdateSectionField merges a single field into a section's content without
// disturbing sibling fields. The merge goes through the JSON form so the
// result is re-validated against the section's typed payload shape. Hand
// edits clear the section's AI provenance marker.
func (d *Document) UpdateSectionField(sectionID, field string, value any) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(sec.Content)
	if err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	fields[field] = encoded

	merged, err := json.Marshal(fields)
	if err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}
	content, err := decodeContent(sec.Type, merged)
	if err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}
	sec.Content = content
	d.ClearAIMark(sectionID)
	return nil
}

// SetSectionVisibility toggles whether a section appears in rendered output.
// Hidden sections are retained in the document.
func (d *Document) SetSectionVisibility(sectionID string, visible bool) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}
	sec.IsVisible = visible
	return nil
}

// SetSectionTitle updates a section's display label.
func (d *Document) SetSectionTitle(sectionID, title string) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}
	sec.Title = title
	return nil
}

// AddItem appends an item to a list-shaped section (experiences, education,
// skills, projects, certifications). The item is decoded into the list's
// element type; a shape mismatch fails without partially applying.
func (d *Document) AddItem(sectionID string, item any) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
	}

	switch c := sec.Content.(type) {
	case *ExperienceContent:
		var exp Experience
		if err := json.Unmarshal(raw, &exp); err != nil {
			return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
		}
		c.Experiences = append(c.Experiences, exp)
	case *EducationContent:
		var edu Education
		if err := json.Unmarshal(raw, &edu); err != nil {
			return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
		}
		c.Education = append(c.Education, edu)
	case *SkillsContent:
		var skill string
		if err := json.Unmarshal(raw, &skill); err != nil {
			return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
		}
		c.Skills = append(c.Skills, skill)
	case *ProjectsContent:
		var p Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
		}
		c.Projects = append(c.Projects, p)
	case *CertificationsContent:
		var cert Certification
		if err := json.Unmarshal(raw, &cert); err != nil {
			return &ErrInvalidContent{SectionID: sectionID, Reason: err.Error()}
		}
		c.Certifications = append(c.Certifications, cert)
	default:
		return &ErrInvalidContent{SectionID: sectionID, Reason: fmt.Sprintf("section type %s does not hold a list", sec.Type)}
	}
	d.ClearAIMark(sectionID)
	return nil
}

// RemoveItem removes the item at index from a list-shaped section. The index
// is evaluated against the current state of the list, never a cached length.
func (d *Document) RemoveItem(sectionID string, index int) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}

	outOfRange := func(n int) error {
		return &ErrInvalidContent{SectionID: sectionID, Reason: fmt.Sprintf("index %d out of range [0,%d)", index, n)}
	}

	switch c := sec.Content.(type) {
	case *ExperienceContent:
		if index < 0 || index >= len(c.Experiences) {
			return outOfRange(len(c.Experiences))
		}
		c.Experiences = append(c.Experiences[:index], c.Experiences[index+1:]...)
	case *EducationContent:
		if index < 0 || index >= len(c.Education) {
			return outOfRange(len(c.Education))
		}
		c.Education = append(c.Education[:index], c.Education[index+1:]...)
	case *SkillsContent:
		if index < 0 || index >= len(c.Skills) {
			return outOfRange(len(c.Skills))
		}
		c.Skills = append(c.Skills[:index], c.Skills[index+1:]...)
	case *ProjectsContent:
		if index < 0 || index >= len(c.Projects) {
			return outOfRange(len(c.Projects))
		}
		c.Projects = append(c.Projects[:index], c.Projects[index+1:]...)
	case *CertificationsContent:
		if index < 0 || index >= len(c.Certifications) {
			return outOfRange(len(c.Certifications))
		}
		c.Certifications = append(c.Certifications[:index], c.Certifications[index+1:]...)
	default:
		return &ErrInvalidContent{SectionID: sectionID, Reason: fmt.Sprintf("section type %s does not hold a list", sec.Type)}
	}
	d.ClearAIMark(sectionID)
	return nil
}

// ReplaceContent swaps a section's entire content payload. Used by the editing
// session when applying generated content; callers mark provenance separately.
func (d *Document) ReplaceContent(sectionID string, content SectionContent) error {
	sec, err := d.Section(sectionID)
	if err != nil {
		return err
	}
	sec.Content = content
	return nil
}

// MarkSectionAIGenerated records that a section's current content came from
// the AI generator.
func (d *Document) MarkSectionAIGenerated(sectionID string) {
	for _, id := range d.AIGeneratedSectionIDs {
		if id == sectionID {
			return
		}
	}
	d.AIGeneratedSectionIDs = append(d.AIGeneratedSectionIDs, sectionID)
}

// ClearAIMark removes a section's AI provenance marker, if present.
func (d *Document) ClearAIMark(sectionID string) {
	for i, id := range d.AIGeneratedSectionIDs {
		if id == sectionID {
			d.AIGeneratedSectionIDs = append(d.AIGeneratedSectionIDs[:i], d.AIGeneratedSectionIDs[i+1:]...)
			return
		}
	}
}

// IsAIGenerated reports whether a section carries the AI provenance marker.
func (d *Document) IsAIGenerated(sectionID string) bool {
	for _, id := range d.AIGeneratedSectionIDs {
		if id == sectionID {
			return true
		}
	}
	return false
}

// SortedSections returns the sections sorted by order ascending. Ties keep
// insertion order (stable sort); order values need not be contiguous.
func (d *Document) SortedSections() []Section {
	out := make([]Section, len(d.Sections))
	copy(out, d.Sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// VisibleSections returns the sections that render, sorted by order.
func (d *Document) VisibleSections() []Section {
	var out []Section
	for _, s := range d.SortedSections() {
		if s.IsVisible {
			out = append(out, s)
		}
	}
	return out
}

// PublicDocument is the owner-stripped projection served through a share
// token. It never carries the owner id or the token itself.
type PublicDocument struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	JobTitle      string    `json:"jobTitle,omitempty"`
	Sections      []Section `json:"sections"`
	Styling       Styling   `json:"styling"`
	ViewCount     int       `json:"viewCount"`
	DownloadCount int       `json:"downloadCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public returns the owner-stripped projection of the document.
func (d *Document) Public() *PublicDocument {
	c := d.Clone()
	return &PublicDocument{
		ID:            c.ID,
		Title:         c.Title,
		JobTitle:      c.JobTitle,
		Sections:      c.Sections,
		Styling:       c.Styling,
		ViewCount:     c.ViewCount,
		DownloadCount: c.DownloadCount,
		UpdatedAt:     c.UpdatedAt,
	}
}

// ErrValidation indicates a document that fails its creation/update
// invariants. Field names the offending field.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the document's creation/update invariants: a non-empty
// title and well-formed sections.
func (d *Document) Validate() error {
	if d.Title == "" {
		return &ErrValidation{Field: "title", Message: "title is required"}
	}
	for _, s := range d.Sections {
		if !s.Type.Valid() {
			return &ErrValidation{Field: "sections.type", Message: fmt.Sprintf("unknown section type %q", s.Type)}
		}
		if s.ID == "" {
			return &ErrValidation{Field: "sections.id", Message: "section id is required"}
		}
	}
	return nil
}
