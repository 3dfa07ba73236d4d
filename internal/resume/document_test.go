package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	doc := NewDefault("owner-1")

	assert.Equal(t, "owner-1", doc.OwnerID)
	assert.Equal(t, "New Resume", doc.Title)
	assert.Equal(t, VisibilityPrivate, doc.Visibility)
	assert.Equal(t, DefaultStyling(), doc.Styling)

	require.Len(t, doc.Sections, 4)
	wantTypes := []SectionType{SectionPersonal, SectionSummary, SectionExperience, SectionSkills}
	for i, sec := range doc.Sections {
		assert.Equal(t, wantTypes[i], sec.Type)
		assert.Equal(t, i+1, sec.Order)
		assert.True(t, sec.IsVisible)
		assert.NotEmpty(t, sec.ID)
		require.NotNil(t, sec.Content)
	}
}

func TestSortedSectionsStableOrder(t *testing.T) {
	doc := &Document{
		Title: "t",
		Sections: []Section{
			{ID: "A", Type: SectionCustom, Title: "A", Order: 3, Content: &CustomContent{}},
			{ID: "B", Type: SectionCustom, Title: "B", Order: 1, Content: &CustomContent{}},
			{ID: "C", Type: SectionCustom, Title: "C", Order: 1, Content: &CustomContent{}},
		},
	}

	sorted := doc.SortedSections()
	require.Len(t, sorted, 3)
	// Equal orders keep their insertion order: B before C, A last.
	assert.Equal(t, "B", sorted[0].ID)
	assert.Equal(t, "C", sorted[1].ID)
	assert.Equal(t, "A", sorted[2].ID)
}

func TestUpdateSectionFieldMergesTypedContent(t *testing.T) {
	doc := NewDefault("owner-1")
	personal := doc.Sections[0]

	err := doc.UpdateSectionField(personal.ID, "fullName", "Ada Lovelace")
	require.NoError(t, err)
	err = doc.UpdateSectionField(personal.ID, "email", "ada@example.com")
	require.NoError(t, err)

	sec, err := doc.Section(personal.ID)
	require.NoError(t, err)
	content, ok := sec.Content.(*PersonalContent)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", content.FullName)
	assert.Equal(t, "ada@example.com", content.Email)
}

func TestUpdateSectionFieldUnknownSection(t *testing.T) {
	doc := NewDefault("owner-1")

	err := doc.UpdateSectionField("missing", "fullName", "x")
	var notFound *ErrSectionNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.SectionID)
}

func TestUpdateSectionFieldClearsAIMark(t *testing.T) {
	doc := NewDefault("owner-1")
	summary := doc.Sections[1]

	doc.MarkSectionAIGenerated(summary.ID)
	require.True(t, doc.IsAIGenerated(summary.ID))

	err := doc.UpdateSectionField(summary.ID, "text", "hand-written summary")
	require.NoError(t, err)
	assert.False(t, doc.IsAIGenerated(summary.ID))
}

func TestAddAndRemoveItems(t *testing.T) {
	doc := NewDefault("owner-1")
	exp := doc.Sections[2]

	require.NoError(t, doc.AddItem(exp.ID, map[string]any{
		"company":   "First Corp",
		"position":  "Engineer",
		"startDate": "2020-01",
	}))
	require.NoError(t, doc.AddItem(exp.ID, map[string]any{
		"company":   "Second Corp",
		"position":  "Senior Engineer",
		"startDate": "2022-06",
	}))

	sec, err := doc.Section(exp.ID)
	require.NoError(t, err)
	content := sec.Content.(*ExperienceContent)
	require.Len(t, content.Experiences, 2)
	assert.Equal(t, "First Corp", content.Experiences[0].Company)

	require.NoError(t, doc.RemoveItem(exp.ID, 0))
	content = sec.Content.(*ExperienceContent)
	require.Len(t, content.Experiences, 1)
	assert.Equal(t, "Second Corp", content.Experiences[0].Company)
}

func TestRemoveItemOutOfRange(t *testing.T) {
	doc := NewDefault("owner-1")
	skills := doc.Sections[3]

	err := doc.RemoveItem(skills.ID, 0)
	var invalid *ErrInvalidContent
	require.ErrorAs(t, err, &invalid)
}

func TestSetSectionVisibility(t *testing.T) {
	doc := NewDefault("owner-1")
	summary := doc.Sections[1]

	require.NoError(t, doc.SetSectionVisibility(summary.ID, false))

	visible := doc.VisibleSections()
	for _, sec := range visible {
		assert.NotEqual(t, summary.ID, sec.ID)
	}
	assert.Len(t, visible, 3)
}

func TestPublicStripsOwnerAndToken(t *testing.T) {
	doc := NewDefault("owner-1")
	doc.ShareToken = "abcDEF123456"
	doc.Visibility = VisibilityPublic
	doc.ViewCount = 7

	pub := doc.Public()
	assert.Equal(t, doc.Title, pub.Title)
	assert.Equal(t, 7, pub.ViewCount)
	assert.Len(t, pub.Sections, 4)

	// The projection type has no owner or token field; mutating it must not
	// reach back into the source document.
	pub.Sections[0].Title = "changed"
	assert.Equal(t, "Personal Information", doc.Sections[0].Title)
}

func TestValidate(t *testing.T) {
	doc := NewDefault("owner-1")
	require.NoError(t, doc.Validate())

	doc.Title = ""
	var validation *ErrValidation
	require.ErrorAs(t, doc.Validate(), &validation)
	assert.Equal(t, "title", validation.Field)
}

func TestApplyTemplate(t *testing.T) {
	tpl, err := GetTemplate("classic")
	require.NoError(t, err)

	doc := NewDefault("owner-1")
	doc.MarkSectionAIGenerated(doc.Sections[1].ID)
	oldIDs := make(map[string]bool)
	for _, sec := range doc.Sections {
		oldIDs[sec.ID] = true
	}

	doc.ApplyTemplate(tpl)

	assert.Equal(t, tpl.Styling, doc.Styling)
	assert.Empty(t, doc.AIGeneratedSectionIDs)
	require.NotEmpty(t, doc.Sections)
	for _, sec := range doc.Sections {
		assert.False(t, oldIDs[sec.ID], "template sections must get fresh ids")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDefault("owner-1")
	clone := doc.Clone()

	require.NoError(t, clone.UpdateSectionField(clone.Sections[0].ID, "fullName", "Changed"))

	orig := doc.Sections[0].Content.(*PersonalContent)
	assert.Empty(t, orig.FullName)
}
