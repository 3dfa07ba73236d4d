package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTemplates(t *testing.T) {
	templates, err := ListTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 4)

	names := make([]string, len(templates))
	for i, tpl := range templates {
		names[i] = tpl.Name
		assert.NotEmpty(t, tpl.Sections, "template %s must ship preset sections", tpl.Name)
		for _, sec := range tpl.Sections {
			assert.True(t, sec.Type.Valid())
			require.NotNil(t, sec.Content)
		}
	}
	// Sorted by name.
	assert.Equal(t, []string{"classic", "creative", "minimal", "modern"}, names)
}

func TestGetTemplate(t *testing.T) {
	tpl, err := GetTemplate("modern")
	require.NoError(t, err)
	assert.Equal(t, "modern", tpl.Name)
	assert.Equal(t, "modern", tpl.Styling.Template)
}

func TestGetTemplateUnknown(t *testing.T) {
	_, err := GetTemplate("brutalist")
	var notFound *ErrTemplateNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "brutalist", notFound.Name)
}
