package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionUnmarshalTypedContent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want func(t *testing.T, sec Section)
	}{
		{
			name: "personal",
			data: `{"id":"s1","type":"personal","title":"Personal","content":{"fullName":"Ada","email":"ada@example.com"},"isVisible":true,"order":1}`,
			want: func(t *testing.T, sec Section) {
				content, ok := sec.Content.(*PersonalContent)
				require.True(t, ok)
				assert.Equal(t, "Ada", content.FullName)
				assert.Equal(t, "ada@example.com", content.Email)
			},
		},
		{
			name: "summary",
			data: `{"id":"s2","type":"summary","title":"Summary","content":{"text":"Hello"},"isVisible":true,"order":2}`,
			want: func(t *testing.T, sec Section) {
				content, ok := sec.Content.(*SummaryContent)
				require.True(t, ok)
				assert.Equal(t, "Hello", content.Text)
			},
		},
		{
			name: "experience",
			data: `{"id":"s3","type":"experience","title":"Work","content":{"experiences":[{"company":"Corp","position":"Dev","startDate":"2020-01"}]},"isVisible":true,"order":3}`,
			want: func(t *testing.T, sec Section) {
				content, ok := sec.Content.(*ExperienceContent)
				require.True(t, ok)
				require.Len(t, content.Experiences, 1)
				assert.Equal(t, "Corp", content.Experiences[0].Company)
			},
		},
		{
			name: "skills",
			data: `{"id":"s4","type":"skills","title":"Skills","content":{"skills":["Go","SQL"]},"isVisible":true,"order":4}`,
			want: func(t *testing.T, sec Section) {
				content, ok := sec.Content.(*SkillsContent)
				require.True(t, ok)
				assert.Equal(t, []string{"Go", "SQL"}, content.Skills)
			},
		},
		{
			name: "custom keeps arbitrary fields",
			data: `{"id":"s5","type":"custom","title":"Volunteering","content":{"organization":"Food Bank","hours":120},"isVisible":true,"order":5}`,
			want: func(t *testing.T, sec Section) {
				content, ok := sec.Content.(*CustomContent)
				require.True(t, ok)
				assert.Equal(t, "Food Bank", content.Fields["organization"])
				assert.Equal(t, float64(120), content.Fields["hours"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sec Section
			require.NoError(t, json.Unmarshal([]byte(tt.data), &sec))
			tt.want(t, sec)
		})
	}
}

func TestSectionUnmarshalUnknownType(t *testing.T) {
	var sec Section
	err := json.Unmarshal([]byte(`{"id":"s1","type":"hobbies","title":"Hobbies","content":{}}`), &sec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section type")
}

func TestSectionUnmarshalMissingContent(t *testing.T) {
	var sec Section
	require.NoError(t, json.Unmarshal([]byte(`{"id":"s1","type":"skills","title":"Skills","isVisible":true,"order":1}`), &sec))

	content, ok := sec.Content.(*SkillsContent)
	require.True(t, ok)
	assert.Empty(t, content.Skills)
}

func TestCustomContentRoundTrip(t *testing.T) {
	sec := Section{
		ID:    "c1",
		Type:  SectionCustom,
		Title: "Custom",
		Content: &CustomContent{Fields: map[string]any{
			"note": "value",
		}},
		IsVisible: true,
		Order:     1,
	}

	data, err := json.Marshal(sec)
	require.NoError(t, err)

	var out Section
	require.NoError(t, json.Unmarshal(data, &out))
	content, ok := out.Content.(*CustomContent)
	require.True(t, ok)
	assert.Equal(t, "value", content.Fields["note"])
}
