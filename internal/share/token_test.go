package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	token, err := NewToken()
	require.NoError(t, err)
	assert.Len(t, token, TokenLength)
	assert.True(t, ValidToken(token))
}

func TestNewTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token %s", token)
		seen[token] = true
	}
}

func TestValidToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", "aB3dEf9hIjK2", true},
		{"too short", "aB3dEf9", false},
		{"too long", "aB3dEf9hIjK2x", false},
		{"empty", "", false},
		{"punctuation", "aB3dEf9hIj!2", false},
		{"space", "aB3dEf9hIj 2", false},
		{"unicode", "aB3dEf9hIjé2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidToken(tt.token))
		})
	}
}
