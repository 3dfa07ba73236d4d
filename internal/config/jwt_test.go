package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantErr    bool
		wantHours  int
	}{
		{"default expiration", "test-secret", "", false, 24},
		{"custom expiration", "test-secret", "72", false, 72},
		{"missing secret", "", "24", true, 0},
		{"expiration not a number", "test-secret", "soon", true, 0},
		{"zero expiration", "test-secret", "0", true, 0},
		{"negative expiration", "test-secret", "-1", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.secret, cfg.Secret)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}
