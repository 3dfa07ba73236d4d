package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name     string
		cost     string
		pepper   string
		wantErr  bool
		wantCost int
	}{
		{"defaults", "", "", false, 12},
		{"custom cost", "10", "", false, 10},
		{"with pepper", "10", "secret-pepper", false, 10},
		{"cost not a number", "twelve", "", true, 0},
		{"cost below range", "9", "", true, 0},
		{"cost above range", "15", "", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.cost)
			t.Setenv("PASSWORD_PEPPER", tt.pepper)

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.pepper, cfg.Pepper)
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	// Cost 10 keeps the test fast.
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, cfg.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, cfg.VerifyPassword("wrong password", hash))
	assert.False(t, cfg.VerifyPassword("", hash))
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	first, err := cfg.HashPassword("same password")
	require.NoError(t, err)
	second, err := cfg.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, cfg.VerifyPassword("same password", first))
	assert.True(t, cfg.VerifyPassword("same password", second))
}

func TestVerifyPasswordRequiresSamePepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-a"}
	hash, err := peppered.HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, peppered.VerifyPassword("hunter2", hash))

	// A different pepper, or none at all, fails verification.
	otherPepper := &PasswordConfig{BcryptCost: 10, Pepper: "pepper-b"}
	assert.False(t, otherPepper.VerifyPassword("hunter2", hash))
	unpeppered := &PasswordConfig{BcryptCost: 10}
	assert.False(t, unpeppered.VerifyPassword("hunter2", hash))
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	assert.False(t, cfg.VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, cfg.VerifyPassword("anything", ""))
}
