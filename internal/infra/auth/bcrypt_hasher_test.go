package auth

import (
	"testing"

	"ratehub/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *bcryptHasher {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:        8,
			MaxLength:        16,
			RequireUppercase: true,
			RequireSpecial:   true,
		},
	}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("Str0ng!Pass")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Str0ng!Pass", hash)

	assert.True(t, hasher.Check("Str0ng!Pass", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
	assert.False(t, hasher.Check("Str0ng!Pass", "not-a-bcrypt-hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := newTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "valid", password: "Str0ng!Pass", wantErr: ""},
		{name: "exactly min length", password: "Abcdef!1", wantErr: ""},
		{name: "exactly max length", password: "Abcdefghijklmn!1", wantErr: ""},
		{name: "too short", password: "Ab!1", wantErr: "at least 8 characters"},
		{name: "too long", password: "Abcdefghijklmno!1", wantErr: "at most 16 characters"},
		{name: "missing uppercase", password: "weakpass!1", wantErr: "uppercase letter"},
		{name: "missing special", password: "Weakpass11", wantErr: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBcryptHasher_DefaultPolicyWithoutConfig(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{}).(*bcryptHasher)

	assert.NoError(t, hasher.ValidatePasswordStrength("Str0ng!Pass"))
	assert.Error(t, hasher.ValidatePasswordStrength("short"))
	assert.Error(t, hasher.ValidatePasswordStrength("nouppercase!1"))
}
