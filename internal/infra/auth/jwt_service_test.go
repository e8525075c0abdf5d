package auth

import (
	"testing"
	"time"

	"ratehub/config"
	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, secret string, ttl time.Duration) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = secret
	cfg.Auth = &config.AuthConfig{AccessTokenTTL: ttl}

	service, err := NewJWTService(cfg)
	require.NoError(t, err)

	return service.(*jwtService)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := newTestTokenService(t, "test-secret", time.Hour)

	userID := uuid.New()

	token, err := service.Generate(userID, entity.RoleStoreOwner)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, entity.RoleStoreOwner, principal.Role)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "issuer-secret", time.Hour)
	verifier := newTestTokenService(t, "other-secret", time.Hour)

	token, err := issuer.Generate(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
}

func TestJWTService_Validate_GarbageToken(t *testing.T) {
	service := newTestTokenService(t, "test-secret", time.Hour)

	_, err := service.Validate("not.a.token")
	require.Error(t, err)
}

func TestJWTService_Validate_ExpiredToken(t *testing.T) {
	service := newTestTokenService(t, "test-secret", time.Hour)
	service.accessTTL = -time.Minute

	token, err := service.Generate(uuid.New(), entity.RoleUser)
	require.NoError(t, err)

	_, err = service.Validate(token)
	require.Error(t, err)
}
