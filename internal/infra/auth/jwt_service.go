// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"time"

	"ratehub/config"
	"ratehub/internal/domain/entity"
	"ratehub/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultAccessTTL = 24 * time.Hour

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	secret    string        // Secret key for signing access tokens.
	accessTTL time.Duration // Time-to-live for access tokens.
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := defaultAccessTTL
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		ttl = cfg.Auth.AccessTokenTTL
	}

	return &jwtService{
		secret:    cfg.SecretKey.Access,
		accessTTL: ttl,
	}, nil
}

// Generate creates a signed access token carrying the user's id and role.
func (s *jwtService) Generate(userID uuid.UUID, role entity.Role) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),             // Subject (who the token is for)
		"role": role.String(),               // The single role used for authorization
		"iat":  now.Unix(),                  // Issued At
		"exp":  now.Add(s.accessTTL).Unix(), // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return signed, nil
}

// Validate checks the validity of a token string and extracts the principal.
func (s *jwtService) Validate(tokenString string) (entity.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return entity.Principal{}, errors.Wrap(err, "failed to parse access token")
	}
	if !token.Valid {
		return entity.Principal{}, errors.New("invalid access token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Principal{}, errors.New("failed to parse token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return entity.Principal{}, errors.New("user ID missing from token")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return entity.Principal{}, errors.Wrap(err, "invalid user ID in token")
	}

	roleStr, ok := claims["role"].(string)
	if !ok {
		return entity.Principal{}, errors.New("role missing from token")
	}
	role := entity.Role(roleStr)
	if !role.IsValid() {
		return entity.Principal{}, errors.Errorf("unknown role in token: %s", roleStr)
	}

	return entity.Principal{UserID: userID, Role: role}, nil
}
