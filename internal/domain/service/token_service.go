package service

import (
	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenService abstracts issuing and validating access tokens. Token
// mechanics (signing, expiry) are an infrastructure concern.
type TokenService interface {
	// Generate creates a signed access token carrying the user's id and role.
	Generate(userID uuid.UUID, role entity.Role) (string, error)

	// Validate parses and verifies a token string and returns the principal
	// it carries.
	Validate(tokenString string) (entity.Principal, error)
}
