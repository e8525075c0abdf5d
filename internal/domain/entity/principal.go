package entity

import "github.com/google/uuid"

// Principal is the authenticated identity performing an operation. It is
// passed explicitly into every usecase operation that needs authorization,
// never carried as ambient request state.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}
