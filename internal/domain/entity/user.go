// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity in the system. Role is a mutable classification:
// a USER is promoted to STORE_OWNER as a side effect of being assigned
// ownership of a store.
type User struct {
	ID           uuid.UUID // The unique identifier for the user.
	Name         string    // The user's display name.
	Email        string    // The user's email, unique across the system, used as the login identifier.
	Address      string    // The user's postal address.
	PasswordHash string    // Stores the bcrypt-hashed password. Never exposed through the API.
	Role         Role      // The user's current role: ADMIN, USER or STORE_OWNER.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}
