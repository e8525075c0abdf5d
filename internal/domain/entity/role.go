// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role a user can have in the system.
// It is a closed set: every authorization decision switches exhaustively
// over these three values.
type Role string

const (
	// RoleAdmin indicates a system administrator.
	RoleAdmin Role = "ADMIN"
	// RoleUser indicates a regular user who can rate stores.
	RoleUser Role = "USER"
	// RoleStoreOwner indicates a user who owns a store.
	RoleStoreOwner Role = "STORE_OWNER"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}
