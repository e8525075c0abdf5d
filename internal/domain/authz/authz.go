// Package authz is the access-control gate: pure, side-effect-free decisions
// about whether a principal may perform an operation. Callers must run the
// relevant check before mutating state and treat a negative decision as
// terminal for the request.
//
// Every function switches exhaustively over the closed entity.Role set so a
// new role cannot silently fall through to an allow.
package authz

import "ratehub/internal/domain/entity"

// CanSubmitRating reports whether the principal may create a new rating.
// Only regular users rate stores.
func CanSubmitRating(p entity.Principal) bool {
	switch p.Role {
	case entity.RoleUser:
		return true
	case entity.RoleAdmin, entity.RoleStoreOwner:
		return false
	default:
		return false
	}
}

// CanUpdateRating reports whether the principal may change an existing
// rating. Only the authoring user may, and only if they hold the USER role.
func CanUpdateRating(p entity.Principal, rating *entity.Rating) bool {
	switch p.Role {
	case entity.RoleUser:
		return rating.UserID == p.UserID
	case entity.RoleAdmin, entity.RoleStoreOwner:
		return false
	default:
		return false
	}
}

// CanListStoreRatings reports whether the principal may read the full rating
// list of a store. Admins always may; a store owner only for the store they
// own.
func CanListStoreRatings(p entity.Principal, store *entity.Store) bool {
	switch p.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleStoreOwner:
		return store.OwnerID == p.UserID
	case entity.RoleUser:
		return false
	default:
		return false
	}
}

// CanManageStores reports whether the principal may create or delete stores.
func CanManageStores(p entity.Principal) bool {
	switch p.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleUser, entity.RoleStoreOwner:
		return false
	default:
		return false
	}
}

// CanUpdateStore reports whether the principal may update the given store.
// Admins may update any store; a store owner only their own.
func CanUpdateStore(p entity.Principal, store *entity.Store) bool {
	switch p.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleStoreOwner:
		return store.OwnerID == p.UserID
	case entity.RoleUser:
		return false
	default:
		return false
	}
}

// CanManageUsers reports whether the principal may perform user CRUD and
// read system-wide stats.
func CanManageUsers(p entity.Principal) bool {
	switch p.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleUser, entity.RoleStoreOwner:
		return false
	default:
		return false
	}
}

// CanChangeOwnPassword reports whether the principal may change their own
// password through the self-service endpoint. Admins manage users through
// the admin surface instead.
func CanChangeOwnPassword(p entity.Principal) bool {
	switch p.Role {
	case entity.RoleUser, entity.RoleStoreOwner:
		return true
	case entity.RoleAdmin:
		return false
	default:
		return false
	}
}
