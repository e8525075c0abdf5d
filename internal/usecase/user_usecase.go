package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListUsersInput carries the optional filters for the user directory.
type ListUsersInput struct {
	Name  string
	Email string
	Role  entity.Role
}

// CreateUserInput defines the data an administrator provides to create a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Address  string
	Password string
	Role     entity.Role
}

// UpdateUserInput defines the mutable user fields. Nil pointers leave the
// corresponding field unchanged.
type UpdateUserInput struct {
	UserID  uuid.UUID
	Name    *string
	Email   *string
	Address *string
	Role    *entity.Role
}

// ChangePasswordInput defines the data required to change the caller's own password.
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// --- Output DTOs ---

// StatsOutput aggregates the platform counters shown on the admin dashboard.
// TotalUsers counts only normal users, not admins or store owners.
type StatsOutput struct {
	TotalUsers   int64
	TotalStores  int64
	TotalRatings int64
}

// UserUsecase defines the interface for user management operations.
// Every operation takes the calling principal explicitly; authorization
// decisions happen here, not in the delivery layer.
type UserUsecase interface {
	ListUsers(ctx context.Context, principal entity.Principal, input *ListUsersInput) ([]*entity.User, error)
	GetUser(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*entity.User, error)
	CreateUser(ctx context.Context, principal entity.Principal, input *CreateUserInput) (*entity.User, error)
	UpdateUser(ctx context.Context, principal entity.Principal, input *UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, principal entity.Principal, userID uuid.UUID) error
	GetStats(ctx context.Context, principal entity.Principal) (*StatsOutput, error)
	ChangePassword(ctx context.Context, principal entity.Principal, input *ChangePasswordInput) error
}
