package impl

import (
	"context"
	"log/slog"

	deliverycontext "ratehub/internal/delivery/context"
	"ratehub/internal/domain/authz"
	"ratehub/internal/domain/entity"
	domainerrors "ratehub/internal/domain/errors"
	"ratehub/internal/domain/repository"
	"ratehub/internal/domain/service"
	"ratehub/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface. All operations except
// ChangePassword are restricted to administrators.
type userService struct {
	txManager  repository.TransactionManager
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
	hasher     service.PasswordHasher
	logger     *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	UserRepo   repository.UserRepository
	StoreRepo  repository.StoreRepository
	RatingRepo repository.RatingRepository
	Hasher     service.PasswordHasher
	Logger     *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:  params.TxManager,
		userRepo:   params.UserRepo,
		storeRepo:  params.StoreRepo,
		ratingRepo: params.RatingRepo,
		hasher:     params.Hasher,
		logger:     params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListUsers returns the user directory, optionally narrowed by name, email or role.
func (srv *userService) ListUsers(ctx context.Context, principal entity.Principal, input *usecase.ListUsersInput) ([]*entity.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may list users")
	}

	if input.Role != "" && !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role filter: " + input.Role.String())
	}

	users, err := srv.userRepo.List(ctx, repository.UserFilter{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// GetUser returns a single user by ID.
func (srv *userService) GetUser(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*entity.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may view users")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user, nil
}

// CreateUser lets an administrator create an account with any role,
// including another administrator.
func (srv *userService) CreateUser(ctx context.Context, principal entity.Principal, input *usecase.CreateUserInput) (*entity.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may create users")
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role: " + role.String())
	}

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}

	var createdUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrEmailAlreadyRegistered.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email availability")
		}

		newUser := &entity.User{
			Name:         input.Name,
			Email:        input.Email,
			Address:      input.Address,
			PasswordHash: hashedPassword,
			Role:         role,
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		createdUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("User creation failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("User created", slog.Any("userID", createdUser.ID), slog.Any("role", createdUser.Role))

	return createdUser, nil
}

// UpdateUser modifies a user's profile fields and role. Nil input pointers
// leave the corresponding field unchanged.
func (srv *userService) UpdateUser(ctx context.Context, principal entity.Principal, input *usecase.UpdateUserInput) (*entity.User, error) {
	if !authz.CanManageUsers(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may update users")
	}

	if input.Role != nil && !input.Role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role: " + input.Role.String())
	}

	var updatedUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
			}

			return errors.Wrap(err, "failed to find user by id")
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Address != nil {
			user.Address = *input.Address
		}
		if input.Role != nil {
			user.Role = *input.Role
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		updatedUser = user

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updatedUser, nil
}

// DeleteUser removes a user. Their ratings and any stores they own cascade
// away with them; aggregates of other stores the user rated stay stale until
// the next recompute run.
func (srv *userService) DeleteUser(ctx context.Context, principal entity.Principal, userID uuid.UUID) error {
	if !authz.CanManageUsers(principal) {
		return domainerrors.ErrForbidden.WrapMessage("only administrators may delete users")
	}

	if err := srv.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
		}

		return errors.Wrap(err, "failed to delete user")
	}

	srv.log(ctx).Info("User deleted", slog.Any("userID", userID))

	return nil
}

// GetStats returns the dashboard counters. TotalUsers intentionally counts
// only accounts holding the normal user role.
func (srv *userService) GetStats(ctx context.Context, principal entity.Principal) (*usecase.StatsOutput, error) {
	if !authz.CanManageUsers(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may view stats")
	}

	totalUsers, err := srv.userRepo.CountByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}

	totalStores, err := srv.storeRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count stores")
	}

	totalRatings, err := srv.ratingRepo.Count(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count ratings")
	}

	return &usecase.StatsOutput{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
	}, nil
}

// ChangePassword lets users and store owners rotate their own password after
// proving they know the current one.
func (srv *userService) ChangePassword(ctx context.Context, principal entity.Principal, input *usecase.ChangePasswordInput) error {
	if !authz.CanChangeOwnPassword(principal) {
		return domainerrors.ErrForbidden.WrapMessage("password change is not available for this role")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		return domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	user, err := srv.userRepo.FindByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("user does not exist")
		}

		return errors.Wrap(err, "failed to find user by id")
	}

	if !srv.hasher.Check(input.OldPassword, user.PasswordHash) {
		srv.log(ctx).Warn("Password change rejected", slog.Any("userID", principal.UserID))

		return domainerrors.ErrPasswordIncorrect.WrapMessage("current password does not match")
	}

	hashedPassword, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		return errors.Wrap(err, "failed to hash new password")
	}

	user.PasswordHash = hashedPassword
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(err, "failed to update password")
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", principal.UserID))

	return nil
}
