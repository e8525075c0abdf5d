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

// storeService implements the StoreUsecase interface.
type storeService struct {
	txManager     repository.TransactionManager
	storeRepo     repository.StoreRepository
	qrcodeService service.QRCodeService
	logger        *slog.Logger
}

// StoreServiceParams holds dependencies for storeService, injected by Fx.
type StoreServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	StoreRepo     repository.StoreRepository
	QRCodeService service.QRCodeService
	Logger        *slog.Logger
}

// NewStoreService is the constructor for storeService.
func NewStoreService(params StoreServiceParams) usecase.StoreUsecase {
	return &storeService{
		txManager:     params.TxManager,
		storeRepo:     params.StoreRepo,
		qrcodeService: params.QRCodeService,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *storeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListStores returns all stores matching the optional name/address filters.
// The listing is public and already carries the denormalized aggregates.
func (srv *storeService) ListStores(ctx context.Context, input *usecase.ListStoresInput) ([]*entity.Store, error) {
	stores, err := srv.storeRepo.List(ctx, repository.StoreFilter{
		Name:    input.Name,
		Address: input.Address,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return stores, nil
}

// GetStore returns a single store by ID.
func (srv *storeService) GetStore(ctx context.Context, storeID uuid.UUID) (*entity.Store, error) {
	store, err := srv.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
		}

		return nil, errors.Wrap(err, "failed to find store by id")
	}

	return store, nil
}

// GetStoreByOwner returns the store owned by the given user.
func (srv *storeService) GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	store, err := srv.storeRepo.FindFirstByOwnerID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return nil, domainerrors.ErrStoreNotFound.WrapMessage("no store registered for this owner")
		}

		return nil, errors.Wrap(err, "failed to find store by owner")
	}

	return store, nil
}

// CreateStore registers a new store and promotes its owner to the store-owner
// role when needed. Owner validation, promotion and store creation commit or
// roll back together.
func (srv *storeService) CreateStore(ctx context.Context, principal entity.Principal, input *usecase.CreateStoreInput) (*entity.Store, error) {
	if !authz.CanManageStores(principal) {
		return nil, domainerrors.ErrForbidden.WrapMessage("only administrators may create stores")
	}

	var createdStore *entity.Store
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		storeRepo := repoFactory.StoreRepo()

		if err := srv.ensureStoreOwner(ctx, userRepo, input.OwnerID); err != nil {
			return err
		}

		newStore := &entity.Store{
			Name:    input.Name,
			Email:   input.Email,
			Address: input.Address,
			OwnerID: input.OwnerID,
		}

		if err := storeRepo.Create(ctx, newStore); err != nil {
			return errors.Wrap(err, "failed to create store")
		}

		createdStore = newStore

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Store creation failed", slog.Any("ownerID", input.OwnerID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Store created", slog.Any("storeID", createdStore.ID), slog.Any("ownerID", createdStore.OwnerID))

	return createdStore, nil
}

// UpdateStore modifies a store. Admins may update any store, a store owner
// only their own. Reassigning ownership revalidates and promotes the new
// owner the same way creation does.
func (srv *storeService) UpdateStore(ctx context.Context, principal entity.Principal, input *usecase.UpdateStoreInput) (*entity.Store, error) {
	var updatedStore *entity.Store
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		storeRepo := repoFactory.StoreRepo()

		store, err := storeRepo.FindByID(ctx, input.StoreID)
		if err != nil {
			if errors.Is(err, repository.ErrStoreNotFound) {
				return domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
			}

			return errors.Wrap(err, "failed to find store by id")
		}

		if !authz.CanUpdateStore(principal, store) {
			return domainerrors.ErrForbidden.WrapMessage("not allowed to update this store")
		}

		if input.Name != nil {
			store.Name = *input.Name
		}
		if input.Email != nil {
			store.Email = *input.Email
		}
		if input.Address != nil {
			store.Address = *input.Address
		}
		if input.OwnerID != nil && *input.OwnerID != store.OwnerID {
			if err := srv.ensureStoreOwner(ctx, userRepo, *input.OwnerID); err != nil {
				return err
			}
			store.OwnerID = *input.OwnerID
		}

		if err := storeRepo.Update(ctx, store); err != nil {
			return errors.Wrap(err, "failed to update store")
		}

		updatedStore = store

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updatedStore, nil
}

// DeleteStore removes a store together with all its ratings.
func (srv *storeService) DeleteStore(ctx context.Context, principal entity.Principal, storeID uuid.UUID) error {
	if !authz.CanManageStores(principal) {
		return domainerrors.ErrForbidden.WrapMessage("only administrators may delete stores")
	}

	if err := srv.storeRepo.Delete(ctx, storeID); err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return domainerrors.ErrStoreNotFound.WrapMessage("store does not exist")
		}

		return errors.Wrap(err, "failed to delete store")
	}

	srv.log(ctx).Info("Store deleted", slog.Any("storeID", storeID))

	return nil
}

// StoreQRCode renders a PNG QR code pointing at the store's public page.
func (srv *storeService) StoreQRCode(ctx context.Context, storeID uuid.UUID) ([]byte, error) {
	if _, err := srv.GetStore(ctx, storeID); err != nil {
		return nil, err
	}

	png, err := srv.qrcodeService.GenerateStoreQR(storeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate store QR code")
	}

	return png, nil
}

// ResolveStoreQR decodes a scanned QR payload and returns the store it
// encodes. Payloads that do not decode to a store reference are rejected as
// invalid input rather than surfaced as internal errors.
func (srv *storeService) ResolveStoreQR(ctx context.Context, qrData string) (*entity.Store, error) {
	storeID, err := srv.qrcodeService.ParseStoreQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unrecognized QR payload")
	}

	return srv.GetStore(ctx, storeID)
}

// ensureStoreOwner verifies the owner exists and holds the store-owner role,
// promoting them when they do not. Promotion is idempotent: an owner who
// already holds the role is left untouched.
func (srv *storeService) ensureStoreOwner(ctx context.Context, userRepo repository.UserRepository, ownerID uuid.UUID) error {
	owner, err := userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrInvalidOwnerReference.WrapMessage("owner does not exist")
		}

		return errors.Wrap(err, "failed to find store owner")
	}

	if owner.Role == entity.RoleStoreOwner {
		return nil
	}

	owner.Role = entity.RoleStoreOwner
	if err := userRepo.Update(ctx, owner); err != nil {
		return errors.Wrap(err, "failed to promote store owner")
	}

	return nil
}
