package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// ListStoresInput carries the optional name/address filters for store listings.
type ListStoresInput struct {
	Name    string
	Address string
}

// CreateStoreInput defines the data required to register a new store.
type CreateStoreInput struct {
	Name    string
	Email   string
	Address string
	OwnerID uuid.UUID
}

// UpdateStoreInput defines the mutable store fields. Nil pointers leave the
// corresponding field unchanged.
type UpdateStoreInput struct {
	StoreID uuid.UUID
	Name    *string
	Email   *string
	Address *string
	OwnerID *uuid.UUID
}

// StoreUsecase defines the interface for store management operations.
// Every operation serves an authenticated caller; mutations additionally
// require an authorized principal.
type StoreUsecase interface {
	ListStores(ctx context.Context, input *ListStoresInput) ([]*entity.Store, error)
	GetStore(ctx context.Context, storeID uuid.UUID) (*entity.Store, error)
	GetStoreByOwner(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error)
	CreateStore(ctx context.Context, principal entity.Principal, input *CreateStoreInput) (*entity.Store, error)
	UpdateStore(ctx context.Context, principal entity.Principal, input *UpdateStoreInput) (*entity.Store, error)
	DeleteStore(ctx context.Context, principal entity.Principal, storeID uuid.UUID) error

	// StoreQRCode renders a PNG QR code that links to the store's public page.
	StoreQRCode(ctx context.Context, storeID uuid.UUID) ([]byte, error)

	// ResolveStoreQR decodes a scanned QR payload back into the store it
	// points at.
	ResolveStoreQR(ctx context.Context, qrData string) (*entity.Store, error)
}
