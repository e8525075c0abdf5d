package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStoreNotFound is a domain-specific error returned when a store is not found.
var ErrStoreNotFound = errors.New("store not found")

// StoreFilter narrows store listings. Both filters are case-insensitive
// substring matches; empty strings match everything.
type StoreFilter struct {
	Name    string
	Address string
}

// StoreRepository defines the standard operations for store persistence.
type StoreRepository interface {
	// FindByID retrieves a single store by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// FindFirstByOwnerID retrieves the store owned by the given user.
	// A user owns at most one store in this design.
	FindFirstByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error)

	// List retrieves stores matching the filter, ordered by creation time.
	List(ctx context.Context, filter StoreFilter) ([]*entity.Store, error)

	// Create persists a new store entity to the storage.
	Create(ctx context.Context, store *entity.Store) error

	// Update modifies an existing store entity in the storage.
	Update(ctx context.Context, store *entity.Store) error

	// Delete removes a store by its unique ID. Dependent ratings cascade.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts all stores.
	Count(ctx context.Context) (int64, error)

	// AcquireAggregateMutex takes a row-level lock on the store row for the
	// duration of the surrounding transaction. It serializes the
	// read-compute-write sequence of aggregate recomputation per store, so
	// two concurrent rating submissions cannot clobber each other's effect
	// on avg_rating/total_ratings. Must be called inside a transaction.
	AcquireAggregateMutex(ctx context.Context, storeID uuid.UUID) error

	// UpdateAggregates persists the derived avg_rating/total_ratings fields
	// onto the store row. The aggregate recomputation logic is the only
	// caller; nothing else writes these columns.
	UpdateAggregates(ctx context.Context, storeID uuid.UUID, avgRating float64, totalRatings int64) error
}
