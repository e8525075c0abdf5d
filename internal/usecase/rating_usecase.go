package usecase

import (
	"context"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SubmitRatingInput defines the data required to rate a store.
type SubmitRatingInput struct {
	StoreID uuid.UUID
	Value   int
}

// UpdateRatingInput defines the data required to revise an existing rating.
type UpdateRatingInput struct {
	RatingID uuid.UUID
	Value    int
}

// --- Output DTOs ---

// RatingOutput returns the persisted rating together with the store's
// refreshed aggregates, so clients can update their view without a second request.
type RatingOutput struct {
	Rating       *entity.Rating
	AvgRating    float64
	TotalRatings int64
}

// RecomputeResult reports the outcome of one store's aggregate recomputation
// during a batch run.
type RecomputeResult struct {
	StoreID      uuid.UUID
	AvgRating    float64
	TotalRatings int64
	Err          error
}

// RatingUsecase defines the interface for rating operations.
// Submitting or revising a rating recomputes the store's aggregates
// synchronously within the same transaction.
type RatingUsecase interface {
	SubmitRating(ctx context.Context, principal entity.Principal, input *SubmitRatingInput) (*RatingOutput, error)
	UpdateRating(ctx context.Context, principal entity.Principal, input *UpdateRatingInput) (*RatingOutput, error)
	ListStoreRatings(ctx context.Context, principal entity.Principal, storeID uuid.UUID) ([]*entity.Rating, error)

	// RecomputeStoreStats rebuilds one store's aggregates from its ratings.
	// It is the repair path for aggregates that drifted from the source rows.
	RecomputeStoreStats(ctx context.Context, principal entity.Principal, storeID uuid.UUID) (*RecomputeResult, error)

	// RecomputeAllStoreStats rebuilds aggregates for every store. Stores are
	// processed concurrently and failures are reported per store, best effort.
	RecomputeAllStoreStats(ctx context.Context, principal entity.Principal) ([]*RecomputeResult, error)
}
