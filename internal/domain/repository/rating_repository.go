package repository

import (
	"context"
	"errors"

	"ratehub/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRatingNotFound is a domain-specific error returned when a rating is not found.
var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the standard operations for rating persistence.
// Ratings are never deleted individually; they disappear only when their
// store is removed (cascade).
type RatingRepository interface {
	// FindByID retrieves a single rating by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Rating, error)

	// FindByUserAndStore retrieves the rating a user gave a store, if any.
	FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)

	// FindByStore retrieves all ratings for a store, newest first.
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)

	// Create persists a new rating entity to the storage.
	Create(ctx context.Context, rating *entity.Rating) error

	// Update modifies an existing rating entity in the storage.
	Update(ctx context.Context, rating *entity.Rating) error

	// Count counts all ratings across all stores.
	Count(ctx context.Context) (int64, error)
}
