package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a rateable store. AvgRating and TotalRatings are derived
// fields owned by the aggregate recomputation logic: they are never authored
// directly and must always be consistent with the current set of ratings
// referencing this store.
type Store struct {
	ID           uuid.UUID // The unique identifier for the store.
	Name         string    // The store's display name.
	Email        string    // The store's contact email.
	Address      string    // The store's physical address.
	OwnerID      uuid.UUID // References the User who owns this store. A user owns at most one store.
	AvgRating    float64   // Derived: mean of all rating values, rounded to 2 decimal places. 0 when unrated.
	TotalRatings int64     // Derived: count of all ratings for this store.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
