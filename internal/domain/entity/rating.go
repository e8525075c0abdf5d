package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinRatingValue is the lowest accepted rating value.
	MinRatingValue = 1
	// MaxRatingValue is the highest accepted rating value.
	MaxRatingValue = 5
)

// Rating is a single user's 1-5 star rating of a store. At most one rating
// exists per (UserID, StoreID) pair; subsequent submissions go through
// update, never create.
type Rating struct {
	ID        uuid.UUID // The unique identifier for this rating.
	StoreID   uuid.UUID // References the rated Store.
	UserID    uuid.UUID // References the authoring User.
	Value     int       // The star value, an integer in [1,5].
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidRatingValue reports whether v is an acceptable rating value.
func ValidRatingValue(v int) bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}
