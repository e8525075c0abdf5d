package model

import (
	"time"

	"github.com/google/uuid"
)

// StoreModel mirrors the 'stores' table. OwnerID references users.id (UUID).
// AvgRating and TotalRatings are denormalized aggregates maintained by the
// rating use case; they are never computed at read time.
type StoreModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string    `gorm:"type:varchar(60);not null"`
	Email        string    `gorm:"type:varchar(255);not null"`
	Address      string    `gorm:"type:varchar(400)"`
	OwnerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AvgRating    float64   `gorm:"type:numeric(4,2);not null;default:0"`
	TotalRatings int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ratings []RatingModel `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (StoreModel) TableName() string {
	return "stores"
}
