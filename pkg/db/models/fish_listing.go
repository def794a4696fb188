package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// FishListing represents a catch posted by a fisherman. Listings are immutable
// from the catalog's point of view once created.
type FishListing struct {
	ID          uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FishermanID uuid.UUID           `gorm:"column:fisherman_id;type:uuid;not null"`
	Fisherman   *User               `gorm:"foreignKey:FishermanID"`
	FishType    string              `gorm:"column:fish_type;not null"`
	WeightInKg  float64             `gorm:"column:weight_in_kg;not null"`
	Price       decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	PhotoURL    *string             `gorm:"column:photo_url"`
	CatchDate   time.Time           `gorm:"column:catch_date;not null"`
	Location    string              `gorm:"column:location;not null"`
	Status      enums.ListingStatus `gorm:"type:text;not null;default:AVAILABLE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
}
