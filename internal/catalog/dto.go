package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// ListingDTO is the catalog's transport shape for a fish listing.
type ListingDTO struct {
	ID          uuid.UUID           `json:"id"`
	FishermanID uuid.UUID           `json:"fishermanId"`
	FishType    string              `json:"fishType"`
	WeightInKg  float64             `json:"weightInKg"`
	Price       decimal.Decimal     `json:"price"`
	PhotoURL    *string             `json:"photoUrl,omitempty"`
	CatchDate   time.Time           `json:"catchDate"`
	Location    string              `json:"location"`
	Status      enums.ListingStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// CreateListingDTO holds the persisted fields for a new listing.
type CreateListingDTO struct {
	FishermanID uuid.UUID
	FishType    string
	WeightInKg  float64
	Price       decimal.Decimal
	PhotoURL    *string
	CatchDate   time.Time
	Location    string
	Status      enums.ListingStatus
}

func FromModel(l *models.FishListing) *ListingDTO {
	if l == nil {
		return nil
	}
	return &ListingDTO{
		ID:          l.ID,
		FishermanID: l.FishermanID,
		FishType:    l.FishType,
		WeightInKg:  l.WeightInKg,
		Price:       l.Price,
		PhotoURL:    l.PhotoURL,
		CatchDate:   l.CatchDate,
		Location:    l.Location,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
	}
}

func FromModels(listings []models.FishListing) []ListingDTO {
	out := make([]ListingDTO, 0, len(listings))
	for i := range listings {
		out = append(out, *FromModel(&listings[i]))
	}
	return out
}

func (c CreateListingDTO) ToModel() *models.FishListing {
	return &models.FishListing{
		FishermanID: c.FishermanID,
		FishType:    c.FishType,
		WeightInKg:  c.WeightInKg,
		Price:       c.Price,
		PhotoURL:    c.PhotoURL,
		CatchDate:   c.CatchDate,
		Location:    c.Location,
		Status:      c.Status,
	}
}
