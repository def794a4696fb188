package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one cart entry. At most one line exists per listing id; repeat adds
// merge into the existing line's quantity.
type Line struct {
	ListingID     uuid.UUID       `json:"listingId"`
	FishType      string          `json:"fishType"`
	Quantity      int             `json:"quantity"`
	PriceSnapshot decimal.Decimal `json:"priceSnapshot"`
}

// Store persists per-buyer carts. Implementations must return an empty slice,
// not an error, for a buyer with no cart.
type Store interface {
	Get(ctx context.Context, buyerID uuid.UUID) ([]Line, error)
	Put(ctx context.Context, buyerID uuid.UUID, lines []Line) error
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

// Total sums quantity times price snapshot over the lines. An empty cart
// totals zero.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.PriceSnapshot.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
