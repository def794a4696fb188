package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

// Service defines the cart mutations and reads.
type Service interface {
	Get(ctx context.Context, buyerID uuid.UUID) (*CartView, error)
	Add(ctx context.Context, buyerID, listingID uuid.UUID, quantity int) (*CartView, error)
	Remove(ctx context.Context, buyerID, listingID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, buyerID uuid.UUID) error
}

// CartView is the transport shape for a buyer's cart.
type CartView struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type service struct {
	store    Store
	listings catalog.Repository
}

// NewService wires the cart store and the listing lookup used to snapshot
// prices at add time.
func NewService(store Store, listings catalog.Repository) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart store required")
	}
	if listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{store: store, listings: listings}, nil
}

func (s *service) Get(ctx context.Context, buyerID uuid.UUID) (*CartView, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	lines, err := s.store.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return viewOf(lines), nil
}

// Add merges a repeat add into the existing line instead of appending a
// duplicate. The listing's current price is snapshotted on first add only.
func (s *service) Add(ctx context.Context, buyerID, listingID uuid.UUID, quantity int) (*CartView, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if listingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	lines, err := s.store.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ListingID == listingID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}

	if !merged {
		listing, err := s.listings.FindByID(ctx, listingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
		}
		if listing.Status == enums.ListingStatusSold {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "listing already sold")
		}
		lines = append(lines, Line{
			ListingID:     listing.ID,
			FishType:      listing.FishType,
			Quantity:      quantity,
			PriceSnapshot: listing.Price,
		})
	}

	if err := s.store.Put(ctx, buyerID, lines); err != nil {
		return nil, err
	}
	return viewOf(lines), nil
}

// Remove drops the line for the listing. Removing an absent listing is a
// no-op, not an error.
func (s *service) Remove(ctx context.Context, buyerID, listingID uuid.UUID) (*CartView, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}

	lines, err := s.store.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ListingID != listingID {
			kept = append(kept, line)
		}
	}

	if err := s.store.Put(ctx, buyerID, kept); err != nil {
		return nil, err
	}
	return viewOf(kept), nil
}

func (s *service) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if buyerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	return s.store.Clear(ctx, buyerID)
}

func viewOf(lines []Line) *CartView {
	if lines == nil {
		lines = []Line{}
	}
	return &CartView{Lines: lines, Total: Total(lines)}
}
