package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]*models.FishListing
}

func (f *fakeListingRepo) WithTx(tx *gorm.DB) catalog.Repository { return f }

func (f *fakeListingRepo) Create(ctx context.Context, listing *models.FishListing) error {
	return nil
}

func (f *fakeListingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FishListing, error) {
	if listing, ok := f.listings[id]; ok {
		return listing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeListingRepo) List(ctx context.Context) ([]models.FishListing, error) {
	return nil, nil
}

func (f *fakeListingRepo) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.FishListing, error) {
	return nil, nil
}

func (f *fakeListingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error {
	return nil
}

func newCartService(t *testing.T, listings ...*models.FishListing) Service {
	t.Helper()
	repo := &fakeListingRepo{listings: map[uuid.UUID]*models.FishListing{}}
	for _, l := range listings {
		repo.listings[l.ID] = l
	}
	svc, err := NewService(NewMemoryStore(), repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func fixtureListing(price int64) *models.FishListing {
	return &models.FishListing{
		ID:       uuid.New(),
		FishType: "Salmon",
		Price:    decimal.NewFromInt(price),
		Status:   enums.ListingStatusAvailable,
	}
}

func TestAddMergesRepeatAddsIntoOneLine(t *testing.T) {
	listing := fixtureListing(100)
	svc := newCartService(t, listing)
	buyerID := uuid.New()

	if _, err := svc.Add(context.Background(), buyerID, listing.ID, 1); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.Add(context.Background(), buyerID, listing.ID, 1)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", view.Lines[0].Quantity)
	}
}

func TestTotalSumsQuantityTimesSnapshot(t *testing.T) {
	first := fixtureListing(100)
	second := fixtureListing(50)
	svc := newCartService(t, first, second)
	buyerID := uuid.New()

	if _, err := svc.Add(context.Background(), buyerID, first.ID, 2); err != nil {
		t.Fatalf("add first: %v", err)
	}
	view, err := svc.Add(context.Background(), buyerID, second.ID, 1)
	if err != nil {
		t.Fatalf("add second: %v", err)
	}

	if !view.Total.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected total 250, got %s", view.Total)
	}
}

func TestEmptyCartTotalsZero(t *testing.T) {
	svc := newCartService(t)

	view, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !view.Total.Equal(decimal.Zero) {
		t.Fatalf("expected zero total, got %s", view.Total)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
}

func TestRemoveAbsentListingIsNoOp(t *testing.T) {
	listing := fixtureListing(100)
	svc := newCartService(t, listing)
	buyerID := uuid.New()

	if _, err := svc.Add(context.Background(), buyerID, listing.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := svc.Remove(context.Background(), buyerID, uuid.New())
	if err != nil {
		t.Fatalf("remove absent: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("expected untouched cart, got %d lines", len(view.Lines))
	}

	view, err = svc.Remove(context.Background(), buyerID, listing.ID)
	if err != nil {
		t.Fatalf("remove present: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
}

func TestAddUnknownListingIsNotFound(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAddSoldListingIsStateConflict(t *testing.T) {
	listing := fixtureListing(100)
	listing.Status = enums.ListingStatusSold
	svc := newCartService(t, listing)

	_, err := svc.Add(context.Background(), uuid.New(), listing.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict error, got %v", err)
	}
}

func TestPriceSnapshotTakenOnFirstAdd(t *testing.T) {
	listing := fixtureListing(100)
	repo := &fakeListingRepo{listings: map[uuid.UUID]*models.FishListing{listing.ID: listing}}
	svc, err := NewService(NewMemoryStore(), repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	buyerID := uuid.New()

	if _, err := svc.Add(context.Background(), buyerID, listing.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Later price changes must not move the snapshot.
	listing.Price = decimal.NewFromInt(999)
	view, err := svc.Add(context.Background(), buyerID, listing.ID, 1)
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if !view.Lines[0].PriceSnapshot.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected snapshot 100, got %s", view.Lines[0].PriceSnapshot)
	}
}
