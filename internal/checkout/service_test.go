package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/cart"
	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/internal/orders"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

type fakeCartService struct {
	lines   []cart.Line
	cleared bool
}

func (f *fakeCartService) Get(ctx context.Context, buyerID uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{Lines: f.lines, Total: cart.Total(f.lines)}, nil
}

func (f *fakeCartService) Add(ctx context.Context, buyerID, listingID uuid.UUID, quantity int) (*cart.CartView, error) {
	return nil, nil
}

func (f *fakeCartService) Remove(ctx context.Context, buyerID, listingID uuid.UUID) (*cart.CartView, error) {
	return nil, nil
}

func (f *fakeCartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	f.cleared = true
	return nil
}

type fakeOrdersRepo struct {
	created *models.Order
}

func (f *fakeOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return f }

func (f *fakeOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	f.created = order
	return nil
}

func (f *fakeOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrdersRepo) List(ctx context.Context) ([]models.Order, error) { return nil, nil }

func (f *fakeOrdersRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersRepo) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

func (f *fakeOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return nil
}

func (f *fakeOrdersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeListingsRepo struct {
	listings     map[uuid.UUID]*models.FishListing
	statusWrites map[uuid.UUID]enums.ListingStatus
}

func newFakeListingsRepo(listings ...*models.FishListing) *fakeListingsRepo {
	repo := &fakeListingsRepo{
		listings:     map[uuid.UUID]*models.FishListing{},
		statusWrites: map[uuid.UUID]enums.ListingStatus{},
	}
	for _, l := range listings {
		repo.listings[l.ID] = l
	}
	return repo
}

func (f *fakeListingsRepo) WithTx(tx *gorm.DB) catalog.Repository { return f }

func (f *fakeListingsRepo) Create(ctx context.Context, listing *models.FishListing) error {
	return nil
}

func (f *fakeListingsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FishListing, error) {
	if listing, ok := f.listings[id]; ok {
		return listing, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeListingsRepo) List(ctx context.Context) ([]models.FishListing, error) {
	return nil, nil
}

func (f *fakeListingsRepo) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.FishListing, error) {
	return nil, nil
}

func (f *fakeListingsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error {
	f.statusWrites[id] = status
	return nil
}

type fakePaymentsRepo struct {
	created *models.Payment
}

func (f *fakePaymentsRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePaymentsRepo) CreatePayment(ctx context.Context, payment *models.Payment) error {
	payment.ID = uuid.New()
	f.created = payment
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeNotifier struct {
	emitted []notifications.EmitInput
}

func (f *fakeNotifier) Emit(ctx context.Context, tx *gorm.DB, input notifications.EmitInput) error {
	f.emitted = append(f.emitted, input)
	return nil
}

func newCheckoutService(t *testing.T, carts cart.Service, ordersRepo orders.Repository, listings catalog.Repository, payments Repository, notifier notifier) Service {
	t.Helper()
	svc, err := NewService(carts, ordersRepo, listings, payments, fakeTxRunner{}, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	svc := newCheckoutService(t, &fakeCartService{}, &fakeOrdersRepo{}, newFakeListingsRepo(), &fakePaymentsRepo{}, &fakeNotifier{})

	_, err := svc.Checkout(context.Background(), CheckoutInput{BuyerID: uuid.New()})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "cart is empty" {
		t.Fatalf("expected %q, got %q", "cart is empty", typed.Message())
	}
}

func TestCheckoutCreatesOrderPaymentAndClearsCart(t *testing.T) {
	fishermanID := uuid.New()
	listing := &models.FishListing{
		ID:          uuid.New(),
		FishermanID: fishermanID,
		FishType:    "Salmon",
		Price:       decimal.NewFromInt(380),
		Status:      enums.ListingStatusAvailable,
	}
	carts := &fakeCartService{lines: []cart.Line{{
		ListingID:     listing.ID,
		FishType:      "Salmon",
		Quantity:      2,
		PriceSnapshot: decimal.NewFromInt(380),
	}}}
	ordersRepo := &fakeOrdersRepo{}
	listingsRepo := newFakeListingsRepo(listing)
	paymentsRepo := &fakePaymentsRepo{}
	notifier := &fakeNotifier{}
	svc := newCheckoutService(t, carts, ordersRepo, listingsRepo, paymentsRepo, notifier)

	buyerID := uuid.New()
	order, err := svc.Checkout(context.Background(), CheckoutInput{BuyerID: buyerID, PaymentMethod: "CARD"})
	if err != nil {
		t.Fatalf("unexpected checkout error: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected PENDING order, got %s", order.Status)
	}
	if !order.TotalPrice.Equal(decimal.NewFromInt(760)) {
		t.Fatalf("expected total 760, got %s", order.TotalPrice)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", order.Items)
	}
	if paymentsRepo.created == nil || paymentsRepo.created.Status != enums.PaymentStatusCompleted {
		t.Fatalf("expected completed payment, got %+v", paymentsRepo.created)
	}
	if !paymentsRepo.created.Amount.Equal(decimal.NewFromInt(760)) {
		t.Fatalf("expected payment amount 760, got %s", paymentsRepo.created.Amount)
	}
	if listingsRepo.statusWrites[listing.ID] != enums.ListingStatusSold {
		t.Fatal("expected listing marked sold")
	}
	if len(notifier.emitted) != 1 || notifier.emitted[0].RecipientID != fishermanID {
		t.Fatalf("expected order placed notification to fisherman, got %+v", notifier.emitted)
	}
	if !carts.cleared {
		t.Fatal("expected cart cleared after checkout")
	}
}

func TestCheckoutSoldListingFailsAndKeepsCart(t *testing.T) {
	listing := &models.FishListing{
		ID:       uuid.New(),
		FishType: "Tuna",
		Price:    decimal.NewFromInt(400),
		Status:   enums.ListingStatusSold,
	}
	carts := &fakeCartService{lines: []cart.Line{{
		ListingID:     listing.ID,
		Quantity:      1,
		PriceSnapshot: decimal.NewFromInt(400),
	}}}
	svc := newCheckoutService(t, carts, &fakeOrdersRepo{}, newFakeListingsRepo(listing), &fakePaymentsRepo{}, &fakeNotifier{})

	_, err := svc.Checkout(context.Background(), CheckoutInput{BuyerID: uuid.New()})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if carts.cleared {
		t.Fatal("expected cart untouched after failed checkout")
	}
}
