package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

type fakeRepository struct {
	orders       map[uuid.UUID]*models.Order
	statusWrites []enums.OrderStatus
}

func newFakeRepository(orders ...*models.Order) *fakeRepository {
	repo := &fakeRepository{orders: map[uuid.UUID]*models.Order{}}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, order *models.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (f *fakeRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		if order.BuyerID == buyerID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (f *fakeRepository) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range f.orders {
		for _, item := range order.Items {
			if item.FishListing != nil && item.FishListing.FishermanID == fishermanID {
				out = append(out, *order)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	f.statusWrites = append(f.statusWrites, status)
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.orders, id)
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

func orderFixture(buyerID, fishermanID uuid.UUID, status enums.OrderStatus) *models.Order {
	listing := &models.FishListing{
		ID:          uuid.New(),
		FishermanID: fishermanID,
		FishType:    "Salmon",
		Price:       decimal.NewFromInt(380),
	}
	return &models.Order{
		ID:         uuid.New(),
		BuyerID:    buyerID,
		Status:     status,
		TotalPrice: decimal.NewFromInt(380),
		Items: []models.OrderItem{{
			ID:              uuid.New(),
			FishListingID:   listing.ID,
			FishListing:     listing,
			Quantity:        1,
			PriceAtPurchase: decimal.NewFromInt(380),
		}},
	}
}

func newOrderService(t *testing.T, repo Repository, notifier notifier) Service {
	t.Helper()
	svc, err := NewService(repo, fakeTxRunner{}, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCancelShippedOrderIsRejected(t *testing.T) {
	buyerID := uuid.New()
	order := orderFixture(buyerID, uuid.New(), enums.OrderStatusShipped)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), order.ID, Actor{UserID: buyerID, Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.statusWrites) != 0 {
		t.Fatal("expected no status write for rejected transition")
	}
}

func TestCancelPendingOrderByBuyer(t *testing.T) {
	buyerID := uuid.New()
	fishermanID := uuid.New()
	order := orderFixture(buyerID, fishermanID, enums.OrderStatusPending)
	repo := newFakeRepository(order)
	notifier := &fakeNotifier{}
	svc := newOrderService(t, repo, notifier)

	updated, err := svc.Cancel(context.Background(), order.ID, Actor{UserID: buyerID, Role: enums.UserRoleBuyer})
	if err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	if updated.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", updated.Status)
	}
	if len(notifier.emitted) != 1 || notifier.emitted[0].RecipientID != fishermanID {
		t.Fatalf("expected cancellation notification to fisherman, got %+v", notifier.emitted)
	}
	if notifier.emitted[0].Type != enums.NotificationTypeOrderCancelled {
		t.Fatalf("unexpected notification type %s", notifier.emitted[0].Type)
	}
}

func TestConfirmShipmentFromUnshipped(t *testing.T) {
	buyerID := uuid.New()
	fishermanID := uuid.New()
	order := orderFixture(buyerID, fishermanID, enums.OrderStatusUnshipped)
	repo := newFakeRepository(order)
	notifier := &fakeNotifier{}
	svc := newOrderService(t, repo, notifier)

	updated, err := svc.ConfirmShipment(context.Background(), order.ID, Actor{UserID: fishermanID, Role: enums.UserRoleFisherman})
	if err != nil {
		t.Fatalf("unexpected confirm error: %v", err)
	}
	if updated.Status != enums.OrderStatusShipped {
		t.Fatalf("expected SHIPPED, got %s", updated.Status)
	}
	if len(notifier.emitted) != 1 || notifier.emitted[0].RecipientID != buyerID {
		t.Fatalf("expected shipment notification to buyer, got %+v", notifier.emitted)
	}
}

func TestConfirmShipmentFromPendingIsRejected(t *testing.T) {
	order := orderFixture(uuid.New(), uuid.New(), enums.OrderStatusPending)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	_, err := svc.ConfirmShipment(context.Background(), order.ID, Actor{UserID: uuid.New(), Role: enums.UserRoleFisherman})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestBuyerCannotShipOrder(t *testing.T) {
	buyerID := uuid.New()
	order := orderFixture(buyerID, uuid.New(), enums.OrderStatusUnshipped)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: order.ID,
		Target:  string(enums.OrderStatusShipped),
		Actor:   Actor{UserID: buyerID, Role: enums.UserRoleBuyer},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestBuyerCannotCancelOthersOrder(t *testing.T) {
	order := orderFixture(uuid.New(), uuid.New(), enums.OrderStatusPending)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), order.ID, Actor{UserID: uuid.New(), Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSameStatusIsIdempotent(t *testing.T) {
	buyerID := uuid.New()
	order := orderFixture(buyerID, uuid.New(), enums.OrderStatusCancelled)
	repo := newFakeRepository(order)
	notifier := &fakeNotifier{}
	svc := newOrderService(t, repo, notifier)

	updated, err := svc.Cancel(context.Background(), order.ID, Actor{UserID: buyerID, Role: enums.UserRoleBuyer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enums.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", updated.Status)
	}
	if len(repo.statusWrites) != 0 || len(notifier.emitted) != 0 {
		t.Fatal("expected no write or notification for same-status request")
	}
}

func TestUpdateStatusUnknownOrderIsNotFound(t *testing.T) {
	svc := newOrderService(t, newFakeRepository(), &fakeNotifier{})

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID: uuid.New(),
		Target:  string(enums.OrderStatusCancelled),
		Actor:   Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListSummariesScopedToFisherman(t *testing.T) {
	fishermanID := uuid.New()
	mine := orderFixture(uuid.New(), fishermanID, enums.OrderStatusPending)
	other := orderFixture(uuid.New(), uuid.New(), enums.OrderStatusPending)
	repo := newFakeRepository(mine, other)
	svc := newOrderService(t, repo, &fakeNotifier{})

	summaries, err := svc.ListSummaries(context.Background(), Actor{UserID: fishermanID, Role: enums.UserRoleFisherman})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != mine.ID {
		t.Fatalf("expected only the fisherman's order, got %+v", summaries)
	}
}

func TestListSummariesRejectsBuyers(t *testing.T) {
	svc := newOrderService(t, newFakeRepository(), &fakeNotifier{})

	_, err := svc.ListSummaries(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteOrderAdminOnly(t *testing.T) {
	order := orderFixture(uuid.New(), uuid.New(), enums.OrderStatusPending)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	err := svc.Delete(context.Background(), order.ID, Actor{UserID: order.BuyerID, Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, ok := repo.orders[order.ID]; !ok {
		t.Fatal("order should not have been deleted")
	}

	if err := svc.Delete(context.Background(), order.ID, Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if _, ok := repo.orders[order.ID]; ok {
		t.Fatal("order should have been deleted")
	}
}

func TestGetOrderRejectsStrangers(t *testing.T) {
	order := orderFixture(uuid.New(), uuid.New(), enums.OrderStatusPending)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	_, err := svc.Get(context.Background(), order.ID, Actor{UserID: uuid.New(), Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestGetOrderVisibleToParticipants(t *testing.T) {
	buyerID := uuid.New()
	fishermanID := uuid.New()
	order := orderFixture(buyerID, fishermanID, enums.OrderStatusPending)
	repo := newFakeRepository(order)
	svc := newOrderService(t, repo, &fakeNotifier{})

	actors := []Actor{
		{UserID: buyerID, Role: enums.UserRoleBuyer},
		{UserID: fishermanID, Role: enums.UserRoleFisherman},
		{UserID: uuid.New(), Role: enums.UserRoleAdmin},
	}
	for _, actor := range actors {
		dto, err := svc.Get(context.Background(), order.ID, actor)
		if err != nil {
			t.Fatalf("get as %s: %v", actor.Role, err)
		}
		if dto.ID != order.ID {
			t.Fatalf("unexpected order %s as %s", dto.ID, actor.Role)
		}
	}
}

func TestDeleteOrderNotFound(t *testing.T) {
	svc := newOrderService(t, newFakeRepository(), &fakeNotifier{})

	err := svc.Delete(context.Background(), uuid.New(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
