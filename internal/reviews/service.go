package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/internal/orders"
	"github.com/SHERATONS/FISHERMEN/pkg/db"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Emit(ctx context.Context, tx *gorm.DB, input notifications.EmitInput) error
}

// Service defines the review reconciliation view and review writes.
type Service interface {
	ForBuyer(ctx context.Context, buyerID uuid.UUID) (*Reconciliation, error)
	Submit(ctx context.Context, input SubmitInput) (*models.Review, error)
	Update(ctx context.Context, input UpdateInput) (*models.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID, actor orders.Actor) error
}

// SubmitInput carries a new review. The order item reference is already
// canonicalized by the transport layer.
type SubmitInput struct {
	BuyerID     uuid.UUID
	OrderItemID uuid.UUID
	Rating      int
	Comment     string
}

// UpdateInput replaces a review's rating and comment in place.
type UpdateInput struct {
	ReviewID uuid.UUID
	BuyerID  uuid.UUID
	Rating   int
	Comment  string
}

type service struct {
	repo     Repository
	orders   orders.Repository
	tx       txRunner
	notifier notifier
}

// NewService wires review dependencies.
func NewService(repo Repository, ordersRepo orders.Repository, tx txRunner, notifier notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reviews repository required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{repo: repo, orders: ordersRepo, tx: tx, notifier: notifier}, nil
}

// ForBuyer derives the reviewed/not-reviewed partition over the buyer's
// eligible order items. Either fetch failing fails the whole view; no partial
// reconciliation is returned.
func (s *service) ForBuyer(ctx context.Context, buyerID uuid.UUID) (*Reconciliation, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}

	buyerOrders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	buyerReviews, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer reviews")
	}

	result := Reconcile(EligibleItems(buyerOrders), buyerReviews)
	return &result, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Review, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if input.OrderItemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item id required")
	}
	if err := validateContent(input.Rating, input.Comment); err != nil {
		return nil, err
	}

	item, fishermanID, err := s.eligibleItem(ctx, input.BuyerID, input.OrderItemID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		BuyerID:     input.BuyerID,
		OrderItemID: item.ID,
		Rating:      input.Rating,
		Comment:     strings.TrimSpace(input.Comment),
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, review); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order item already reviewed")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
		}
		if fishermanID == uuid.Nil {
			return nil
		}
		return s.notifier.Emit(ctx, tx, notifications.EmitInput{
			RecipientID: fishermanID,
			Type:        enums.NotificationTypeReviewReceived,
			Message:     fmt.Sprintf("a buyer reviewed your %s listing", item.FishListing.FishType),
		})
	})
	if txErr != nil {
		return nil, txErr
	}
	return review, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Review, error) {
	if input.ReviewID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	if err := validateContent(input.Rating, input.Comment); err != nil {
		return nil, err
	}

	review, err := s.repo.FindByID(ctx, input.ReviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if input.BuyerID != uuid.Nil && review.BuyerID != input.BuyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "review does not belong to buyer")
	}

	comment := strings.TrimSpace(input.Comment)
	if err := s.repo.Update(ctx, review.ID, input.Rating, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}
	review.Rating = input.Rating
	review.Comment = comment
	return review, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return review, nil
}

func (s *service) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return reviews, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, actor orders.Actor) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review id required")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if actor.Role != enums.UserRoleAdmin && review.BuyerID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "review does not belong to buyer")
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func validateContent(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	if strings.TrimSpace(comment) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment required")
	}
	return nil
}

// eligibleItem confirms the order item belongs to one of the buyer's orders
// in a reviewable state and resolves the listing's fisherman for the
// notification.
func (s *service) eligibleItem(ctx context.Context, buyerID, orderItemID uuid.UUID) (*models.OrderItem, uuid.UUID, error) {
	buyerOrders, err := s.orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}

	for _, item := range EligibleItems(buyerOrders) {
		if item.ID == orderItemID {
			fishermanID := uuid.Nil
			if item.FishListing != nil {
				fishermanID = item.FishListing.FishermanID
			}
			found := item
			if found.FishListing == nil {
				found.FishListing = &models.FishListing{}
			}
			return &found, fishermanID, nil
		}
	}
	return nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "order item is not eligible for review")
}
