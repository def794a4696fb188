package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/cart"
	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/internal/orders"
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

// Service turns a buyer's cart into an order with a simulated payment.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput carries the checkout request.
type CheckoutInput struct {
	BuyerID       uuid.UUID
	PaymentMethod string
}

type service struct {
	carts    cart.Service
	orders   orders.Repository
	listings catalog.Repository
	payments Repository
	tx       txRunner
	notifier notifier
}

// NewService wires checkout dependencies.
func NewService(carts cart.Service, ordersRepo orders.Repository, listings catalog.Repository, payments Repository, tx txRunner, notifier notifier) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if listings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	if payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{
		carts:    carts,
		orders:   ordersRepo,
		listings: listings,
		payments: payments,
		tx:       tx,
		notifier: notifier,
	}, nil
}

// Checkout creates the order, its items, and the payment record in one
// transaction, then clears the cart. The cart is only cleared after the
// commit so a failed checkout leaves it intact.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*orders.OrderDTO, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}

	view, err := s.carts.Get(ctx, input.BuyerID)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = "CARD"
	}

	var created *models.Order
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		listingsRepo := s.listings.WithTx(tx)
		paymentsRepo := s.payments.WithTx(tx)

		order := &models.Order{
			BuyerID:    input.BuyerID,
			Status:     enums.OrderStatusPending,
			TotalPrice: view.Total,
		}
		fishermen := map[uuid.UUID]struct{}{}

		for _, line := range view.Lines {
			listing, err := listingsRepo.FindByID(ctx, line.ListingID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("listing %s no longer exists", line.ListingID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
			}
			if listing.Status == enums.ListingStatusSold {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					fmt.Sprintf("listing %s already sold", listing.ID))
			}

			order.Items = append(order.Items, models.OrderItem{
				FishListingID:   listing.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: line.PriceSnapshot,
			})
			fishermen[listing.FishermanID] = struct{}{}
		}

		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for _, line := range view.Lines {
			if err := listingsRepo.UpdateStatus(ctx, line.ListingID, enums.ListingStatusSold); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark listing sold")
			}
		}

		payment := &models.Payment{
			OrderID: order.ID,
			Amount:  view.Total,
			Method:  method,
			Status:  enums.PaymentStatusCompleted,
		}
		if err := paymentsRepo.CreatePayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		order.Payment = payment

		for fisherman := range fishermen {
			err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
				RecipientID: fisherman,
				Type:        enums.NotificationTypeOrderPlaced,
				Message:     fmt.Sprintf("order %s has been placed", order.ID),
			})
			if err != nil {
				return err
			}
		}

		created = order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.carts.Clear(ctx, input.BuyerID); err != nil {
		return nil, err
	}

	return orders.FromModel(created), nil
}
