package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/notifications"
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

// Service defines order reads and the status workflow.
type Service interface {
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error)
	List(ctx context.Context) ([]OrderDTO, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error)
	ListSummaries(ctx context.Context, actor Actor) ([]OrderSummaryDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error)
	ConfirmShipment(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error)
	Delete(ctx context.Context, orderID uuid.UUID, actor Actor) error
}

// Actor identifies the authenticated caller for authorization checks.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// UpdateStatusInput carries a requested status transition.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Target  string
	Actor   Actor
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifier
}

// NewService wires order dependencies.
func NewService(repo Repository, tx txRunner, notifier notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier}, nil
}

// Get returns an order to its participants: the buyer, a fisherman with a
// listing among the items, or an admin.
func (s *service) Get(ctx context.Context, id uuid.UUID, actor Actor) (*OrderDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if !actorParticipates(order, actor) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's order")
	}
	return FromModel(order), nil
}

func actorParticipates(order *models.Order, actor Actor) bool {
	if actor.Role == enums.UserRoleAdmin {
		return true
	}
	if order.BuyerID == actor.UserID {
		return true
	}
	for i := range order.Items {
		if listing := order.Items[i].FishListing; listing != nil && listing.FishermanID == actor.UserID {
			return true
		}
	}
	return false
}

func (s *service) List(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	orders, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return FromModels(orders), nil
}

// ListSummaries returns the seller-facing view: a fisherman sees only orders
// touching their listings, an admin sees everything.
func (s *service) ListSummaries(ctx context.Context, actor Actor) ([]OrderSummaryDTO, error) {
	switch actor.Role {
	case enums.UserRoleAdmin:
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order summaries")
		}
		return SummariesFromModels(rows), nil
	case enums.UserRoleFisherman:
		rows, err := s.repo.ListByFisherman(ctx, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order summaries")
		}
		return SummariesFromModels(rows), nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller role required")
	}
}

// Delete removes an order outright. Admin only; the workflow endpoints are
// the way buyers and sellers retire orders.
func (s *service) Delete(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actor.Role != enums.UserRoleAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// UpdateStatus commits the transition transactionally; the caller only sees
// the new state after the write is acknowledged.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	target, err := enums.ParseOrderStatus(input.Target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}

	var updated *OrderDTO
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := authorizeTransition(order.BuyerID, input.Actor, target); err != nil {
			return err
		}
		if order.Status == target {
			updated = FromModel(order)
			return nil
		}
		if !order.Status.CanTransitionTo(target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = target
		updated = FromModel(order)

		return s.emitTransitionNotifications(ctx, tx, updated, input.Actor)
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

// Cancel is allowed from PENDING or UNSHIPPED only; the transition table
// rejects everything else.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error) {
	return s.UpdateStatus(ctx, UpdateStatusInput{
		OrderID: orderID,
		Target:  string(enums.OrderStatusCancelled),
		Actor:   actor,
	})
}

// ConfirmShipment moves an UNSHIPPED order to SHIPPED.
func (s *service) ConfirmShipment(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error) {
	return s.UpdateStatus(ctx, UpdateStatusInput{
		OrderID: orderID,
		Target:  string(enums.OrderStatusShipped),
		Actor:   actor,
	})
}

func authorizeTransition(buyerID uuid.UUID, actor Actor, target enums.OrderStatus) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleBuyer:
		if actor.UserID != buyerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
		}
		if target != enums.OrderStatusCancelled && target != enums.OrderStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeForbidden, "buyers may only cancel or confirm receipt")
		}
		return nil
	case enums.UserRoleFisherman:
		switch target {
		case enums.OrderStatusUnshipped, enums.OrderStatusShipped, enums.OrderStatusCancelled:
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "sellers may only accept, ship, or cancel")
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}
}

func (s *service) emitTransitionNotifications(ctx context.Context, tx *gorm.DB, order *OrderDTO, actor Actor) error {
	var (
		notifType enums.NotificationType
		message   string
	)
	switch order.Status {
	case enums.OrderStatusShipped:
		notifType = enums.NotificationTypeOrderShipped
		message = fmt.Sprintf("order %s has been shipped", order.ID)
	case enums.OrderStatusCancelled:
		notifType = enums.NotificationTypeOrderCancelled
		message = fmt.Sprintf("order %s has been cancelled", order.ID)
	default:
		return nil
	}

	recipients := map[uuid.UUID]struct{}{}
	if order.BuyerID != actor.UserID {
		recipients[order.BuyerID] = struct{}{}
	}
	for _, item := range order.Items {
		if item.FishermanID != uuid.Nil && item.FishermanID != actor.UserID {
			recipients[item.FishermanID] = struct{}{}
		}
	}

	for recipient := range recipients {
		err := s.notifier.Emit(ctx, tx, notifications.EmitInput{
			RecipientID: recipient,
			Type:        notifType,
			Message:     message,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
