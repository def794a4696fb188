package notifications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

// Service defines notification emit/list/read operations.
type Service interface {
	Emit(ctx context.Context, tx *gorm.DB, input EmitInput) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID uuid.UUID, actor Actor) error
}

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

type service struct {
	repo Repository
}

// EmitInput carries a notification to persist. Tx is optional; when set the
// write joins the caller's transaction.
type EmitInput struct {
	RecipientID uuid.UUID
	Type        enums.NotificationType
	Message     string
}

// NewService wires notifications dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Emit(ctx context.Context, tx *gorm.DB, input EmitInput) error {
	if input.RecipientID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if strings.TrimSpace(input.Message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message required")
	}

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	notification := &models.Notification{
		RecipientID: input.RecipientID,
		Type:        input.Type,
		Message:     input.Message,
	}
	if err := repo.Create(ctx, notification); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (s *service) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient id required")
	}
	rows, err := s.repo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return rows, nil
}

// MarkRead stamps a notification as read. Only the recipient or an admin may
// mark it; marking an already read notification succeeds without rewriting
// the original timestamp.
func (s *service) MarkRead(ctx context.Context, notificationID uuid.UUID, actor Actor) error {
	if notificationID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification id required")
	}
	if actor.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load notification")
	}
	if actor.Role != enums.UserRoleAdmin && notification.RecipientID != actor.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot mark another user's notification read")
	}

	result, err := s.repo.MarkRead(ctx, notificationID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark notification read")
	}
	if !result.Found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}
