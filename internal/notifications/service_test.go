package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

type fakeRepository struct {
	createFn   func(ctx context.Context, notification *models.Notification) error
	findFn     func(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error)
	listFn     func(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error)
	markReadFn func(ctx context.Context, notificationID uuid.UUID, now time.Time) (markResult, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindByID(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error) {
	if f.findFn != nil {
		return f.findFn(ctx, notificationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, notification)
	}
	return nil
}

func (f *fakeRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, recipientID)
	}
	return nil, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, notificationID uuid.UUID, now time.Time) (markResult, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, notificationID, now)
	}
	return markResult{}, nil
}

func newServiceWithRepo(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestEmitPersistsNotification(t *testing.T) {
	var created *models.Notification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			created = notification
			return nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	recipient := uuid.New()
	err := svc.Emit(context.Background(), nil, EmitInput{
		RecipientID: recipient,
		Type:        enums.NotificationTypeOrderShipped,
		Message:     "order shipped",
	})
	if err != nil {
		t.Fatalf("unexpected emit error: %v", err)
	}
	if created == nil || created.RecipientID != recipient {
		t.Fatalf("expected persisted notification, got %+v", created)
	}
}

func TestEmitRejectsInvalidType(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})

	err := svc.Emit(context.Background(), nil, EmitInput{
		RecipientID: uuid.New(),
		Type:        enums.NotificationType("carrier_pigeon"),
		Message:     "hello",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkReadUnknownIsNotFound(t *testing.T) {
	svc := newServiceWithRepo(t, &fakeRepository{})

	err := svc.MarkRead(context.Background(), uuid.New(), Actor{UserID: uuid.New(), Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestMarkReadAlreadyReadSucceeds(t *testing.T) {
	recipient := uuid.New()
	repo := &fakeRepository{
		findFn: func(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error) {
			return &models.Notification{ID: notificationID, RecipientID: recipient}, nil
		},
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (markResult, error) {
			return markResult{Found: true, Updated: false}, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	if err := svc.MarkRead(context.Background(), uuid.New(), Actor{UserID: recipient, Role: enums.UserRoleBuyer}); err != nil {
		t.Fatalf("expected idempotent mark read, got %v", err)
	}
}

func TestMarkReadRejectsForeignRecipient(t *testing.T) {
	recipient := uuid.New()
	marked := false
	repo := &fakeRepository{
		findFn: func(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error) {
			return &models.Notification{ID: notificationID, RecipientID: recipient}, nil
		},
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (markResult, error) {
			marked = true
			return markResult{Found: true, Updated: true}, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	err := svc.MarkRead(context.Background(), uuid.New(), Actor{UserID: uuid.New(), Role: enums.UserRoleBuyer})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if marked {
		t.Fatal("notification should not have been written")
	}
}

func TestMarkReadAdminMayReadAnyRecipient(t *testing.T) {
	repo := &fakeRepository{
		findFn: func(ctx context.Context, notificationID uuid.UUID) (*models.Notification, error) {
			return &models.Notification{ID: notificationID, RecipientID: uuid.New()}, nil
		},
		markReadFn: func(ctx context.Context, notificationID uuid.UUID, now time.Time) (markResult, error) {
			return markResult{Found: true, Updated: true}, nil
		},
	}
	svc := newServiceWithRepo(t, repo)

	if err := svc.MarkRead(context.Background(), uuid.New(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}); err != nil {
		t.Fatalf("expected admin mark read to succeed, got %v", err)
	}
}

func TestListPropagatesRepoError(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, recipientID uuid.UUID) ([]models.Notification, error) {
			return nil, errors.New("boom")
		},
	}
	svc := newServiceWithRepo(t, repo)

	_, err := svc.ListByRecipient(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
