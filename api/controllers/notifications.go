package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/api/responses"
	"github.com/SHERATONS/FISHERMEN/internal/notifications"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
	"github.com/SHERATONS/FISHERMEN/pkg/logger"
)

type notificationDTO struct {
	ID          uuid.UUID              `json:"id"`
	RecipientID uuid.UUID              `json:"recipientId"`
	Type        enums.NotificationType `json:"type"`
	Message     string                 `json:"message"`
	ReadAt      *time.Time             `json:"readAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

func notificationFromModel(n *models.Notification) notificationDTO {
	return notificationDTO{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        n.Type,
		Message:     n.Message,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

// ListNotifications returns a recipient's notifications, newest first.
// Recipients may only read their own feed; admins may read anyone's.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid recipient id"))
			return
		}

		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actor.Role != enums.UserRoleAdmin && actor.UserID != recipientID {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "cannot read another user's notifications"))
			return
		}

		list, err := svc.ListByRecipient(r.Context(), recipientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]notificationDTO, 0, len(list))
		for i := range list {
			out = append(out, notificationFromModel(&list[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// MarkNotificationRead stamps a notification as read on behalf of the
// authenticated caller. Marking an already read notification succeeds
// without changing the original timestamp.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		actor, err := callerActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.MarkRead(r.Context(), id, notifications.Actor{UserID: actor.UserID, Role: actor.Role}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "read"})
	}
}
