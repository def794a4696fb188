package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a recipient user.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID              `gorm:"column:recipient_id;type:uuid;not null"`
	Type        enums.NotificationType `gorm:"type:text;not null"`
	Message     string                 `gorm:"type:text;not null"`
	ReadAt      *time.Time             `gorm:"column:read_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}
