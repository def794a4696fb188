package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// Payment records the simulated settlement of an order. No gateway is
// involved; the row exists so order totals and payment state stay auditable.
type Payment struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Amount    decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Method    string              `gorm:"column:method;not null"`
	Status    enums.PaymentStatus `gorm:"type:text;not null;default:PENDING"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
