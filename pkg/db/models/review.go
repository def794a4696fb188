package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's verdict on a single order item. The unique index on
// order_item_id enforces the at-most-one-review-per-item invariant.
type Review struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID     uuid.UUID  `gorm:"column:buyer_id;type:uuid;not null"`
	OrderItemID uuid.UUID  `gorm:"column:order_item_id;type:uuid;not null;uniqueIndex"`
	OrderItem   *OrderItem `gorm:"foreignKey:OrderItemID"`
	Rating      int        `gorm:"column:rating;not null"`
	Comment     string     `gorm:"column:comment;type:text;not null"`
	ReviewDate  time.Time  `gorm:"column:review_date;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
