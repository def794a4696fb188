package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// Order aggregates the line items a buyer checked out together.
type Order struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID    uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null"`
	Buyer      *User             `gorm:"foreignKey:BuyerID"`
	Status     enums.OrderStatus `gorm:"type:text;not null;default:PENDING"`
	TotalPrice decimal.Decimal   `gorm:"column:total_price;type:numeric(12,2);not null"`
	Items      []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment    *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	OrderDate  time.Time         `gorm:"column:order_date;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one listing inside an order. The price is captured at
// purchase time so later listing edits cannot change historical totals.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	FishListingID   uuid.UUID       `gorm:"column:fish_listing_id;type:uuid;not null"`
	FishListing     *FishListing    `gorm:"foreignKey:FishListingID"`
	Quantity        int             `gorm:"column:quantity;not null"`
	PriceAtPurchase decimal.Decimal `gorm:"column:price_at_purchase;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
