package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// OrderItemDTO is the transport shape for one line of an order.
type OrderItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	FishListingID   uuid.UUID       `json:"fishListingId"`
	FishType        string          `json:"fishType,omitempty"`
	FishermanID     uuid.UUID       `json:"fishermanId,omitempty"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

// OrderDTO is the full transport shape for an order.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	BuyerID    uuid.UUID         `json:"buyerId"`
	BuyerName  string            `json:"buyerName,omitempty"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Items      []OrderItemDTO    `json:"items"`
	OrderDate  time.Time         `json:"orderDate"`
}

// OrderSummaryDTO is the flattened seller-facing shape for the list-dto view.
type OrderSummaryDTO struct {
	ID         uuid.UUID         `json:"id"`
	BuyerName  string            `json:"buyerName,omitempty"`
	Status     enums.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	ItemCount  int               `json:"itemCount"`
	OrderDate  time.Time         `json:"orderDate"`
}

// ItemFromModel flattens an order item, pulling the fish type and seller
// from the preloaded listing when present.
func ItemFromModel(item *models.OrderItem) OrderItemDTO {
	dto := OrderItemDTO{
		ID:              item.ID,
		FishListingID:   item.FishListingID,
		Quantity:        item.Quantity,
		PriceAtPurchase: item.PriceAtPurchase,
	}
	if item.FishListing != nil {
		dto.FishType = item.FishListing.FishType
		dto.FishermanID = item.FishListing.FishermanID
	}
	return dto
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, ItemFromModel(&o.Items[i]))
	}

	dto := &OrderDTO{
		ID:         o.ID,
		BuyerID:    o.BuyerID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		Items:      items,
		OrderDate:  o.OrderDate,
	}
	if o.Buyer != nil {
		dto.BuyerName = o.Buyer.Username
	}
	return dto
}

func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}

func SummaryFromModel(o *models.Order) *OrderSummaryDTO {
	if o == nil {
		return nil
	}
	summary := &OrderSummaryDTO{
		ID:         o.ID,
		Status:     o.Status,
		TotalPrice: o.TotalPrice,
		ItemCount:  len(o.Items),
		OrderDate:  o.OrderDate,
	}
	if o.Buyer != nil {
		summary.BuyerName = o.Buyer.Username
	}
	return summary
}

func SummariesFromModels(orders []models.Order) []OrderSummaryDTO {
	out := make([]OrderSummaryDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *SummaryFromModel(&orders[i]))
	}
	return out
}
