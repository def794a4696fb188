package reviews

import (
	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// ReviewedItem pairs an eligible order item with the review written for it.
type ReviewedItem struct {
	Item   models.OrderItem `json:"item"`
	Review models.Review    `json:"review"`
}

// Reconciliation partitions a buyer's eligible order items into those already
// reviewed and those still awaiting a review. Every eligible item lands on
// exactly one side.
type Reconciliation struct {
	Reviewed    []ReviewedItem     `json:"reviewed"`
	NotReviewed []models.OrderItem `json:"notReviewed"`
}

// EligibleItems extracts the order items a buyer may review: items belonging
// to orders that have reached SHIPPED or COMPLETED. Input order is preserved.
func EligibleItems(orders []models.Order) []models.OrderItem {
	var items []models.OrderItem
	for _, order := range orders {
		if order.Status != enums.OrderStatusShipped && order.Status != enums.OrderStatusCompleted {
			continue
		}
		items = append(items, order.Items...)
	}
	return items
}

// Reconcile matches reviews to eligible items. A review counts for an item
// when its order item reference matches under either back-reference shape.
func Reconcile(items []models.OrderItem, reviews []models.Review) Reconciliation {
	result := Reconciliation{
		Reviewed:    []ReviewedItem{},
		NotReviewed: []models.OrderItem{},
	}
	for _, item := range items {
		review, ok := findReview(reviews, item.ID)
		if ok {
			result.Reviewed = append(result.Reviewed, ReviewedItem{Item: item, Review: review})
		} else {
			result.NotReviewed = append(result.NotReviewed, item)
		}
	}
	return result
}

// findReview tolerates both historical back-reference shapes: the canonical
// order_item_id column and the nested orderItem association.
func findReview(reviews []models.Review, itemID uuid.UUID) (models.Review, bool) {
	for _, review := range reviews {
		if review.OrderItemID == itemID {
			return review, true
		}
		if review.OrderItem != nil && review.OrderItem.ID == itemID {
			return review, true
		}
	}
	return models.Review{}, false
}
