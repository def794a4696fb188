package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/SHERATONS/FISHERMEN/internal/orders"
	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
)

// ReviewDTO is the transport shape for a review.
type ReviewDTO struct {
	ID          uuid.UUID `json:"id"`
	BuyerID     uuid.UUID `json:"buyerId"`
	OrderItemID uuid.UUID `json:"orderItemId"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	ReviewDate  time.Time `json:"reviewDate"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ReviewedItemDTO pairs an eligible order item with its review.
type ReviewedItemDTO struct {
	Item   orders.OrderItemDTO `json:"item"`
	Review ReviewDTO           `json:"review"`
}

// ReconciliationDTO is the buyer-facing review overview.
type ReconciliationDTO struct {
	Reviewed    []ReviewedItemDTO     `json:"reviewed"`
	NotReviewed []orders.OrderItemDTO `json:"notReviewed"`
}

func FromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:          r.ID,
		BuyerID:     r.BuyerID,
		OrderItemID: r.OrderItemID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		ReviewDate:  r.ReviewDate,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromModels(list []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// ReconciliationFromDomain flattens a reconciliation for transport.
func ReconciliationFromDomain(rec *Reconciliation) *ReconciliationDTO {
	if rec == nil {
		return nil
	}
	out := &ReconciliationDTO{
		Reviewed:    make([]ReviewedItemDTO, 0, len(rec.Reviewed)),
		NotReviewed: make([]orders.OrderItemDTO, 0, len(rec.NotReviewed)),
	}
	for i := range rec.Reviewed {
		out.Reviewed = append(out.Reviewed, ReviewedItemDTO{
			Item:   orders.ItemFromModel(&rec.Reviewed[i].Item),
			Review: *FromModel(&rec.Reviewed[i].Review),
		})
	}
	for i := range rec.NotReviewed {
		out.NotReviewed = append(out.NotReviewed, orders.ItemFromModel(&rec.NotReviewed[i]))
	}
	return out
}
