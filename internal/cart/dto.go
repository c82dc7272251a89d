package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
)

// AddItemRequest is the payload for placing a destination in the cart.
type AddItemRequest struct {
	DestinationID uuid.UUID `json:"destination_id" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,min=1"`
	VisitDate     string    `json:"visit_date" validate:"required"`
}

// ItemDTO is one cart line with its live-derived subtotal.
type ItemDTO struct {
	ID              uuid.UUID `json:"id"`
	DestinationID   uuid.UUID `json:"destination_id"`
	DestinationName string    `json:"destination_name"`
	DestinationSlug string    `json:"destination_slug"`
	UnitPrice       int64     `json:"unit_price"`
	Quantity        int       `json:"quantity"`
	VisitDate       string    `json:"visit_date"`
	Subtotal        int64     `json:"subtotal"`
	CreatedAt       time.Time `json:"created_at"`
}

// CartDTO is the full cart view returned to the storefront.
type CartDTO struct {
	Items []ItemDTO `json:"items"`
	Total int64     `json:"total"`
}

const visitDateLayout = "2006-01-02"

func itemFromModel(item *models.CartItem) ItemDTO {
	dto := ItemDTO{
		ID:            item.ID,
		DestinationID: item.DestinationID,
		Quantity:      item.Quantity,
		VisitDate:     item.VisitDate.Format(visitDateLayout),
		CreatedAt:     item.CreatedAt,
	}
	if item.Destination != nil {
		dto.DestinationName = item.Destination.Name
		dto.DestinationSlug = item.Destination.Slug
		dto.UnitPrice = item.Destination.Price
		dto.Subtotal = item.Destination.Price * int64(item.Quantity)
	}
	return dto
}
