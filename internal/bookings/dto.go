package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/enums"
)

const visitDateLayout = "2006-01-02"

// DetailDTO is one frozen booking line.
type DetailDTO struct {
	ID              uuid.UUID `json:"id"`
	DestinationID   uuid.UUID `json:"destination_id"`
	DestinationName string    `json:"destination_name"`
	Quantity        int       `json:"quantity"`
	VisitDate       string    `json:"visit_date"`
	Subtotal        int64     `json:"subtotal"`
}

// BookingDTO is the outward-facing booking representation.
type BookingDTO struct {
	ID            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	Status        enums.BookingStatus `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	GrandTotal    int64               `json:"grand_total"`
	QRPayload     string              `json:"qr_payload"`
	CustomerName  string              `json:"customer_name,omitempty"`
	PaidAt        *time.Time          `json:"paid_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Details       []DetailDTO         `json:"details"`
}

// ListResult wraps a page of bookings plus the next cursor.
type ListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted booking onto the DTO.
func FromModel(booking *models.Booking) *BookingDTO {
	if booking == nil {
		return nil
	}
	dto := &BookingDTO{
		ID:            booking.ID,
		Code:          booking.Code,
		Status:        booking.Status,
		PaymentMethod: booking.PaymentMethod,
		GrandTotal:    booking.GrandTotal,
		QRPayload:     booking.QRPayload,
		PaidAt:        booking.PaidAt,
		CreatedAt:     booking.CreatedAt,
		Details:       make([]DetailDTO, 0, len(booking.Details)),
	}
	if booking.User != nil {
		dto.CustomerName = booking.User.Name
	}
	for _, detail := range booking.Details {
		line := DetailDTO{
			ID:            detail.ID,
			DestinationID: detail.DestinationID,
			Quantity:      detail.Quantity,
			VisitDate:     detail.VisitDate.Format(visitDateLayout),
			Subtotal:      detail.Subtotal,
		}
		if detail.Destination != nil {
			line.DestinationName = detail.Destination.Name
		}
		dto.Details = append(dto.Details, line)
	}
	return dto
}
