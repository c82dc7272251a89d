package models

import (
	"time"

	"github.com/google/uuid"
)

// BookingDetail captures the frozen snapshot of one consumed cart item.
type BookingDetail struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID     uuid.UUID `gorm:"column:booking_id;type:uuid;not null;index"`
	DestinationID uuid.UUID `gorm:"column:destination_id;type:uuid;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	VisitDate     time.Time `gorm:"column:visit_date;not null"`
	Subtotal      int64     `gorm:"column:subtotal;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`

	Destination *Destination `gorm:"foreignKey:DestinationID"`
}
