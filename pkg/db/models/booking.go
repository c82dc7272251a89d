package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/enums"
)

// Booking is the immutable record produced by checkout. GrandTotal is frozen
// at creation and never recomputed from live prices.
type Booking struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Code          string              `gorm:"column:code;not null;uniqueIndex:idx_bookings_code"`
	Status        enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	GrandTotal    int64               `gorm:"column:grand_total;not null"`
	QRPayload     string              `gorm:"column:qr_payload;not null;uniqueIndex:idx_bookings_qr_payload"`
	PaidAt        *time.Time          `gorm:"column:paid_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	User    *User           `gorm:"foreignKey:UserID"`
	Details []BookingDetail `gorm:"foreignKey:BookingID"`
}
