package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem holds an intended visit prior to checkout. Pricing is never stored
// here; subtotals are derived from the destination's live price at read time.
type CartItem struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	DestinationID uuid.UUID `gorm:"column:destination_id;type:uuid;not null"`
	Quantity      int       `gorm:"column:quantity;not null"`
	VisitDate     time.Time `gorm:"column:visit_date;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Destination *Destination `gorm:"foreignKey:DestinationID"`
}
