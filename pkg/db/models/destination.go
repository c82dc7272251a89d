package models

import (
	"time"

	"github.com/google/uuid"
)

// Destination is a sellable tourism attraction. Price is whole rupiah.
type Destination struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID      uuid.UUID `gorm:"column:category_id;type:uuid;not null"`
	Name            string    `gorm:"column:name;not null"`
	Slug            string    `gorm:"column:slug;not null;uniqueIndex"`
	Description     string    `gorm:"column:description;not null;default:''"`
	Price           int64     `gorm:"column:price;not null"`
	Location        string    `gorm:"column:location;not null;default:''"`
	ImageURL        *string   `gorm:"column:image_url"`
	MetaTitle       *string   `gorm:"column:meta_title"`
	MetaDescription *string   `gorm:"column:meta_description"`
	MetaKeywords    *string   `gorm:"column:meta_keywords"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}
