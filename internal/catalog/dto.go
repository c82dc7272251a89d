package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
)

// CategoryDTO is the outward-facing category representation.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// DestinationDTO is the outward-facing destination representation.
type DestinationDTO struct {
	ID              uuid.UUID    `json:"id"`
	Name            string       `json:"name"`
	Slug            string       `json:"slug"`
	Description     string       `json:"description"`
	Price           int64        `json:"price"`
	Location        string       `json:"location"`
	ImageURL        *string      `json:"image_url,omitempty"`
	MetaTitle       *string      `json:"meta_title,omitempty"`
	MetaDescription *string      `json:"meta_description,omitempty"`
	MetaKeywords    *string      `json:"meta_keywords,omitempty"`
	IsActive        bool         `json:"is_active"`
	Category        *CategoryDTO `json:"category,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

// CreateCategoryRequest is the admin payload for a new category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateDestinationRequest is the admin payload for a new destination.
type CreateDestinationRequest struct {
	CategoryID      uuid.UUID `json:"category_id" validate:"required"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description"`
	Price           int64     `json:"price" validate:"min=0"`
	Location        string    `json:"location"`
	ImageURL        *string   `json:"image_url,omitempty"`
	MetaTitle       *string   `json:"meta_title,omitempty"`
	MetaDescription *string   `json:"meta_description,omitempty"`
	MetaKeywords    *string   `json:"meta_keywords,omitempty"`
}

// UpdateDestinationRequest carries the mutable destination fields. Nil fields
// are left untouched.
type UpdateDestinationRequest struct {
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Price           *int64     `json:"price,omitempty" validate:"omitempty,min=0"`
	Location        *string    `json:"location,omitempty"`
	ImageURL        *string    `json:"image_url,omitempty"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	MetaKeywords    *string    `json:"meta_keywords,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
}

// ListFilter narrows public destination listings.
type ListFilter struct {
	CategorySlug string
	Search       string
}

func categoryFromModel(category *models.Category) *CategoryDTO {
	if category == nil {
		return nil
	}
	return &CategoryDTO{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

func destinationFromModel(dest *models.Destination) *DestinationDTO {
	if dest == nil {
		return nil
	}
	return &DestinationDTO{
		ID:              dest.ID,
		Name:            dest.Name,
		Slug:            dest.Slug,
		Description:     dest.Description,
		Price:           dest.Price,
		Location:        dest.Location,
		ImageURL:        dest.ImageURL,
		MetaTitle:       dest.MetaTitle,
		MetaDescription: dest.MetaDescription,
		MetaKeywords:    dest.MetaKeywords,
		IsActive:        dest.IsActive,
		Category:        categoryFromModel(dest.Category),
		CreatedAt:       dest.CreatedAt,
	}
}
