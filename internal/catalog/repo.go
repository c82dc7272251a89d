package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a clone of the repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// FindCategoryByID loads a category by primary key.
func (r *Repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category row.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

// CountDestinationsByCategory counts destinations referencing the category.
func (r *Repository) CountDestinationsByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Destination{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

// CategorySlugExists reports whether a category slug is already taken.
func (r *Repository) CategorySlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// ListDestinations returns active destinations matching the filter, newest first.
func (r *Repository) ListDestinations(ctx context.Context, filter ListFilter) ([]models.Destination, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("destinations.is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = destinations.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("destinations.name LIKE ? OR destinations.location LIKE ?", like, like)
	}

	var destinations []models.Destination
	err := query.Order("destinations.created_at DESC").Find(&destinations).Error
	return destinations, err
}

// FindDestinationBySlug loads a destination with its category by slug.
func (r *Repository) FindDestinationBySlug(ctx context.Context, slug string) (*models.Destination, error) {
	var dest models.Destination
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ?", slug).
		First(&dest).Error
	if err != nil {
		return nil, err
	}
	return &dest, nil
}

// FindDestinationByID loads a destination with its category by primary key.
func (r *Repository) FindDestinationByID(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	var dest models.Destination
	err := r.db.WithContext(ctx).
		Preload("Category").
		First(&dest, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dest, nil
}

// DestinationSlugExists reports whether a destination slug is already taken.
func (r *Repository) DestinationSlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Destination{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// CreateDestination inserts a new destination.
func (r *Repository) CreateDestination(ctx context.Context, dest *models.Destination) (*models.Destination, error) {
	if dest.ID == uuid.Nil {
		dest.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(dest).Error; err != nil {
		return nil, err
	}
	return dest, nil
}

// UpdateDestination persists the provided column updates.
func (r *Repository) UpdateDestination(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Destination{}).
		Where("id = ?", id).
		Updates(updates).Error
}
