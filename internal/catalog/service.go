package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"gorm.io/gorm"
)

// slugMaxAttempts bounds the collision suffix search.
const slugMaxAttempts = 50

// Service exposes catalog reads and admin writes.
type Service interface {
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	ListDestinations(ctx context.Context, filter ListFilter) ([]DestinationDTO, error)
	GetDestinationBySlug(ctx context.Context, slug string) (*DestinationDTO, error)
	CreateDestination(ctx context.Context, req CreateDestinationRequest) (*DestinationDTO, error)
	UpdateDestination(ctx context.Context, id uuid.UUID, req UpdateDestinationRequest) (*DestinationDTO, error)
	DeactivateDestination(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds the catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryFromModel(&categories[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name required")
	}

	slug, err := s.uniqueSlug(ctx, name, s.repo.CategorySlugExists)
	if err != nil {
		return nil, err
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return categoryFromModel(category), nil
}

// DeleteCategory refuses to delete a category still referenced by destinations.
func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	count, err := s.repo.CountDestinationsByCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count destinations")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has destinations")
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) ListDestinations(ctx context.Context, filter ListFilter) ([]DestinationDTO, error) {
	destinations, err := s.repo.ListDestinations(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list destinations")
	}
	out := make([]DestinationDTO, 0, len(destinations))
	for i := range destinations {
		out = append(out, *destinationFromModel(&destinations[i]))
	}
	return out, nil
}

func (s *service) GetDestinationBySlug(ctx context.Context, slug string) (*DestinationDTO, error) {
	dest, err := s.repo.FindDestinationBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "destination not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load destination")
	}
	if !dest.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "destination not found")
	}
	return destinationFromModel(dest), nil
}

func (s *service) CreateDestination(ctx context.Context, req CreateDestinationRequest) (*DestinationDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination name required")
	}
	if req.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	category, err := s.repo.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	slug, err := s.uniqueSlug(ctx, name, s.repo.DestinationSlugExists)
	if err != nil {
		return nil, err
	}

	dest, err := s.repo.CreateDestination(ctx, &models.Destination{
		CategoryID:      category.ID,
		Name:            name,
		Slug:            slug,
		Description:     req.Description,
		Price:           req.Price,
		Location:        req.Location,
		ImageURL:        req.ImageURL,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		IsActive:        true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create destination")
	}
	dest.Category = category
	return destinationFromModel(dest), nil
}

func (s *service) UpdateDestination(ctx context.Context, id uuid.UUID, req UpdateDestinationRequest) (*DestinationDTO, error) {
	dest, err := s.repo.FindDestinationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "destination not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load destination")
	}

	updates := map[string]any{}
	if req.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination name required")
		}
		updates["name"] = name
		if name != dest.Name {
			slug, err := s.uniqueSlug(ctx, name, s.repo.DestinationSlugExists)
			if err != nil {
				return nil, err
			}
			updates["slug"] = slug
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.MetaKeywords != nil {
		updates["meta_keywords"] = *req.MetaKeywords
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateDestination(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update destination")
	}

	updated, err := s.repo.FindDestinationByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload destination")
	}
	return destinationFromModel(updated), nil
}

// DeactivateDestination hides a destination from the public catalog. Rows are
// never hard-deleted so historical booking details keep their reference.
func (s *service) DeactivateDestination(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindDestinationByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "destination not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load destination")
	}
	if err := s.repo.UpdateDestination(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate destination")
	}
	return nil
}

func (s *service) uniqueSlug(ctx context.Context, name string, exists func(context.Context, string) (bool, error)) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name produces an empty slug")
	}
	for attempt := 1; attempt <= slugMaxAttempts; attempt++ {
		candidate := SlugWithSuffix(base, attempt)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check slug")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeInternal, "could not derive a unique slug")
}
