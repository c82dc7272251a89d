package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"gorm.io/gorm"
)

type destinationLoader interface {
	FindDestinationByID(ctx context.Context, id uuid.UUID) (*models.Destination, error)
}

// Service exposes the customer cart operations.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ListItems(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo         *Repository
	destinations destinationLoader
	now          func() time.Time
}

// NewService builds the cart service.
func NewService(repo *Repository, destinations destinationLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if destinations == nil {
		return nil, fmt.Errorf("destination loader required")
	}
	return &service{
		repo:         repo,
		destinations: destinations,
		now:          time.Now,
	}, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*ItemDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	visitDate, err := time.Parse(visitDateLayout, req.VisitDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visit_date must be YYYY-MM-DD")
	}
	today := s.today()
	if visitDate.Before(today) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visit_date must not be in the past")
	}

	dest, err := s.destinations.FindDestinationByID(ctx, req.DestinationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "destination not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load destination")
	}
	if !dest.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "destination is not available")
	}

	item, err := s.repo.Create(ctx, &models.CartItem{
		UserID:        userID,
		DestinationID: dest.ID,
		Quantity:      req.Quantity,
		VisitDate:     visitDate,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
	}
	item.Destination = dest

	dto := itemFromModel(item)
	return &dto, nil
}

// RemoveItem deletes the item only when it belongs to the caller. A foreign
// item reports not found so the endpoint never leaks other users' cart ids.
func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if userID == uuid.Nil || itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}
	deleted, err := s.repo.Delete(ctx, userID, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}

	dto := &CartDTO{Items: make([]ItemDTO, 0, len(items))}
	for i := range items {
		line := itemFromModel(&items[i])
		dto.Items = append(dto.Items, line)
		dto.Total += line.Subtotal
	}
	return dto, nil
}

func (s *service) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
