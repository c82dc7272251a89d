package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"github.com/wisatago/wisatago-backend/pkg/pagination"
	"gorm.io/gorm"
)

type ticketRenderer interface {
	PNG(payload string) ([]byte, error)
}

// Service exposes booking reads and the printable e-ticket.
type Service interface {
	GetByCode(ctx context.Context, code string) (*BookingDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	TicketPNG(ctx context.Context, code string) ([]byte, error)
}

type service struct {
	repo   *Repository
	ticket ticketRenderer
}

// NewService builds the bookings read service.
func NewService(repo *Repository, ticket ticketRenderer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket renderer required")
	}
	return &service{repo: repo, ticket: ticket}, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*BookingDTO, error) {
	booking, err := s.loadByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return FromModel(booking), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{Bookings: make([]BookingDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Bookings = append(result.Bookings, *FromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) TicketPNG(ctx context.Context, code string) ([]byte, error) {
	booking, err := s.loadByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	png, err := s.ticket.PNG(booking.QRPayload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render ticket")
	}
	return png, nil
}

func (s *service) loadByCode(ctx context.Context, code string) (*models.Booking, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking code required")
	}
	booking, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	return booking, nil
}
