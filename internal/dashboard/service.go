package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/wisatago/wisatago-backend/internal/bookings"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/enums"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"gorm.io/gorm"
)

const recentBookingsLimit = 5

// Stats is the aggregate payload behind the admin dashboard.
type Stats struct {
	TotalRevenue     int64                 `json:"total_revenue"`
	TotalBookings    int64                 `json:"total_bookings"`
	TotalTicketsSold int64                 `json:"total_tickets_sold"`
	TotalUsers       int64                 `json:"total_users"`
	RecentBookings   []bookings.BookingDTO `json:"recent_bookings"`
}

// Service computes dashboard statistics. Pure reads, no mutation.
type Service interface {
	Stats(ctx context.Context, dateRange *DateRange) (*Stats, error)
}

type service struct {
	db       *gorm.DB
	bookings *bookings.Repository
}

// NewService builds the dashboard aggregation service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db, bookings: bookings.NewRepository(db)}, nil
}

// Stats aggregates revenue, booking, and ticket counts over settled bookings.
// The date range predicate applies uniformly to revenue, bookings, tickets,
// and the recent list; the customer count is never date filtered. The recent
// list includes every status.
func (s *service) Stats(ctx context.Context, dateRange *DateRange) (*Stats, error) {
	stats := &Stats{RecentBookings: []bookings.BookingDTO{}}

	revenueQuery := s.successBookings(ctx, dateRange)
	if err := revenueQuery.
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum revenue")
	}

	if err := s.successBookings(ctx, dateRange).
		Count(&stats.TotalBookings).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count bookings")
	}

	ticketsQuery := s.db.WithContext(ctx).
		Model(&models.BookingDetail{}).
		Joins("JOIN bookings ON bookings.id = booking_details.booking_id").
		Where("bookings.status = ?", enums.BookingStatusSuccess)
	if dateRange != nil {
		ticketsQuery = ticketsQuery.Where("bookings.created_at BETWEEN ? AND ?", dateRange.From(), dateRange.To())
	}
	if err := ticketsQuery.
		Select("COALESCE(SUM(booking_details.quantity), 0)").
		Scan(&stats.TotalTicketsSold).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum tickets sold")
	}

	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer).
		Count(&stats.TotalUsers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count customers")
	}

	var from, to *time.Time
	if dateRange != nil {
		f, u := dateRange.From(), dateRange.To()
		from, to = &f, &u
	}
	recent, err := s.bookings.ListRecent(ctx, recentBookingsLimit, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent bookings")
	}
	for i := range recent {
		stats.RecentBookings = append(stats.RecentBookings, *bookings.FromModel(&recent[i]))
	}

	return stats, nil
}

func (s *service) successBookings(ctx context.Context, dateRange *DateRange) *gorm.DB {
	query := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", enums.BookingStatusSuccess)
	if dateRange != nil {
		query = query.Where("created_at BETWEEN ? AND ?", dateRange.From(), dateRange.To())
	}
	return query
}
