package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes booking persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
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

// Create inserts the booking row.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// CreateDetails inserts the booking detail rows.
func (r *Repository) CreateDetails(ctx context.Context, details []models.BookingDetail) error {
	if len(details) == 0 {
		return nil
	}
	for i := range details {
		if details[i].ID == uuid.Nil {
			details[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&details).Error
}

// CodeExists reports whether a booking code is already in use.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// FindByCode loads a booking with its user and detail destinations.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Details.Destination").
		Where("code = ?", code).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListByUser returns the user's bookings newest first with cursor pagination.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Preload("Details.Destination").
		Where("user_id = ?", userID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var bookings []models.Booking
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&bookings).Error
	return bookings, err
}

// ListRecent returns the newest bookings of any status with user and detail
// destinations preloaded, for the admin dashboard. A non-nil from/to pair
// bounds creation time.
func (r *Repository) ListRecent(ctx context.Context, limit int, from, to *time.Time) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Details.Destination")
	if from != nil && to != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *from, *to)
	}

	var bookings []models.Booking
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
