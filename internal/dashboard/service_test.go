package dashboard

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS destinations (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price INTEGER NOT NULL,
  location TEXT NOT NULL DEFAULT '',
  image_url TEXT,
  meta_title TEXT,
  meta_description TEXT,
  meta_keywords TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  code TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  grand_total INTEGER NOT NULL,
  qr_payload TEXT NOT NULL UNIQUE,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS booking_details (
  id TEXT PRIMARY KEY,
  booking_id TEXT NOT NULL,
  destination_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  visit_date DATETIME NOT NULL,
  subtotal INTEGER NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newDashboardService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(gdb)
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, gdb *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, gdb.Create(user).Error)
	return user
}

func seedBooking(t *testing.T, gdb *gorm.DB, user *models.User, status enums.BookingStatus, total int64, tickets int, created time.Time) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:            uuid.New(),
		UserID:        user.ID,
		Code:          "WST-" + uuid.NewString()[:8],
		Status:        status,
		PaymentMethod: enums.PaymentMethodQRIS,
		GrandTotal:    total,
		QRPayload:     uuid.NewString(),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, gdb.Create(booking).Error)

	detail := &models.BookingDetail{
		ID:            uuid.New(),
		BookingID:     booking.ID,
		DestinationID: uuid.New(),
		Quantity:      tickets,
		VisitDate:     created.AddDate(0, 0, 7),
		Subtotal:      total,
		CreatedAt:     created,
	}
	require.NoError(t, gdb.Create(detail).Error)
	return booking
}

func TestStats_emptyDatabase(t *testing.T) {
	gdb := setupDashboardTestDB(t)
	svc := newDashboardService(t, gdb)

	stats, err := svc.Stats(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalRevenue)
	assert.Zero(t, stats.TotalBookings)
	assert.Zero(t, stats.TotalTicketsSold)
	assert.Zero(t, stats.TotalUsers)
	assert.Empty(t, stats.RecentBookings)
}

func TestStats_successOnlyAggregates(t *testing.T) {
	gdb := setupDashboardTestDB(t)
	svc := newDashboardService(t, gdb)

	customer := seedUser(t, gdb, enums.UserRoleCustomer)
	seedUser(t, gdb, enums.UserRoleAdmin)

	now := time.Now().UTC()
	seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 100000, 2, now)
	seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 50000, 1, now)
	seedBooking(t, gdb, customer, enums.BookingStatusPending, 999999, 9, now)
	seedBooking(t, gdb, customer, enums.BookingStatusFailed, 777777, 7, now)

	stats, err := svc.Stats(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, int64(150000), stats.TotalRevenue)
	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.TotalTicketsSold)
	// Admin accounts never count toward the customer total.
	assert.Equal(t, int64(1), stats.TotalUsers)
	// Recent list includes every status.
	assert.Len(t, stats.RecentBookings, 4)
}

func TestStats_dateRangeFiltersBookingsNotUsers(t *testing.T) {
	gdb := setupDashboardTestDB(t)
	svc := newDashboardService(t, gdb)

	customer := seedUser(t, gdb, enums.UserRoleCustomer)
	seedUser(t, gdb, enums.UserRoleCustomer)

	inRange := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	outOfRange := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 120000, 3, inRange)
	seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 80000, 2, outOfRange)

	dateRange, err := ParseDateRange("2026-03-01", "2026-03-31")
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), dateRange)
	require.NoError(t, err)

	assert.Equal(t, int64(120000), stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.TotalBookings)
	assert.Equal(t, int64(3), stats.TotalTicketsSold)
	// The customer count ignores the window.
	assert.Equal(t, int64(2), stats.TotalUsers)
}

func TestStats_recentHonorsDateRange(t *testing.T) {
	gdb := setupDashboardTestDB(t)
	svc := newDashboardService(t, gdb)

	customer := seedUser(t, gdb, enums.UserRoleCustomer)
	march := seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 100000, 1,
		time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC))
	seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 200000, 2,
		time.Date(2026, 6, 20, 9, 0, 0, 0, time.UTC))
	// Non-success bookings inside the window still show up.
	seedBooking(t, gdb, customer, enums.BookingStatusPending, 50000, 1,
		time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))

	dateRange, err := ParseDateRange("2026-03-01", "2026-03-31")
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), dateRange)
	require.NoError(t, err)

	require.Len(t, stats.RecentBookings, 2)
	assert.Equal(t, march.Code, stats.RecentBookings[0].Code)
	for _, b := range stats.RecentBookings {
		assert.True(t, b.CreatedAt.Month() == time.March)
	}
}

func TestStats_recentLimitAndOrder(t *testing.T) {
	gdb := setupDashboardTestDB(t)
	svc := newDashboardService(t, gdb)

	customer := seedUser(t, gdb, enums.UserRoleCustomer)
	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		seedBooking(t, gdb, customer, enums.BookingStatusSuccess, 10000, 1, base.Add(time.Duration(i)*time.Hour))
	}
	newest := seedBooking(t, gdb, customer, enums.BookingStatusPending, 5000, 1, base.Add(24*time.Hour))

	stats, err := svc.Stats(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, stats.RecentBookings, 5)
	assert.Equal(t, newest.Code, stats.RecentBookings[0].Code)
	for i := 1; i < len(stats.RecentBookings); i++ {
		assert.False(t, stats.RecentBookings[i].CreatedAt.After(stats.RecentBookings[i-1].CreatedAt))
	}
}
