package checkout

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisatago/wisatago-backend/internal/bookings"
	"github.com/wisatago/wisatago-backend/internal/cart"
	"github.com/wisatago/wisatago-backend/pkg/config"
	"github.com/wisatago/wisatago-backend/pkg/db"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	"github.com/wisatago/wisatago-backend/pkg/enums"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"github.com/wisatago/wisatago-backend/pkg/qrticket"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
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
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  destination_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  visit_date DATETIME NOT NULL,
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
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  visit_date DATETIME NOT NULL,
  subtotal INTEGER NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range ddl {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newCheckoutService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	signer, err := qrticket.NewSigner("test-secret", 256)
	require.NoError(t, err)

	svc, err := NewService(
		db.FromGorm(gdb),
		cart.NewRepository(gdb),
		bookings.NewRepository(gdb),
		signer,
		config.TicketingConfig{QRSecret: "test-secret", CodeLength: 8, CodeMaxAttempts: 5, QRImageSizePixel: 256},
	)
	require.NoError(t, err)
	return svc
}

func seedDestination(t *testing.T, gdb *gorm.DB, name string, price int64) *models.Destination {
	t.Helper()

	dest := &models.Destination{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       name,
		Slug:       strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.NewString()[:8],
		Price:      price,
		IsActive:   true,
	}
	require.NoError(t, gdb.Create(dest).Error)
	return dest
}

func seedCartItem(t *testing.T, gdb *gorm.DB, userID uuid.UUID, dest *models.Destination, qty int) *models.CartItem {
	t.Helper()

	item := &models.CartItem{
		ID:            uuid.New(),
		UserID:        userID,
		DestinationID: dest.ID,
		Quantity:      qty,
		VisitDate:     time.Now().UTC().AddDate(0, 0, 7),
	}
	require.NoError(t, gdb.Create(item).Error)
	return item
}

func TestExecute_createsSettledBooking(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	beach := seedDestination(t, gdb, "Pink Beach", 100000)
	museum := seedDestination(t, gdb, "Heritage Museum", 50000)
	itemA := seedCartItem(t, gdb, userID, beach, 2)
	itemB := seedCartItem(t, gdb, userID, museum, 1)

	result, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{itemA.ID, itemB.ID},
		PaymentMethod: "qris",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(250000), result.GrandTotal)
	assert.True(t, strings.HasPrefix(result.BookingCode, "WST-"))
	assert.Len(t, result.BookingCode, len("WST-")+8)

	var booking models.Booking
	require.NoError(t, gdb.Preload("Details").Where("code = ?", result.BookingCode).First(&booking).Error)
	assert.Equal(t, enums.BookingStatusSuccess, booking.Status)
	assert.Equal(t, enums.PaymentMethodQRIS, booking.PaymentMethod)
	require.NotNil(t, booking.PaidAt)
	assert.Equal(t, int64(250000), booking.GrandTotal)

	require.Len(t, booking.Details, 2)
	var sum int64
	for _, d := range booking.Details {
		sum += d.Subtotal
	}
	assert.Equal(t, booking.GrandTotal, sum)

	signer, err := qrticket.NewSigner("test-secret", 256)
	require.NoError(t, err)
	code, err := signer.Verify(booking.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, booking.Code, code)

	var remaining int64
	require.NoError(t, gdb.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestExecute_validationFailures(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()
	itemID := uuid.New()

	cases := []struct {
		name string
		req  CheckoutRequest
	}{
		{"empty ids", CheckoutRequest{PaymentMethod: "cod"}},
		{"nil id", CheckoutRequest{CartItemIDs: []uuid.UUID{uuid.Nil}, PaymentMethod: "cod"}},
		{"duplicate ids", CheckoutRequest{CartItemIDs: []uuid.UUID{itemID, itemID}, PaymentMethod: "cod"}},
		{"bad payment method", CheckoutRequest{CartItemIDs: []uuid.UUID{itemID}, PaymentMethod: "crypto"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Execute(context.Background(), userID, tc.req)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestExecute_missingItemIsNotFound(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Crater Lake", 75000)
	item := seedCartItem(t, gdb, userID, dest, 1)

	_, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID, uuid.New()},
		PaymentMethod: "cod",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// Rollback must leave the surviving item in the cart.
	var remaining int64
	require.NoError(t, gdb.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestExecute_foreignItemIsForbidden(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)

	dest := seedDestination(t, gdb, "Hot Springs", 60000)
	owner := uuid.New()
	item := seedCartItem(t, gdb, owner, dest, 1)

	_, err := svc.Execute(context.Background(), uuid.New(), CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID},
		PaymentMethod: "transfer",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestExecute_duplicateSubmission(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Waterfall Trek", 40000)
	item := seedCartItem(t, gdb, userID, dest, 3)
	req := CheckoutRequest{CartItemIDs: []uuid.UUID{item.ID}, PaymentMethod: "cod"}

	first, err := svc.Execute(context.Background(), userID, req)
	require.NoError(t, err)

	_, err = svc.Execute(context.Background(), userID, req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// The settled booking is untouched by the replay.
	var count int64
	require.NoError(t, gdb.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var booking models.Booking
	require.NoError(t, gdb.Where("code = ?", first.BookingCode).First(&booking).Error)
	assert.Equal(t, int64(120000), booking.GrandTotal)
}

func TestExecute_rollbackOnDetailInsertFailure(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Mangrove Kayak", 45000)
	// A zero quantity trips the booking_details check after the booking row
	// is already inserted, forcing the transaction to unwind.
	item := seedCartItem(t, gdb, userID, dest, 0)

	_, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID},
		PaymentMethod: "qris",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.As(err).Code())

	var bookingCount, detailCount, cartCount int64
	require.NoError(t, gdb.Model(&models.Booking{}).Count(&bookingCount).Error)
	require.NoError(t, gdb.Model(&models.BookingDetail{}).Count(&detailCount).Error)
	require.NoError(t, gdb.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&cartCount).Error)
	assert.Zero(t, bookingCount)
	assert.Zero(t, detailCount)
	assert.Equal(t, int64(1), cartCount)
}

func TestExecute_codeCollisionRetries(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	taken := &models.Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Code:          "WST-AAAA2222",
		Status:        enums.BookingStatusSuccess,
		PaymentMethod: enums.PaymentMethodCOD,
		GrandTotal:    10000,
		QRPayload:     uuid.NewString(),
	}
	require.NoError(t, gdb.Create(taken).Error)

	codes := []string{"WST-AAAA2222", "WST-BBBB3333"}
	var draws int
	svc.(*service).newCode = func(int) (string, error) {
		code := codes[draws%len(codes)]
		draws++
		return code, nil
	}

	dest := seedDestination(t, gdb, "Rice Terrace Walk", 25000)
	item := seedCartItem(t, gdb, userID, dest, 1)

	result, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID},
		PaymentMethod: "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, "WST-BBBB3333", result.BookingCode)
	assert.Equal(t, 2, draws)
}

func TestExecute_codeCollisionExhaustsAttempts(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	taken := &models.Booking{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Code:          "WST-AAAA2222",
		Status:        enums.BookingStatusSuccess,
		PaymentMethod: enums.PaymentMethodCOD,
		GrandTotal:    10000,
		QRPayload:     uuid.NewString(),
	}
	require.NoError(t, gdb.Create(taken).Error)

	svc.(*service).newCode = func(int) (string, error) {
		return "WST-AAAA2222", nil
	}

	dest := seedDestination(t, gdb, "Sunset Cruise", 90000)
	item := seedCartItem(t, gdb, userID, dest, 2)

	_, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID},
		PaymentMethod: "cod",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInternal, pkgerrors.As(err).Code())

	// Nothing was written and the cart survives.
	var bookingCount, cartCount int64
	require.NoError(t, gdb.Model(&models.Booking{}).Count(&bookingCount).Error)
	require.NoError(t, gdb.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&cartCount).Error)
	assert.Equal(t, int64(1), bookingCount)
	assert.Equal(t, int64(1), cartCount)
}

func TestExecute_frozenSubtotalSurvivesPriceChange(t *testing.T) {
	gdb := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Cave Tour", 30000)
	item := seedCartItem(t, gdb, userID, dest, 2)

	result, err := svc.Execute(context.Background(), userID, CheckoutRequest{
		CartItemIDs:   []uuid.UUID{item.ID},
		PaymentMethod: "qris",
	})
	require.NoError(t, err)
	require.Equal(t, int64(60000), result.GrandTotal)

	require.NoError(t, gdb.Model(&models.Destination{}).Where("id = ?", dest.ID).Update("price", 99000).Error)

	var booking models.Booking
	require.NoError(t, gdb.Preload("Details").Where("code = ?", result.BookingCode).First(&booking).Error)
	assert.Equal(t, int64(60000), booking.GrandTotal)
	require.Len(t, booking.Details, 1)
	assert.Equal(t, int64(60000), booking.Details[0].Subtotal)
}
