package cart

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wisatago/wisatago-backend/internal/catalog"
	"github.com/wisatago/wisatago-backend/pkg/db/models"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
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
);`}
	for _, stmt := range ddl {
		require.NoError(t, gdb.Exec(stmt).Error)
	}
	return gdb
}

func newCartService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(gdb), catalog.NewRepository(gdb))
	require.NoError(t, err)
	return svc
}

func seedDestination(t *testing.T, gdb *gorm.DB, name string, price int64, active bool) *models.Destination {
	t.Helper()

	dest := &models.Destination{
		ID:         uuid.New(),
		CategoryID: uuid.New(),
		Name:       name,
		Slug:       strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.NewString()[:8],
		Price:      price,
		IsActive:   active,
	}
	require.NoError(t, gdb.Create(dest).Error)
	return dest
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestAddItem_success(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Pink Beach", 100000, true)

	item, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		DestinationID: dest.ID,
		Quantity:      2,
		VisitDate:     futureDate(3),
	})
	require.NoError(t, err)

	assert.Equal(t, dest.ID, item.DestinationID)
	assert.Equal(t, "Pink Beach", item.DestinationName)
	assert.Equal(t, int64(100000), item.UnitPrice)
	assert.Equal(t, int64(200000), item.Subtotal)
}

func TestAddItem_failures(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	userID := uuid.New()

	active := seedDestination(t, gdb, "Crater Lake", 75000, true)
	inactive := seedDestination(t, gdb, "Closed Park", 20000, false)

	cases := []struct {
		name string
		req  AddItemRequest
		code pkgerrors.Code
	}{
		{"zero quantity", AddItemRequest{DestinationID: active.ID, Quantity: 0, VisitDate: futureDate(1)}, pkgerrors.CodeValidation},
		{"past visit date", AddItemRequest{DestinationID: active.ID, Quantity: 1, VisitDate: "2020-01-01"}, pkgerrors.CodeValidation},
		{"malformed date", AddItemRequest{DestinationID: active.ID, Quantity: 1, VisitDate: "01-01-2030"}, pkgerrors.CodeValidation},
		{"missing destination", AddItemRequest{DestinationID: uuid.New(), Quantity: 1, VisitDate: futureDate(1)}, pkgerrors.CodeNotFound},
		{"inactive destination", AddItemRequest{DestinationID: inactive.ID, Quantity: 1, VisitDate: futureDate(1)}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddItem(context.Background(), userID, tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.code, pkgerrors.As(err).Code())
		})
	}
}

func TestListItems_liveRequote(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	userID := uuid.New()

	dest := seedDestination(t, gdb, "Hot Springs", 50000, true)
	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{
		DestinationID: dest.ID,
		Quantity:      2,
		VisitDate:     futureDate(5),
	})
	require.NoError(t, err)

	// Cart subtotals follow the live price, not the price at add time.
	require.NoError(t, gdb.Model(&models.Destination{}).Where("id = ?", dest.ID).Update("price", 80000).Error)

	result, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(80000), result.Items[0].UnitPrice)
	assert.Equal(t, int64(160000), result.Items[0].Subtotal)
	assert.Equal(t, int64(160000), result.Total)
}

func TestListItems_insertionOrderAndTotal(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)
	userID := uuid.New()

	first := seedDestination(t, gdb, "Museum", 25000, true)
	second := seedDestination(t, gdb, "Waterfall", 40000, true)

	for i, dest := range []*models.Destination{first, second} {
		item := &models.CartItem{
			ID:            uuid.New(),
			UserID:        userID,
			DestinationID: dest.ID,
			Quantity:      1,
			VisitDate:     time.Now().UTC().AddDate(0, 0, 2),
			CreatedAt:     time.Now().UTC().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(item).Error)
	}

	result, err := svc.ListItems(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Museum", result.Items[0].DestinationName)
	assert.Equal(t, "Waterfall", result.Items[1].DestinationName)
	assert.Equal(t, int64(65000), result.Total)
}

func TestRemoveItem_foreignItemReportsNotFound(t *testing.T) {
	gdb := setupCartTestDB(t)
	svc := newCartService(t, gdb)

	dest := seedDestination(t, gdb, "Cave Tour", 30000, true)
	owner := uuid.New()
	item, err := svc.AddItem(context.Background(), owner, AddItemRequest{
		DestinationID: dest.ID,
		Quantity:      1,
		VisitDate:     futureDate(1),
	})
	require.NoError(t, err)

	err = svc.RemoveItem(context.Background(), uuid.New(), item.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	// Still in the owner's cart.
	result, err := svc.ListItems(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)

	require.NoError(t, svc.RemoveItem(context.Background(), owner, item.ID))
	result, err = svc.ListItems(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}
