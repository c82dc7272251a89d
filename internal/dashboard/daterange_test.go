package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
)

func TestParseDateRange(t *testing.T) {
	t.Run("empty pair means no filter", func(t *testing.T) {
		dateRange, err := ParseDateRange("", "")
		require.NoError(t, err)
		assert.Nil(t, dateRange)
	})

	t.Run("half open pair rejected", func(t *testing.T) {
		_, err := ParseDateRange("2026-01-01", "")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

		_, err = ParseDateRange("", "2026-01-31")
		require.Error(t, err)
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		_, err := ParseDateRange("01/02/2026", "2026-01-31")
		require.Error(t, err)

		_, err = ParseDateRange("2026-01-01", "tomorrow")
		require.Error(t, err)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		_, err := ParseDateRange("2026-02-01", "2026-01-01")
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	})

	t.Run("bounds cover whole days", func(t *testing.T) {
		dateRange, err := ParseDateRange("2026-03-01", "2026-03-31")
		require.NoError(t, err)
		require.NotNil(t, dateRange)

		assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), dateRange.From())
		to := dateRange.To()
		assert.Equal(t, 2026, to.Year())
		assert.Equal(t, time.March, to.Month())
		assert.Equal(t, 31, to.Day())
		assert.Equal(t, 23, to.Hour())
	})

	t.Run("single day range", func(t *testing.T) {
		dateRange, err := ParseDateRange("2026-04-15", "2026-04-15")
		require.NoError(t, err)
		require.NotNil(t, dateRange)
		assert.True(t, dateRange.To().After(dateRange.From()))
	})
}
