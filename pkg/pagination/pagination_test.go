package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestLimitWithBuffer(t *testing.T) {
	assert.Equal(t, DefaultLimit+1, LimitWithBuffer(0))
	assert.Equal(t, 11, LimitWithBuffer(10))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2026, 2, 14, 8, 45, 12, 345678000, time.UTC),
		ID:        uuid.New(),
	}

	decoded, err := ParseCursor(EncodeCursor(cursor))
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.True(t, cursor.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)
}

func TestParseCursor_empty(t *testing.T) {
	decoded, err := ParseCursor("  ")
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestParseCursor_malformed(t *testing.T) {
	cases := []string{
		"not base64!!",
		"bm8tcGlwZQ==",                 // "no-pipe"
		"MjAyNi0wMS0wMVQwMDowMDowMFp8bm90LWEtdXVpZA==", // bad uuid
		"bm90LWEtdGltZXxmMGYwZjBmMC0wMDAwLTAwMDAtMDAwMC0wMDAwMDAwMDAwMDA=", // bad time
	}
	for _, tc := range cases {
		_, err := ParseCursor(tc)
		assert.Error(t, err, "cursor %q", tc)
	}
}
