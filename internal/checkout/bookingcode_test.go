package checkout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingCode_format(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 200; i++ {
		code, err := NewBookingCode(8)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(code, "WST-"))
		require.Len(t, code, 12)

		for _, r := range code[4:] {
			assert.Contains(t, codeCharset, string(r))
		}
		seen[code] = struct{}{}
	}
	// 200 draws from a 32^8 space should never collide.
	assert.Len(t, seen, 200)
}

func TestNewBookingCode_defaultsLength(t *testing.T) {
	code, err := NewBookingCode(0)
	require.NoError(t, err)
	assert.Len(t, code, 12)
}
