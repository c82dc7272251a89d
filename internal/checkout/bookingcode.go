package checkout

import (
	"crypto/rand"
	"fmt"
)

const (
	codePrefix = "WST-"
	// 0, O, 1, I are excluded so printed codes survive phone support.
	codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewBookingCode returns a random human-readable booking code like WST-7KQ2M9XD.
func NewBookingCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating booking code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return codePrefix + string(buf), nil
}
