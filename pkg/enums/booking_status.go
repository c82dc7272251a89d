package enums

import "fmt"

// BookingStatus tracks settlement state of a booking.
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "pending"
	BookingStatusSuccess BookingStatus = "success"
	BookingStatusFailed  BookingStatus = "failed"
)

var validBookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusSuccess,
	BookingStatusFailed,
}

// String implements fmt.Stringer.
func (s BookingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known BookingStatus.
func (s BookingStatus) IsValid() bool {
	for _, candidate := range validBookingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBookingStatus converts raw input into a BookingStatus.
func ParseBookingStatus(value string) (BookingStatus, error) {
	for _, candidate := range validBookingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid booking status %q", value)
}
