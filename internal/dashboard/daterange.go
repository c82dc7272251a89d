package dashboard

import (
	"strings"
	"time"

	pkgerrors "github.com/wisatago/wisatago-backend/pkg/errors"
)

const dateLayout = "2006-01-02"

// DateRange bounds dashboard aggregates to whole calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange builds a DateRange from the start_date/end_date query
// parameters. Both must be present together; an empty pair means no filter.
func ParseDateRange(start, end string) (*DateRange, error) {
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date and end_date must be provided together")
	}

	startDay, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be YYYY-MM-DD")
	}
	endDay, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must be YYYY-MM-DD")
	}
	if endDay.Before(startDay) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_date must not precede start_date")
	}
	return &DateRange{Start: startDay, End: endDay}, nil
}

// From returns the inclusive lower bound, the start of the first day.
func (r *DateRange) From() time.Time {
	return time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
}

// To returns the inclusive upper bound, the last instant of the final day.
func (r *DateRange) To() time.Time {
	return time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
