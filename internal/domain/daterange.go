package domain

import (
	"fmt"
	"iter"
	"time"
)

// DateRange is an inclusive span of calendar days.
// Construct it with NewDateRange so that Start <= End always holds.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses two YYYY-MM-DD strings into an inclusive range.
// Returns ErrValidation for a malformed date and ErrInvalidRange when end
// precedes start. Equal dates form a single-day range.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start date %q is not YYYY-MM-DD", ErrValidation, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end date %q is not YYYY-MM-DD", ErrValidation, end)
	}
	if e.Before(s) {
		return DateRange{}, fmt.Errorf("%w: %s is before %s", ErrInvalidRange, end, start)
	}
	return DateRange{Start: s, End: e}, nil
}

// secondsPerDay is exact for the UTC midnights NewDateRange produces.
const secondsPerDay = 24 * 60 * 60

// Len returns the number of days in the range, end - start + 1.
// It counts whole days from Unix seconds, so it stays exact for any span
// between years 0001 and 9999.
func (r DateRange) Len() int {
	return int((r.End.Unix()-r.Start.Unix())/secondsPerDay) + 1
}

// Days yields each day of the range as YYYY-MM-DD in ascending order.
// The sequence is lazy and may be ranged over any number of times.
func (r DateRange) Days() iter.Seq[string] {
	return func(yield func(string) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			if !yield(d.Format(DateLayout)) {
				return
			}
		}
	}
}

// StartString returns the start date as YYYY-MM-DD.
func (r DateRange) StartString() string { return r.Start.Format(DateLayout) }

// EndString returns the end date as YYYY-MM-DD.
func (r DateRange) EndString() string { return r.End.Format(DateLayout) }
