package types

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTimeRange = errors.New("invalid_time_range")

// TimeRange is a half-open interval [Start, End). Endpoints keep their
// location; comparisons use absolute instants.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeRange builds a range, requiring start < end and non-zero endpoints.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return TimeRange{}, ErrInvalidTimeRange
	}
	return TimeRange{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open ranges intersect. Ranges that
// merely touch (a.End == b.Start) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !(r.End.Compare(other.Start) <= 0 || other.End.Compare(r.Start) <= 0)
}

// Contains reports whether the instant falls inside [Start, End).
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainsRange reports whether other lies entirely inside r.
func (r TimeRange) ContainsRange(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Duration returns the range length.
func (r TimeRange) Duration() time.Duration { return r.End.Sub(r.Start) }

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start.Format(time.RFC3339), r.End.Format(time.RFC3339))
}
