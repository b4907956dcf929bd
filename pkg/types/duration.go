package types

import (
	"errors"
	"time"
)

var ErrNegativeDuration = errors.New("negative_duration")

// Duration is a service duration in whole minutes.
type Duration int

// NewDuration validates a minute count.
func NewDuration(minutes int) (Duration, error) {
	if minutes < 0 {
		return 0, ErrNegativeDuration
	}
	return Duration(minutes), nil
}

// Add returns the sum of two durations.
func (d Duration) Add(other Duration) Duration { return d + other }

// Mul scales the duration by a non-negative factor.
func (d Duration) Mul(n int) Duration {
	if n < 0 {
		return 0
	}
	return d * Duration(n)
}

// Minutes returns the raw minute count.
func (d Duration) Minutes() int { return int(d) }

// Std converts to a wall-clock time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) * time.Minute }
