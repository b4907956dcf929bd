package clock

import "time"

// FakeClock is a manually advanced Clock for tests. Booking deadlines,
// lead-time guards and horizon cutoffs all read it, so scenarios pin one
// instant and move it explicitly.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
