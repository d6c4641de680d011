package testutil

import "time"

// NowAt returns a clock function fixed at the provided time.
func NowAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// AdvancingClock returns a clock starting at t that moves forward by
// step on every call to Advance.
type AdvancingClock struct {
	current time.Time
}

// NewAdvancingClock constructs a clock fixed at start until advanced.
func NewAdvancingClock(start time.Time) *AdvancingClock {
	return &AdvancingClock{current: start}
}

// Now returns the current clock value.
func (c *AdvancingClock) Now() time.Time {
	return c.current
}

// Advance moves the clock forward by d.
func (c *AdvancingClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}
