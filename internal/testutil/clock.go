package testutil

import "time"

// Clock provides deterministic, monotonically increasing timestamps.
// Its Now method can stand in for time.Now in code that records times.
type Clock struct {
	current time.Time
	step    time.Duration
}

// NewClock returns a clock initialized to a fixed UTC start time that
// advances one second per call.
func NewClock() *Clock {
	return &Clock{
		current: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

// Now advances the clock and returns the new time.
func (c *Clock) Now() time.Time {
	c.current = c.current.Add(c.step)

	return c.current
}
