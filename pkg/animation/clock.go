package animation

import "time"

// Clock provides time for the frame loop. The default implementation uses
// system time. Tests inject a fake clock via SetClock to drive animations
// deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// clock is the package-level time source, replaceable for testing.
var clock Clock = realClock{}

// SetClock replaces the animation clock. Returns the previous clock
// so callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	prev := clock
	if c == nil {
		c = realClock{}
	}
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }

// FakeClock is a manually advanced Clock.
type FakeClock struct {
	now time.Time
}

// NewFakeClock returns a fake clock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time { return c.now }

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
