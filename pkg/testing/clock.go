package testing

import (
	"sync"
	"time"
)

// FakeClock provides controllable time for deterministic animation tests.
// The tester advances it by one frame per Pump. All methods are safe for
// concurrent use.
type FakeClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	epoch := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &FakeClock{start: epoch, now: epoch}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Elapsed returns the time advanced since the clock was created.
func (c *FakeClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(c.start)
}
