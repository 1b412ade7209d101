package mocks

import (
	"sync"
	"time"

	"github.com/mmunhall/dice-sack/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// After fires immediately unless the clock is held, in which case the
// returned channels stay pending until Release is called.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time

	waits   []time.Duration
	held    bool
	pending []chan time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// After records the requested wait and advances the clock by it
func (c *MockClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	ch := make(chan time.Time, 1)
	if c.held {
		c.pending = append(c.pending, ch)
		return ch
	}
	c.CurrentTime = c.CurrentTime.Add(d)
	ch <- c.CurrentTime
	return ch
}

// Advance moves the clock forward by the given duration
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// Hold makes subsequent After calls block until Release
func (c *MockClock) Hold() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = true
}

// Release fires every pending After channel and stops holding
func (c *MockClock) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.held = false
	for _, ch := range c.pending {
		ch <- c.CurrentTime
	}
	c.pending = nil
}

// Pending returns the number of After channels waiting for Release
func (c *MockClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Waits returns every duration passed to After, in call order
func (c *MockClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.waits))
	copy(out, c.waits)
	return out
}
