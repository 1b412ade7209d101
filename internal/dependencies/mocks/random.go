package mocks

import (
	"sync"
	"time"

	"github.com/mmunhall/dice-sack/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// It is safe for use from animation goroutines.
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// DurationResults is a queue of results to return from Duration
	DurationResults []time.Duration
	durationIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining.
// Queued values outside [0, n) are clamped so dice stay in range.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	if result < 0 {
		return 0
	}
	if n > 0 && result >= n {
		return n - 1
	}
	return result
}

// Duration returns the next queued result, or min if none remaining
func (r *MockRandom) Duration(min, max time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.durationIndex >= len(r.DurationResults) {
		return min
	}
	result := r.DurationResults[r.durationIndex]
	r.durationIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueFaces queues Intn results that produce the given die faces (1-based)
func (r *MockRandom) QueueFaces(faces ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range faces {
		r.IntnResults = append(r.IntnResults, f-1)
	}
}

// QueueDuration adds values to the Duration result queue
func (r *MockRandom) QueueDuration(values ...time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.DurationResults = append(r.DurationResults, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.DurationResults = nil
	r.durationIndex = 0
}
