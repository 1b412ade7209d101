package factory

import (
	"time"

	"github.com/mmunhall/dice-sack/internal/dependencies/mocks"
	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/services/turn"
	"github.com/mmunhall/dice-sack/internal/storage/memory"
	"github.com/mmunhall/dice-sack/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	MockIDs    *mocks.MockIDs
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The first turn's six dice all show 1 unless faces are queued with
// NewTestAppWithFaces.
func NewTestApp() *TestApp {
	return NewTestAppWithFaces()
}

// NewTestAppWithFaces queues faces for the first turn's dice before wiring
func NewTestAppWithFaces(faces ...int) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 7, 30, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	mockIDs := mocks.NewMockIDs("id")
	mockRandom.QueueFaces(faces...)

	app, err := newWithDependencies(
		store,
		mockClock,
		mockRandom,
		mockIDs,
		turn.DefaultConfig(),
		model.DefaultAnimationConfig(),
		testutil.NopLogger(),
	)
	if err != nil {
		// The default turn config is always valid
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		MockIDs:    mockIDs,
	}
}
