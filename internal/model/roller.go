package model

import (
	"context"
	"time"

	"github.com/mmunhall/dice-sack/internal/dependencies/clock"
	"github.com/mmunhall/dice-sack/internal/dependencies/random"
)

// AnimationConfig bounds the timing of an animated roll
type AnimationConfig struct {
	MaxStartDelay time.Duration // Start delay is drawn from [0, MaxStartDelay]
	MinDuration   time.Duration // Reveal duration is drawn from [MinDuration, MaxDuration]
	MaxDuration   time.Duration
	Steps         int // Cosmetic faces shown before the true roll
}

// DefaultAnimationConfig returns the timing used by the interactive shell
func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{
		MaxStartDelay: 250 * time.Millisecond,
		MinDuration:   500 * time.Millisecond,
		MaxDuration:   1000 * time.Millisecond,
		Steps:         10,
	}
}

// Roller is the source of randomness, time and change notification shared
// by every die it creates
type Roller struct {
	random    random.Random
	clock     clock.Clock
	animation AnimationConfig
	notifier  Notifier
}

// NewRoller creates a Roller. A nil notifier discards events.
func NewRoller(rnd random.Random, clk clock.Clock, animation AnimationConfig, notifier Notifier) *Roller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if animation.Steps < 1 {
		animation.Steps = 1
	}
	return &Roller{
		random:    rnd,
		clock:     clk,
		animation: animation,
		notifier:  notifier,
	}
}

// Face returns a uniform sample from [1, sides]
func (r *Roller) Face(sides int) int {
	return r.random.Intn(sides) + 1
}

// Now returns the roller's current time
func (r *Roller) Now() time.Time {
	return r.clock.Now()
}

// Animation returns the configured animation timing
func (r *Roller) Animation() AnimationConfig {
	return r.animation
}

// Notify stamps the event with the current time and publishes it
func (r *Roller) Notify(event Event) {
	event.Timestamp = r.clock.Now()
	r.notifier.Notify(event)
}

// wait blocks for d, returning false if ctx is cancelled first
func (r *Roller) wait(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-r.clock.After(d):
		return true
	}
}
