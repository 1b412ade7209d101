package model

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Die is a single die. All methods are safe for concurrent use; the
// animation goroutine mutates the value while renderers read it.
type Die struct {
	mu       sync.RWMutex
	id       string
	sides    int
	value    int
	locked   bool
	inMotion bool // Transient, never persisted

	roller *Roller
}

// DieRecord is the persisted form of a die
type DieRecord struct {
	ID     string `json:"id"`
	Sides  int    `json:"sides"`
	Value  int    `json:"value"`
	Locked bool   `json:"locked"`
}

// NewDie creates an unlocked die and rolls it
func NewDie(id string, sides int, roller *Roller) (*Die, error) {
	if sides < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSides, sides)
	}
	return &Die{
		id:     id,
		sides:  sides,
		value:  roller.Face(sides),
		roller: roller,
	}, nil
}

// RestoreDie creates a die with a fixed value and lock state
func RestoreDie(id string, sides, value int, locked bool, roller *Roller) (*Die, error) {
	if sides < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSides, sides)
	}
	if value < 1 || value > sides {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidValue, value, sides)
	}
	return &Die{
		id:     id,
		sides:  sides,
		value:  value,
		locked: locked,
		roller: roller,
	}, nil
}

// ID returns the die's identifier
func (d *Die) ID() string {
	return d.id
}

// Sides returns the number of faces
func (d *Die) Sides() int {
	return d.sides
}

// Value returns the face currently showing. While the die is in motion
// this is a cosmetic face, not a result.
func (d *Die) Value() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.value
}

// Locked reports whether the die is exempt from rolls
func (d *Die) Locked() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.locked
}

// InMotion reports whether an animated roll is in flight
func (d *Die) InMotion() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inMotion
}

// Record returns a snapshot suitable for persistence
func (d *Die) Record() DieRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return DieRecord{
		ID:     d.id,
		Sides:  d.sides,
		Value:  d.value,
		Locked: d.locked,
	}
}

// Roll draws a new value unless the die is locked
func (d *Die) Roll() error {
	d.mu.Lock()
	if d.inMotion {
		d.mu.Unlock()
		return ErrBusy
	}
	if d.locked {
		d.mu.Unlock()
		return nil
	}
	d.value = d.roller.Face(d.sides)
	value := d.value
	d.mu.Unlock()

	d.roller.Notify(Event{
		Type:    EventDieRolled,
		DieID:   d.id,
		Payload: DieRolledPayload{Value: value, Sides: d.sides},
	})
	return nil
}

// Lock exempts the die from future rolls. Idempotent.
func (d *Die) Lock() error {
	d.mu.Lock()
	if d.inMotion {
		d.mu.Unlock()
		return ErrBusy
	}
	changed := !d.locked
	d.locked = true
	d.mu.Unlock()

	if changed {
		d.notifyLock(true)
	}
	return nil
}

// ToggleLock flips the lock flag without touching the value
func (d *Die) ToggleLock() error {
	d.mu.Lock()
	if d.inMotion {
		d.mu.Unlock()
		return ErrBusy
	}
	d.locked = !d.locked
	locked := d.locked
	d.mu.Unlock()

	d.notifyLock(locked)
	return nil
}

func (d *Die) notifyLock(locked bool) {
	d.roller.Notify(Event{
		Type:    EventDieLockChanged,
		DieID:   d.id,
		Payload: DieLockChangedPayload{Locked: locked},
	})
}

// AnimatedRoll shows a sequence of random faces and then performs one true
// roll. It returns immediately; onComplete runs once the true value is set.
// A locked die completes at once without changing.
func (d *Die) AnimatedRoll(ctx context.Context, onComplete func()) error {
	started, err := d.beginAnimation()
	if err != nil {
		return err
	}
	if !started {
		if onComplete != nil {
			onComplete()
		}
		return nil
	}

	go func() {
		d.animate(ctx)
		if onComplete != nil {
			onComplete()
		}
	}()
	return nil
}

// beginAnimation marks the die in motion. It reports false for a locked die.
func (d *Die) beginAnimation() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.locked {
		return false, nil
	}
	if d.inMotion {
		return false, ErrBusy
	}
	d.inMotion = true
	return true, nil
}

// animate runs the timed sequence for a die already marked in motion.
// Cancellation skips the remaining cosmetic steps but still ends with a
// true roll, so a cosmetic face is never left behind.
func (d *Die) animate(ctx context.Context) {
	cfg := d.roller.animation
	startDelay := d.roller.random.Duration(0, cfg.MaxStartDelay)
	duration := d.roller.random.Duration(cfg.MinDuration, cfg.MaxDuration)
	stepDuration := duration / time.Duration(cfg.Steps)

	d.roller.Notify(Event{
		Type:  EventAnimationStarted,
		DieID: d.id,
		Payload: AnimationStartedPayload{
			StartDelay: startDelay,
			Duration:   duration,
			Steps:      cfg.Steps,
		},
	})

	completed := d.roller.wait(ctx, startDelay)
	for step := 1; completed && step <= cfg.Steps; step++ {
		d.showCosmeticFace(step)
		completed = d.roller.wait(ctx, stepDuration)
	}

	d.mu.Lock()
	d.value = d.roller.Face(d.sides)
	d.inMotion = false
	value := d.value
	d.mu.Unlock()

	d.roller.Notify(Event{
		Type:    EventAnimationFinished,
		DieID:   d.id,
		Payload: AnimationFinishedPayload{Value: value, Cancelled: !completed},
	})
}

func (d *Die) showCosmeticFace(step int) {
	d.mu.Lock()
	d.value = d.roller.Face(d.sides)
	value := d.value
	d.mu.Unlock()

	d.roller.Notify(Event{
		Type:    EventAnimationStep,
		DieID:   d.id,
		Payload: AnimationStepPayload{Step: step, Value: value},
	})
}
