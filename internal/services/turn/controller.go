// Package turn runs the turn state machine: start a group, roll it, lock
// dice, end the turn into history and start again.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmunhall/dice-sack/internal/dependencies/clock"
	"github.com/mmunhall/dice-sack/internal/dependencies/ids"
	"github.com/mmunhall/dice-sack/internal/model"
)

// History receives the group when a turn ends
type History interface {
	Commit(ctx context.Context, group *model.DiceGroup) error
}

// Config sets the shape of the first turn
type Config struct {
	DiceCount int
	Sides     int
}

// DefaultConfig returns six six-sided dice
func DefaultConfig() Config {
	return Config{
		DiceCount: 6,
		Sides:     6,
	}
}

// Controller manages the turn state machine. All methods are safe for
// concurrent use.
type Controller struct {
	mu      sync.Mutex
	history History
	roller  *model.Roller
	ids     ids.Generator
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	phase model.TurnPhase
	group *model.DiceGroup
}

// NewController creates a Controller and starts the first turn
func NewController(
	history History,
	roller *model.Roller,
	ids ids.Generator,
	clock clock.Clock,
	cfg Config,
	logger *slog.Logger,
) (*Controller, error) {
	c := &Controller{
		history: history,
		roller:  roller,
		ids:     ids,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
	if err := c.NewTurn(cfg.DiceCount, cfg.Sides); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the dice count and sides the controller was created with
func (c *Controller) Config() Config {
	return c.cfg
}

// NewTurn discards the current group and starts a turn with fresh dice.
// Valid in either phase.
func (c *Controller) NewTurn(diceCount, sides int) error {
	if diceCount < 1 {
		return fmt.Errorf("%w: dice count %d", model.ErrInvalidArgument, diceCount)
	}
	if sides < 1 {
		return fmt.Errorf("%w: %d", model.ErrInvalidSides, sides)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.group != nil && c.group.Animating() {
		return model.ErrBusy
	}

	dice := make([]*model.Die, diceCount)
	for i := range dice {
		d, err := model.NewDie(c.ids.NewID(), sides, c.roller)
		if err != nil {
			return err
		}
		dice[i] = d
	}

	c.group = model.NewDiceGroup(c.ids.NewID(), dice, c.clock.Now())
	c.phase = model.TurnPhaseActive

	c.logger.Info("turn started",
		slog.String("group_id", c.group.ID),
		slog.Int("dice", diceCount),
		slog.Int("sides", sides),
	)
	c.roller.Notify(model.Event{
		Type:    model.EventTurnStarted,
		GroupID: c.group.ID,
		Payload: model.TurnStartedPayload{DiceCount: diceCount, Sides: sides},
	})
	return nil
}

// RollAll rolls every unlocked die at once
func (c *Controller) RollAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.TurnPhaseActive {
		return model.ErrNotActive
	}
	if err := c.group.RollAll(); err != nil {
		return err
	}
	c.groupRolled(c.group)
	return nil
}

// RollAllAnimated starts an animated roll of every unlocked die. It returns
// once the animations are started; onComplete runs after the last die has
// its true value. onComplete may call back into the controller.
func (c *Controller) RollAllAnimated(ctx context.Context, onComplete func()) error {
	c.mu.Lock()

	if c.phase != model.TurnPhaseActive {
		c.mu.Unlock()
		return model.ErrNotActive
	}

	group := c.group
	finish := func() {
		c.groupRolled(group)
		if onComplete != nil {
			onComplete()
		}
	}

	if !hasUnlocked(group) {
		// Nothing moves; complete outside the lock
		c.mu.Unlock()
		finish()
		return nil
	}

	err := group.RollAllAnimated(ctx, finish)
	c.mu.Unlock()
	return err
}

// EndTurn commits the group to history and ends the turn. Ending an ended
// turn does nothing. If the commit fails the turn stays active.
func (c *Controller) EndTurn(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == model.TurnPhaseEnded {
		return nil
	}
	if c.group.Animating() {
		return model.ErrBusy
	}

	if err := c.history.Commit(ctx, c.group); err != nil {
		c.logger.Error("failed to end turn",
			slog.String("group_id", c.group.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("end turn: %w", err)
	}
	c.phase = model.TurnPhaseEnded

	values := c.group.Values()
	total := c.group.Total()
	c.logger.Info("turn ended",
		slog.String("group_id", c.group.ID),
		slog.Any("values", values),
		slog.Int("total", total),
	)
	c.roller.Notify(model.Event{
		Type:    model.EventTurnEnded,
		GroupID: c.group.ID,
		Payload: model.TurnEndedPayload{Values: values, Total: total},
	})
	return nil
}

// ToggleLock flips the lock on one die of the active group
func (c *Controller) ToggleLock(dieID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != model.TurnPhaseActive {
		return model.ErrNotActive
	}
	d, err := c.group.Die(dieID)
	if err != nil {
		return err
	}
	return d.ToggleLock()
}

// ToggleLockAt flips the lock on the die at a zero-based display position
func (c *Controller) ToggleLockAt(index int) error {
	c.mu.Lock()
	dice := c.group.Dice()
	c.mu.Unlock()

	if index < 0 || index >= len(dice) {
		return fmt.Errorf("%w: no die at position %d", model.ErrDieNotFound, index+1)
	}
	return c.ToggleLock(dice[index].ID())
}

// State returns the current phase and group
func (c *Controller) State() model.TurnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.TurnState{Phase: c.phase, Group: c.group}
}

// Group returns the current group, active or ended
func (c *Controller) Group() *model.DiceGroup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.group
}

// Animating reports whether any die of the current group is in motion
func (c *Controller) Animating() bool {
	return c.Group().Animating()
}

func (c *Controller) groupRolled(group *model.DiceGroup) {
	values := group.Values()
	total := group.Total()
	c.logger.Debug("group rolled",
		slog.String("group_id", group.ID),
		slog.Any("values", values),
		slog.Int("total", total),
	)
	c.roller.Notify(model.Event{
		Type:    model.EventGroupRollCompleted,
		GroupID: group.ID,
		Payload: model.GroupRolledPayload{Values: values, Total: total},
	})
}

func hasUnlocked(group *model.DiceGroup) bool {
	for _, d := range group.Dice() {
		if !d.Locked() {
			return true
		}
	}
	return false
}
