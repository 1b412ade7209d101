package model

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DiceGroup is an ordered set of dice for one turn or one historical roll
type DiceGroup struct {
	ID        string
	CreatedAt time.Time

	dice []*Die // Order is display order
}

// GroupRecord is the persisted form of a dice group
type GroupRecord struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Dice      []DieRecord `json:"dice"`
}

// NewDiceGroup creates a group owning the given dice, in order
func NewDiceGroup(id string, dice []*Die, createdAt time.Time) *DiceGroup {
	return &DiceGroup{
		ID:        id,
		CreatedAt: createdAt,
		dice:      dice,
	}
}

// RestoreDiceGroup rebuilds a group from its persisted record
func RestoreDiceGroup(rec GroupRecord, roller *Roller) (*DiceGroup, error) {
	dice := make([]*Die, 0, len(rec.Dice))
	for _, dr := range rec.Dice {
		d, err := RestoreDie(dr.ID, dr.Sides, dr.Value, dr.Locked, roller)
		if err != nil {
			return nil, err
		}
		dice = append(dice, d)
	}
	return NewDiceGroup(rec.ID, dice, rec.CreatedAt), nil
}

// Dice returns the group's dice in display order
func (g *DiceGroup) Dice() []*Die {
	out := make([]*Die, len(g.dice))
	copy(out, g.dice)
	return out
}

// Len returns the number of dice
func (g *DiceGroup) Len() int {
	return len(g.dice)
}

// Die returns the die with the given ID
func (g *DiceGroup) Die(id string) (*Die, error) {
	for _, d := range g.dice {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, ErrDieNotFound
}

// Values returns the face of every die, in order
func (g *DiceGroup) Values() []int {
	values := make([]int, len(g.dice))
	for i, d := range g.dice {
		values[i] = d.Value()
	}
	return values
}

// Total returns the sum of all faces
func (g *DiceGroup) Total() int {
	total := 0
	for _, v := range g.Values() {
		total += v
	}
	return total
}

// Animating returns true if any die is in motion
func (g *DiceGroup) Animating() bool {
	for _, d := range g.dice {
		if d.InMotion() {
			return true
		}
	}
	return false
}

// Record returns a snapshot suitable for persistence
func (g *DiceGroup) Record() GroupRecord {
	dice := make([]DieRecord, len(g.dice))
	for i, d := range g.dice {
		dice[i] = d.Record()
	}
	return GroupRecord{
		ID:        g.ID,
		CreatedAt: g.CreatedAt,
		Dice:      dice,
	}
}

// RollAll rolls every unlocked die. Nothing is rolled if any die is in motion.
func (g *DiceGroup) RollAll() error {
	if g.Animating() {
		return ErrBusy
	}
	for _, d := range g.dice {
		if err := d.Roll(); err != nil {
			return err
		}
	}
	return nil
}

// RollAllAnimated animates every unlocked die independently. onAllComplete
// runs once, after the last started animation has set its true value.
// Nothing is started if any die is already in motion.
func (g *DiceGroup) RollAllAnimated(ctx context.Context, onAllComplete func()) error {
	if g.Animating() {
		return ErrBusy
	}

	var eg errgroup.Group
	started := 0
	for _, d := range g.dice {
		ok, err := d.beginAnimation()
		if err != nil || !ok {
			// Locked dice count as complete
			continue
		}
		started++
		eg.Go(func() error {
			d.animate(ctx)
			return nil
		})
	}

	if started == 0 {
		if onAllComplete != nil {
			onAllComplete()
		}
		return nil
	}

	go func() {
		_ = eg.Wait()
		if onAllComplete != nil {
			onAllComplete()
		}
	}()
	return nil
}
