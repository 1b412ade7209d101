// Package tui is the interactive dice table: the current turn's dice, a
// status line and an optional history pane, redrawn from hub events.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmunhall/dice-sack/internal/events"
	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/services/history"
	"github.com/mmunhall/dice-sack/internal/services/turn"
)

// Deps are the services the table drives
type Deps struct {
	Turns   *turn.Controller
	History *history.Service
	Hub     *events.Hub
}

// Options tune the table's behaviour
type Options struct {
	Animate bool // Roll with animation instead of instantly
}

type eventMsg struct {
	event model.Event
}

type eventsStoppedMsg struct{}

type historyLoadedMsg struct {
	groups []*model.DiceGroup
	err    error
}

// Model is the bubbletea model for the dice table
type Model struct {
	ctx     context.Context
	turns   *turn.Controller
	history *history.Service
	sub     *events.Subscriber
	opts    Options

	showHistory bool
	groups      []*model.DiceGroup
	status      string
	width       int
}

// New builds the table. sub may be nil, in which case the table only
// redraws after key presses.
func New(ctx context.Context, deps Deps, sub *events.Subscriber, opts Options) *Model {
	return &Model{
		ctx:     ctx,
		turns:   deps.Turns,
		history: deps.History,
		sub:     sub,
		opts:    opts,
	}
}

// Init loads history and starts listening for events
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHistory(), m.waitForEvent())
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	ch := m.sub.Events()
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return eventMsg{event: ev}
		}
		return eventsStoppedMsg{}
	}
}

func (m *Model) loadHistory() tea.Cmd {
	ctx, svc := m.ctx, m.history
	return func() tea.Msg {
		groups, err := svc.List(ctx)
		return historyLoadedMsg{groups: groups, err: err}
	}
}

// Update handles key presses, hub events and loaded history
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case eventMsg:
		return m, tea.Batch(m.handleEvent(msg.event), m.waitForEvent())

	case eventsStoppedMsg:
		m.sub = nil
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load history: %v", msg.err)
			return m, nil
		}
		m.groups = msg.groups
		return m, nil
	}
	return m, nil
}

func (m *Model) handleEvent(ev model.Event) tea.Cmd {
	switch ev.Type {
	case model.EventGroupRollCompleted:
		if p, ok := ev.Payload.(model.GroupRolledPayload); ok {
			m.status = fmt.Sprintf("Rolled %d", p.Total)
		}
	case model.EventTurnEnded, model.EventHistoryCleared, model.EventHistoryDeleted:
		return m.loadHistory()
	}
	return nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "r", " ", "space":
		m.roll()
	case "e":
		if m.turns.State().Active() {
			return m.endTurn()
		}
		m.newTurn()
	case "n":
		m.newTurn()
	case "h":
		m.showHistory = !m.showHistory
	case "c":
		if m.showHistory {
			return m.clearHistory()
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.toggleLock(int(key[0] - '1'))
		}
	}
	return nil
}

func (m *Model) roll() {
	var err error
	if m.opts.Animate {
		err = m.turns.RollAllAnimated(m.ctx, nil)
	} else {
		err = m.turns.RollAll()
	}
	if err != nil {
		m.status = describe(err)
		return
	}
	if m.opts.Animate {
		m.status = "Rolling..."
	} else {
		m.status = fmt.Sprintf("Rolled %d", m.turns.Group().Total())
	}
}

// endTurn commits the group and reloads the history pane
func (m *Model) endTurn() tea.Cmd {
	if err := m.turns.EndTurn(m.ctx); err != nil {
		m.status = describe(err)
		return nil
	}
	m.status = fmt.Sprintf("Turn ended with %d, press n for a new turn", m.turns.Group().Total())
	return m.loadHistory()
}

func (m *Model) newTurn() {
	cfg := m.turns.Config()
	if err := m.turns.NewTurn(cfg.DiceCount, cfg.Sides); err != nil {
		m.status = describe(err)
		return
	}
	m.status = "New turn"
}

func (m *Model) toggleLock(index int) {
	if err := m.turns.ToggleLockAt(index); err != nil {
		m.status = describe(err)
		return
	}
	d := m.turns.Group().Dice()[index]
	if d.Locked() {
		m.status = fmt.Sprintf("Locked die %d", index+1)
	} else {
		m.status = fmt.Sprintf("Unlocked die %d", index+1)
	}
}

func (m *Model) clearHistory() tea.Cmd {
	if err := m.history.ClearAll(m.ctx); err != nil {
		m.status = describe(err)
		return nil
	}
	m.status = "History cleared"
	return m.loadHistory()
}

// describe turns controller errors into status text
func describe(err error) string {
	switch {
	case errors.Is(err, model.ErrBusy):
		return "Dice are still rolling"
	case errors.Is(err, model.ErrNotActive):
		return "Turn has ended, press n for a new turn"
	case errors.Is(err, model.ErrDieNotFound):
		return "No such die"
	default:
		return err.Error()
	}
}
