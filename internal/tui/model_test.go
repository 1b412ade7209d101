package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/factory"
	"github.com/mmunhall/dice-sack/internal/model"
)

type ModelSuite struct {
	suite.Suite
	app   *factory.TestApp
	ctx   context.Context
	table *Model
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

func (s *ModelSuite) SetupTest() {
	s.app = factory.NewTestAppWithFaces(3, 1, 4, 1, 5, 6)
	s.ctx = context.Background()
	s.table = New(s.ctx, s.deps(), nil, Options{})
}

func (s *ModelSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *ModelSuite) deps() Deps {
	return Deps{
		Turns:   s.app.TurnController,
		History: s.app.HistoryService,
		Hub:     s.app.Hub,
	}
}

func keyRunes(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends a key and feeds every message its command produces back in
func (s *ModelSuite) press(key string) {
	_, cmd := s.table.Update(keyRunes(key))
	s.drain(cmd)
}

func (s *ModelSuite) drain(cmd tea.Cmd) {
	for _, msg := range run(cmd) {
		_, next := s.table.Update(msg)
		s.drain(next)
	}
}

// run executes a command, expanding batches
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func (s *ModelSuite) TestInitialViewShowsFirstTurn() {
	s.drain(s.table.Init())

	view := s.table.View()
	s.Contains(view, "Dice Sack")
	s.Contains(view, "Total: 20")
	s.Contains(view, "Turn active")
	s.Contains(view, "r roll")
	s.NotContains(view, "No rolls in history")
}

func (s *ModelSuite) TestNumberKeyTogglesLock() {
	s.press("2")

	dice := s.app.TurnController.Group().Dice()
	s.True(dice[1].Locked())
	s.Equal("Locked die 2", s.table.status)
	s.Contains(s.table.View(), "2 held")

	s.press("2")
	s.False(dice[1].Locked())
	s.Equal("Unlocked die 2", s.table.status)
}

func (s *ModelSuite) TestNumberKeyOutOfRange() {
	s.press("9")
	s.Equal("No such die", s.table.status)
}

func (s *ModelSuite) TestRollKeepsHeldDice() {
	s.press("1")
	s.app.MockRandom.QueueFaces(6, 6, 6, 6, 6)

	s.press("r")

	s.Equal([]int{3, 6, 6, 6, 6, 6}, s.app.TurnController.Group().Values())
	s.Equal("Rolled 33", s.table.status)
}

func (s *ModelSuite) TestAnimatedRoll() {
	s.table = New(s.ctx, s.deps(), nil, Options{Animate: true})

	s.press("r")
	s.Equal("Rolling...", s.table.status)

	s.Eventually(func() bool {
		return !s.app.TurnController.Animating()
	}, 2*time.Second, time.Millisecond)
	s.Equal([]int{1, 1, 1, 1, 1, 1}, s.app.TurnController.Group().Values())
}

func (s *ModelSuite) TestRollWhileAnimatingReportsBusy() {
	s.table = New(s.ctx, s.deps(), nil, Options{Animate: true})
	s.app.MockClock.Hold()

	s.press("r")
	s.Eventually(func() bool { return s.app.MockClock.Pending() == 6 }, time.Second, time.Millisecond)

	s.press("r")
	s.Equal("Dice are still rolling", s.table.status)
	s.press("e")
	s.Equal("Dice are still rolling", s.table.status)
	s.Contains(s.table.View(), "Rolling")

	s.app.MockClock.Release()
	s.Eventually(func() bool {
		return !s.app.TurnController.Animating()
	}, 2*time.Second, time.Millisecond)
}

func (s *ModelSuite) TestEndTurnCommitsAndShowsHistory() {
	s.press("h")
	s.Contains(s.table.View(), "No rolls in history")

	s.press("e")

	s.False(s.app.TurnController.State().Active())
	s.Equal("Turn ended with 20, press n for a new turn", s.table.status)
	s.Require().Len(s.table.groups, 1)
	view := s.table.View()
	s.Contains(view, "[3] [1] [4] [1] [5] [6] = 20")
	s.Contains(view, "Turn ended")
	s.Contains(view, "e new turn")
}

func (s *ModelSuite) TestRollAfterEndReportsNotActive() {
	s.press("e")
	s.press("r")
	s.Equal("Turn has ended, press n for a new turn", s.table.status)
}

func (s *ModelSuite) TestEndKeyStartsNewTurnOnceEnded() {
	s.press("e")
	s.press("e")

	s.True(s.app.TurnController.State().Active())
	s.Equal("New turn", s.table.status)

	count, err := s.app.HistoryService.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *ModelSuite) TestHeldDiceNotHighlightedAfterEnd() {
	s.press("1")
	s.press("e")

	s.NotContains(s.table.View(), "held")
}

func (s *ModelSuite) TestNewTurnKey() {
	first := s.app.TurnController.Group().ID

	s.press("n")

	s.NotEqual(first, s.app.TurnController.Group().ID)
	s.Equal(6, s.app.TurnController.Group().Len())
}

func (s *ModelSuite) TestClearHistoryOnlyFromPane() {
	s.press("e")
	s.press("c")

	count, err := s.app.HistoryService.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	s.press("h")
	s.press("c")

	count, err = s.app.HistoryService.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)
	s.Empty(s.table.groups)
	s.Equal("History cleared", s.table.status)
	s.Contains(s.table.View(), "c clear history")
}

func (s *ModelSuite) TestQuit() {
	_, cmd := s.table.Update(keyRunes("q"))
	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())

	_, cmd = s.table.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	s.Require().NotNil(cmd)
	s.IsType(tea.QuitMsg{}, cmd())
}

func (s *ModelSuite) TestHubEventsReloadHistory() {
	sub := s.app.Hub.Subscribe("test")
	s.table = New(s.ctx, s.deps(), sub, Options{})

	s.Require().NoError(s.app.TurnController.EndTurn(s.ctx))

	// Read events until the turn end arrives, as the table would
	var cmd tea.Cmd
	for cmd == nil {
		msg := s.table.waitForEvent()()
		ev, ok := msg.(eventMsg)
		s.Require().True(ok)
		cmd = s.table.handleEvent(ev.event)
	}
	s.drain(cmd)
	s.Len(s.table.groups, 1)

	s.app.Hub.Unsubscribe(sub)
	s.Eventually(func() bool {
		_, ok := s.table.waitForEvent()().(eventsStoppedMsg)
		return ok
	}, time.Second, time.Millisecond)
}

func (s *ModelSuite) TestDescribeFallsBackToErrorText() {
	s.Equal("Dice are still rolling", describe(model.ErrBusy))
	s.Equal("boom", describe(errString("boom")))
}

type errString string

func (e errString) Error() string { return string(e) }
