package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/dependencies/mocks"
	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage/memory"
	"github.com/mmunhall/dice-sack/internal/testutil"
)

type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Notify(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	recorder *recorder
	roller   *model.Roller
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 7, 30, 9, 0, 0, 0, time.UTC))
	s.recorder = &recorder{}
	s.roller = model.NewRoller(mocks.NewMockRandom(), s.clock, model.DefaultAnimationConfig(), s.recorder)
	s.service = New(s.storage, s.roller, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) group(id string, values ...int) *model.DiceGroup {
	dice := make([]*model.Die, len(values))
	for i, v := range values {
		d, err := model.RestoreDie(id+"-"+string(rune('a'+i)), 6, v, i == 0, s.roller)
		s.Require().NoError(err)
		dice[i] = d
	}
	return model.NewDiceGroup(id, dice, s.clock.Now())
}

func (s *ServiceSuite) TestCommitThenList() {
	g := s.group("g1", 3, 5, 6)
	s.Require().NoError(s.service.Commit(s.ctx, g))

	groups, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(g.Record(), groups[0].Record())
	s.True(groups[0].Dice()[0].Locked())
}

func (s *ServiceSuite) TestCommitIsASnapshot() {
	g := s.group("g1", 2, 2)
	s.Require().NoError(s.service.Commit(s.ctx, g))

	// Later changes to the live group do not reach history
	s.Require().NoError(g.Dice()[1].Lock())

	groups, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.False(groups[0].Dice()[1].Locked())
}

func (s *ServiceSuite) TestListNewestFirst() {
	s.Require().NoError(s.service.Commit(s.ctx, s.group("first", 1)))
	s.clock.Advance(time.Second)
	s.Require().NoError(s.service.Commit(s.ctx, s.group("second", 2)))

	groups, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(groups, 2)
	s.Equal("second", groups[0].ID)
	s.Equal("first", groups[1].ID)
}

func (s *ServiceSuite) TestListRejectsCorruptRecord() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, model.GroupRecord{
		ID:   "bad",
		Dice: []model.DieRecord{{ID: "x", Sides: 6, Value: 0}},
	}))

	_, err := s.service.List(s.ctx)
	s.ErrorIs(err, model.ErrInvalidValue)
}

func (s *ServiceSuite) TestClearAll() {
	s.Require().NoError(s.service.Commit(s.ctx, s.group("g1", 1)))
	s.Require().NoError(s.service.Commit(s.ctx, s.group("g2", 2)))

	s.Require().NoError(s.service.ClearAll(s.ctx))

	groups, err := s.service.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(groups)

	s.Require().Len(s.recorder.events, 1)
	event := s.recorder.events[0]
	s.Equal(model.EventHistoryCleared, event.Type)
	s.Equal(model.HistoryClearedPayload{Removed: 2}, event.Payload)
	s.Equal(s.clock.Now(), event.Timestamp)
}

func (s *ServiceSuite) TestDelete() {
	s.Require().NoError(s.service.Commit(s.ctx, s.group("g1", 1)))
	s.Require().NoError(s.service.Commit(s.ctx, s.group("g2", 2)))

	s.Require().NoError(s.service.Delete(s.ctx, "g1"))

	count, err := s.service.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
	s.Require().Len(s.recorder.events, 1)
	s.Equal(model.EventHistoryDeleted, s.recorder.events[0].Type)
	s.Equal("g1", s.recorder.events[0].GroupID)
}

func (s *ServiceSuite) TestDeleteNotFound() {
	err := s.service.Delete(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGroupNotFound)
	s.Empty(s.recorder.events)
}

func (s *ServiceSuite) TestCommitDuplicateFails() {
	g := s.group("g1", 4)
	s.Require().NoError(s.service.Commit(s.ctx, g))
	s.ErrorIs(s.service.Commit(s.ctx, g), model.ErrGroupExists)
}
