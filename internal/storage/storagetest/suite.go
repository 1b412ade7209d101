// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	storage storage.Storage
	ctx     context.Context
	base    time.Time
}

func (s *Suite) SetupTest() {
	s.storage = s.NewStorage()
	s.ctx = context.Background()
	s.base = time.Date(2025, 7, 30, 9, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Record builds a group record created offset after the suite's base time
func (s *Suite) Record(id string, offset time.Duration, values ...int) model.GroupRecord {
	dice := make([]model.DieRecord, len(values))
	for i, v := range values {
		dice[i] = model.DieRecord{
			ID:     id + "-die-" + string(rune('a'+i)),
			Sides:  6,
			Value:  v,
			Locked: i%2 == 0,
		}
	}
	return model.GroupRecord{
		ID:        id,
		CreatedAt: s.base.Add(offset),
		Dice:      dice,
	}
}

func (s *Suite) ids(recs []model.GroupRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func (s *Suite) TestListEmpty() {
	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Empty(recs)

	count, err := s.storage.CountGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
}

func (s *Suite) TestSaveAndListPreservesDice() {
	rec := s.Record("g1", 0, 6, 1, 4, 4, 2, 5)

	s.Require().NoError(s.storage.SaveGroup(s.ctx, rec))

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal(rec.ID, recs[0].ID)
	s.True(rec.CreatedAt.Equal(recs[0].CreatedAt), "created_at %v != %v", rec.CreatedAt, recs[0].CreatedAt)
	s.Equal(rec.Dice, recs[0].Dice)
}

func (s *Suite) TestSaveDuplicateRejected() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("g1", 0, 2)))

	err := s.storage.SaveGroup(s.ctx, s.Record("g1", time.Second, 5))
	s.ErrorIs(err, model.ErrGroupExists)

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal(2, recs[0].Dice[0].Value)
}

func (s *Suite) TestListOrdersNewestFirst() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("oldest", time.Minute, 1)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("newest", 3*time.Minute, 2)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("middle", 2*time.Minute, 3)))

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"newest", "middle", "oldest"}, s.ids(recs))
}

func (s *Suite) TestListKeepsInsertionOrderForEqualTimestamps() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("first", time.Minute, 1)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("second", time.Minute, 2)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("later", 2*time.Minute, 3)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("third", time.Minute, 4)))

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"later", "first", "second", "third"}, s.ids(recs))
}

func (s *Suite) TestListedRecordsAreDetached() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("g1", 0, 3)))

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	recs[0].Dice[0].Value = 6

	again, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, again[0].Dice[0].Value)
}

func (s *Suite) TestDeleteGroupRemovesGroupAndDice() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("keep", 0, 1, 2)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("drop", time.Second, 3, 4)))

	s.Require().NoError(s.storage.DeleteGroup(s.ctx, "drop"))

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"keep"}, s.ids(recs))
	s.Len(recs[0].Dice, 2)

	count, err := s.storage.CountGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestDeleteGroupNotFound() {
	err := s.storage.DeleteGroup(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGroupNotFound)
}

func (s *Suite) TestDeleteAllGroups() {
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("g1", 0, 1)))
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("g2", time.Second, 2)))

	removed, err := s.storage.DeleteAllGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, removed)

	recs, err := s.storage.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Empty(recs)

	// The store keeps working after a clear
	s.Require().NoError(s.storage.SaveGroup(s.ctx, s.Record("g3", 2*time.Second, 3)))
	count, err := s.storage.CountGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestDeleteAllOnEmptyStore() {
	removed, err := s.storage.DeleteAllGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, removed)
}
