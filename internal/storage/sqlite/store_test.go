package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
	"github.com/mmunhall/dice-sack/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage {
			store, err := Open(filepath.Join(t.TempDir(), "history.db"))
			if err != nil {
				t.Fatalf("open store: %v", err)
			}
			return store
		},
	})
}

type StoreSuite struct {
	suite.Suite
	path  string
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "history.db")
	store, err := Open(s.path)
	s.Require().NoError(err)
	s.store = store
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		s.Require().NoError(s.store.Close())
	}
}

func (s *StoreSuite) record(id string, values ...int) model.GroupRecord {
	dice := make([]model.DieRecord, len(values))
	for i, v := range values {
		dice[i] = model.DieRecord{ID: id + "-" + string(rune('a'+i)), Sides: 6, Value: v}
	}
	return model.GroupRecord{
		ID:        id,
		CreatedAt: time.Date(2025, 7, 30, 9, 0, 0, 123456789, time.UTC),
		Dice:      dice,
	}
}

func (s *StoreSuite) diceRows() int {
	var n int
	s.Require().NoError(s.store.sqlDB.QueryRow(`SELECT COUNT(*) FROM dice`).Scan(&n))
	return n
}

func (s *StoreSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Error(err)
}

func (s *StoreSuite) TestForeignKeysEnabled() {
	var on int
	s.Require().NoError(s.store.sqlDB.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	s.Equal(1, on)
}

func (s *StoreSuite) TestTimestampKeepsNanoseconds() {
	rec := s.record("g1", 4)
	s.Require().NoError(s.store.SaveGroup(s.ctx, rec))

	recs, err := s.store.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal(rec.CreatedAt, recs[0].CreatedAt)
}

func (s *StoreSuite) TestDeleteCascadesToDice() {
	s.Require().NoError(s.store.SaveGroup(s.ctx, s.record("g1", 1, 2, 3)))
	s.Require().NoError(s.store.SaveGroup(s.ctx, s.record("g2", 4, 5)))
	s.Equal(5, s.diceRows())

	s.Require().NoError(s.store.DeleteGroup(s.ctx, "g1"))
	s.Equal(2, s.diceRows())

	_, err := s.store.DeleteAllGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, s.diceRows())
}

func (s *StoreSuite) TestFailedSaveLeavesNothingBehind() {
	rec := s.record("g1", 3)
	rec.Dice = append(rec.Dice, model.DieRecord{ID: "bad", Sides: 6, Value: 9})

	s.Error(s.store.SaveGroup(s.ctx, rec))

	count, err := s.store.CountGroups(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, count)
	s.Equal(0, s.diceRows())
}

func (s *StoreSuite) TestGroupWithoutDice() {
	s.Require().NoError(s.store.SaveGroup(s.ctx, s.record("empty")))

	recs, err := s.store.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Empty(recs[0].Dice)
}

func (s *StoreSuite) TestReopenKeepsHistoryAndSkipsMigrations() {
	s.Require().NoError(s.store.SaveGroup(s.ctx, s.record("g1", 6, 6)))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	recs, err := s.store.ListGroups(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(recs, 1)
	s.Equal([]int{6, 6}, []int{recs[0].Dice[0].Value, recs[0].Dice[1].Value})

	var applied int
	s.Require().NoError(s.store.sqlDB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	s.Equal(1, applied)
}

func (s *StoreSuite) TestExtractUpMigration() {
	s.Equal("\nCREATE x;\n", extractUpMigration("-- +migrate Up\nCREATE x;\n-- +migrate Down\nDROP x;"))
	s.Equal("CREATE y;", extractUpMigration("CREATE y;"))
}
