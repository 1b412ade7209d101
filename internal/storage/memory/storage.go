package memory

import (
	"context"
	"sync"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	groups []model.GroupRecord // Insertion order
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGroup(ctx context.Context, rec model.GroupRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.ID == rec.ID {
			return model.ErrGroupExists
		}
	}
	s.groups = append(s.groups, copyRecord(rec))
	return nil
}

func (s *Storage) ListGroups(ctx context.Context) ([]model.GroupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.GroupRecord, len(s.groups))
	for i, rec := range s.groups {
		result[i] = copyRecord(rec)
	}
	storage.SortNewestFirst(result)
	return result, nil
}

func (s *Storage) DeleteGroup(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.groups {
		if rec.ID == id {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return nil
		}
	}
	return model.ErrGroupNotFound
}

func (s *Storage) DeleteAllGroups(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := len(s.groups)
	s.groups = nil
	return removed, nil
}

func (s *Storage) CountGroups(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.groups), nil
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// copyRecord detaches the dice slice so callers cannot mutate stored state
func copyRecord(rec model.GroupRecord) model.GroupRecord {
	dice := make([]model.DieRecord, len(rec.Dice))
	copy(dice, rec.Dice)
	rec.Dice = dice
	return rec
}
