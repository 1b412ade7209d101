// Package history keeps the append-only record of committed dice groups.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
)

// Service commits, lists and clears roll history
type Service struct {
	storage storage.Storage
	roller  *model.Roller
	logger  *slog.Logger
}

// New creates a new history service
func New(storage storage.Storage, roller *model.Roller, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		roller:  roller,
		logger:  logger,
	}
}

// Commit appends a snapshot of the group
func (s *Service) Commit(ctx context.Context, group *model.DiceGroup) error {
	rec := group.Record()
	if err := s.storage.SaveGroup(ctx, rec); err != nil {
		s.logger.Error("failed to commit group",
			slog.String("group_id", rec.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("group committed",
		slog.String("group_id", rec.ID),
		slog.Int("dice", len(rec.Dice)),
		slog.Int("total", group.Total()),
	)
	return nil
}

// List returns every committed group, newest first
func (s *Service) List(ctx context.Context) ([]*model.DiceGroup, error) {
	recs, err := s.storage.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]*model.DiceGroup, 0, len(recs))
	for _, rec := range recs {
		g, err := model.RestoreDiceGroup(rec, s.roller)
		if err != nil {
			return nil, fmt.Errorf("restore group %s: %w", rec.ID, err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// ClearAll removes every group and its dice. Irreversible.
func (s *Service) ClearAll(ctx context.Context) error {
	removed, err := s.storage.DeleteAllGroups(ctx)
	if err != nil {
		s.logger.Error("failed to clear history", slog.String("error", err.Error()))
		return err
	}

	s.logger.Info("history cleared", slog.Int("removed", removed))
	s.roller.Notify(model.Event{
		Type:    model.EventHistoryCleared,
		Payload: model.HistoryClearedPayload{Removed: removed},
	})
	return nil
}

// Delete removes one group and its dice
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteGroup(ctx, id); err != nil {
		return err
	}

	s.logger.Info("group deleted", slog.String("group_id", id))
	s.roller.Notify(model.Event{
		Type:    model.EventHistoryDeleted,
		GroupID: id,
	})
	return nil
}

// Count returns the number of committed groups
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.storage.CountGroups(ctx)
}
