package storage

import (
	"context"

	"github.com/mmunhall/dice-sack/internal/model"
)

// Storage defines the interface for roll history persistence.
//
// Groups are append-only. ListGroups returns groups ordered by CreatedAt
// descending; groups with equal timestamps keep insertion order. Saving an
// id twice fails with model.ErrGroupExists. Deleting a group deletes its dice.
type Storage interface {
	SaveGroup(ctx context.Context, rec model.GroupRecord) error
	ListGroups(ctx context.Context) ([]model.GroupRecord, error)
	DeleteGroup(ctx context.Context, id string) error
	DeleteAllGroups(ctx context.Context) (int, error)
	CountGroups(ctx context.Context) (int, error)

	Close() error
}
