// Package sqlite provides a SQLite-backed roll history implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
	"github.com/mmunhall/dice-sack/internal/storage/sqlite/migrations"
)

// Store persists committed dice groups in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// Group timestamps keep full precision so ordering matches the other backends
func toNanos(value time.Time) int64 {
	return value.UTC().UnixNano()
}

func fromNanos(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

// Open opens a SQLite history store, creating the parent directory if
// needed, and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

var _ storage.Storage = (*Store)(nil)

// SaveGroup inserts the group and its dice in one transaction.
func (s *Store) SaveGroup(ctx context.Context, rec model.GroupRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("%w: group id is required", model.ErrInvalidArgument)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save group: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dice_groups (id, created_at) VALUES (?, ?)`,
		rec.ID,
		toNanos(rec.CreatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("save group %s: %w", rec.ID, model.ErrGroupExists)
		}
		return fmt.Errorf("save group %s: %w", rec.ID, err)
	}

	for position, d := range rec.Dice {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO dice (group_id, position, id, sides, value, locked) VALUES (?, ?, ?, ?, ?, ?)`,
			rec.ID,
			position,
			d.ID,
			d.Sides,
			d.Value,
			d.Locked,
		); err != nil {
			return fmt.Errorf("save die %d of group %s: %w", position, rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save group %s: %w", rec.ID, err)
	}
	return nil
}

// ListGroups returns every group, newest first, with dice in position order.
func (s *Store) ListGroups(ctx context.Context) ([]model.GroupRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT g.id, g.created_at, d.id, d.sides, d.value, d.locked
		   FROM dice_groups g
		   LEFT JOIN dice d ON d.group_id = g.id
		  ORDER BY g.created_at DESC, g.seq ASC, d.position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	recs := []model.GroupRecord{}
	for rows.Next() {
		var (
			groupID   string
			createdAt int64
			dieID     sql.NullString
			sides     sql.NullInt64
			value     sql.NullInt64
			locked    sql.NullBool
		)
		if err := rows.Scan(&groupID, &createdAt, &dieID, &sides, &value, &locked); err != nil {
			return nil, fmt.Errorf("scan group row: %w", err)
		}

		if len(recs) == 0 || recs[len(recs)-1].ID != groupID {
			recs = append(recs, model.GroupRecord{
				ID:        groupID,
				CreatedAt: fromNanos(createdAt),
				Dice:      []model.DieRecord{},
			})
		}
		if !dieID.Valid {
			continue // Group without dice
		}
		last := &recs[len(recs)-1]
		last.Dice = append(last.Dice, model.DieRecord{
			ID:     dieID.String,
			Sides:  int(sides.Int64),
			Value:  int(value.Int64),
			Locked: locked.Bool,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return recs, nil
}

// DeleteGroup removes one group; its dice go with it via ON DELETE CASCADE.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM dice_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	if n == 0 {
		return model.ErrGroupNotFound
	}
	return nil
}

// DeleteAllGroups removes every group and reports how many there were.
func (s *Store) DeleteAllGroups(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete all groups: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM dice_groups`)
	if err != nil {
		return 0, fmt.Errorf("delete all groups: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all groups: %w", err)
	}
	// Cascade should have emptied this already; clear any orphans too
	if _, err := tx.ExecContext(ctx, `DELETE FROM dice`); err != nil {
		return 0, fmt.Errorf("delete all dice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete all groups: %w", err)
	}
	return int(n), nil
}

// CountGroups returns the number of committed groups.
func (s *Store) CountGroups(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM dice_groups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}
