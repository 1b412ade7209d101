package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmunhall/dice-sack/internal/model"
	"github.com/mmunhall/dice-sack/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// groupHeader is the stored form of a group without its dice
type groupHeader struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveGroup(ctx context.Context, rec model.GroupRecord) error {
	header, err := json.Marshal(groupHeader{ID: rec.ID, CreatedAt: rec.CreatedAt})
	if err != nil {
		return err
	}

	dice := make([]interface{}, len(rec.Dice))
	for i, d := range rec.Dice {
		data, err := json.Marshal(d)
		if err != nil {
			return err
		}
		dice[i] = data
	}

	// WATCH the header so two saves of one id cannot both pass the check;
	// MULTI/EXEC so a group is never visible without its dice
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, groupKey(rec.ID)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrGroupExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, groupKey(rec.ID), header, s.cfg.HistoryTTL)
			pipe.Del(ctx, diceKey(rec.ID))
			if len(dice) > 0 {
				pipe.RPush(ctx, diceKey(rec.ID), dice...)
				if s.cfg.HistoryTTL > 0 {
					pipe.Expire(ctx, diceKey(rec.ID), s.cfg.HistoryTTL)
				}
			}
			pipe.RPush(ctx, groupsIndexKey(), rec.ID)
			if s.cfg.HistoryTTL > 0 {
				pipe.Expire(ctx, groupsIndexKey(), s.cfg.HistoryTTL) // Keep index TTL in sync
			}
			return nil
		})
		return err
	}, groupKey(rec.ID))
	if err != nil {
		return fmt.Errorf("save group %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Storage) ListGroups(ctx context.Context) ([]model.GroupRecord, error) {
	ids, err := s.client.LRange(ctx, groupsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list group index: %w", err)
	}

	if len(ids) == 0 {
		return []model.GroupRecord{}, nil
	}

	// Fetch every header and dice list in one round trip
	pipe := s.client.Pipeline()
	headers := make([]*redis.StringCmd, len(ids))
	dice := make([]*redis.StringSliceCmd, len(ids))
	for i, id := range ids {
		headers[i] = pipe.Get(ctx, groupKey(id))
		dice[i] = pipe.LRange(ctx, diceKey(id), 0, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	recs := make([]model.GroupRecord, 0, len(ids))
	for i := range ids {
		data, err := headers[i].Bytes()
		if err != nil {
			continue // Group may have expired
		}
		var header groupHeader
		if err := json.Unmarshal(data, &header); err != nil {
			continue // Skip invalid data
		}

		rec := model.GroupRecord{
			ID:        header.ID,
			CreatedAt: header.CreatedAt,
			Dice:      []model.DieRecord{},
		}
		for _, raw := range dice[i].Val() {
			var d model.DieRecord
			if err := json.Unmarshal([]byte(raw), &d); err != nil {
				return nil, fmt.Errorf("decode die of group %s: %w", header.ID, err)
			}
			rec.Dice = append(rec.Dice, d)
		}
		recs = append(recs, rec)
	}

	storage.SortNewestFirst(recs)
	return recs, nil
}

func (s *Storage) DeleteGroup(ctx context.Context, id string) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.LRem(ctx, groupsIndexKey(), 0, id)
		pipe.Del(ctx, groupKey(id), diceKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if removed.Val() == 0 {
		return model.ErrGroupNotFound
	}
	return nil
}

func (s *Storage) DeleteAllGroups(ctx context.Context) (int, error) {
	removed := 0

	// WATCH the index so a concurrent save aborts the clear instead of
	// leaving an orphaned group behind
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		ids, err := tx.LRange(ctx, groupsIndexKey(), 0, -1).Result()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		keys := make([]string, 0, 2*len(ids)+1)
		for _, id := range ids {
			keys = append(keys, groupKey(id), diceKey(id))
		}
		keys = append(keys, groupsIndexKey())

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			return nil
		})
		if err != nil {
			return err
		}
		removed = len(ids)
		return nil
	}, groupsIndexKey())
	if err != nil {
		return 0, fmt.Errorf("delete all groups: %w", err)
	}
	return removed, nil
}

// CountGroups returns the length of the insertion index. With a HistoryTTL
// this can include groups that expired since the last save.
func (s *Storage) CountGroups(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, groupsIndexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("count groups: %w", err)
	}
	return int(n), nil
}
