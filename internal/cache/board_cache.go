// Package cache keeps a per-user copy of the board read model in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when no board is cached for the user.
var ErrMiss = errors.New("cache miss")

// BoardCache stores the board of each user under board:<userID>, guarded by
// an invalidation counter under board-gen:<userID>.
type BoardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBoardCache(client *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{client: client, ttl: ttl}
}

func boardKey(userID string) string {
	return "board:" + userID
}

func generationKey(userID string) string {
	return "board-gen:" + userID
}

func (c *BoardCache) Get(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	raw, err := c.client.Get(ctx, boardKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}

	var board []domain.CollectionWithTasks
	if err := json.Unmarshal(raw, &board); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if board == nil {
		board = []domain.CollectionWithTasks{}
	}
	return board, nil
}

// Generation returns the user's invalidation counter. Read it before loading
// the board from the repository and hand it back to Set.
func (c *BoardCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get board generation: %w", err)
	}
	return gen, nil
}

// Set stores board only while the generation is still gen. A board loaded
// before an Invalidate is dropped instead of cached.
func (c *BoardCache) Set(ctx context.Context, userID string, gen int64, board []domain.CollectionWithTasks) error {
	raw, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	genKey := generationKey(userID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, boardKey(userID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("set board: %w", err)
	}
	return nil
}

// Invalidate bumps the generation and drops the cached board atomically.
func (c *BoardCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Del(ctx, boardKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate board: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (c *BoardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
