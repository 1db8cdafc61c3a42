package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/locvowork/taskboard/internal/cache"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*cache.BoardCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewBoardCache(client, time.Minute), mr
}

func TestBoardCache(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestRedis(t)

	_, err := c.Get(ctx, "user_a")
	assert.ErrorIs(t, err, cache.ErrMiss)

	board := []domain.CollectionWithTasks{{
		Collection: domain.Collection{ID: 1, UserID: "user_a", Name: "Groceries", Color: domain.ColorCandy},
		Tasks:      []domain.Task{{ID: 7, UserID: "user_a", CollectionID: 1, Content: "Buy oat milk", Done: true}},
	}}
	gen, err := c.Generation(ctx, "user_a")
	require.NoError(t, err)
	assert.Zero(t, gen)
	require.NoError(t, c.Set(ctx, "user_a", gen, board))
	assert.True(t, mr.Exists("board:user_a"))
	assert.Equal(t, time.Minute, mr.TTL("board:user_a"))

	got, err := c.Get(ctx, "user_a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Groceries", got[0].Name)
	assert.Equal(t, 100.0, got[0].Progress())

	_, err = c.Get(ctx, "user_b")
	assert.ErrorIs(t, err, cache.ErrMiss)

	require.NoError(t, c.Invalidate(ctx, "user_a"))
	_, err = c.Get(ctx, "user_a")
	assert.ErrorIs(t, err, cache.ErrMiss)

	gen, err = c.Generation(ctx, "user_a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
}

func TestBoardCacheDropsBoardLoadedBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestRedis(t)

	gen, err := c.Generation(ctx, "user_a")
	require.NoError(t, err)

	// A write lands while the board is being loaded.
	require.NoError(t, c.Invalidate(ctx, "user_a"))

	stale := []domain.CollectionWithTasks{}
	require.NoError(t, c.Set(ctx, "user_a", gen, stale))
	assert.False(t, mr.Exists("board:user_a"))
	_, err = c.Get(ctx, "user_a")
	assert.ErrorIs(t, err, cache.ErrMiss)

	fresh, err := c.Generation(ctx, "user_a")
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "user_a", fresh, stale))
	assert.True(t, mr.Exists("board:user_a"))
}

func TestBoardCacheEmptyBoard(t *testing.T) {
	ctx := context.Background()
	c, _ := setupTestRedis(t)

	require.NoError(t, c.Set(ctx, "user_a", 0, []domain.CollectionWithTasks{}))
	got, err := c.Get(ctx, "user_a")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBoardCacheUnavailable(t *testing.T) {
	ctx := context.Background()
	c, mr := setupTestRedis(t)
	mr.Close()

	_, err := c.Get(ctx, "user_a")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, cache.ErrMiss)
}
