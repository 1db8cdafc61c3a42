package service

import (
	"context"
	"fmt"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/identity"
)

// BoardCache is the per-user board cache consulted by CollectionService.List.
// Set must drop the board when an Invalidate happened after Generation was read.
type BoardCache interface {
	Get(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error)
	Generation(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, gen int64, board []domain.CollectionWithTasks) error
	Invalidate(ctx context.Context, userID string) error
}

// TaskIndex is the full-text task index kept alongside the repository.
type TaskIndex interface {
	IndexTask(ctx context.Context, task domain.Task) error
	DeleteCollectionTasks(ctx context.Context, userID string, collectionID int64) error
	Search(ctx context.Context, userID, query string) ([]domain.Task, error)
}

type options struct {
	cache BoardCache
	index TaskIndex
}

// Option configures the optional collaborators of a service.
type Option func(*options)

func WithBoardCache(c BoardCache) Option {
	return func(o *options) { o.cache = c }
}

func WithTaskIndex(i TaskIndex) Option {
	return func(o *options) { o.index = i }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// currentUserID resolves the caller. A nil user is ErrUnauthenticated.
func currentUserID(ctx context.Context, users identity.Resolver) (string, error) {
	u, err := users.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve identity: %w", err)
	}
	if u == nil || u.ID == "" {
		return "", domain.ErrUnauthenticated
	}
	return u.ID, nil
}
