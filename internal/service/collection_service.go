package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/locvowork/taskboard/internal/cache"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/identity"
	"github.com/locvowork/taskboard/internal/logger"
	"github.com/locvowork/taskboard/pkg/dataflow"
)

const reindexWorkers = 4

// ErrIndexDisabled is returned by Reindex when no search index is configured.
var ErrIndexDisabled = errors.New("search index is not configured")

type CollectionService interface {
	Create(ctx context.Context, in domain.CreateCollectionInput) (*domain.Collection, error)
	Delete(ctx context.Context, id int64) (*domain.Collection, error)
	List(ctx context.Context) ([]domain.CollectionWithTasks, error)
	Reindex(ctx context.Context) (int, error)
}

type collectionService struct {
	repo  domain.CollectionRepository
	users identity.Resolver
	options
}

func NewCollectionService(repo domain.CollectionRepository, users identity.Resolver, opts ...Option) CollectionService {
	return &collectionService{repo: repo, users: users, options: newOptions(opts)}
}

func (s *collectionService) Create(ctx context.Context, in domain.CreateCollectionInput) (*domain.Collection, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return c, nil
}

// Delete removes the caller's collection and its tasks. A collection owned by
// someone else is reported as domain.ErrNotFound.
func (s *collectionService) Delete(ctx context.Context, id int64) (*domain.Collection, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	if s.index != nil {
		if err := s.index.DeleteCollectionTasks(ctx, userID, c.ID); err != nil {
			logger.WarnLog(ctx, "failed to purge indexed tasks of collection %d: %v", c.ID, err)
		}
	}
	return c, nil
}

func (s *collectionService) List(ctx context.Context) ([]domain.CollectionWithTasks, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}

	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		board, err := s.cache.Get(ctx, userID)
		if err == nil {
			return board, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.WarnLog(ctx, "board cache unavailable: %v", err)
		}
		// The generation is read before the repository so a write landing
		// in between keeps the loaded board out of the cache.
		if gen, err = s.cache.Generation(ctx, userID); err == nil {
			cacheable = true
		}
	}

	board, err := s.repo.ListWithTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.Set(ctx, userID, gen, board); err != nil {
			logger.WarnLog(ctx, "failed to cache board: %v", err)
		}
	}
	return board, nil
}

// Reindex rebuilds the caller's search documents from the store and returns
// how many tasks were written.
func (s *collectionService) Reindex(ctx context.Context) (int, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return 0, err
	}
	if s.index == nil {
		return 0, ErrIndexDisabled
	}

	board, err := s.repo.ListWithTasks(ctx, userID)
	if err != nil {
		return 0, err
	}
	var tasks []domain.Task
	for _, c := range board {
		tasks = append(tasks, c.Tasks...)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var failed atomic.Int64
	indexed := dataflow.Map(ctx, dataflow.From(ctx, tasks...),
		func(ctx context.Context, t domain.Task) (int64, error) {
			return t.ID, s.index.IndexTask(ctx, t)
		},
		dataflow.WithWorkers(reindexWorkers),
		dataflow.WithRetry(2, dataflow.ExponentialBackoff(100*time.Millisecond)),
		dataflow.WithErrorHandler(func(err error) {
			failed.Add(1)
			logger.WarnLog(ctx, "failed to index task: %v", err)
		}),
	)

	n := 0
	if err := dataflow.ForEach(ctx, indexed, func(int64) error {
		n++
		return nil
	}); err != nil {
		return n, err
	}
	if f := failed.Load(); f > 0 {
		return n, fmt.Errorf("reindex: %d of %d tasks failed", f, len(tasks))
	}
	logger.InfoLog(ctx, "reindexed %d tasks", n)
	return n, nil
}

func (s *collectionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.WarnLog(ctx, "failed to invalidate board cache: %v", err)
	}
}
