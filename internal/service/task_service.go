package service

import (
	"context"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/internal/identity"
	"github.com/locvowork/taskboard/internal/logger"
)

type TaskService interface {
	Create(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error)
	SetDone(ctx context.Context, id int64) (*domain.Task, error)
	Search(ctx context.Context, query string) ([]domain.Task, error)
}

type taskService struct {
	repo  domain.TaskRepository
	users identity.Resolver
	options
}

func NewTaskService(repo domain.TaskRepository, users identity.Resolver, opts ...Option) TaskService {
	return &taskService{repo: repo, users: users, options: newOptions(opts)}
}

// Create adds a task to a collection. The repository rejects unknown
// collections; that error is returned as is.
func (s *taskService) Create(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID, t)
	return t, nil
}

// SetDone marks the caller's task done. Repeated calls succeed.
func (s *taskService) SetDone(ctx context.Context, id int64) (*domain.Task, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}

	t, err := s.repo.SetDoneOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, userID, t)
	return t, nil
}

// Search returns the caller's tasks matching query, or nothing when no index is configured.
func (s *taskService) Search(ctx context.Context, query string) ([]domain.Task, error) {
	userID, err := currentUserID(ctx, s.users)
	if err != nil {
		return nil, err
	}
	if s.index == nil {
		return []domain.Task{}, nil
	}
	return s.index.Search(ctx, userID, query)
}

func (s *taskService) afterWrite(ctx context.Context, userID string, t *domain.Task) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			logger.WarnLog(ctx, "failed to invalidate board cache: %v", err)
		}
	}
	if s.index != nil {
		if err := s.index.IndexTask(ctx, *t); err != nil {
			logger.WarnLog(ctx, "failed to index task %d: %v", t.ID, err)
		}
	}
}
