package googlecloud

import (
	"context"

	"github.com/locvowork/taskboard/internal/domain"
)

type collectionRepository struct{ c *Client }

// CollectionRepository exposes the client as a domain.CollectionRepository.
func (c *Client) CollectionRepository() domain.CollectionRepository {
	return collectionRepository{c: c}
}

func (r collectionRepository) Create(ctx context.Context, userID string, in domain.CreateCollectionInput) (*domain.Collection, error) {
	return r.c.CreateCollection(ctx, userID, in)
}

func (r collectionRepository) DeleteOwned(ctx context.Context, id int64, userID string) (*domain.Collection, error) {
	return r.c.DeleteCollectionOwned(ctx, id, userID)
}

func (r collectionRepository) ListWithTasks(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	return r.c.ListBoard(ctx, userID)
}

type taskRepository struct{ c *Client }

// TaskRepository exposes the client as a domain.TaskRepository.
func (c *Client) TaskRepository() domain.TaskRepository {
	return taskRepository{c: c}
}

func (r taskRepository) Create(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error) {
	return r.c.CreateTask(ctx, userID, in)
}

func (r taskRepository) SetDoneOwned(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	return r.c.SetTaskDoneOwned(ctx, id, userID)
}
