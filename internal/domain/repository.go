package domain

import "context"

// CollectionRepository persists collections. Every mutation is filtered by owner.
type CollectionRepository interface {
	Create(ctx context.Context, userID string, in CreateCollectionInput) (*Collection, error)
	// DeleteOwned removes the collection and, through the store's cascade, its tasks.
	DeleteOwned(ctx context.Context, id int64, userID string) (*Collection, error)
	ListWithTasks(ctx context.Context, userID string) ([]CollectionWithTasks, error)
}

// TaskRepository persists tasks. Every mutation is filtered by owner.
type TaskRepository interface {
	Create(ctx context.Context, userID string, in CreateTaskInput) (*Task, error)
	SetDoneOwned(ctx context.Context, id int64, userID string) (*Task, error)
}
