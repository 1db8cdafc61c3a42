package googlecloud

import (
	"time"

	"github.com/locvowork/taskboard/internal/domain"
)

// collectionEntity is the stored form of a Collection. The id lives in the key.
type collectionEntity struct {
	UserID    string    `datastore:"user_id"`
	Name      string    `datastore:"name"`
	Color     string    `datastore:"color,noindex"`
	CreatedAt time.Time `datastore:"created_at"`
	// Deleting marks a collection whose tasks are being removed. It is hidden
	// from the board and refuses new tasks.
	Deleting bool `datastore:"deleting"`
}

// taskEntity is the stored form of a Task. Tasks are root entities that
// reference their collection by id, so a task can be addressed by id alone.
type taskEntity struct {
	UserID       string    `datastore:"user_id"`
	CollectionID int64     `datastore:"collection_id"`
	Content      string    `datastore:"content,noindex"`
	ExpiresAt    time.Time `datastore:"expires_at,omitempty,noindex"`
	Done         bool      `datastore:"done"`
	CreatedAt    time.Time `datastore:"created_at"`
}

// collectionNameEntity reserves a collection name for one user.
type collectionNameEntity struct {
	CollectionID int64 `datastore:"collection_id,noindex"`
}

func (e collectionEntity) toDomain(id int64) domain.Collection {
	return domain.Collection{
		ID:        id,
		UserID:    e.UserID,
		Name:      e.Name,
		Color:     domain.CollectionColor(e.Color),
		CreatedAt: e.CreatedAt.UTC(),
	}
}

func (e taskEntity) toDomain(id int64) domain.Task {
	t := domain.Task{
		ID:           id,
		UserID:       e.UserID,
		CollectionID: e.CollectionID,
		Content:      e.Content,
		Done:         e.Done,
		CreatedAt:    e.CreatedAt.UTC(),
	}
	if !e.ExpiresAt.IsZero() {
		at := e.ExpiresAt.UTC()
		t.ExpiresAt = &at
	}
	return t
}
