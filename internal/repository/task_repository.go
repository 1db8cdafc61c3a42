package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/locvowork/taskboard/internal/database"
	"github.com/locvowork/taskboard/internal/domain"
)

type taskRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewTaskRepository returns a SQL-backed domain.TaskRepository.
func NewTaskRepository(db *database.DB) domain.TaskRepository {
	return &taskRepository{db: db, now: utcNow}
}

// Create relies on the collection_id foreign key; an unknown collection
// surfaces as the driver's constraint error.
func (r *taskRepository) Create(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error) {
	var expires interface{}
	if in.ExpiresAt != nil {
		expires = in.ExpiresAt.UTC()
	}
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO tasks (user_id, collection_id, content, expires_at, done, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+taskColumns),
		userID, in.CollectionID, in.Content, expires, false, r.now())
	return scanTask(row)
}

func (r *taskRepository) SetDoneOwned(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		UPDATE tasks SET done = ?
		WHERE id = ? AND user_id = ?
		RETURNING `+taskColumns),
		true, id, userID)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}
