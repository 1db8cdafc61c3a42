package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/locvowork/taskboard/internal/database"
	"github.com/locvowork/taskboard/internal/domain"
)

type collectionRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewCollectionRepository returns a SQL-backed domain.CollectionRepository.
func NewCollectionRepository(db *database.DB) domain.CollectionRepository {
	return &collectionRepository{db: db, now: utcNow}
}

func utcNow() time.Time { return time.Now().UTC() }

func (r *collectionRepository) Create(ctx context.Context, userID string, in domain.CreateCollectionInput) (*domain.Collection, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		INSERT INTO collections (user_id, name, color, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+collectionColumns),
		userID, in.Name, string(in.Color), r.now())
	return scanCollection(row)
}

func (r *collectionRepository) DeleteOwned(ctx context.Context, id int64, userID string) (*domain.Collection, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		DELETE FROM collections
		WHERE id = ? AND user_id = ?
		RETURNING `+collectionColumns),
		id, userID)
	c, err := scanCollection(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *collectionRepository) ListWithTasks(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+collectionColumns+`
		FROM collections
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	board := make([]domain.CollectionWithTasks, 0)
	index := make(map[int64]int)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		index[c.ID] = len(board)
		board = append(board, domain.CollectionWithTasks{Collection: *c, Tasks: []domain.Task{}})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(board) == 0 {
		return board, nil
	}

	taskRows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC`), userID)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		t, err := scanTask(taskRows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if i, ok := index[t.CollectionID]; ok {
			board[i].Tasks = append(board[i].Tasks, *t)
		}
	}
	return board, taskRows.Err()
}
