package googlecloud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/taskboard/internal/domain"
)

const (
	KindCollection     = "Collection"
	KindTask           = "Task"
	KindCollectionName = "CollectionName"
)

func collectionKey(id int64) *datastore.Key {
	return datastore.IDKey(KindCollection, id, nil)
}

func taskKey(id int64) *datastore.Key {
	return datastore.IDKey(KindTask, id, nil)
}

func collectionNameKey(userID, name string) *datastore.Key {
	return datastore.NameKey(KindCollectionName, userID+"\x00"+name, nil)
}

// allocateID reserves an id so the created record can be returned from a transaction.
func (c *Client) allocateID(ctx context.Context, kind string) (*datastore.Key, error) {
	keys, err := c.ds.AllocateIDs(ctx, []*datastore.Key{datastore.IncompleteKey(kind, nil)})
	if err != nil {
		return nil, fmt.Errorf("allocate %s id: %w", kind, err)
	}
	return keys[0], nil
}

// CreateCollection stores a collection for userID. The name is reserved per
// user in the same transaction, mirroring the unique constraint of the SQL schema.
func (c *Client) CreateCollection(ctx context.Context, userID string, in domain.CreateCollectionInput) (*domain.Collection, error) {
	key, err := c.allocateID(ctx, KindCollection)
	if err != nil {
		return nil, err
	}
	entity := collectionEntity{
		UserID:    userID,
		Name:      in.Name,
		Color:     string(in.Color),
		CreatedAt: time.Now().UTC(),
	}

	_, err = c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		nameKey := collectionNameKey(userID, in.Name)
		var reserved collectionNameEntity
		switch err := tx.Get(nameKey, &reserved); err {
		case nil:
			return fmt.Errorf("collection %q: %w", in.Name, ErrAlreadyExists)
		case datastore.ErrNoSuchEntity:
		default:
			return err
		}

		if _, err := tx.Put(nameKey, &collectionNameEntity{CollectionID: key.ID}); err != nil {
			return err
		}
		_, err := tx.Put(key, &entity)
		return err
	})
	if err != nil {
		return nil, err
	}

	col := entity.toDomain(key.ID)
	return &col, nil
}

// deleteBatchSize stays under the 500 mutations Datastore allows per commit.
const deleteBatchSize = 500

// DeleteCollectionOwned deletes the collection and all of its tasks when
// userID owns it. Datastore has no cascade, so the delete runs in three steps:
//  1. a transaction marks the collection as deleting and releases its name;
//     CreateTask reads the collection in its own transaction, so no task can
//     be added once the mark is committed;
//  2. every task of the collection, whoever created it, is removed in batches;
//  3. the collection itself is removed.
//
// A delete that fails after step 1 leaves the collection hidden; calling it
// again resumes the cleanup.
func (c *Client) DeleteCollectionOwned(ctx context.Context, id int64, userID string) (*domain.Collection, error) {
	var deleted collectionEntity
	_, err := c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		if err := tx.Get(collectionKey(id), &deleted); err != nil {
			return WrapDatastoreError(err)
		}
		if deleted.UserID != userID {
			return ErrNotFound
		}
		if deleted.Deleting {
			return nil
		}
		deleted.Deleting = true
		if _, err := tx.Put(collectionKey(id), &deleted); err != nil {
			return err
		}
		return tx.Delete(collectionNameKey(userID, deleted.Name))
	})
	if err != nil {
		return nil, err
	}

	if err := c.deleteCollectionTasks(ctx, id); err != nil {
		return nil, err
	}
	if err := c.ds.Delete(ctx, collectionKey(id)); err != nil {
		return nil, fmt.Errorf("delete collection %d: %w", id, err)
	}

	col := deleted.toDomain(id)
	return &col, nil
}

func (c *Client) deleteCollectionTasks(ctx context.Context, id int64) error {
	for {
		keys, err := c.ds.GetAll(ctx, datastore.NewQuery(KindTask).
			FilterField("collection_id", "=", id).
			KeysOnly().
			Limit(deleteBatchSize), nil)
		if err != nil {
			return fmt.Errorf("list tasks of collection %d: %w", id, err)
		}
		if len(keys) == 0 {
			return nil
		}
		if err := c.ds.DeleteMulti(ctx, keys); err != nil {
			return fmt.Errorf("delete tasks of collection %d: %w", id, err)
		}
	}
}

// ListBoard returns userID's collections with their tasks, both oldest first.
func (c *Client) ListBoard(ctx context.Context, userID string) ([]domain.CollectionWithTasks, error) {
	var collections []collectionEntity
	colKeys, err := c.ds.GetAll(ctx, datastore.NewQuery(KindCollection).
		FilterField("user_id", "=", userID).
		Order("created_at"), &collections)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	var tasks []taskEntity
	taskKeys, err := c.ds.GetAll(ctx, datastore.NewQuery(KindTask).
		FilterField("user_id", "=", userID).
		Order("created_at"), &tasks)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	board := make([]domain.CollectionWithTasks, 0, len(collections))
	index := make(map[int64]int, len(collections))
	for i, e := range collections {
		if e.Deleting {
			continue
		}
		index[colKeys[i].ID] = len(board)
		board = append(board, domain.CollectionWithTasks{Collection: e.toDomain(colKeys[i].ID), Tasks: []domain.Task{}})
	}
	for i, e := range tasks {
		if pos, ok := index[e.CollectionID]; ok {
			board[pos].Tasks = append(board[pos].Tasks, e.toDomain(taskKeys[i].ID))
		}
	}
	return board, nil
}

// CreateTask stores a task after checking, in the same transaction, that its
// collection exists. A missing collection is a persistence error, not ErrNotFound.
func (c *Client) CreateTask(ctx context.Context, userID string, in domain.CreateTaskInput) (*domain.Task, error) {
	key, err := c.allocateID(ctx, KindTask)
	if err != nil {
		return nil, err
	}
	entity := taskEntity{
		UserID:       userID,
		CollectionID: in.CollectionID,
		Content:      in.Content,
		CreatedAt:    time.Now().UTC(),
	}
	if in.ExpiresAt != nil {
		entity.ExpiresAt = in.ExpiresAt.UTC()
	}

	_, err = c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var parent collectionEntity
		getErr := tx.Get(collectionKey(in.CollectionID), &parent)
		if err := parentError(in.CollectionID, getErr, parent); err != nil {
			return err
		}
		_, err := tx.Put(key, &entity)
		return err
	})
	if err != nil {
		return nil, err
	}

	t := entity.toDomain(key.ID)
	return &t, nil
}

// parentError reports why a task cannot be added to collection id. A missing
// or deleting collection wraps datastore.ErrNoSuchEntity; any other lookup
// error is returned wrapped as is.
func parentError(id int64, getErr error, parent collectionEntity) error {
	switch {
	case errors.Is(getErr, datastore.ErrNoSuchEntity):
		return fmt.Errorf("collection %d does not exist: %w", id, getErr)
	case getErr != nil:
		return fmt.Errorf("get collection %d: %w", id, getErr)
	case parent.Deleting:
		return fmt.Errorf("collection %d does not exist: %w", id, datastore.ErrNoSuchEntity)
	}
	return nil
}

// SetTaskDoneOwned marks the task done when userID owns it.
func (c *Client) SetTaskDoneOwned(ctx context.Context, id int64, userID string) (*domain.Task, error) {
	var entity taskEntity
	_, err := c.ds.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		if err := tx.Get(taskKey(id), &entity); err != nil {
			return WrapDatastoreError(err)
		}
		if entity.UserID != userID {
			return ErrNotFound
		}
		if entity.Done {
			return nil
		}
		entity.Done = true
		_, err := tx.Put(taskKey(id), &entity)
		return err
	})
	if err != nil {
		return nil, err
	}

	t := entity.toDomain(id)
	return &t, nil
}
