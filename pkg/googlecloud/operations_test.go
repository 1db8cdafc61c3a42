package googlecloud_test

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/locvowork/taskboard/internal/domain"
	"github.com/locvowork/taskboard/pkg/googlecloud"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEmulatorClient connects to the Datastore emulator, skipping the test when
// DATASTORE_EMULATOR_HOST is unset.
func newEmulatorClient(t *testing.T) *googlecloud.Client {
	if os.Getenv("DATASTORE_EMULATOR_HOST") == "" {
		t.Skip("DATASTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	c, err := googlecloud.NewClient(ctx, "taskboard-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDatastoreRepositories(t *testing.T) {
	c := newEmulatorClient(t)
	ctx := context.Background()
	collections := c.CollectionRepository()
	tasks := c.TaskRepository()
	userA := "user_a_" + strconv.FormatInt(time.Now().UnixNano(), 36)
	userB := "user_b_" + strconv.FormatInt(time.Now().UnixNano(), 36)

	col, err := collections.Create(ctx, userA, domain.CreateCollectionInput{Name: "Trip", Color: domain.ColorFirtree})
	require.NoError(t, err)
	assert.Equal(t, userA, col.UserID)

	_, err = collections.Create(ctx, userA, domain.CreateCollectionInput{Name: "Trip", Color: domain.ColorMetal})
	assert.True(t, errors.Is(err, googlecloud.ErrAlreadyExists))

	task, err := tasks.Create(ctx, userA, domain.CreateTaskInput{CollectionID: col.ID, Content: "Book the flights"})
	require.NoError(t, err)
	assert.False(t, task.Done)

	_, err = tasks.Create(ctx, userA, domain.CreateTaskInput{CollectionID: col.ID + 1_000_000, Content: "Orphaned task"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	_, err = tasks.SetDoneOwned(ctx, task.ID, userB)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for i := 0; i < 2; i++ {
		done, err := tasks.SetDoneOwned(ctx, task.ID, userA)
		require.NoError(t, err)
		assert.True(t, done.Done)
	}

	_, err = collections.DeleteOwned(ctx, col.ID, userB)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := collections.DeleteOwned(ctx, col.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, "Trip", deleted.Name)

	_, err = tasks.SetDoneOwned(ctx, task.ID, userA)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	board, err := collections.ListWithTasks(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestDatastoreDeleteCascade(t *testing.T) {
	c := newEmulatorClient(t)
	ctx := context.Background()
	collections := c.CollectionRepository()
	tasks := c.TaskRepository()
	suffix := strconv.FormatInt(time.Now().UnixNano(), 36)
	owner, other := "owner_"+suffix, "other_"+suffix

	t.Run("RemovesTasksOfOtherUsers", func(t *testing.T) {
		col, err := collections.Create(ctx, owner, domain.CreateCollectionInput{Name: "Shared", Color: domain.ColorCandy})
		require.NoError(t, err)
		foreign, err := tasks.Create(ctx, other, domain.CreateTaskInput{CollectionID: col.ID, Content: "Added by someone else"})
		require.NoError(t, err)

		_, err = collections.DeleteOwned(ctx, col.ID, owner)
		require.NoError(t, err)

		_, err = tasks.SetDoneOwned(ctx, foreign.ID, other)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("MoreTasksThanOneCommit", func(t *testing.T) {
		col, err := collections.Create(ctx, owner, domain.CreateCollectionInput{Name: "Backlog", Color: domain.ColorMetal})
		require.NoError(t, err)
		var last *domain.Task
		for i := 0; i < 510; i++ {
			last, err = tasks.Create(ctx, owner, domain.CreateTaskInput{CollectionID: col.ID, Content: "Backlog item " + strconv.Itoa(i)})
			require.NoError(t, err)
		}

		_, err = collections.DeleteOwned(ctx, col.ID, owner)
		require.NoError(t, err)

		_, err = tasks.SetDoneOwned(ctx, last.ID, owner)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		// The name is free again.
		_, err = collections.Create(ctx, owner, domain.CreateCollectionInput{Name: "Backlog", Color: domain.ColorMetal})
		assert.NoError(t, err)
	})

	t.Run("NoTaskAfterDelete", func(t *testing.T) {
		col, err := collections.Create(ctx, owner, domain.CreateCollectionInput{Name: "Gone", Color: domain.ColorPoppy})
		require.NoError(t, err)
		_, err = collections.DeleteOwned(ctx, col.ID, owner)
		require.NoError(t, err)

		_, err = tasks.Create(ctx, owner, domain.CreateTaskInput{CollectionID: col.ID, Content: "Too late for this"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}
