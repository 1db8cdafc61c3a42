package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/locvowork/taskboard/internal/domain"
)

// API is the subset of the HTTP client the board needs. Requests carry no
// deadline and are never cancelled; the board waits for every result.
type API interface {
	ListBoard(ctx context.Context) ([]domain.CollectionWithTasks, error)
	CreateCollection(ctx context.Context, in domain.CreateCollectionInput) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, id int64) (*domain.Collection, error)
	CreateTask(ctx context.Context, in domain.CreateTaskInput) (*domain.Task, error)
	SetTaskDone(ctx context.Context, id int64) (*domain.Task, error)
}

type boardLoadedMsg struct {
	board []domain.CollectionWithTasks
	err   error
}

type collectionDeletedMsg struct {
	id  int64
	err error
}

type collectionCreatedMsg struct {
	err error
}

type taskCreatedMsg struct {
	err error
}

type taskDoneMsg struct {
	err error
}

func loadBoard(api API) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		board, err := api.ListBoard(ctx)
		return boardLoadedMsg{board: board, err: err}
	}
}

func deleteCollection(api API, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_, err := api.DeleteCollection(ctx, id)
		return collectionDeletedMsg{id: id, err: err}
	}
}

func createCollection(api API, in domain.CreateCollectionInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_, err := api.CreateCollection(ctx, in)
		return collectionCreatedMsg{err: err}
	}
}

func createTask(api API, in domain.CreateTaskInput) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_, err := api.CreateTask(ctx, in)
		return taskCreatedMsg{err: err}
	}
}

func setTaskDone(api API, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		_, err := api.SetTaskDone(ctx, id)
		return taskDoneMsg{err: err}
	}
}
