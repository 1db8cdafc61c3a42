package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/locvowork/taskboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu        sync.Mutex
	board     []domain.CollectionWithTasks
	listCalls int
	deleted   []int64
	created   []domain.CreateTaskInput
	colls     []domain.CreateCollectionInput
	done      []int64
	deleteErr error
	createErr error
	deadlines []bool
}

func (f *fakeAPI) ListBoard(context.Context) ([]domain.CollectionWithTasks, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.board, nil
}

func (f *fakeAPI) CreateCollection(_ context.Context, in domain.CreateCollectionInput) (*domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colls = append(f.colls, in)
	return &domain.Collection{ID: 99, Name: in.Name, Color: in.Color}, nil
}

func (f *fakeAPI) DeleteCollection(ctx context.Context, id int64) (*domain.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return &domain.Collection{ID: id}, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, in domain.CreateTaskInput) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &domain.Task{ID: 7, CollectionID: in.CollectionID, Content: in.Content}, nil
}

func (f *fakeAPI) SetTaskDone(_ context.Context, id int64) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, id)
	return &domain.Task{ID: id, Done: true}, nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleBoard() []domain.CollectionWithTasks {
	past := fixedNow.Add(-48 * time.Hour)
	return []domain.CollectionWithTasks{
		{
			Collection: domain.Collection{ID: 1, UserID: "user_a", Name: "Groceries", Color: domain.ColorSunset, CreatedAt: fixedNow},
			Tasks: []domain.Task{
				{ID: 10, CollectionID: 1, Content: "Buy oat milk", Done: true},
				{ID: 11, CollectionID: 1, Content: "Buy sourdough", ExpiresAt: &past},
			},
		},
		{
			Collection: domain.Collection{ID: 2, UserID: "user_a", Name: "Work", Color: domain.ColorMetal, CreatedAt: fixedNow},
		},
	}
}

// newLoadedModel returns a model that has received the first board.
func newLoadedModel(t *testing.T, api *fakeAPI, opts ...Option) *Model {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	m := NewModel(api, opts...)
	msg := m.Init()()
	m.Update(msg)
	require.True(t, m.loaded)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// drain runs cmd, expanding batches, and returns the messages produced
// within a short window. Toast ticks never fire inside it.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}

	out := make(chan tea.Msg, len(batch))
	for _, c := range batch {
		if c == nil {
			continue
		}
		go func(c tea.Cmd) { out <- c() }(c)
	}
	var msgs []tea.Msg
	timeout := time.After(500 * time.Millisecond)
	for {
		select {
		case msg := <-out:
			msgs = append(msgs, msg)
		case <-timeout:
			return msgs
		}
	}
}

func hasBoardReload(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(boardLoadedMsg); ok {
			return true
		}
	}
	return false
}

func TestModel_LoadsBoard(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	assert.Equal(t, 1, api.calls())
	assert.Len(t, m.rows(), 4)

	view := m.View()
	assert.Contains(t, view, "Groceries")
	assert.Contains(t, view, "[x] Buy oat milk")
	assert.Contains(t, view, "[ ] Buy sourdough")
	assert.Contains(t, view, "There are no tasks yet: Create one (n)")
	assert.Contains(t, view, "Created at 3/10/2026")
}

func TestModel_LoadErrorKeepsBoard(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	cmd := press(m, keyRunes("r"))
	require.NotNil(t, cmd)
	m.Update(boardLoadedMsg{err: errors.New("connection refused")})

	assert.Len(t, m.board, 2)
	require.Len(t, m.toasts, 1)
	assert.True(t, m.toasts[0].destructive)
	assert.Equal(t, "Cannot load collections", m.toasts[0].description)
}

func TestModel_ToggleHidesTasks(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.closed[1])
	assert.Len(t, m.rows(), 2)
	assert.NotContains(t, m.View(), "Buy oat milk")

	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.False(t, m.closed[1])
	assert.Contains(t, m.View(), "Buy oat milk")
}

func TestModel_CollapsingMovesCursorToHeader(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	press(m, keyRunes("j"))
	press(m, keyRunes("j"))
	r, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, row{col: 0, task: 1}, r)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, m.cursor)
}

func TestModel_DeleteCollection(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		assert.Nil(t, press(m, keyRunes("d")))
		assert.Equal(t, modeConfirmDelete, m.mode)
		assert.Contains(t, m.View(), "Are you absolutely sure?")
		assert.Contains(t, m.View(), "permanently delete your collection")

		cmd := press(m, keyRunes("y"))
		require.NotNil(t, cmd)
		assert.Equal(t, modeBoard, m.mode)
		assert.True(t, m.deleting[1])
		assert.Contains(t, m.View(), "Deleting...")

		// The card ignores its controls while the delete is in flight.
		assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
		assert.False(t, m.closed[1])
		assert.Nil(t, press(m, keyRunes("n")))
		assert.Nil(t, press(m, keyRunes("d")))
		assert.Equal(t, modeBoard, m.mode)

		msg := cmd()
		require.IsType(t, collectionDeletedMsg{}, msg)
		assert.Equal(t, []int64{1}, api.deleted)

		api.board = sampleBoard()[1:]
		_, next := m.Update(msg)
		assert.False(t, m.deleting[1])
		require.Len(t, m.toasts, 1)
		assert.Equal(t, "Success", m.toasts[0].title)
		assert.Equal(t, "Collection deleted successfully", m.toasts[0].description)

		msgs := drain(next)
		require.True(t, hasBoardReload(msgs))
		for _, msg := range msgs {
			m.Update(msg)
		}
		assert.Len(t, m.board, 1)
		assert.NotContains(t, m.View(), "Deleting...")
	})

	t.Run("Failure", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard(), deleteErr: errors.New("boom")}
		m := newLoadedModel(t, api)

		press(m, keyRunes("d"))
		cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)

		_, next := m.Update(cmd())
		assert.False(t, m.deleting[1])
		require.Len(t, m.toasts, 1)
		assert.True(t, m.toasts[0].destructive)
		assert.Equal(t, "Error", m.toasts[0].title)
		assert.Equal(t, "Cannot delete collection", m.toasts[0].description)

		assert.True(t, hasBoardReload(drain(next)))
		assert.Equal(t, 2, api.calls())
	})

	t.Run("WaitsWithoutDeadline", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		press(m, keyRunes("d"))
		cmd := press(m, keyRunes("y"))
		require.NotNil(t, cmd)
		cmd()
		assert.Equal(t, []bool{false}, api.deadlines)
	})

	t.Run("Cancel", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		press(m, keyRunes("d"))
		assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEsc}))
		assert.Equal(t, modeBoard, m.mode)
		assert.Empty(t, m.deleting)
		assert.Empty(t, api.deleted)
	})
}

func TestModel_CreateTask(t *testing.T) {
	t.Run("RejectsShortContent", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		press(m, keyRunes("n"))
		require.Equal(t, modeCreateTask, m.mode)
		assert.Contains(t, m.View(), "Add task to collection: Groceries")

		m.taskForm.content.SetValue("short")
		assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
		assert.Equal(t, modeCreateTask, m.mode)
		assert.Equal(t, "Task content must be at least 8 characters", m.taskForm.err)
		assert.Empty(t, api.created)
	})

	t.Run("Success", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		press(m, keyRunes("n"))
		m.taskForm.content.SetValue("Buy fresh bread")
		cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}), "second submit is ignored while in flight")

		_, next := m.Update(cmd())
		require.Len(t, api.created, 1)
		assert.Equal(t, int64(1), api.created[0].CollectionID)
		assert.Equal(t, "Buy fresh bread", api.created[0].Content)
		assert.Nil(t, api.created[0].ExpiresAt)

		assert.Equal(t, modeBoard, m.mode)
		require.Len(t, m.toasts, 1)
		assert.Equal(t, "Task created successfully", m.toasts[0].description)
		assert.True(t, hasBoardReload(drain(next)))
	})

	t.Run("WithExpiry", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard()}
		m := newLoadedModel(t, api)

		press(m, keyRunes("n"))
		m.taskForm.content.SetValue("Renew the passport")
		m.taskForm.expires.fields[2].SetValue("25")
		cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		m.Update(cmd())

		require.Len(t, api.created, 1)
		require.NotNil(t, api.created[0].ExpiresAt)
		assert.Equal(t, time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC), *api.created[0].ExpiresAt)
	})

	t.Run("Failure", func(t *testing.T) {
		api := &fakeAPI{board: sampleBoard(), createErr: errors.New("boom")}
		m := newLoadedModel(t, api)

		press(m, keyRunes("n"))
		m.taskForm.content.SetValue("Buy fresh bread")
		cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		m.Update(cmd())

		assert.Equal(t, modeCreateTask, m.mode)
		require.Len(t, m.toasts, 1)
		assert.True(t, m.toasts[0].destructive)
		assert.Equal(t, "Cannot create task", m.toasts[0].description)
		assert.False(t, m.submitting)
	})
}

func TestModel_CreateCollection(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	press(m, keyRunes("c"))
	require.Equal(t, modeCreateCollection, m.mode)

	assert.Nil(t, press(m, tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Collection name is required", m.collForm.err)

	m.collForm.name.SetValue("Reading list")
	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	press(m, tea.KeyMsg{Type: tea.KeyLeft})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())

	require.Len(t, api.colls, 1)
	assert.Equal(t, "Reading list", api.colls[0].Name)
	assert.Equal(t, domain.Colors()[1], api.colls[0].Color)
	assert.Equal(t, modeBoard, m.mode)
}

func TestModel_MarkDone(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	// Header rows and done tasks are no-ops.
	assert.Nil(t, press(m, keyRunes("x")))
	press(m, keyRunes("j"))
	assert.Nil(t, press(m, keyRunes("x")))

	press(m, keyRunes("j"))
	cmd := press(m, keyRunes("x"))
	require.NotNil(t, cmd)
	_, next := m.Update(cmd())
	assert.Equal(t, []int64{11}, api.done)
	require.NotNil(t, next)
	assert.IsType(t, boardLoadedMsg{}, next())
}

func TestModel_CopyTask(t *testing.T) {
	var copied string
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api, WithClipboard(func(s string) error {
		copied = s
		return nil
	}))

	assert.Nil(t, press(m, keyRunes("y")))
	assert.Empty(t, copied)

	press(m, keyRunes("j"))
	press(m, keyRunes("y"))
	assert.Equal(t, "Buy oat milk", copied)
	require.Len(t, m.toasts, 1)
	assert.False(t, m.toasts[0].destructive)

	m2 := newLoadedModel(t, api, WithClipboard(func(string) error { return errors.New("no clipboard") }))
	press(m2, keyRunes("j"))
	press(m2, keyRunes("y"))
	require.Len(t, m2.toasts, 1)
	assert.Equal(t, "Cannot copy task", m2.toasts[0].description)
}

func TestModel_Toasts(t *testing.T) {
	m := NewModel(&fakeAPI{})
	for i := 0; i < maxToasts+2; i++ {
		m.successToast("saved")
	}
	require.Len(t, m.toasts, maxToasts)
	first := m.toasts[0].id

	m.Update(toastExpiredMsg{id: first})
	assert.Len(t, m.toasts, maxToasts-1)
	for _, tt := range m.toasts {
		assert.NotEqual(t, first, tt.id)
	}
}

func TestModel_ExpiredTaskHighlighted(t *testing.T) {
	api := &fakeAPI{board: sampleBoard()}
	m := newLoadedModel(t, api)

	line := m.renderTask(m.board[0].Tasks[1])
	assert.True(t, strings.HasPrefix(line, "[ ] "))
	assert.Contains(t, line, "Sun 8 Mar 2026")
}

func TestDateInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	t.Run("DayRequired", func(t *testing.T) {
		d := newDateInput()
		assert.True(t, d.IsEmpty())
		_, err := d.Value(now)
		assert.EqualError(t, err, "day is required")
	})

	t.Run("DefaultsYearAndMonth", func(t *testing.T) {
		d := newDateInput()
		d.fields[2].SetValue("5")
		got, err := d.Value(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("FullDate", func(t *testing.T) {
		d := newDateInput()
		d.fields[0].SetValue("2027")
		d.fields[1].SetValue("12")
		d.fields[2].SetValue("31")
		got, err := d.Value(now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2027, 12, 31, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		d := newDateInput()
		d.fields[1].SetValue("02")
		d.fields[2].SetValue("30")
		_, err := d.Value(now)
		assert.EqualError(t, err, "invalid date: 2026-02-30")
	})

	t.Run("ArrowsMoveBetweenFields", func(t *testing.T) {
		d := newDateInput()
		d.Focus()
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRight})
		assert.Equal(t, 1, d.focus)
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRight})
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyRight})
		assert.Equal(t, 2, d.focus)
		d, _ = d.Update(tea.KeyMsg{Type: tea.KeyLeft})
		assert.Equal(t, 1, d.focus)
	})
}
