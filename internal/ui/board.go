// Package ui is the terminal board: collapsible collection cards with
// progress, task actions and modal forms, backed by the HTTP API.
package ui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/locvowork/taskboard/internal/domain"
)

type mode int

const (
	modeBoard mode = iota
	modeConfirmDelete
	modeCreateTask
	modeCreateCollection
)

// row addresses one selectable line: a card header (task == -1) or a task.
type row struct {
	col  int
	task int
}

type Model struct {
	api    API
	keys   KeyMap
	help   help.Model
	styles Styles

	board   []domain.CollectionWithTasks
	loaded  bool
	loadErr error
	cursor  int

	// Per-card transient state, keyed by collection id.
	closed   map[int64]bool
	deleting map[int64]bool

	mode          mode
	confirmTarget domain.Collection
	taskForm      taskForm
	collForm      collectionForm
	submitting    bool

	toasts      []toast
	nextToastID int

	width  int
	height int

	now           func() time.Time
	copyClipboard func(string) error
}

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) { m.copyClipboard = write }
}

// WithClock replaces time.Now for expiry highlighting and date defaults.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(api API, opts ...Option) *Model {
	m := &Model{
		api:           api,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		styles:        NewStyles(TokyoNight),
		closed:        map[int64]bool{},
		deleting:      map[int64]bool{},
		taskForm:      newTaskForm(),
		collForm:      newCollectionForm(),
		now:           time.Now,
		copyClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return loadBoard(m.api)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = ContentWidth(msg.Width)
		return m, nil

	case boardLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, m.errorToast("Cannot load collections")
		}
		m.board = msg.board
		m.loaded = true
		m.loadErr = nil
		m.clampCursor()
		return m, nil

	case collectionDeletedMsg:
		delete(m.deleting, msg.id)
		var toastCmd tea.Cmd
		if msg.err != nil {
			toastCmd = m.errorToast("Cannot delete collection")
		} else {
			toastCmd = m.successToast("Collection deleted successfully")
		}
		return m, tea.Batch(toastCmd, loadBoard(m.api))

	case collectionCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, m.errorToast("Cannot create collection")
		}
		m.mode = modeBoard
		return m, tea.Batch(m.successToast("Collection created successfully"), loadBoard(m.api))

	case taskCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			return m, m.errorToast("Cannot create task")
		}
		m.mode = modeBoard
		return m, tea.Batch(m.successToast("Task created successfully"), loadBoard(m.api))

	case taskDoneMsg:
		if msg.err != nil {
			return m, tea.Batch(m.errorToast("Cannot update task"), loadBoard(m.api))
		}
		return m, loadBoard(m.api)

	case toastExpiredMsg:
		m.dropToast(msg.id)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeCreateTask:
			return m.updateTaskForm(msg)
		case modeCreateCollection:
			return m.updateCollectionForm(msg)
		}
		return m.updateBoard(msg)
	}

	// Cursor blink and other input messages go to the open form.
	var cmd tea.Cmd
	switch m.mode {
	case modeCreateTask:
		m.taskForm, cmd = m.taskForm.update(msg, m.keys)
	case modeCreateCollection:
		m.collForm, cmd = m.collForm.update(msg, m.keys)
	}
	return m, cmd
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, loadBoard(m.api)
	case key.Matches(msg, m.keys.NewColl):
		m.mode = modeCreateCollection
		return m, m.collForm.open()
	}

	r, ok := m.selected()
	if !ok {
		return m, nil
	}
	col := m.board[r.col]
	// A card whose delete is in flight ignores its controls.
	if m.deleting[col.ID] {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.closed[col.ID] = !m.closed[col.ID]
		if m.closed[col.ID] {
			m.cursor = m.headerRow(r.col)
		}
		return m, nil
	case key.Matches(msg, m.keys.NewTask):
		m.mode = modeCreateTask
		return m, m.taskForm.open(col.Collection)
	case key.Matches(msg, m.keys.Delete):
		m.mode = modeConfirmDelete
		m.confirmTarget = col.Collection
		return m, nil
	case key.Matches(msg, m.keys.Done):
		if r.task < 0 || col.Tasks[r.task].Done {
			return m, nil
		}
		return m, setTaskDone(m.api, col.Tasks[r.task].ID)
	case key.Matches(msg, m.keys.Copy):
		if r.task < 0 {
			return m, nil
		}
		if err := m.copyClipboard(col.Tasks[r.task].Content); err != nil {
			return m, m.errorToast("Cannot copy task")
		}
		return m, m.successToast("Task copied to clipboard")
	}
	return m, nil
}

func (m *Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.confirmTarget.ID
		m.mode = modeBoard
		m.deleting[id] = true
		return m, deleteCollection(m.api, id)
	case "n", "N", "esc":
		m.mode = modeBoard
	}
	return m, nil
}

func (m *Model) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBoard
		m.submitting = false
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.submitting {
			return m, nil
		}
		in, err := m.taskForm.input(m.now())
		if err != nil {
			m.taskForm.err = err.Error()
			return m, nil
		}
		m.taskForm.err = ""
		m.submitting = true
		return m, createTask(m.api, in)
	}

	var cmd tea.Cmd
	m.taskForm, cmd = m.taskForm.update(msg, m.keys)
	return m, cmd
}

func (m *Model) updateCollectionForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBoard
		m.submitting = false
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.submitting {
			return m, nil
		}
		in, err := m.collForm.input()
		if err != nil {
			m.collForm.err = err.Error()
			return m, nil
		}
		m.collForm.err = ""
		m.submitting = true
		return m, createCollection(m.api, in)
	}

	var cmd tea.Cmd
	m.collForm, cmd = m.collForm.update(msg, m.keys)
	return m, cmd
}

// rows lists the selectable lines: every header, plus the tasks of open cards.
func (m *Model) rows() []row {
	var rows []row
	for ci, c := range m.board {
		rows = append(rows, row{col: ci, task: -1})
		if m.closed[c.ID] {
			continue
		}
		for ti := range c.Tasks {
			rows = append(rows, row{col: ci, task: ti})
		}
	}
	return rows
}

func (m *Model) selected() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) headerRow(col int) int {
	for i, r := range m.rows() {
		if r.col == col && r.task < 0 {
			return i
		}
	}
	return 0
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
