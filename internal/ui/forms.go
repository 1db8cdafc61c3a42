package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/locvowork/taskboard/internal/domain"
)

// taskForm is the create-task modal of one collection.
type taskForm struct {
	collection domain.Collection
	content    textinput.Model
	expires    dateInput
	focus      int // 0=content, 1=expiry
	err        string
}

func newTaskForm() taskForm {
	content := textinput.New()
	content.Placeholder = "Task content"
	content.CharLimit = 500
	content.Width = 50
	return taskForm{content: content, expires: newDateInput()}
}

func (f *taskForm) open(c domain.Collection) tea.Cmd {
	f.collection = c
	f.content.Reset()
	f.expires.Reset()
	f.expires.Blur()
	f.focus = 0
	f.err = ""
	return f.content.Focus()
}

// input validates the form the same way the server does before anything is sent.
func (f *taskForm) input(now time.Time) (domain.CreateTaskInput, error) {
	content := strings.TrimSpace(f.content.Value())
	if utf8.RuneCountInString(content) < domain.MinTaskContentLength {
		return domain.CreateTaskInput{}, fmt.Errorf("Task content must be at least %d characters", domain.MinTaskContentLength)
	}

	in := domain.CreateTaskInput{CollectionID: f.collection.ID, Content: content}
	if !f.expires.IsEmpty() {
		at, err := f.expires.Value(now)
		if err != nil {
			return domain.CreateTaskInput{}, err
		}
		in.ExpiresAt = &at
	}
	return in, nil
}

func (f taskForm) update(msg tea.Msg, keys KeyMap) (taskForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.NextField), key.Matches(km, keys.PrevField):
			if f.focus == 0 {
				f.focus = 1
				f.content.Blur()
				return f, f.expires.Focus()
			}
			f.focus = 0
			f.expires.Blur()
			return f, f.content.Focus()
		}
	}

	var cmd tea.Cmd
	if f.focus == 0 {
		f.content, cmd = f.content.Update(msg)
	} else {
		f.expires, cmd = f.expires.Update(msg)
	}
	return f, cmd
}

func (f taskForm) view(s Styles) string {
	contentStyle, dateStyle := s.InputFocused, s.Input
	if f.focus == 1 {
		contentStyle, dateStyle = s.Input, s.InputFocused
	}

	rows := []string{
		s.ModalTitle.Render("Add task to collection: " + f.collection.Name),
		"Content",
		contentStyle.Render(f.content.View()),
		"Expires at (optional)",
		dateStyle.Render(f.expires.View()),
	}
	if f.err != "" {
		rows = append(rows, s.FieldError.Render(f.err))
	}
	rows = append(rows, s.Muted.Render("tab switch field · enter save · esc cancel"))
	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// collectionForm is the create-collection modal with a palette picker.
type collectionForm struct {
	name   textinput.Model
	colors []domain.CollectionColor
	color  int
	focus  int // 0=name, 1=color
	err    string
}

func newCollectionForm() collectionForm {
	name := textinput.New()
	name.Placeholder = "Collection name"
	name.CharLimit = 100
	name.Width = 40
	return collectionForm{name: name, colors: domain.Colors()}
}

func (f *collectionForm) open() tea.Cmd {
	f.name.Reset()
	f.color = 0
	f.focus = 0
	f.err = ""
	return f.name.Focus()
}

func (f *collectionForm) input() (domain.CreateCollectionInput, error) {
	name := strings.TrimSpace(f.name.Value())
	if name == "" {
		return domain.CreateCollectionInput{}, errors.New("Collection name is required")
	}
	return domain.CreateCollectionInput{Name: name, Color: f.colors[f.color]}, nil
}

func (f collectionForm) update(msg tea.Msg, keys KeyMap) (collectionForm, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.NextField), key.Matches(km, keys.PrevField):
			if f.focus == 0 {
				f.focus = 1
				f.name.Blur()
				return f, nil
			}
			f.focus = 0
			return f, f.name.Focus()
		}
		if f.focus == 1 {
			switch km.String() {
			case "right", "l":
				f.color = (f.color + 1) % len(f.colors)
			case "left", "h":
				f.color = (f.color + len(f.colors) - 1) % len(f.colors)
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.name, cmd = f.name.Update(msg)
	return f, cmd
}

func (f collectionForm) view(s Styles) string {
	nameStyle, colorStyle := s.InputFocused, s.Input
	if f.focus == 1 {
		nameStyle, colorStyle = s.Input, s.InputFocused
	}

	c := f.colors[f.color]
	rows := []string{
		s.ModalTitle.Render("Create collection"),
		"Name",
		nameStyle.Render(f.name.View()),
		"Color",
		colorStyle.Render("◀ " + Swatch(c) + " " + string(c) + " ▶"),
	}
	if f.err != "" {
		rows = append(rows, s.FieldError.Render(f.err))
	}
	rows = append(rows, s.Muted.Render("tab switch field · ←/→ color · enter save · esc cancel"))
	return s.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
