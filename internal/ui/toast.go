package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	toastDuration = 4 * time.Second
	maxToasts     = 3
)

// toast is a transient notification; destructive toasts report failures.
type toast struct {
	id          int
	title       string
	description string
	destructive bool
}

type toastExpiredMsg struct {
	id int
}

func (m *Model) pushToast(title, description string, destructive bool) tea.Cmd {
	m.nextToastID++
	id := m.nextToastID
	m.toasts = append(m.toasts, toast{id: id, title: title, description: description, destructive: destructive})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (m *Model) successToast(description string) tea.Cmd {
	return m.pushToast("Success", description, false)
}

func (m *Model) errorToast(description string) tea.Cmd {
	return m.pushToast("Error", description, true)
}

func (m *Model) dropToast(id int) {
	for i, t := range m.toasts {
		if t.id == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

func (m *Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	views := make([]string, len(m.toasts))
	for i, t := range m.toasts {
		style := m.styles.Toast
		if t.destructive {
			style = m.styles.ToastError
		}
		views[i] = style.Render(m.styles.ToastTitle.Render(t.title) + "\n" + t.description)
	}
	return lipgloss.JoinVertical(lipgloss.Right, views...)
}
