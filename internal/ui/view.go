package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/locvowork/taskboard/internal/domain"
)

func (m *Model) View() string {
	width := ContentWidth(m.width)

	var body string
	switch m.mode {
	case modeConfirmDelete:
		body = m.renderConfirmDelete()
	case modeCreateTask:
		body = m.taskForm.view(m.styles)
	case modeCreateCollection:
		body = m.collForm.view(m.styles)
	default:
		body = m.renderBoard(width)
	}
	if m.mode != modeBoard && m.width > 0 && m.height > 0 {
		body = lipgloss.Place(width, m.height-4, lipgloss.Center, lipgloss.Center, body)
	}

	sections := []string{m.styles.Title.Render("Taskboard"), body}
	if toasts := m.renderToasts(); toasts != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Right, toasts))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderBoard(width int) string {
	if !m.loaded {
		if m.loadErr != nil {
			return m.styles.FieldError.Render("Cannot load collections: " + m.loadErr.Error())
		}
		return m.styles.Muted.Render("Loading...")
	}
	if len(m.board) == 0 {
		return m.styles.Muted.Render("No collections yet. Press c to create one.")
	}

	sel, hasSel := m.selected()
	cards := make([]string, len(m.board))
	for ci, c := range m.board {
		selRow := -2
		if hasSel && sel.col == ci {
			selRow = sel.task
		}
		cards[ci] = m.renderCard(c, selRow, width)
	}
	return strings.Join(cards, "\n\n")
}

// renderCard draws one collection; selRow is the selected task index, -1 for
// the header, or -2 when the selection is on another card.
func (m *Model) renderCard(c domain.CollectionWithTasks, selRow, width int) string {
	open := !m.closed[c.ID]
	deleting := m.deleting[c.ID]

	caret := "▸"
	if open {
		caret = "▾"
	}
	name := c.Name
	if pad := width - 4 - lipgloss.Width(name) - lipgloss.Width(caret); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	header := CardHeader(c.Color, width-2).Render(name + " " + caret)
	lines := []string{cursorMark(selRow == -1) + header}

	if open {
		if len(c.Tasks) == 0 {
			lines = append(lines, "  "+m.styles.Muted.Render("There are no tasks yet: Create one (n)"))
		} else {
			g := c.Color.Gradient()
			bar := progress.New(
				progress.WithGradient(g.From, g.To),
				progress.WithWidth(width-4),
			)
			lines = append(lines, "  "+bar.ViewAs(c.Progress()/100))
			for ti, t := range c.Tasks {
				lines = append(lines, cursorMark(selRow == ti)+m.renderTask(t))
			}
		}
	}

	created := "Created at " + c.CreatedAt.Local().Format("1/2/2006")
	action := "n add · d delete"
	if deleting {
		action = "Deleting..."
	}
	gap := width - 2 - lipgloss.Width(created) - lipgloss.Width(action)
	if gap < 1 {
		gap = 1
	}
	lines = append(lines, "  "+m.styles.Footer.Render(created+strings.Repeat(" ", gap)+action))
	return strings.Join(lines, "\n")
}

func (m *Model) renderTask(t domain.Task) string {
	check := "[ ]"
	style := m.styles.Task
	if t.Done {
		check = "[x]"
		style = m.styles.TaskDone
	}
	line := check + " " + style.Render(t.Content)
	if t.ExpiresAt != nil {
		expiry := t.ExpiresAt.Local().Format("Mon 2 Jan 2006")
		if t.IsExpired(m.now()) {
			line += "  " + m.styles.Expired.Render(expiry)
		} else {
			line += "  " + m.styles.Muted.Render(expiry)
		}
	}
	return line
}

func (m *Model) renderConfirmDelete() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitle.Render("Are you absolutely sure?"),
		"This will permanently delete your collection",
		fmt.Sprintf("%q and all tasks inside it.", m.confirmTarget.Name),
		"",
		m.styles.Muted.Render("y/enter proceed · n/esc cancel"),
	)
	return m.styles.Modal.Render(body)
}

func cursorMark(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}
