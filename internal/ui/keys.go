package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	NewTask   key.Binding
	NewColl   key.Binding
	Delete    key.Binding
	Done      key.Binding
	Copy      key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/close")),
		NewTask:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		NewColl:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new collection")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete collection")),
		Done:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark done")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:   key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.NewTask, k.Done, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.NewColl, k.NewTask, k.Done, k.Copy},
		{k.Delete, k.Refresh, k.Help, k.Quit},
	}
}
