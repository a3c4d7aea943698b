package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	BackTab  key.Binding
	Enter    key.Binding
	Category key.Binding
	Deadline key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next pane")),
	BackTab:  key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "previous pane")),
	Enter:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "details")),
	Category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category filter")),
	Deadline: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "deadline filter")),
	Clear:    key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear filters")),
	Refresh:  key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh")),
	Dismiss:  key.NewBinding(key.WithKeys("esc", "d"), key.WithHelp("esc", "close alert")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// helpBindings lists the bindings shown on the help screen
func helpBindings() []key.Binding {
	return []key.Binding{
		keys.Up, keys.Down, keys.Tab, keys.BackTab, keys.Enter,
		keys.Category, keys.Deadline, keys.Clear,
		keys.Refresh, keys.Dismiss, keys.Help, keys.Quit,
	}
}
