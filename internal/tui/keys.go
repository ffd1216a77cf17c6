package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Tab     key.Binding
	Enter   key.Binding
	Escape  key.Binding
	Refresh key.Binding
	Week    key.Binding
	Month   key.Binding
	All     key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "project stats"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Week: key.NewBinding(
		key.WithKeys("7"),
		key.WithHelp("7", "7 days"),
	),
	Month: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "30 days"),
	),
	All: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "all time"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Tab, k.Refresh, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Tab, k.Escape},
		{k.Week, k.Month, k.All},
		{k.Refresh, k.Quit},
	}
}

// statsHelp is the binding set shown on the stats view.
type statsHelp struct{ keyMap }

func (k statsHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Week, k.Month, k.All, k.Refresh, k.Escape, k.Quit}
}
