package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/thumbooks/internal/nav"
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	A     key.Binding
	B     key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev · start"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next · bookmark"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "page back"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "page forward"),
		),
		A: key.NewBinding(
			key.WithKeys("enter", "a", " "),
			key.WithHelp("enter/a", "open · mark"),
		),
		B: key.NewBinding(
			key.WithKeys("esc", "b", "q"),
			key.WithHelp("esc/b", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// buttons translates one key press into the button set for a poll cycle.
func (k keyMap) buttons(msg tea.KeyMsg) nav.Buttons {
	var in nav.Buttons
	if key.Matches(msg, k.Up) {
		in |= nav.Up
	}
	if key.Matches(msg, k.Down) {
		in |= nav.Down
	}
	if key.Matches(msg, k.Left) {
		in |= nav.Left
	}
	if key.Matches(msg, k.Right) {
		in |= nav.Right
	}
	if key.Matches(msg, k.A) {
		in |= nav.A
	}
	if key.Matches(msg, k.B) {
		in |= nav.B
	}
	return in
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.A, k.B, k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.A, k.B, k.Help, k.Quit},
	}
}
