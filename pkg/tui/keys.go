package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Prev         key.Binding
	Next         key.Binding
	Tab          key.Binding
	Space        key.Binding
	Add          key.Binding
	Plan         key.Binding
	Breakdown    key.Binding
	Review       key.Binding
	Delete       key.Binding
	ProgressUp   key.Binding
	ProgressDown key.Binding
	Advice       key.Binding
	Reload       key.Binding
	Sync         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("[", "left", "h"),
			key.WithHelp("[", "prev horizon / month"),
		),
		Next: key.NewBinding(
			key.WithKeys("]", "right", "l"),
			key.WithHelp("]", "next horizon / month"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch view"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "cycle status"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add goal"),
		),
		Plan: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "plan from vision"),
		),
		Breakdown: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "break down"),
		),
		Review: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "add review"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ProgressUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "progress +10"),
		),
		ProgressDown: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "progress -10"),
		),
		Advice: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "coach insight"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "git sync"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  [] horizon  tab view  space status  a add  P plan  b breakdown  r review  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"[ / ]", "Previous / next horizon (calendar: month)"},
		{"tab", "Switch view (planner / dashboard / calendar)"},
		{"space", "Cycle status"},
		{"+ / -", "Adjust progress by 10%"},
		{"a", "Add goal (AI-refined when a key is set)"},
		{"P", "Generate a strategic plan from a vision"},
		{"b", "Break down into next-horizon sub-goals"},
		{"r", "Add a review note"},
		{"d", "Delete goal (with confirmation)"},
		{"i", "Ask the coach for advice"},
		{"R", "Reload from disk"},
		{"s", "Git sync"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
