package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard-level key bindings. Grid bindings live in
// the grid package and apply while the grid section is focused.
type KeyMap struct {
	// Global
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	Escape        key.Binding
	ToggleSidebar key.Binding
	ClearFilters  key.Binding
	Notifications key.Binding
	Profile       key.Binding
	JumpPage      key.Binding

	// Navigation
	NextSection key.Binding
	PrevSection key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Enter       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "force quit")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Escape:        key.NewBinding(key.WithKeys("escape", "esc"), key.WithHelp("esc", "close")),
		ToggleSidebar: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle sidebar")),
		ClearFilters:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear filters")),
		Notifications: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notifications")),
		Profile:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		JumpPage:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "go to page")),
		NextSection:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		PrevSection:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev section")),
		Up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev option")),
		Right:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next option")),
		Enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit/select")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.NextSection, k.ClearFilters, k.ToggleSidebar, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextSection, k.PrevSection, k.Up, k.Down, k.Left, k.Right, k.Enter},
		{k.ClearFilters, k.ToggleSidebar, k.JumpPage, k.Notifications, k.Profile},
		{k.Help, k.Escape, k.Quit, k.ForceQuit},
	}
}
