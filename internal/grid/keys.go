package grid

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the grid key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PrevColumn  key.Binding
	NextColumn  key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	FirstPage   key.Binding
	LastPage    key.Binding
	Sort        key.Binding
	Select      key.Binding
	Delete      key.Binding
	Search      key.Binding
	ExcelExport key.Binding
	CsvExport   key.Binding
	PdfExport   key.Binding
	Edit        key.Binding
	Copy        key.Binding
	Menu        key.Binding
	Open        key.Binding
}

// DefaultKeyMap returns the default grid bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "row up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "row down"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev column"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next column"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "["),
			key.WithHelp("pgup/[", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", "]"),
			key.WithHelp("pgdn/]", "next page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last page"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search grid"),
		),
		ExcelExport: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "excel export"),
		),
		CsvExport: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "csv export"),
		),
		PdfExport: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "pdf export"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit cell"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy row"),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "context menu"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "row details"),
		),
	}
}
