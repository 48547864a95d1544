package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/uistate"
)

// Button is the clickable control shared by every page and panel.
//
// Click runs OnClick when set, else CustomClick when set, else closes every
// navbar panel by resetting the shared click state.
type Button struct {
	Label       string
	Color       lipgloss.Color
	BgColor     lipgloss.Color
	OnClick     func() tea.Cmd
	CustomClick func() tea.Cmd

	ui *uistate.Store
}

// NewButton returns a handler-less button bound to the shared UI state.
func NewButton(ui *uistate.Store, label string) Button {
	return Button{Label: label, Color: ColorWhite, BgColor: ColorBlue, ui: ui}
}

func (b Button) Click() tea.Cmd {
	switch {
	case b.OnClick != nil:
		return b.OnClick()
	case b.CustomClick != nil:
		return b.CustomClick()
	}
	if b.ui != nil {
		b.ui.ResetClicked()
	}
	return nil
}

// View renders the button, inverted when focused.
func (b Button) View(focused bool) string {
	style := lipgloss.NewStyle().Padding(0, 1).Foreground(b.Color).Background(b.BgColor)
	if focused {
		style = style.Bold(true).Underline(true)
	}
	return style.Render(b.Label)
}

// Width is the rendered width of the button.
func (b Button) Width() int {
	return lipgloss.Width(b.View(false))
}
