package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is an overlay on the DashboardModel stack. The top modal gets all
// input and renders over the whole screen.
type Modal interface {
	// ID deduplicates pushes.
	ID() string
	// Update returns pop=true to close the modal.
	Update(msg tea.Msg) (pop bool, cmd tea.Cmd)
	View(width, height int) string
}

var (
	scrollUp   = key.NewBinding(key.WithKeys("up", "k"))
	scrollDown = key.NewBinding(key.WithKeys("down", "j"))
	pageUp     = key.NewBinding(key.WithKeys("pgup"))
	pageDown   = key.NewBinding(key.WithKeys("pgdown"))
)

// modalBox is the outer frame size for a terminal of width x height.
func modalBox(width, height int) (w, h int) {
	return max(20, width-8), max(8, height-4)
}

// frameModal centers body inside the rounded accent border.
func frameModal(body string, width, height int) string {
	w, h := modalBox(width, height)
	framed := lipgloss.NewStyle().
		Width(w).
		Height(h).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, framed)
}

// renderScrollModal lays title, a bordered viewport over content and a
// status hint line into a centered frame.
func renderScrollModal(vp *viewport.Model, title, content, status string, width, height int) string {
	w, h := modalBox(width, height)
	inner, rows := w-4, h-4

	vp.Width, vp.Height = inner, rows
	vp.SetContent(lipgloss.NewStyle().Width(inner).Render(content))

	pane := lipgloss.NewStyle().
		Width(inner).
		Height(rows).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(vp.View())

	body := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Width(inner).Render(title),
		pane,
		helpStyle.Render(status),
	)
	return frameModal(body, width, height)
}

// scrollViewport moves vp on scroll keys and wheel events and reports
// whether one of closeKeys was pressed.
func scrollViewport(vp *viewport.Model, msg tea.Msg, reverseWheel bool, closeKeys ...string) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if slices.Contains(closeKeys, msg.String()) {
			return true, nil
		}
		switch {
		case key.Matches(msg, scrollUp):
			vp.ScrollUp(1)
		case key.Matches(msg, scrollDown):
			vp.ScrollDown(1)
		case key.Matches(msg, pageUp):
			vp.HalfPageUp()
		case key.Matches(msg, pageDown):
			vp.HalfPageDown()
		default:
			var cmd tea.Cmd
			*vp, cmd = vp.Update(msg)
			return false, cmd
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		step := 0
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			step = -1
		case tea.MouseButtonWheelDown:
			step = 1
		}
		if reverseWheel {
			step = -step
		}
		if step < 0 {
			vp.ScrollUp(1)
		} else if step > 0 {
			vp.ScrollDown(1)
		}
	}
	return false, nil
}

// joinStatus formats modal status hints.
func joinStatus(items ...string) string {
	return strings.Join(items, " | ")
}
