package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusLine renders the status/help line at the bottom of the screen.
func (m *DashboardModel) renderStatusLine(width int) string {
	base := lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite)

	var section string
	if sc := m.screen(); sc != nil {
		section = fmt.Sprintf("[%s/%s]", sc.page.Title(), m.activeSection)
	}

	var center string
	switch sc := m.screen(); {
	case sc != nil && sc.searching:
		center = "Type to search rows • Enter: Apply • ESC: Clear"
	case sc != nil && sc.bar.editing:
		center = "Type value • Tab: min/max • Enter/ESC: Done"
	default:
		m.help.Width = max(0, width/2)
		center = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	var right string
	switch {
	case m.lastError != "" && m.now().Sub(m.lastErrorAt) < errorDelay:
		right = base.Foreground(ColorRed).Render("⚠ " + m.lastError)
	case m.flash != "":
		right = base.Foreground(ColorGreen).Render(m.flash)
	}
	dot := base.Foreground(ColorGreen).Render("●")
	if m.loadErr != nil {
		dot = base.Foreground(ColorRed).Render("●")
	}
	source := dot + base.Render(" "+m.dataSource+" ")
	if right != "" {
		right += base.Render("  ")
	}
	right += source

	left := base.Render(section + " ")
	pad := width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if pad < 1 {
		center = ""
		pad = max(1, width-lipgloss.Width(left)-lipgloss.Width(right))
	}
	line := left + center + base.Render(strings.Repeat(" ", pad)) + right
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}
