package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/uistate"
)

const navGap = 2

type navItem struct {
	panel uistate.Panel
	label string
}

func (m *DashboardModel) navItems() []navItem {
	notif := "[n] Notifications"
	if n := len(m.events); n > 0 {
		notif = fmt.Sprintf("[n] Notifications (%d)", n)
	}
	return []navItem{
		{panel: uistate.PanelNotification, label: notif},
		{panel: uistate.PanelUserProfile, label: "[p] Profile"},
	}
}

// renderHeader renders the category line with the navbar on the right,
// then the page title.
func (m *DashboardModel) renderHeader(sc *pageScreen, width int) string {
	items := m.navItems()
	parts := make([]string, len(items))
	for i, it := range items {
		style := helpStyle
		if m.ui.IsOpen(it.panel) {
			style = accentStyle
		}
		parts[i] = style.Render(it.label)
	}
	nav := strings.Join(parts, strings.Repeat(" ", navGap))
	category := helpStyle.Render("Page")
	gap := max(1, width-lipgloss.Width(category)-lipgloss.Width(nav))
	top := category + strings.Repeat(" ", gap) + nav

	return lipgloss.JoinVertical(lipgloss.Left, top, titleStyle.Render(sc.page.Title()), "")
}

// navbarItemAt resolves a click on the header line to a navbar panel.
func (m *DashboardModel) navbarItemAt(x int) (uistate.Panel, bool) {
	items := m.navItems()
	total := 0
	for i, it := range items {
		if i > 0 {
			total += navGap
		}
		total += lipgloss.Width(it.label)
	}
	pos := m.contentWidth() - total
	for _, it := range items {
		w := lipgloss.Width(it.label)
		if x >= pos && x < pos+w {
			return it.panel, true
		}
		pos += w + navGap
	}
	return "", false
}

// notificationLines lists recent dashboard events, newest first.
func (m *DashboardModel) notificationLines() []string {
	lines := make([]string, 0, len(m.events))
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		lines = append(lines, helpStyle.Render(e.at.Format("15:04:05"))+"  "+e.text)
	}
	return lines
}

// profileLines describes the session: data source and loaded pages.
func (m *DashboardModel) profileLines() []string {
	lines := []string{
		titleStyle.Render("Administrator"),
		helpStyle.Render("Data source: ") + m.dataSource,
		"",
	}
	for _, sc := range m.screens {
		lines = append(lines, fmt.Sprintf("%-10s %5d %s", sc.page.Title(), sc.page.Total(), sc.page.Noun()))
	}
	return lines
}
