package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 22

// buildSidebarLines renders the sidebar content and maps content rows to
// page indexes.
func (m *DashboardModel) buildSidebarLines() ([]string, map[int]int) {
	rowToPage := make(map[int]int)
	lines := make([]string, 0, len(m.screens)+4)

	lines = append(lines, accentStyle.Render("Admin Dashboard"), "", lipgloss.NewStyle().Bold(true).Render("Pages"))

	for i, sc := range m.screens {
		label := fmt.Sprintf("  %d %s", i+1, sc.page.Title())
		if m.active == i {
			label = fmt.Sprintf("> %d %s", i+1, sc.page.Title())
		}
		if len(label) > sidebarWidth-4 {
			label = label[:sidebarWidth-5] + "~"
		}
		rowToPage[len(lines)] = i
		if m.activeSection == SectionSidebar && m.sidebarCursor == i {
			label = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(label)
		}
		lines = append(lines, label)
	}

	return lines, rowToPage
}

func (m *DashboardModel) sidebarPageAtRow(y int) (int, bool) {
	_, rowToPage := m.buildSidebarLines()

	// Bubble Tea mouse row can include border/padding rows depending on renderer.
	for _, offset := range []int{-1, 0, -2, 1} {
		row := y + offset
		if row < 0 {
			continue
		}
		if idx, ok := rowToPage[row]; ok {
			return idx, true
		}
	}
	return 0, false
}

// renderSidebar renders page navigation in the left sidebar.
func (m *DashboardModel) renderSidebar(height int) string {
	style := lipgloss.NewStyle().
		Width(sidebarWidth-2).
		Height(height).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Padding(0, 1)

	if m.activeSection == SectionSidebar {
		style = style.BorderForeground(ColorBlue)
	}

	lines, _ := m.buildSidebarLines()
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
