package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// headerHeight covers the category line, the title and a spacer.
const headerHeight = 3

// contentWidth returns the width available for main content, accounting for sidebar.
func (m *DashboardModel) contentWidth() int {
	if m.ui.ActiveMenu() {
		w := m.width - sidebarWidth
		if w < 40 {
			w = 40
		}
		return w
	}
	return m.width
}

func (m *DashboardModel) filterTop() int { return headerHeight }

func (m *DashboardModel) showChart() bool {
	return m.contentWidth() >= chartMinWidth
}

// gridTop is the first rendered line of the grid section.
func (m *DashboardModel) gridTop() int {
	sc := m.screen()
	if sc == nil {
		return headerHeight
	}
	upper := sc.bar.Height()
	if m.showChart() {
		upper = max(upper, sc.chart.Height())
	}
	return headerHeight + upper + 1
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	return m.renderDashboard()
}

func (m *DashboardModel) renderDashboard() string {
	if m.height < 20 || m.width < 60 {
		return "Terminal too small. Resize to at least 60x20."
	}

	contentWidth := m.contentWidth()
	bodyHeight := m.height - 1

	var body string
	switch sc := m.screen(); {
	case sc == nil:
		body = lipgloss.Place(contentWidth, bodyHeight, lipgloss.Center, lipgloss.Center, helpStyle.Render("No pages"))
	case !m.loaded:
		body = renderLoadingPlaceholder(contentWidth, bodyHeight)
	default:
		body = m.renderPage(sc, contentWidth)
	}
	body = lipgloss.NewStyle().Width(contentWidth).Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	content := lipgloss.JoinVertical(lipgloss.Left, body, m.renderStatusLine(contentWidth))
	if m.ui.ActiveMenu() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(m.height-2), content)
	}
	return content
}

func (m *DashboardModel) renderPage(sc *pageScreen, width int) string {
	sections := []string{m.renderHeader(sc, width)}

	filters := sc.bar.View(width, m.activeSection == SectionFilters, sc.summary(), sc.errText())
	if m.showChart() {
		chartWidth := width - lipgloss.Width(filters) - 2
		chartWidth = max(chartWidth, legendWidth+20)
		filters = lipgloss.JoinHorizontal(lipgloss.Top, filters, "  ", sc.chart.Render(chartWidth))
	}
	sections = append(sections, filters, "")

	if sc.searching {
		sections = append(sections, accentStyle.Render("Search: ")+sc.search.View())
	}
	sections = append(sections, sc.grid.View())
	return strings.Join(sections, "\n")
}

// renderLoadingPlaceholder renders a centered loading notice.
func renderLoadingPlaceholder(width, height int) string {
	text := lipgloss.NewStyle().Foreground(ColorGray).Italic(true).Render("Loading records...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, text)
}
