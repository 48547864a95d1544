package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/admindash/internal/uistate"
)

// handleKeyPress dispatches key events: modal stack first, then inline
// editing (filter inputs, grid search), then dashboard shortcuts, then
// the focused section.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	if sc := m.screen(); sc != nil {
		if sc.searching {
			return m, m.handleSearchInput(sc, msg)
		}
		if sc.bar.editing {
			return m, m.handleFilterInput(sc, msg)
		}
	}

	if handled, cmd := m.handleGlobalKeys(msg); handled {
		return m, cmd
	}

	switch m.activeSection {
	case SectionSidebar:
		return m, m.handleSidebarKeys(msg)
	case SectionFilters:
		return m, m.handleFilterKeys(msg)
	default:
		sc := m.screen()
		if sc == nil {
			return m, nil
		}
		var cmd tea.Cmd
		sc.grid, cmd = sc.grid.Update(msg)
		return m, cmd
	}
}

// handleGlobalKeys handles dashboard-level shortcuts.
func (m *DashboardModel) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return true, tea.Quit

	case key.Matches(msg, k.Help):
		m.PushModal(newHelpModal(m.keys, m.reverseScrollWheel))
		return true, nil

	case key.Matches(msg, k.ClearFilters):
		return true, m.resetFilters()

	case key.Matches(msg, k.ToggleSidebar):
		open := m.ui.ToggleMenu()
		if !open && m.activeSection == SectionSidebar {
			m.focusSection(SectionGrid)
		}
		m.layoutGrids()
		return true, nil

	case key.Matches(msg, k.Notifications):
		m.ui.HandleClick(uistate.PanelNotification)
		m.openPanel(uistate.PanelNotification)
		return true, nil

	case key.Matches(msg, k.Profile):
		m.ui.HandleClick(uistate.PanelUserProfile)
		m.openPanel(uistate.PanelUserProfile)
		return true, nil

	case key.Matches(msg, k.JumpPage):
		if n, err := strconv.Atoi(msg.String()); err == nil {
			m.activatePage(n - 1)
		}
		return true, nil

	case key.Matches(msg, k.NextSection):
		m.cycleSection(1)
		return true, nil

	case key.Matches(msg, k.PrevSection):
		m.cycleSection(-1)
		return true, nil
	}
	return false, nil
}

func (m *DashboardModel) cycleSection(delta int) {
	sections := []Section{SectionFilters, SectionGrid}
	if m.ui.ActiveMenu() {
		sections = []Section{SectionSidebar, SectionFilters, SectionGrid}
	}
	idx := 0
	for i, s := range sections {
		if s == m.activeSection {
			idx = i
		}
	}
	n := len(sections)
	m.focusSection(sections[((idx+delta)%n+n)%n])
}

func (m *DashboardModel) handleSidebarKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.sidebarCursor = max(0, m.sidebarCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.sidebarCursor = min(len(m.screens)-1, m.sidebarCursor+1)
	case key.Matches(msg, m.keys.Enter):
		m.activatePage(m.sidebarCursor)
	}
	return nil
}

func (m *DashboardModel) handleFilterKeys(msg tea.KeyMsg) tea.Cmd {
	sc := m.screen()
	if sc == nil {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		sc.bar.move(-1)
	case key.Matches(msg, m.keys.Down):
		sc.bar.move(1)
	case key.Matches(msg, m.keys.Left):
		if sc.bar.cycle(-1) {
			sc.apply()
		}
	case key.Matches(msg, m.keys.Right):
		if sc.bar.cycle(1) {
			sc.apply()
		}
	case key.Matches(msg, m.keys.Enter):
		if sc.bar.onButton() {
			return sc.bar.clear.Click()
		}
		return sc.bar.startEdit()
	case key.Matches(msg, m.keys.Escape):
		m.focusSection(SectionGrid)
	}
	return nil
}

// handleFilterInput feeds keys to the filter input being edited. Every
// change re-filters the page.
func (m *DashboardModel) handleFilterInput(sc *pageScreen, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "escape", "enter":
		sc.bar.stopEdit()
		return nil
	case "tab":
		return sc.bar.switchBound()
	case "ctrl+r":
		return m.resetFilters()
	}
	changed, cmd := sc.bar.updateInput(msg)
	if changed {
		sc.apply()
	}
	return cmd
}

// handleSearchInput edits the grid row search; the grid narrows as the
// term is typed and esc clears it.
func (m *DashboardModel) handleSearchInput(sc *pageScreen, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		sc.closeSearch(true)
		return nil
	case "esc", "escape":
		sc.search.SetValue("")
		sc.closeSearch(true)
		return nil
	}
	var cmd tea.Cmd
	sc.search, cmd = sc.search.Update(msg)
	sc.grid.SetSearch(sc.search.Value())
	return cmd
}

// openPanel pushes the navbar panel the click state has open.
func (m *DashboardModel) openPanel(p uistate.Panel) {
	if !m.ui.IsOpen(p) {
		return
	}
	switch p {
	case uistate.PanelNotification:
		m.PushModal(newPanelModal(m.ui, p, "Notifications", m.notificationLines))
	case uistate.PanelUserProfile:
		m.PushModal(newPanelModal(m.ui, p, "User Profile", m.profileLines))
	}
}

// handleMouseEvent processes mouse interactions.
func (m *DashboardModel) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	sc := m.screen()

	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if sc == nil {
			return m, nil
		}
		delta := 1
		if msg.Button == tea.MouseButtonWheelUp {
			delta = -1
		}
		if m.reverseScrollWheel {
			delta = -delta
		}
		sc.grid.MoveCursor(delta)
		return m, nil

	case tea.MouseButtonLeft:
		return m, m.handleMouseClick(msg.X, msg.Y)
	}
	return m, nil
}

// handleMouseClick maps a click to the sidebar, the navbar, a filter
// control or the grid.
func (m *DashboardModel) handleMouseClick(x, y int) tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}

	if m.ui.ActiveMenu() {
		if x < sidebarWidth {
			m.focusSection(SectionSidebar)
			if idx, ok := m.sidebarPageAtRow(y); ok {
				m.activatePage(idx)
			}
			return nil
		}
		x -= sidebarWidth
	}

	if y == 0 {
		if p, ok := m.navbarItemAt(x); ok {
			m.ui.HandleClick(p)
			m.openPanel(p)
		}
		return nil
	}

	sc := m.screen()
	if sc == nil {
		return nil
	}
	top := m.filterTop()
	if y >= top && y < top+sc.bar.Height() {
		m.focusSection(SectionFilters)
		sc.bar.focusRow(y - top)
		if sc.bar.onButton() {
			return sc.bar.clear.Click()
		}
		return nil
	}
	if y >= m.gridTop() {
		m.focusSection(SectionGrid)
	}
	return nil
}
