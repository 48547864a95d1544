package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/uistate"
)

// --- help ---

type helpModal struct {
	viewport     viewport.Model
	content      string
	reverseWheel bool
}

func newHelpModal(keys KeyMap, reverseWheel bool) *helpModal {
	h := help.New()
	h.ShowAll = true
	var b strings.Builder
	b.WriteString("Admin Dashboard Help\n\n")
	b.WriteString("DASHBOARD:\n")
	b.WriteString(h.FullHelpView(keys.FullHelp()))
	b.WriteString(`

FILTERS (tab to the filter section):
  up/down        - Move between filters and the Clear Filters button
  left/right     - Cycle a dropdown, or pick the min/max box of a range
  enter          - Edit a search or range box; enter/esc stops editing
  tab            - While editing a range, switch between min and max
  enter          - On Clear Filters, reset every filter

GRID (tab to the grid section):
  up/down        - Move the row cursor (crosses pages)
  left/right     - Move the column cursor
  [ / ]          - Previous/next grid page; g/G first/last page
  s              - Sort by the column under the cursor (asc, desc, none)
  space          - Select/deselect the row
  d              - Delete selected rows (or the row under the cursor)
  /              - Search rows (pages with a Search toolbar)
  x / X / P      - Export to Excel / CSV / PDF (pages with export enabled)
  e              - Edit the cell under the cursor (pages that allow editing)
  y              - Copy the row to the clipboard
  m              - Open the context menu
  enter          - Show row details

Range filters take plain numbers. Budgets are in thousands: a max of 60
keeps customers with a budget up to $60k. A bound that is not a number is
rejected and the grid keeps showing the last valid result.
`)
	return &helpModal{viewport: viewport.New(80, 20), content: b.String(), reverseWheel: reverseWheel}
}

func (m *helpModal) ID() string { return "help" }

func (m *helpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return scrollViewport(&m.viewport, msg, m.reverseWheel, "?", "esc", "escape", "q")
}

func (m *helpModal) View(width, height int) string {
	return renderScrollModal(&m.viewport, "Help", m.content,
		joinStatus("up/down/Wheel: Scroll", "PgUp/PgDn: Page", "ESC: Close"), width, height)
}

// --- navbar panels ---

// panelModal shows one navbar panel while the shared click state has it
// open. Its close button has no handler, so clicking it resets the click
// state and the modal pops itself.
type panelModal struct {
	ui      *uistate.Store
	panel   uistate.Panel
	title   string
	content func() []string
	close   Button
}

func newPanelModal(ui *uistate.Store, p uistate.Panel, title string, content func() []string) *panelModal {
	return &panelModal{ui: ui, panel: p, title: title, content: content, close: NewButton(ui, "Close")}
}

func (m *panelModal) ID() string { return "panel" }

func (m *panelModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "escape", "enter", "c":
			cmd := m.close.Click()
			return !m.ui.IsOpen(m.panel), cmd
		case "n":
			return m.switchTo(uistate.PanelNotification)
		case "p":
			return m.switchTo(uistate.PanelUserProfile)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			cmd := m.close.Click()
			return !m.ui.IsOpen(m.panel), cmd
		}
	}
	return !m.ui.IsOpen(m.panel), nil
}

func (m *panelModal) switchTo(p uistate.Panel) (bool, tea.Cmd) {
	if p == m.panel {
		return false, nil
	}
	m.ui.HandleClick(p)
	return true, func() tea.Msg { return openPanelMsg{panel: p} }
}

func (m *panelModal) View(width, height int) string {
	lines := m.content()
	if len(lines) == 0 {
		lines = []string{helpStyle.Render("Nothing here yet")}
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render(m.title),
		"",
		strings.Join(lines, "\n"),
		"",
		m.close.View(true),
	)
	box := lipgloss.NewStyle().
		Width(min(48, width-4)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 1).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Top, box)
}

// openPanelMsg asks the dashboard to show a navbar panel.
type openPanelMsg struct{ panel uistate.Panel }

// --- context menu ---

type contextMenuModal struct {
	items  []grid.ContextMenuItem
	cursor int
}

// contextMenuChoiceMsg carries the chosen context menu item back to the
// dashboard, which applies it to the active grid.
type contextMenuChoiceMsg struct{ item grid.ContextMenuItem }

func newContextMenuModal(items []grid.ContextMenuItem) *contextMenuModal {
	return &contextMenuModal{items: items}
}

func (m *contextMenuModal) ID() string { return "contextmenu" }

func (m *contextMenuModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch km.String() {
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.items)-1, m.cursor+1)
	case "enter":
		if len(m.items) == 0 {
			return true, nil
		}
		item := m.items[m.cursor]
		return true, func() tea.Msg { return contextMenuChoiceMsg{item: item} }
	case "esc", "escape", "m", "q":
		return true, nil
	}
	return false, nil
}

func (m *contextMenuModal) View(width, height int) string {
	lines := make([]string, len(m.items))
	for i, it := range m.items {
		label := "  " + it.Label()
		if i == m.cursor {
			label = accentStyle.Render("> " + it.Label())
		}
		lines[i] = label
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render("Row actions"),
		"",
		strings.Join(lines, "\n"),
		"",
		helpStyle.Render(joinStatus("↑↓: Move", "Enter: Apply", "ESC: Close")),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// --- cell edit ---

// editCellModal edits one grid cell in a text box.
type editCellModal struct {
	page  string
	cell  grid.EditCellMsg
	input textinput.Model
}

// cellEditedMsg carries a confirmed cell edit back to the dashboard.
type cellEditedMsg struct {
	page  string
	cell  grid.EditCellMsg
	value string
}

func newEditCellModal(page string, cell grid.EditCellMsg) *editCellModal {
	in := newInput(cell.Header, 40)
	in.CharLimit = 128
	in.SetValue(cell.Value)
	in.CursorEnd()
	in.Focus()
	return &editCellModal{page: page, cell: cell, input: in}
}

func (m *editCellModal) ID() string { return "editcell" }

func (m *editCellModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			done := cellEditedMsg{page: m.page, cell: m.cell, value: m.input.Value()}
			return true, func() tea.Msg { return done }
		case "esc", "escape":
			return true, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return false, cmd
}

func (m *editCellModal) View(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render(fmt.Sprintf("Edit %s (%s)", m.cell.Header, m.cell.Key)),
		"",
		m.input.View(),
		"",
		helpStyle.Render(joinStatus("Enter: Save", "ESC: Cancel")),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Padding(0, 2).
		Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// --- row details ---

type rowDetailModal struct {
	viewport     viewport.Model
	title        string
	content      string
	reverseWheel bool
}

func newRowDetailModal(title string, headers []string, row grid.Row, reverseWheel bool) *rowDetailModal {
	width := 0
	for _, h := range headers {
		width = max(width, len(h))
	}
	var b strings.Builder
	for i, h := range headers {
		v := ""
		if i < len(row.Cells) {
			v = row.Cells[i]
		}
		fmt.Fprintf(&b, "%s  %s\n", labelStyle.Width(width+1).Render(h), v)
	}
	return &rowDetailModal{
		viewport:     viewport.New(80, 20),
		title:        title,
		content:      b.String(),
		reverseWheel: reverseWheel,
	}
}

func (m *rowDetailModal) ID() string { return "rowdetail" }

func (m *rowDetailModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	return scrollViewport(&m.viewport, msg, m.reverseWheel, "esc", "escape", "enter", "q")
}

func (m *rowDetailModal) View(width, height int) string {
	return renderScrollModal(&m.viewport, m.title, m.content, joinStatus("up/down/Wheel: Scroll", "ESC: Close"), width, height)
}
