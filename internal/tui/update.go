package tui

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/admindash/internal/export"
	"github.com/tinytelemetry/admindash/internal/grid"
)

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ui.SetScreenWidth(msg.Width)
		if m.activeSection == SectionSidebar && !m.ui.ActiveMenu() {
			m.focusSection(SectionGrid)
		}
		m.layoutGrids()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)

	case dataLoadedMsg:
		return m, m.applyLoad(msg)

	case flashFadeMsg:
		if msg.id == m.flashID {
			m.flash = ""
		}
		return m, nil

	case openPanelMsg:
		m.openPanel(msg.panel)
		return m, nil

	case contextMenuChoiceMsg:
		sc := m.screen()
		if sc == nil {
			return m, nil
		}
		var cmd tea.Cmd
		sc.grid, cmd = sc.grid.Apply(msg.item)
		return m, cmd

	case grid.DeleteMsg:
		return m, m.deleteRows(msg.Keys)

	case grid.ExportMsg:
		return m, m.exportGrid(msg.Format)

	case grid.CopyMsg:
		return m, m.copyRow(msg)

	case copiedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("copy row %s: %w", msg.key, msg.err))
			return m, nil
		}
		return m, m.notify(fmt.Sprintf("Copied row %s", msg.key))

	case grid.OpenRowMsg:
		if sc := m.screen(); sc != nil {
			m.PushModal(newRowDetailModal(sc.page.Title(), sc.grid.Headers(), msg.Row, m.reverseScrollWheel))
		}
		return m, nil

	case grid.EditCellMsg:
		if sc := m.screen(); sc != nil {
			m.PushModal(newEditCellModal(sc.page.ID(), msg))
		}
		return m, nil

	case cellEditedMsg:
		return m, m.editCell(msg)

	case grid.ContextMenuMsg:
		m.PushModal(newContextMenuModal(msg.Items))
		return m, nil

	case grid.SearchMsg:
		if sc := m.screen(); sc != nil {
			return m, sc.openSearch(msg.Term)
		}
		return m, nil
	}

	return m, nil
}

func (m *DashboardModel) applyLoad(msg dataLoadedMsg) tea.Cmd {
	m.loaded = true
	m.loadErr = msg.err
	if msg.err != nil {
		m.setError(msg.err)
	}
	for _, sc := range m.screens {
		sc.loaded()
	}
	m.log.Info().Str("source", m.dataSource).Int("pages", len(m.screens)).Msg("dashboard loaded")
	return nil
}

// layoutGrids sizes every grid to the current content width.
func (m *DashboardModel) layoutGrids() {
	w := m.contentWidth()
	for _, sc := range m.screens {
		sc.grid.SetWidth(w)
	}
}

// resetFilters is the Clear Filters button of the active page.
func (m *DashboardModel) resetFilters() tea.Cmd {
	sc := m.screen()
	if sc == nil {
		return nil
	}
	return sc.bar.clear.Click()
}

func (m *DashboardModel) deleteRows(keys []string) tea.Cmd {
	sc := m.screen()
	if sc == nil || len(keys) == 0 {
		return nil
	}
	n := sc.remove(keys)
	m.log.Info().Str("page", sc.page.ID()).Int("rows", n).Msg("rows deleted")
	return m.notify(fmt.Sprintf("Deleted %d %s", n, sc.page.Noun()))
}

// editCell stores a confirmed edit in the page's working copy.
func (m *DashboardModel) editCell(msg cellEditedMsg) tea.Cmd {
	var sc *pageScreen
	for _, s := range m.screens {
		if s.page.ID() == msg.page {
			sc = s
		}
	}
	if sc == nil {
		return nil
	}
	if err := sc.edit(msg.cell.Key, msg.cell.Field, msg.value); err != nil {
		m.setError(fmt.Errorf("edit %s: %w", msg.cell.Header, err))
		return nil
	}
	m.log.Info().Str("page", sc.page.ID()).Str("key", msg.cell.Key).Str("field", msg.cell.Field).Msg("cell edited")
	return m.notify(fmt.Sprintf("Updated %s of %s", msg.cell.Header, msg.cell.Key))
}

// exportGrid writes the grid's current rows, in grid order, to the export
// directory.
func (m *DashboardModel) exportGrid(gf grid.ExportFormat) tea.Cmd {
	sc := m.screen()
	if sc == nil {
		return nil
	}
	f, err := export.ParseFormat(string(gf))
	if err != nil {
		m.setError(err)
		return nil
	}
	t := export.Table{
		Sheet:   sc.page.Title(),
		Headers: sc.grid.Headers(),
		Numeric: sc.grid.NumericColumns(),
		Rows:    sc.grid.Matrix(),
	}
	path := filepath.Join(m.exportDir, export.FileName(sc.page.ID(), f, m.now()))
	if err := writeExport(path, f, t); err != nil {
		m.setError(err)
		return nil
	}
	m.log.Info().Str("page", sc.page.ID()).Str("path", path).Int("rows", len(t.Rows)).Msg("grid exported")
	return m.notify(fmt.Sprintf("Exported %d %s to %s", len(t.Rows), sc.page.Noun(), path))
}

func writeExport(path string, f export.Format, t export.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: mkdir: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := export.Write(out, f, t); err != nil {
		out.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return out.Close()
}

func (m *DashboardModel) copyRow(msg grid.CopyMsg) tea.Cmd {
	write := m.clipboard
	return func() tea.Msg {
		return copiedMsg{key: msg.Key, err: write(msg.Text)}
	}
}
