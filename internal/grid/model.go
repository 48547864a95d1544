package grid

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/admindash/internal/filter"
)

const selectMark = "●"

// Model is the grid state. The zero value is not usable; call New.
type Model struct {
	columns []Column
	opts    Options
	keys    KeyMap

	rows []Row // as supplied by SetRows
	view []Row // rows after the grid search and sort

	search    string
	sortCol   int
	sortDir   SortDir
	colCursor int
	page      int
	cursor    int // index within the current page

	selected map[string]bool
	focused  bool
	width    int
}

// New creates a grid with the given columns.
func New(columns []Column, opts Options) Model {
	if opts.PageSize <= 0 {
		opts.PageSize = 12
	}
	if opts.PageCount <= 0 {
		opts.PageCount = 5
	}
	return Model{
		columns:  append([]Column(nil), columns...),
		opts:     opts,
		keys:     DefaultKeyMap(),
		sortCol:  -1,
		selected: make(map[string]bool),
	}
}

func (m Model) Columns() []Column { return m.columns }
func (m Model) Options() Options { return m.opts }
func (m Model) KeyMap() KeyMap { return m.keys }

// SetRows replaces the grid data. The sort, search and page survive; the
// page and cursor are clamped. Selection survives only with
// PersistSelection.
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	if !m.opts.PersistSelection {
		m.selected = make(map[string]bool)
	}
	m.rebuild()
}

// Len is the number of rows after the grid search.
func (m Model) Len() int { return len(m.view) }

// Rows returns every row after the grid search and sort.
func (m Model) Rows() []Row { return m.view }

func (m *Model) rebuild() {
	view := make([]Row, 0, len(m.rows))
	term := strings.ToLower(m.search)
	for _, r := range m.rows {
		if term == "" || rowContains(r, term) {
			view = append(view, r)
		}
	}
	if m.sortDir != SortNone && m.sortCol >= 0 && m.sortCol < len(m.columns) {
		col, numeric, desc := m.sortCol, m.columns[m.sortCol].Numeric, m.sortDir == SortDesc
		sort.SliceStable(view, func(i, j int) bool {
			if desc {
				return less(view[j], view[i], col, numeric)
			}
			return less(view[i], view[j], col, numeric)
		})
	}
	m.view = view
	m.clamp()
}

func rowContains(r Row, term string) bool {
	for _, c := range r.Cells {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

func cell(r Row, col int) string {
	if col < len(r.Cells) {
		return r.Cells[col]
	}
	return ""
}

func less(a, b Row, col int, numeric bool) bool {
	x, y := cell(a, col), cell(b, col)
	if numeric {
		nx, okx := filter.ParseNumber(x)
		ny, oky := filter.ParseNumber(y)
		switch {
		case okx && oky:
			return nx < ny
		case okx != oky:
			// Unparseable values sort last.
			return okx
		}
	}
	return strings.ToLower(x) < strings.ToLower(y)
}

func (m *Model) clamp() {
	if last := m.PageTotal() - 1; m.page > last {
		m.page = last
	}
	if m.page < 0 {
		m.page = 0
	}
	n := len(m.PageRows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// --- paging ---

// PageTotal is the number of pages, at least one.
func (m Model) PageTotal() int {
	if !m.opts.AllowPaging || len(m.view) == 0 {
		return 1
	}
	return (len(m.view) + m.opts.PageSize - 1) / m.opts.PageSize
}

// Page is the zero-based current page.
func (m Model) Page() int { return m.page }

// SetPage moves to page p, clamped to the valid range.
func (m *Model) SetPage(p int) {
	m.page = p
	m.cursor = 0
	m.clamp()
}

func (m *Model) NextPage() { m.SetPage(m.page + 1) }
func (m *Model) PrevPage() { m.SetPage(m.page - 1) }
func (m *Model) FirstPage() { m.SetPage(0) }
func (m *Model) LastPage() { m.SetPage(m.PageTotal() - 1) }

// PageRows returns the rows shown on the current page.
func (m Model) PageRows() []Row {
	if !m.opts.AllowPaging {
		return m.view
	}
	start := m.page * m.opts.PageSize
	if start >= len(m.view) {
		return nil
	}
	end := start + m.opts.PageSize
	if end > len(m.view) {
		end = len(m.view)
	}
	return m.view[start:end]
}

// PagerWindow returns the one-based page numbers shown in the pager.
func (m Model) PagerWindow() []int {
	total := m.PageTotal()
	size := m.opts.PageCount
	if size > total {
		size = total
	}
	start := m.page - size/2
	if start < 0 {
		start = 0
	}
	if start+size > total {
		start = total - size
	}
	out := make([]int, size)
	for i := range out {
		out[i] = start + i + 1
	}
	return out
}

// --- sorting ---

// Sort returns the active sort column and direction.
func (m Model) Sort() (int, SortDir) { return m.sortCol, m.sortDir }

// ToggleSort cycles the sort of col through asc, desc and none. Switching
// to a different column starts again at asc.
func (m *Model) ToggleSort(col int) {
	if !m.opts.AllowSorting || col < 0 || col >= len(m.columns) {
		return
	}
	if col != m.sortCol {
		m.sortCol, m.sortDir = col, SortAsc
	} else {
		m.sortDir = m.sortDir.next()
	}
	if m.sortDir == SortNone {
		m.sortCol = -1
	}
	m.rebuild()
}

// SortBy sets an explicit sort.
func (m *Model) SortBy(col int, dir SortDir) {
	if !m.opts.AllowSorting || col < 0 || col >= len(m.columns) {
		return
	}
	m.sortCol, m.sortDir = col, dir
	if dir == SortNone {
		m.sortCol = -1
	}
	m.rebuild()
}

// ColumnCursor is the column sort keys act on.
func (m Model) ColumnCursor() int { return m.colCursor }

func (m *Model) moveColumn(delta int) {
	if len(m.columns) == 0 {
		return
	}
	m.colCursor = (m.colCursor + delta + len(m.columns)) % len(m.columns)
}

// --- search ---

// Search returns the grid-level search term.
func (m Model) Search() string { return m.search }

// SetSearch narrows the grid to rows with any cell containing term.
func (m *Model) SetSearch(term string) {
	m.search = term
	m.page = 0
	m.rebuild()
}

// --- cursor and selection ---

func (m Model) Cursor() int { return m.cursor }

// MoveCursor moves within the page, crossing to the adjacent page at
// either edge.
func (m *Model) MoveCursor(delta int) {
	n := len(m.PageRows())
	next := m.cursor + delta
	switch {
	case next >= n && m.page < m.PageTotal()-1:
		m.page++
		m.cursor = 0
	case next < 0 && m.page > 0:
		m.page--
		m.cursor = len(m.PageRows()) - 1
	default:
		m.cursor = next
	}
	m.clamp()
}

// Current returns the row under the cursor.
func (m Model) Current() (Row, bool) {
	rows := m.PageRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return Row{}, false
	}
	return rows[m.cursor], true
}

// ToggleSelect flips selection of the row under the cursor.
func (m *Model) ToggleSelect() {
	r, ok := m.Current()
	if !ok {
		return
	}
	if m.selected[r.Key] {
		delete(m.selected, r.Key)
	} else {
		m.selected[r.Key] = true
	}
}

// IsSelected reports whether the row with key is selected.
func (m Model) IsSelected(key string) bool { return m.selected[key] }

// Selected returns selected keys that are present in the current rows, in
// row order.
func (m Model) Selected() []string {
	var out []string
	for _, r := range m.rows {
		if m.selected[r.Key] {
			out = append(out, r.Key)
		}
	}
	return out
}

// ClearSelection deselects everything.
func (m *Model) ClearSelection() { m.selected = make(map[string]bool) }

// Forget drops keys from the selection, typically after a delete.
func (m *Model) Forget(keys ...string) {
	for _, k := range keys {
		delete(m.selected, k)
	}
}

// DeleteTargets returns the selected rows, or the row under the cursor when
// nothing visible is selected.
func (m Model) DeleteTargets() []string {
	if sel := m.Selected(); len(sel) > 0 {
		return sel
	}
	if r, ok := m.Current(); ok {
		return []string{r.Key}
	}
	return nil
}

// --- export ---

// Headers returns the column headers.
func (m Model) Headers() []string {
	out := make([]string, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.Header
	}
	return out
}

// NumericColumns reports, per column, whether cells hold numbers.
func (m Model) NumericColumns() []bool {
	out := make([]bool, len(m.columns))
	for i, c := range m.columns {
		out[i] = c.Numeric
	}
	return out
}

// Matrix returns the cells of every row after search and sort, across all
// pages.
func (m Model) Matrix() [][]string {
	out := make([][]string, len(m.view))
	for i, r := range m.view {
		out[i] = append([]string(nil), r.Cells...)
	}
	return out
}

// --- focus and size ---

func (m *Model) Focus() { m.focused = true }
func (m *Model) Blur() { m.focused = false }
func (m Model) Focused() bool { return m.focused }
func (m *Model) SetWidth(w int) { m.width = w }

// --- update ---

// Update handles grid keys while focused. Actions the page must perform
// are returned as commands carrying the grid message types.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Up):
		m.MoveCursor(-1)
	case key.Matches(km, m.keys.Down):
		m.MoveCursor(1)
	case key.Matches(km, m.keys.PrevColumn):
		m.moveColumn(-1)
	case key.Matches(km, m.keys.NextColumn):
		m.moveColumn(1)
	case key.Matches(km, m.keys.PrevPage):
		m.PrevPage()
	case key.Matches(km, m.keys.NextPage):
		m.NextPage()
	case key.Matches(km, m.keys.FirstPage):
		m.FirstPage()
	case key.Matches(km, m.keys.LastPage):
		m.LastPage()
	case key.Matches(km, m.keys.Sort):
		m.ToggleSort(m.colCursor)
	case key.Matches(km, m.keys.Select):
		m.ToggleSelect()
	case key.Matches(km, m.keys.Delete):
		return m, m.deleteCmd()
	case key.Matches(km, m.keys.Search):
		if m.opts.HasToolbar(ToolbarSearch) {
			term := m.search
			return m, func() tea.Msg { return SearchMsg{Term: term} }
		}
	case key.Matches(km, m.keys.ExcelExport):
		if m.opts.HasToolbar(ToolbarExcelExport) {
			return m, exportCmd(ExportXLSX)
		}
	case key.Matches(km, m.keys.CsvExport):
		if m.opts.HasToolbar(ToolbarCsvExport) {
			return m, exportCmd(ExportCSV)
		}
	case key.Matches(km, m.keys.PdfExport):
		if m.opts.HasToolbar(ToolbarPdfExport) {
			return m, exportCmd(ExportPDF)
		}
	case key.Matches(km, m.keys.Edit):
		return m, m.editCmd()
	case key.Matches(km, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(km, m.keys.Menu):
		if len(m.opts.ContextMenu) > 0 {
			items := append([]ContextMenuItem(nil), m.opts.ContextMenu...)
			return m, func() tea.Msg { return ContextMenuMsg{Items: items} }
		}
	case key.Matches(km, m.keys.Open):
		if r, ok := m.Current(); ok {
			return m, func() tea.Msg { return OpenRowMsg{Row: r} }
		}
	}
	return m, nil
}

// Apply runs a context menu item against the row under the cursor.
func (m Model) Apply(item ContextMenuItem) (Model, tea.Cmd) {
	switch item {
	case MenuSortAscending:
		m.SortBy(m.colCursor, SortAsc)
	case MenuSortDescending:
		m.SortBy(m.colCursor, SortDesc)
	case MenuCopy:
		return m, m.copyCmd()
	case MenuEdit:
		return m, m.editCmd()
	case MenuDelete:
		return m, m.deleteCmd()
	case MenuExcelExport:
		return m, exportCmd(ExportXLSX)
	case MenuCsvExport:
		return m, exportCmd(ExportCSV)
	case MenuPdfExport:
		return m, exportCmd(ExportPDF)
	case MenuFirstPage:
		m.FirstPage()
	case MenuPrevPage:
		m.PrevPage()
	case MenuNextPage:
		m.NextPage()
	case MenuLastPage:
		m.LastPage()
	}
	return m, nil
}

func (m Model) deleteCmd() tea.Cmd {
	if !m.opts.CanDelete() {
		return nil
	}
	keys := m.DeleteTargets()
	if len(keys) == 0 {
		return nil
	}
	return func() tea.Msg { return DeleteMsg{Keys: keys} }
}

func (m Model) copyCmd() tea.Cmd {
	r, ok := m.Current()
	if !ok {
		return nil
	}
	text := strings.Join(r.Cells, "\t")
	return func() tea.Msg { return CopyMsg{Key: r.Key, Text: text} }
}

// editCmd requests an edit of the cell under the row and column cursors.
func (m Model) editCmd() tea.Cmd {
	if !m.opts.CanEdit() || m.colCursor >= len(m.columns) {
		return nil
	}
	col := m.columns[m.colCursor]
	r, ok := m.Current()
	if !col.Editable || !ok {
		return nil
	}
	msg := EditCellMsg{Key: r.Key, Field: col.Field, Header: col.Header}
	if m.colCursor < len(r.Cells) {
		msg.Value = r.Cells[m.colCursor]
	}
	return func() tea.Msg { return msg }
}

func exportCmd(f ExportFormat) tea.Cmd {
	return func() tea.Msg { return ExportMsg{Format: f} }
}

// --- view ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#03C9D7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444444"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#03C9D7"))
	blurredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#3A3A3A"))
	pagerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	currentPage = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#03C9D7"))
)

func (m Model) tableColumns() []table.Column {
	cols := []table.Column{{Title: " ", Width: 1}}
	for i, c := range m.columns {
		title := c.Header
		if i == m.sortCol {
			switch m.sortDir {
			case SortAsc:
				title += " ▲"
			case SortDesc:
				title += " ▼"
			}
		}
		if m.focused && i == m.colCursor {
			title = "›" + title
		}
		w := c.Width
		if w <= 0 {
			w = 12
		}
		cols = append(cols, table.Column{Title: title, Width: w})
	}
	return cols
}

// View renders the toolbar hint, the table and the pager.
func (m Model) View() string {
	page := m.PageRows()
	rows := make([]table.Row, len(page))
	for i, r := range page {
		mark := " "
		if m.selected[r.Key] {
			mark = selectMark
		}
		row := table.Row{mark}
		for c, col := range m.columns {
			v := cell(r, c)
			if col.Align == lipgloss.Right {
				w := col.Width
				if w <= 0 {
					w = 12
				}
				v = lipgloss.PlaceHorizontal(w, lipgloss.Right, v)
			}
			row = append(row, v)
		}
		rows[i] = row
	}

	height := m.opts.PageSize + 1
	if !m.opts.AllowPaging {
		height = len(rows) + 1
	}
	t := table.New(
		table.WithColumns(m.tableColumns()),
		table.WithRows(rows),
		table.WithFocused(m.focused),
		table.WithHeight(height),
	)
	s := table.DefaultStyles()
	s.Header = headerStyle
	if m.focused {
		s.Selected = selectedStyle
	} else {
		s.Selected = blurredStyle
	}
	t.SetStyles(s)
	if len(rows) > 0 {
		t.SetCursor(m.cursor)
	}

	var b strings.Builder
	if tb := m.toolbar(); tb != "" {
		b.WriteString(tb)
		b.WriteByte('\n')
	}
	b.WriteString(t.View())
	b.WriteByte('\n')
	b.WriteString(m.Pager())
	return b.String()
}

func (m Model) toolbar() string {
	var parts []string
	for _, a := range m.opts.Toolbar {
		switch a {
		case ToolbarDelete:
			parts = append(parts, "[d] Delete")
		case ToolbarSearch:
			label := "[/] Search"
			if m.search != "" {
				label += ": " + m.search
			}
			parts = append(parts, label)
		case ToolbarExcelExport:
			parts = append(parts, "[x] Excel Export")
		case ToolbarCsvExport:
			parts = append(parts, "[X] CSV Export")
		case ToolbarPdfExport:
			parts = append(parts, "[P] PDF Export")
		}
	}
	if n := len(m.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	return pagerStyle.Render(strings.Join(parts, "  "))
}

// Pager renders the page numbers and position summary.
func (m Model) Pager() string {
	if !m.opts.AllowPaging {
		return pagerStyle.Render(fmt.Sprintf("%d items", len(m.view)))
	}
	var nums []string
	for _, n := range m.PagerWindow() {
		if n == m.page+1 {
			nums = append(nums, currentPage.Render(fmt.Sprintf("[%d]", n)))
		} else {
			nums = append(nums, pagerStyle.Render(fmt.Sprintf("%d", n)))
		}
	}
	return fmt.Sprintf("%s %s %s  %s",
		pagerStyle.Render("‹"),
		strings.Join(nums, " "),
		pagerStyle.Render("›"),
		pagerStyle.Render(fmt.Sprintf("page %d of %d (%d items)", m.page+1, m.PageTotal(), len(m.view))),
	)
}
