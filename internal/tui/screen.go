package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/pages"
	"github.com/tinytelemetry/admindash/internal/uistate"
)

// pageScreen is one dashboard page: its filter bar, grid and breakdown
// chart over the page's memoized view.
type pageScreen struct {
	page   pages.Page
	bar    filterBar
	grid   grid.Model
	chart  *breakdownChart
	result pages.Result

	// filterErr is the last rejected filter input; the grid keeps the
	// last valid view while it is set.
	filterErr error

	searching bool
	search    textinput.Model
}

func newPageScreen(p pages.Page, ui *uistate.Store) *pageScreen {
	s := &pageScreen{
		page:   p,
		grid:   grid.New(p.Columns(), p.GridOptions()),
		chart:  newBreakdownChart(p.BreakdownLabel()),
		search: newInput("Search rows...", inputWidth),
	}
	btn := NewButton(ui, "Clear Filters")
	btn.OnClick = func() tea.Cmd {
		s.reset()
		return nil
	}
	s.bar = newFilterBar(p, btn)
	return s
}

// loaded refreshes dropdowns after records arrive and re-applies the
// current filters.
func (s *pageScreen) loaded() {
	s.bar.setOptions(s.page)
	s.apply()
}

// apply filters the page by the bar's state and hands the rows to the grid.
func (s *pageScreen) apply() {
	st := s.bar.State()
	res, err := s.page.Update(st)
	s.filterErr = err
	if err != nil {
		return
	}
	s.result = res
	s.grid.SetRows(res.Rows)
	if slices, err := s.page.Breakdown(st); err == nil {
		s.chart.SetData(slices)
	}
}

// reset clears every filter and shows the full dataset.
func (s *pageScreen) reset() {
	s.bar.Reset()
	s.filterErr = nil
	s.result = s.page.Reset()
	s.grid.SetRows(s.result.Rows)
	if slices, err := s.page.Breakdown(s.page.Defaults()); err == nil {
		s.chart.SetData(slices)
	}
}

// remove drops rows from the page's working copy. Dropdowns keep the
// options captured at load so the current selection survives.
func (s *pageScreen) remove(keys []string) int {
	n := s.page.Delete(keys)
	s.grid.Forget(keys...)
	if n > 0 {
		s.apply()
	}
	return n
}

// edit changes one cell of the page's working copy and re-applies the
// current filters. The edited row may drop out of the view.
func (s *pageScreen) edit(key, field, value string) error {
	if err := s.page.Edit(key, field, value); err != nil {
		return err
	}
	s.apply()
	return nil
}

func (s *pageScreen) summary() string {
	return s.result.Summary(s.page.Noun())
}

func (s *pageScreen) errText() string {
	if s.filterErr == nil {
		return ""
	}
	return s.filterErr.Error()
}

// openSearch starts editing the grid row search.
func (s *pageScreen) openSearch(term string) tea.Cmd {
	s.searching = true
	s.search.SetValue(term)
	s.search.CursorEnd()
	return s.search.Focus()
}

func (s *pageScreen) closeSearch(apply bool) {
	s.searching = false
	s.search.Blur()
	if apply {
		s.grid.SetSearch(s.search.Value())
	}
}
