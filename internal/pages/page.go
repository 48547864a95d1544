// Package pages defines the dashboard pages: which records each one shows,
// its filter controls, its grid columns and its grid behaviour.
package pages

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tinytelemetry/admindash/internal/filter"
	"github.com/tinytelemetry/admindash/internal/grid"
	"github.com/tinytelemetry/admindash/internal/model"
)

// ErrUnknownPage is returned for a page id no catalog entry answers to.
var ErrUnknownPage = errors.New("unknown page")

// Result is one filtered view of a page.
type Result struct {
	Total   int        `json:"total"`
	Count   int        `json:"count"`
	Records any        `json:"records"`
	Rows    []grid.Row `json:"-"`
}

// Summary is the "Showing N of M <noun>" line.
func (r Result) Summary(noun string) string {
	return fmt.Sprintf("Showing %d of %d %s", r.Count, r.Total, noun)
}

// Slice is one bar of a page breakdown chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Page is the record-type-free view of a Board.
type Page interface {
	ID() string
	Title() string
	Noun() string
	Fields() []filter.Descriptor
	Options(field string) []string
	Defaults() filter.State
	Columns() []grid.Column
	GridOptions() grid.Options
	SetPageSize(n int)
	BreakdownLabel() string

	Load(src model.RecordSource) error
	Total() int

	// Filter evaluates st against the loaded records without touching the
	// memoized view. Safe for concurrent use.
	Filter(st filter.State) (Result, error)
	// Update moves the memoized view to st.
	Update(st filter.State) (Result, error)
	// Reset moves the memoized view back to the default state.
	Reset() Result
	// Delete drops rows from the working copy and returns how many went.
	Delete(keys []string) int
	// Edit sets one field of one record in the working copy.
	Edit(key, field, value string) error
	Breakdown(st filter.State) ([]Slice, error)
}

// Column binds a grid column to a record accessor. Columns with a Set
// func are editable.
type Column[T any] struct {
	grid.Column
	Value func(T) string
	Set   func(*T, string) error
}

// Board is a Page over records of type T.
type Board[T any] struct {
	id, title, noun string
	set             *filter.Set[T]
	columns         []Column[T]
	gridOpts        grid.Options
	key             func(T) string
	load            func(model.RecordSource) ([]T, error)
	breakdownLabel  string
	breakdown       func([]T) []Slice

	mu      sync.RWMutex
	base    []T
	view    *filter.View[T]
	rowsGen uint64
	rows    []grid.Row
}

func (b *Board[T]) ID() string                  { return b.id }
func (b *Board[T]) Title() string               { return b.title }
func (b *Board[T]) Noun() string                { return b.noun }
func (b *Board[T]) Fields() []filter.Descriptor { return b.set.Descriptors() }
func (b *Board[T]) Defaults() filter.State      { return b.set.Defaults() }
func (b *Board[T]) BreakdownLabel() string      { return b.breakdownLabel }

func (b *Board[T]) GridOptions() grid.Options {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gridOpts
}

func (b *Board[T]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	b.gridOpts.PageSize = n
	b.mu.Unlock()
}

func (b *Board[T]) Columns() []grid.Column {
	out := make([]grid.Column, len(b.columns))
	for i, c := range b.columns {
		out[i] = c.Column
		out[i].Editable = c.Set != nil
	}
	return out
}

// Options lists the dropdown entries of a choice field over the loaded
// records.
func (b *Board[T]) Options(field string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.set.Options(b.base, field)
}

// Load fetches the page's records, keeping the current filters.
func (b *Board[T]) Load(src model.RecordSource) error {
	records, err := b.load(src)
	if err != nil {
		return fmt.Errorf("load %s: %w", b.id, err)
	}
	b.SetRecords(records)
	return nil
}

// SetRecords replaces the working copy.
func (b *Board[T]) SetRecords(records []T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.base = append([]T(nil), records...)
	if b.view == nil {
		b.view = filter.NewView(b.set, b.base)
	} else {
		b.view.SetBase(b.base)
	}
	b.rows = nil
}

func (b *Board[T]) Total() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.base)
}

// Records returns the working copy.
func (b *Board[T]) Records() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]T(nil), b.base...)
}

func (b *Board[T]) Filter(st filter.State) (Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pred, err := b.set.Compile(b.set.Normalize(st))
	if err != nil {
		return Result{}, err
	}
	out := filter.Apply(b.base, pred)
	return Result{Total: len(b.base), Count: len(out), Records: out, Rows: b.toRows(out)}, nil
}

func (b *Board[T]) Update(st filter.State) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.ensureView()
	out, err := v.Update(st)
	return b.viewResult(out), err
}

func (b *Board[T]) Reset() Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewResult(b.ensureView().Reset())
}

// State returns the memoized view's current state.
func (b *Board[T]) State() filter.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ensureView().State()
}

func (b *Board[T]) ensureView() *filter.View[T] {
	if b.view == nil {
		b.view = filter.NewView(b.set, b.base)
	}
	return b.view
}

// viewResult caches rendered rows per view generation. Callers hold mu.
func (b *Board[T]) viewResult(out []T) Result {
	if b.rows == nil || b.rowsGen != b.view.Generation() {
		b.rows = b.toRows(out)
		b.rowsGen = b.view.Generation()
	}
	return Result{Total: len(b.base), Count: len(out), Records: out, Rows: b.rows}
}

func (b *Board[T]) Delete(keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[k] = true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	kept := make([]T, 0, len(b.base))
	for _, r := range b.base {
		if !drop[b.key(r)] {
			kept = append(kept, r)
		}
	}
	removed := len(b.base) - len(kept)
	if removed > 0 {
		b.base = kept
		b.ensureView().SetBase(kept)
		b.rows = nil
	}
	return removed
}

func (b *Board[T]) Breakdown(st filter.State) ([]Slice, error) {
	if b.breakdown == nil {
		return nil, nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	pred, err := b.set.Compile(b.set.Normalize(st))
	if err != nil {
		return nil, err
	}
	return b.breakdown(filter.Apply(b.base, pred)), nil
}

func (b *Board[T]) toRows(records []T) []grid.Row {
	rows := make([]grid.Row, len(records))
	for i, r := range records {
		cells := make([]string, len(b.columns))
		for c, col := range b.columns {
			cells[c] = col.Value(r)
		}
		rows[i] = grid.Row{Key: b.key(r), Cells: cells}
	}
	return rows
}

// countBy tallies records per label in first-seen order.
func countBy[T any](records []T, label func(T) string) []Slice {
	return sumBy(records, label, func(T) float64 { return 1 })
}

// sumBy totals value per label in first-seen order.
func sumBy[T any](records []T, label func(T) string, value func(T) float64) []Slice {
	idx := map[string]int{}
	var out []Slice
	for _, r := range records {
		l := label(r)
		i, ok := idx[l]
		if !ok {
			i = len(out)
			idx[l] = i
			out = append(out, Slice{Label: l})
		}
		out[i].Value += value(r)
	}
	return out
}

// Catalog is the ordered set of pages.
type Catalog struct {
	pages []Page
}

func NewCatalog(pages ...Page) *Catalog {
	return &Catalog{pages: pages}
}

// Default returns the Customers, Employees and Orders pages.
func Default() *Catalog {
	return NewCatalog(NewCustomers(), NewEmployees(), NewOrders())
}

func (c *Catalog) Pages() []Page { return c.pages }

// IDs lists page ids in catalog order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.pages))
	for i, p := range c.pages {
		out[i] = p.ID()
	}
	return out
}

// Lookup finds a page by id, ignoring case.
func (c *Catalog) Lookup(id string) (Page, error) {
	for _, p := range c.pages {
		if strings.EqualFold(p.ID(), id) {
			return p, nil
		}
	}
	known := c.IDs()
	sort.Strings(known)
	return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownPage, id, strings.Join(known, ", "))
}

// Load fills every page from src.
func (c *Catalog) Load(src model.RecordSource) error {
	for _, p := range c.pages {
		if err := p.Load(src); err != nil {
			return err
		}
	}
	return nil
}

// SetPageSize applies a grid page size to every page.
func (c *Catalog) SetPageSize(n int) {
	for _, p := range c.pages {
		p.SetPageSize(n)
	}
}
