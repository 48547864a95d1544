package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tinytelemetry/admindash/internal/model"
	"github.com/tinytelemetry/admindash/internal/pages"
	"github.com/tinytelemetry/admindash/internal/uistate"
)

// Section represents the focusable dashboard sections.
type Section int

const (
	SectionSidebar Section = iota // page navigation
	SectionFilters                // filter bar of the active page
	SectionGrid                   // grid of the active page
)

func (s Section) String() string {
	switch s {
	case SectionSidebar:
		return "Sidebar"
	case SectionFilters:
		return "Filters"
	default:
		return "Grid"
	}
}

const (
	// flashDelay is how long a status notice stays visible.
	flashDelay = 3 * time.Second
	// errorDelay is how long a load error stays in the status line.
	errorDelay = 30 * time.Second
	maxEvents  = 20
)

// Config holds the dashboard settings taken from the command line.
type Config struct {
	Source             model.RecordSource
	DataSource         string // "Socket" or "DuckDB", shown in the status line
	Catalog            *pages.Catalog
	UI                 *uistate.Store
	ExportDir          string
	ReverseScrollWheel bool
	Logger             zerolog.Logger
}

// event is one entry of the notifications panel.
type event struct {
	at   time.Time
	text string
}

// DashboardModel represents the main TUI model.
type DashboardModel struct {
	keys KeyMap
	help help.Model
	ui   *uistate.Store
	log  zerolog.Logger

	src        model.RecordSource
	dataSource string
	catalog    *pages.Catalog
	screens    []*pageScreen
	active     int

	activeSection Section
	sidebarCursor int
	modalStack    []Modal

	width  int
	height int

	loaded  bool
	loadErr error

	// Last load or export error for the status line (auto-clears).
	lastError   string
	lastErrorAt time.Time

	flash   string
	flashID int
	events  []event

	exportDir          string
	reverseScrollWheel bool

	now       func() time.Time
	clipboard func(string) error
}

// NewDashboardModel creates a dashboard over cfg.Source.
func NewDashboardModel(cfg Config) *DashboardModel {
	if cfg.Catalog == nil {
		cfg.Catalog = pages.Default()
	}
	if cfg.UI == nil {
		cfg.UI = uistate.New()
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	m := &DashboardModel{
		keys:               DefaultKeyMap(),
		help:               help.New(),
		ui:                 cfg.UI,
		log:                cfg.Logger,
		src:                cfg.Source,
		dataSource:         cfg.DataSource,
		catalog:            cfg.Catalog,
		activeSection:      SectionGrid,
		exportDir:          cfg.ExportDir,
		reverseScrollWheel: cfg.ReverseScrollWheel,
		now:                time.Now,
		clipboard:          clipboard.WriteAll,
	}
	for _, p := range cfg.Catalog.Pages() {
		m.screens = append(m.screens, newPageScreen(p, m.ui))
	}
	m.focusSection(SectionGrid)
	return m
}

// dataLoadedMsg reports the outcome of loading every page.
type dataLoadedMsg struct{ err error }

// flashFadeMsg clears the status notice it was scheduled for.
type flashFadeMsg struct{ id int }

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	key string
	err error
}

// Init loads the pages and enables the mouse.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return tea.EnableMouseCellMotion() },
		m.loadCmd(),
	)
}

func (m *DashboardModel) loadCmd() tea.Cmd {
	src, catalog := m.src, m.catalog
	return func() tea.Msg {
		if src == nil {
			return dataLoadedMsg{}
		}
		return dataLoadedMsg{err: catalog.Load(src)}
	}
}

func (m *DashboardModel) screen() *pageScreen {
	if len(m.screens) == 0 {
		return nil
	}
	return m.screens[m.active]
}

// activatePage switches to the page at idx, closing the sidebar on narrow
// terminals the way a phone-sized layout does.
func (m *DashboardModel) activatePage(idx int) {
	if idx < 0 || idx >= len(m.screens) {
		return
	}
	m.active = idx
	m.sidebarCursor = idx
	if w := m.ui.ScreenWidth(); w > 0 && w < uistate.NarrowWidth && m.ui.ActiveMenu() {
		m.ui.SetActiveMenu(false)
	}
	m.focusSection(SectionGrid)
}

// focusSection moves keyboard focus, keeping grid focus in sync.
func (m *DashboardModel) focusSection(s Section) {
	if s == SectionSidebar && !m.ui.ActiveMenu() {
		s = SectionGrid
	}
	m.activeSection = s
	for i, sc := range m.screens {
		if i == m.active && s == SectionGrid {
			sc.grid.Focus()
		} else {
			sc.grid.Blur()
		}
		if s != SectionFilters {
			sc.bar.stopEdit()
		}
	}
}

// PushModal pushes a modal onto the stack. Deduplicates by ID.
func (m *DashboardModel) PushModal(modal Modal) {
	for _, existing := range m.modalStack {
		if existing.ID() == modal.ID() {
			return
		}
	}
	m.modalStack = append(m.modalStack, modal)
}

// PopModal removes the topmost modal from the stack.
func (m *DashboardModel) PopModal() {
	if len(m.modalStack) > 0 {
		m.modalStack = m.modalStack[:len(m.modalStack)-1]
	}
}

// TopModal returns the topmost modal, or nil if the stack is empty.
func (m *DashboardModel) TopModal() Modal {
	if len(m.modalStack) == 0 {
		return nil
	}
	return m.modalStack[len(m.modalStack)-1]
}

// HasModal returns true if any modal is on the stack.
func (m *DashboardModel) HasModal() bool {
	return len(m.modalStack) > 0
}

// notify shows a status notice and records it for the notifications panel.
func (m *DashboardModel) notify(text string) tea.Cmd {
	m.flash = text
	m.flashID++
	m.events = append(m.events, event{at: m.now(), text: text})
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
	id := m.flashID
	return tea.Tick(flashDelay, func(time.Time) tea.Msg { return flashFadeMsg{id: id} })
}

func (m *DashboardModel) setError(err error) {
	m.lastError = err.Error()
	m.lastErrorAt = m.now()
	m.log.Error().Err(err).Msg("dashboard")
}
