// Package uistate holds the dashboard's shared visibility state: whether the
// sidebar menu is open and which navbar panel, if any, is showing.
package uistate

import "sync"

// Panel names a navbar popup.
type Panel string

const (
	PanelChat         Panel = "chat"
	PanelCart         Panel = "cart"
	PanelUserProfile  Panel = "userProfile"
	PanelNotification Panel = "notification"
)

// Panels lists every navbar panel in display order.
var Panels = []Panel{PanelChat, PanelCart, PanelNotification, PanelUserProfile}

// NarrowWidth is the terminal width below which the sidebar closes itself.
const NarrowWidth = 100

// Clicked records which navbar panels are open.
type Clicked struct {
	Chat         bool
	Cart         bool
	UserProfile  bool
	Notification bool
}

// InitialClicked is the all-closed panel state.
var InitialClicked = Clicked{}

// Store is safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	activeMenu  bool
	clicked     Clicked
	screenWidth int
}

// New returns a store with the sidebar open and every panel closed.
func New() *Store {
	return &Store{activeMenu: true}
}

func (s *Store) ActiveMenu() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeMenu
}

func (s *Store) SetActiveMenu(open bool) {
	s.mu.Lock()
	s.activeMenu = open
	s.mu.Unlock()
}

// ToggleMenu flips sidebar visibility and returns the new value.
func (s *Store) ToggleMenu() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeMenu = !s.activeMenu
	return s.activeMenu
}

func (s *Store) Clicked() Clicked {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clicked
}

func (s *Store) SetClicked(c Clicked) {
	s.mu.Lock()
	s.clicked = c
	s.mu.Unlock()
}

// ResetClicked closes every navbar panel.
func (s *Store) ResetClicked() {
	s.SetClicked(InitialClicked)
}

// HandleClick opens p and closes every other panel.
func (s *Store) HandleClick(p Panel) {
	c := InitialClicked
	switch p {
	case PanelChat:
		c.Chat = true
	case PanelCart:
		c.Cart = true
	case PanelUserProfile:
		c.UserProfile = true
	case PanelNotification:
		c.Notification = true
	}
	s.SetClicked(c)
}

// IsOpen reports whether panel p is showing.
func (s *Store) IsOpen(p Panel) bool {
	c := s.Clicked()
	switch p {
	case PanelChat:
		return c.Chat
	case PanelCart:
		return c.Cart
	case PanelUserProfile:
		return c.UserProfile
	case PanelNotification:
		return c.Notification
	}
	return false
}

// OpenPanel returns the showing panel, or "" when none is.
func (s *Store) OpenPanel() Panel {
	for _, p := range Panels {
		if s.IsOpen(p) {
			return p
		}
	}
	return ""
}

// SetScreenWidth records the terminal width and closes the sidebar when it
// falls below NarrowWidth. Widening does not reopen it.
func (s *Store) SetScreenWidth(w int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenWidth = w
	if w > 0 && w < NarrowWidth {
		s.activeMenu = false
	}
}

func (s *Store) ScreenWidth() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenWidth
}
