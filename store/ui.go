// ABOUTME: UI preferences and toast notifications for admin surfaces
// ABOUTME: Toasts are transient and never persisted
package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/roofdesk/models"
)

const uiVersion = 1

// maxToasts bounds the visible toast queue; older toasts drop off.
const maxToasts = 5

type UIStore struct {
	observers
	mu        sync.RWMutex
	state     models.UIState
	persister Persister
}

func defaultUIState() models.UIState {
	return models.UIState{
		SidebarOpen:   true,
		Theme:         models.ThemeLight,
		ActiveSection: "dashboard",
	}
}

func NewUIStore(p Persister) (*UIStore, error) {
	s := &UIStore{persister: p, state: defaultUIState()}

	var state models.UIState
	ok, err := load(p, UIKey, uiVersion, &state)
	if err != nil {
		return nil, err
	}
	if ok {
		state.Toasts = nil
		s.state = state
	}

	return s, nil
}

func (s *UIStore) persistLocked() {
	persisted := s.state
	persisted.Toasts = nil
	save(s.persister, UIKey, uiVersion, persisted)
}

func (s *UIStore) State() models.UIState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Toasts = append([]models.Toast(nil), s.state.Toasts...)
	return out
}

func (s *UIStore) ToggleSidebar() bool {
	s.mu.Lock()
	s.state.SidebarOpen = !s.state.SidebarOpen
	open := s.state.SidebarOpen
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: UIKey, Action: "sidebar"})
	return open
}

func (s *UIStore) SetTheme(theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return fmt.Errorf("%q: %w", theme, ErrInvalidTheme)
	}

	s.mu.Lock()
	s.state.Theme = theme
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: UIKey, Action: "theme"})
	return nil
}

func (s *UIStore) SetSection(section string) {
	s.mu.Lock()
	s.state.ActiveSection = section
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: UIKey, Action: "section"})
}

// PushToast queues a notification.
func (s *UIStore) PushToast(kind, message string) models.Toast {
	toast := models.Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: timeNow(),
	}

	s.mu.Lock()
	s.state.Toasts = append(s.state.Toasts, toast)
	if len(s.state.Toasts) > maxToasts {
		s.state.Toasts = s.state.Toasts[len(s.state.Toasts)-maxToasts:]
	}
	s.mu.Unlock()

	s.notify(Change{Store: UIKey, Action: "toast", ID: toast.ID})
	return toast
}

// Notify satisfies leadform.Notifier.
func (s *UIStore) Notify(kind, message string) {
	s.PushToast(kind, message)
}

func (s *UIStore) DismissToast(id string) bool {
	s.mu.Lock()
	found := false
	for i, t := range s.state.Toasts {
		if t.ID == id {
			s.state.Toasts = append(s.state.Toasts[:i:i], s.state.Toasts[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.notify(Change{Store: UIKey, Action: "dismiss", ID: id})
	}
	return found
}

func (s *UIStore) Toasts() []models.Toast {
	return s.State().Toasts
}
