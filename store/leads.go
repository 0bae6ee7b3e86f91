// ABOUTME: Lead store holding submitted leads in newest-first order
// ABOUTME: Provides add, status updates, deletion, search, and stats
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/harperreed/roofdesk/models"
)

const leadsVersion = 1

type LeadStore struct {
	observers
	mu        sync.RWMutex
	leads     []models.Lead
	persister Persister
}

func NewLeadStore(p Persister) (*LeadStore, error) {
	s := &LeadStore{persister: p}

	var leads []models.Lead
	ok, err := load(p, LeadsKey, leadsVersion, &leads)
	if err != nil {
		return nil, err
	}
	if ok {
		s.leads = leads
	}

	return s, nil
}

func (s *LeadStore) persistLocked() {
	save(s.persister, LeadsKey, leadsVersion, s.leads)
}

// All returns a copy of every lead, newest first.
func (s *LeadStore) All() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *LeadStore) Get(id string) (models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.leads {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Lead{}, fmt.Errorf("lead %s: %w", id, ErrNotFound)
}

// Add stores lead, filling id, status, date and source when empty.
// A lead whose id is already stored replaces that record.
func (s *LeadStore) Add(lead models.Lead) models.Lead {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = models.StatusNew
	}
	if lead.Date.IsZero() {
		lead.Date = timeNow()
	}
	if lead.Source == "" {
		lead.Source = models.SourceWebsite
	}

	action := "add"
	s.mu.Lock()
	if idx := s.indexLocked(lead.ID); idx >= 0 {
		s.leads = append(s.leads[:idx:idx], s.leads[idx+1:]...)
		action = "update"
	}
	s.leads = append([]models.Lead{lead}, s.leads...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: LeadsKey, Action: action, ID: lead.ID})
	return lead
}

// UpdateStatus sets a lead's status. Setting the current status again is a no-op.
func (s *LeadStore) UpdateStatus(id, status string) error {
	if !models.IsValidStatus(status) {
		return fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	if s.leads[idx].Status == status {
		s.mu.Unlock()
		return nil
	}
	s.leads[idx].Status = status
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: LeadsKey, Action: "status", ID: id})
	return nil
}

// Update applies fn to the lead with the given id.
func (s *LeadStore) Update(id string, fn func(*models.Lead)) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}

	updated := s.leads[idx]
	fn(&updated)
	updated.ID = id
	if !models.IsValidStatus(updated.Status) {
		s.mu.Unlock()
		return fmt.Errorf("%q: %w", updated.Status, ErrInvalidStatus)
	}
	s.leads[idx] = updated
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: LeadsKey, Action: "update", ID: id})
	return nil
}

// Delete removes the lead with the given id and reports whether one was removed.
func (s *LeadStore) Delete(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.leads = append(s.leads[:idx:idx], s.leads[idx+1:]...)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: LeadsKey, Action: "delete", ID: id})
	return true
}

// Replace swaps the whole collection, e.g. after fetching from the backend.
func (s *LeadStore) Replace(leads []models.Lead) {
	s.mu.Lock()
	s.leads = make([]models.Lead, len(leads))
	copy(s.leads, leads)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Store: LeadsKey, Action: "replace"})
}

// Search returns leads whose first name, last name, email or phone contains
// term, case-insensitively. An empty term returns every lead.
func (s *LeadStore) Search(term string) []models.Lead {
	return s.Filter(term, "")
}

// Filter combines Search with a status filter ("" or "all" matches any).
func (s *LeadStore) Filter(term, status string) []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(term))
	var out []models.Lead
	for _, l := range s.leads {
		if status != "" && status != "all" && l.Status != status {
			continue
		}
		if needle != "" && !matchesLead(l, needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesLead(l models.Lead, needle string) bool {
	for _, field := range []string{l.FirstName, l.LastName, l.Email, l.Phone} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (s *LeadStore) Stats() models.LeadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.LeadStats{Total: len(s.leads)}
	for _, l := range s.leads {
		switch l.Status {
		case models.StatusNew:
			stats.New++
		case models.StatusContacted:
			stats.Contacted++
		case models.StatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

func (s *LeadStore) indexLocked(id string) int {
	for i, l := range s.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}
