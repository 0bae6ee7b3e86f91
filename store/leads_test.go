// ABOUTME: Tests for the lead store
// ABOUTME: Covers add defaults, idempotent status updates, deletion, search, and stats
package store

import (
	"testing"

	"github.com/harperreed/roofdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeadStore(t *testing.T) *LeadStore {
	t.Helper()
	s, err := NewLeadStore(nil)
	require.NoError(t, err)
	return s
}

func seedLeads(s *LeadStore) []models.Lead {
	return []models.Lead{
		s.Add(models.Lead{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "7135550000"}),
		s.Add(models.Lead{FirstName: "Bob", LastName: "Smith", Email: "bob@roof.io", Phone: "2815551234"}),
		s.Add(models.Lead{FirstName: "Alice", LastName: "Jones", Email: "alice@example.com", Phone: "8325559999"}),
	}
}

func TestAddFillsDefaults(t *testing.T) {
	s := newTestLeadStore(t)

	lead := s.Add(models.Lead{FirstName: "Jane", LastName: "Doe"})

	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, models.StatusNew, lead.Status)
	assert.False(t, lead.Date.IsZero())
	assert.Equal(t, models.SourceWebsite, lead.Source)

	found, err := s.Get(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead, found)
}

func TestAddKeepsNewestFirst(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, leads[2].ID, all[0].ID)
	assert.Equal(t, leads[0].ID, all[2].ID)
}

func TestAddSameIDReplaces(t *testing.T) {
	s := newTestLeadStore(t)
	s.Add(models.Lead{ID: "same", FirstName: "Jane"})
	s.Add(models.Lead{ID: "other", FirstName: "Bob"})

	s.Add(models.Lead{ID: "same", FirstName: "Janet"})

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Janet", all[0].FirstName)
	assert.Equal(t, 2, s.Stats().Total)

	assert.True(t, s.Delete("same"))
	assert.Equal(t, 1, s.Stats().Total)
	_, err := s.Get("same")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)

	require.NoError(t, s.UpdateStatus(leads[0].ID, models.StatusContacted))
	first := s.Stats()
	assert.Equal(t, 1, first.Contacted)

	require.NoError(t, s.UpdateStatus(leads[0].ID, models.StatusContacted))
	second := s.Stats()
	assert.Equal(t, first, second)
}

func TestUpdateStatusErrors(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)

	err := s.UpdateStatus(leads[0].ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = s.UpdateStatus("missing", models.StatusCompleted)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)

	before := s.Stats().Total
	assert.True(t, s.Delete(leads[1].ID))
	assert.Equal(t, before-1, s.Stats().Total)

	_, err := s.Get(leads[1].ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(leads[0].ID)
	assert.NoError(t, err)
	_, err = s.Get(leads[2].ID)
	assert.NoError(t, err)
}

func TestDeleteNonexistentIsNoop(t *testing.T) {
	s := newTestLeadStore(t)
	seedLeads(s)

	notified := 0
	s.Subscribe(func(Change) { notified++ })

	assert.False(t, s.Delete("does-not-exist"))
	assert.Equal(t, 3, s.Stats().Total)
	assert.Zero(t, notified)
}

func TestSearch(t *testing.T) {
	s := newTestLeadStore(t)
	seedLeads(s)

	tests := []struct {
		term     string
		expected int
	}{
		{"", 3},
		{"   ", 3},
		{"jane", 1},
		{"JANE", 1},
		{"smith", 1},
		{"ROOF.IO", 1},
		{"555", 3},
		{"8325", 1},
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			assert.Len(t, s.Search(tt.term), tt.expected)
		})
	}
}

func TestSearchIgnoresOtherFields(t *testing.T) {
	s := newTestLeadStore(t)
	s.Add(models.Lead{FirstName: "Jane", Address: "1 Main St", Service: "roof-repair"})

	assert.Empty(t, s.Search("main"))
	assert.Empty(t, s.Search("repair"))
}

func TestFilterByStatus(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)
	require.NoError(t, s.UpdateStatus(leads[0].ID, models.StatusCompleted))

	assert.Len(t, s.Filter("", models.StatusCompleted), 1)
	assert.Len(t, s.Filter("", models.StatusNew), 2)
	assert.Len(t, s.Filter("", "all"), 3)
	assert.Len(t, s.Filter("bob", models.StatusCompleted), 0)
}

func TestStats(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)
	require.NoError(t, s.UpdateStatus(leads[0].ID, models.StatusContacted))
	require.NoError(t, s.UpdateStatus(leads[1].ID, models.StatusCompleted))

	assert.Equal(t, models.LeadStats{Total: 3, New: 1, Contacted: 1, Completed: 1}, s.Stats())
}

func TestUpdateLead(t *testing.T) {
	s := newTestLeadStore(t)
	leads := seedLeads(s)

	err := s.Update(leads[0].ID, func(l *models.Lead) {
		l.Message = "Call after 5pm"
		l.ID = "tampered"
	})
	require.NoError(t, err)

	found, err := s.Get(leads[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Call after 5pm", found.Message)

	err = s.Update(leads[0].ID, func(l *models.Lead) { l.Status = "bogus" })
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestReplace(t *testing.T) {
	s := newTestLeadStore(t)
	seedLeads(s)

	s.Replace([]models.Lead{{ID: "remote-1", FirstName: "Remote", Status: models.StatusNew}})

	all := s.All()
	require.Len(t, all, 1)
	assert.Equal(t, "remote-1", all[0].ID)
}

func TestAllReturnsCopy(t *testing.T) {
	s := newTestLeadStore(t)
	seedLeads(s)

	all := s.All()
	all[0].FirstName = "Mutated"

	assert.NotEqual(t, "Mutated", s.All()[0].FirstName)
}
