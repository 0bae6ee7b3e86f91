// ABOUTME: Tests for lead dashboard stats and funnel graph generation
// ABOUTME: Pins the clock so stale and recent buckets are deterministic
package viz

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
	return now
}

func sampleLeads(now time.Time) []models.Lead {
	return []models.Lead{
		{ID: "1", FirstName: "Jane", LastName: "Doe", Phone: "111", Service: "roof-repair", Urgency: "urgent", Status: models.StatusNew, Date: now.Add(-time.Hour)},
		{ID: "2", FirstName: "Old", LastName: "Lead", Phone: "222", Service: "roof-repair", Urgency: "planning", Status: models.StatusNew, Date: now.AddDate(0, 0, -5)},
		{ID: "3", FirstName: "Bob", Service: "gutters", Urgency: "soon", Status: models.StatusContacted, Date: now.AddDate(0, 0, -20)},
		{ID: "4", FirstName: "Cy", Status: models.StatusCompleted, Date: now.AddDate(0, 0, -2)},
	}
}

func TestGenerateDashboardStats(t *testing.T) {
	now := fixedNow(t)
	stats := GenerateDashboardStats(sampleLeads(now))

	assert.Equal(t, models.LeadStats{Total: 4, New: 2, Contacted: 1, Completed: 1}, stats.Totals)
	assert.Equal(t, 2, stats.ByService["roof-repair"])
	assert.Equal(t, 1, stats.ByService["unknown"])
	assert.Equal(t, 1, stats.ByUrgency["urgent"])

	require.Len(t, stats.RecentLeads, 3)
	assert.Equal(t, "1", stats.RecentLeads[0].ID)

	require.Len(t, stats.StaleLeads, 1)
	assert.Equal(t, "Old Lead", stats.StaleLeads[0].Name)
	assert.Equal(t, 5, stats.StaleLeads[0].DaysSince)
}

func TestRenderDashboard(t *testing.T) {
	now := fixedNow(t)
	out := RenderDashboard(GenerateDashboardStats(sampleLeads(now)))

	assert.Contains(t, out, "ROOFDESK LEAD DASHBOARD")
	assert.Contains(t, out, "4 leads total")
	assert.Contains(t, out, "Roof Repair")
	assert.Contains(t, out, "NEEDS ATTENTION")
	assert.Contains(t, out, "Jane Doe")
}

func TestRenderEmptyDashboard(t *testing.T) {
	fixedNow(t)
	out := RenderDashboard(GenerateDashboardStats(nil))

	assert.Contains(t, out, "0 leads total")
	assert.NotContains(t, out, "NEEDS ATTENTION")
}

func TestOptionBarsOrder(t *testing.T) {
	bars := optionBars(models.Urgencies, map[string]int{"planning": 2, "emergency": 1, "zzz": 1})
	require.Len(t, bars, 3)
	assert.Equal(t, "Emergency (leaking now)", bars[0].Label)
	assert.Equal(t, "Just planning", bars[1].Label)
	assert.Equal(t, "zzz", bars[2].Label)
}

func TestGenerateFunnelGraph(t *testing.T) {
	now := time.Now()
	g := NewGraphGenerator(sampleLeads(now))

	dot, err := g.GenerateFunnelGraph(context.Background(), DimensionService)
	require.NoError(t, err)
	assert.True(t, strings.Contains(dot, "digraph") || strings.Contains(dot, "graph"))
	assert.Contains(t, dot, "value_roof-repair")
	assert.Contains(t, dot, "status_contacted")
}

func TestGenerateFunnelGraphUnknownDimension(t *testing.T) {
	g := NewGraphGenerator(nil)
	_, err := g.GenerateFunnelGraph(context.Background(), "color")
	assert.Error(t, err)
}
