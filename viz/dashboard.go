// ABOUTME: Terminal dashboard statistics and rendering for leads
// ABOUTME: Summarizes status, service mix, urgency, and leads needing a call back
package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/roofdesk/models"
)

var timeNow = time.Now

// StaleAfter is how long a lead may sit in "new" before it needs attention.
const StaleAfter = 48 * time.Hour

type DashboardStats struct {
	Totals     models.LeadStats
	ByService  map[string]int
	ByProperty map[string]int
	ByUrgency  map[string]int

	// Leads received in the last 7 days, newest first
	RecentLeads []models.Lead

	// New leads nobody has contacted yet
	StaleLeads []StaleLead
}

type StaleLead struct {
	Name      string
	Phone     string
	Urgency   string
	DaysSince int
}

func GenerateDashboardStats(leads []models.Lead) *DashboardStats {
	stats := &DashboardStats{
		ByService:  make(map[string]int),
		ByProperty: make(map[string]int),
		ByUrgency:  make(map[string]int),
	}

	now := timeNow()
	weekAgo := now.AddDate(0, 0, -7)

	for _, lead := range leads {
		stats.Totals.Total++
		switch lead.Status {
		case models.StatusNew:
			stats.Totals.New++
		case models.StatusContacted:
			stats.Totals.Contacted++
		case models.StatusCompleted:
			stats.Totals.Completed++
		}

		stats.ByService[orUnknown(lead.Service)]++
		stats.ByProperty[orUnknown(lead.PropertyType)]++
		stats.ByUrgency[orUnknown(lead.Urgency)]++

		if lead.Date.After(weekAgo) {
			stats.RecentLeads = append(stats.RecentLeads, lead)
		}

		if lead.Status == models.StatusNew && now.Sub(lead.Date) > StaleAfter {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{
				Name:      lead.FullName(),
				Phone:     lead.Phone,
				Urgency:   lead.Urgency,
				DaysSince: int(now.Sub(lead.Date).Hours() / 24),
			})
		}
	}

	sort.SliceStable(stats.RecentLeads, func(i, j int) bool {
		return stats.RecentLeads[i].Date.After(stats.RecentLeads[j].Date)
	})
	sort.SliceStable(stats.StaleLeads, func(i, j int) bool {
		return stats.StaleLeads[i].DaysSince > stats.StaleLeads[j].DaysSince
	})

	return stats
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  ROOFDESK LEAD DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATUS\n")
	renderBars(&out, []bar{
		{models.StatusNew, stats.Totals.New},
		{models.StatusContacted, stats.Totals.Contacted},
		{models.StatusCompleted, stats.Totals.Completed},
	})
	out.WriteString(fmt.Sprintf("  %d leads total\n\n", stats.Totals.Total))

	out.WriteString("SERVICES\n")
	renderBars(&out, optionBars(models.Services, stats.ByService))
	out.WriteString("\n")

	out.WriteString("URGENCY\n")
	renderBars(&out, optionBars(models.Urgencies, stats.ByUrgency))
	out.WriteString("\n")

	if len(stats.RecentLeads) > 0 {
		out.WriteString("THIS WEEK\n")
		for i, lead := range stats.RecentLeads {
			if i == 5 {
				out.WriteString(fmt.Sprintf("  … and %d more\n", len(stats.RecentLeads)-5))
				break
			}
			out.WriteString(fmt.Sprintf("  %s  %-20s %s\n",
				lead.Date.Format("Jan 02"), lead.FullName(), models.LabelFor(models.Services, lead.Service)))
		}
		out.WriteString("\n")
	}

	if len(stats.StaleLeads) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d new leads waiting more than 2 days\n", len(stats.StaleLeads)))
		for _, s := range stats.StaleLeads {
			out.WriteString(fmt.Sprintf("     %-20s %-12s %dd\n", s.Name, s.Phone, s.DaysSince))
		}
	}

	return out.String()
}

type bar struct {
	Label string
	Count int
}

// optionBars orders counts by the option catalogue, then any unknown values.
func optionBars(options []models.Option, counts map[string]int) []bar {
	var bars []bar
	seen := make(map[string]bool)
	for _, o := range options {
		seen[o.Value] = true
		if n := counts[o.Value]; n > 0 {
			bars = append(bars, bar{o.Label, n})
		}
	}
	var extra []string
	for k := range counts {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		bars = append(bars, bar{k, counts[k]})
	}
	return bars
}

func renderBars(out *strings.Builder, bars []bar) {
	maxCount := 0
	for _, b := range bars {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, b := range bars {
		// Bar length 0-10 blocks
		barLength := (b.Count * 10) / maxCount
		line := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)
		out.WriteString(fmt.Sprintf("  %-24s %s  %2d\n", b.Label, line, b.Count))
	}
}
