package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/roofdesk/viz"
)

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("LEAD DASHBOARD"))
	s.WriteString("\n\n")

	if m.graphDOT == "" {
		stats := viz.GenerateDashboardStats(m.app.Leads.All())
		s.WriteString(viz.RenderDashboard(stats))
	} else {
		s.WriteString(helpStyle.Render("Funnel by " + m.graphDimension + " (DOT)"))
		s.WriteString("\n")
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"s: Funnel by service",
		"p: By property",
		"u: By urgency",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dimensions := map[string]string{
		"s": viz.DimensionService,
		"p": viz.DimensionProperty,
		"u": viz.DimensionUrgency,
	}

	switch key := msg.String(); key {
	case "esc":
		if m.graphDOT != "" {
			m.graphDOT = ""
			m.graphDimension = ""
		} else {
			m.viewMode = ViewList
		}
	default:
		if dimension, ok := dimensions[key]; ok {
			m.err = m.generateGraph(dimension)
		}
	}

	return m, nil
}

func (m *Model) generateGraph(dimension string) error {
	generator := viz.NewGraphGenerator(m.app.Leads.All())
	dot, err := generator.GenerateFunnelGraph(context.Background(), dimension)
	if err != nil {
		return err
	}
	m.graphDimension = dimension
	m.graphDOT = dot
	return nil
}
