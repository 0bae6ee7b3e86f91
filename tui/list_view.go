package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/roofdesk/models"
)

const backendTimeout = 15 * time.Second

// LeadsSyncedMsg reports the result of pulling leads from the backend.
type LeadsSyncedMsg struct {
	Leads []models.Lead
	Err   error
}

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ROOFDESK"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString("/ " + m.searchInput.View())
		s.WriteString("\n\n")
	} else if m.searchQuery != "" || (m.tab == TabLeads && m.statusFilter != "all") {
		s.WriteString(helpStyle.Render(fmt.Sprintf("search: %q  status: %s", m.searchQuery, m.statusFilter)))
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	s.WriteString(m.renderStatusLine())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderStatusLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case m.syncing:
		return messageStyle.Render("Syncing leads from backend...") + "\n"
	case m.message != "":
		return messageStyle.Render(m.message) + "\n"
	}
	return ""
}

func (m Model) renderTabs() string {
	var rendered []string
	for i, tab := range tabNames {
		if Tab(i) == m.tab {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	var columns []table.Column
	var rows []table.Row

	switch m.tab {
	case TabLeads:
		columns = []table.Column{
			{Title: "Name", Width: 22},
			{Title: "Phone", Width: 14},
			{Title: "Service", Width: 18},
			{Title: "Urgency", Width: 10},
			{Title: "Status", Width: 10},
			{Title: "Date", Width: 10},
		}
		for _, lead := range m.leads() {
			rows = append(rows, table.Row{
				lead.FullName(),
				lead.Phone,
				models.LabelFor(models.Services, lead.Service),
				lead.Urgency,
				lead.Status,
				lead.Date.Format("2006-01-02"),
			})
		}
	case TabPages:
		columns = []table.Column{
			{Title: "Page", Width: 16},
			{Title: "Title", Width: 40},
			{Title: "Components", Width: 10},
		}
		for _, page := range m.app.Content.Pages() {
			rows = append(rows, table.Row{page.Name, page.Title, fmt.Sprintf("%d", len(page.Components))})
		}
	case TabImages:
		columns = []table.Column{
			{Title: "Title", Width: 24},
			{Title: "Category", Width: 12},
			{Title: "Active", Width: 6},
			{Title: "URL", Width: 36},
		}
		for _, img := range m.images() {
			active := "yes"
			if !img.IsActive {
				active = "no"
			}
			rows = append(rows, table.Row{img.Title, img.Category, active, img.URL})
		}
	}

	if len(rows) == 0 {
		return helpStyle.Render("Nothing here yet") + "\n"
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-12, 3)),
	)

	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Tab: Switch tabs",
		"Enter: Details",
		"/: Search",
	}
	if m.tab == TabLeads {
		help = append(help, "f: Filter status", "g: Dashboard")
		if m.backend != nil {
			help = append(help, "r: Sync")
		}
	}
	if m.tab != TabPages {
		help = append(help, "d: Delete")
	}
	help = append(help, "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "enter":
		if id := m.getSelectedID(); id != "" {
			m.viewMode = ViewDetail
			m.selectedID = id
			m.componentRow = 0
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		return m, m.searchInput.Focus()
	case "f":
		if m.tab == TabLeads {
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.selectedRow = 0
		}
	case "g":
		if m.tab == TabLeads {
			m.viewMode = ViewGraph
			m.graphDOT = ""
			m.graphDimension = ""
		}
	case "d":
		if m.tab != TabPages {
			if id := m.getSelectedID(); id != "" {
				m.selectedID = id
				m.viewMode = ViewConfirmDelete
			}
		}
	case "r":
		if m.tab == TabLeads && m.backend != nil && !m.syncing {
			m.syncing = true
			return m, syncLeadsCmd(m.backend)
		}
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchQuery = strings.TrimSpace(m.searchInput.Value())
		m.searching = false
		m.searchInput.Blur()
		m.selectedRow = 0
		return m, nil
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func syncLeadsCmd(backend Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		leads, err := backend.FetchLeads(ctx)
		return LeadsSyncedMsg{Leads: leads, Err: err}
	}
}

func (m *Model) handleLeadsSynced(msg LeadsSyncedMsg) {
	m.syncing = false
	if msg.Err != nil {
		m.err = fmt.Errorf("sync failed: %w", msg.Err)
		return
	}
	m.app.Leads.Replace(msg.Leads)
	m.selectedRow = 0
	m.message = fmt.Sprintf("Synced %d lead(s)", len(msg.Leads))
}

func nextStatusFilter(current string) string {
	order := append([]string{"all"}, models.LeadStatuses...)
	for i, s := range order {
		if s == current {
			return order[(i+1)%len(order)]
		}
	}
	return "all"
}

func (m Model) leads() []models.Lead {
	return m.app.Leads.Filter(m.searchQuery, m.statusFilter)
}

func (m Model) images() []models.ManagedImage {
	return m.app.Images.Search(m.searchQuery, "all")
}

func (m Model) rowCount() int {
	switch m.tab {
	case TabLeads:
		return len(m.leads())
	case TabPages:
		return len(m.app.Content.Pages())
	case TabImages:
		return len(m.images())
	}
	return 0
}

func (m Model) getSelectedID() string {
	switch m.tab {
	case TabLeads:
		leads := m.leads()
		if m.selectedRow < len(leads) {
			return leads[m.selectedRow].ID
		}
	case TabPages:
		pages := m.app.Content.Pages()
		if m.selectedRow < len(pages) {
			return pages[m.selectedRow].Name
		}
	case TabImages:
		images := m.images()
		if m.selectedRow < len(images) {
			return images[m.selectedRow].ID
		}
	}
	return ""
}
