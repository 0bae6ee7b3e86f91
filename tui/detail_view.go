package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/roofdesk/models"
)

func (m Model) renderDetailView() string {
	var s strings.Builder

	switch m.tab {
	case TabLeads:
		s.WriteString(m.renderLeadDetail())
	case TabPages:
		s.WriteString(m.renderPageDetail())
	case TabImages:
		s.WriteString(m.renderImageDetail())
	}

	s.WriteString("\n")
	s.WriteString(m.renderStatusLine())
	s.WriteString(m.renderDetailHelp())
	return s.String()
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value + "\n"
}

func (m Model) renderLeadDetail() string {
	lead, err := m.app.Leads.Get(m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error loading lead: %v\n", err)
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(lead.FullName()))
	s.WriteString("\n")
	s.WriteString(field("Status", lead.Status))
	s.WriteString(field("Phone", lead.Phone))
	s.WriteString(field("Email", lead.Email))
	s.WriteString(field("Service", models.LabelFor(models.Services, lead.Service)))
	s.WriteString(field("Property", models.LabelFor(models.PropertyTypes, lead.PropertyType)))
	s.WriteString(field("Urgency", models.LabelFor(models.Urgencies, lead.Urgency)))
	s.WriteString(field("Address", strings.TrimSpace(lead.Address+" "+lead.ZipCode)))
	s.WriteString(field("Source", lead.Source))
	s.WriteString(field("Received", lead.Date.Format("2006-01-02 15:04")))
	if lead.Photo != "" {
		s.WriteString(field("Photo", lead.Photo))
	}
	if lead.Message != "" {
		s.WriteString("\n" + lead.Message + "\n")
	}
	return s.String()
}

func (m Model) renderPageDetail() string {
	page, err := m.app.Content.Page(m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error loading page: %v\n", err)
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(page.Name) + ": " + page.Title))
	s.WriteString("\n")
	for i, c := range page.Components {
		cursor := "  "
		if i == m.componentRow {
			cursor = "> "
		}
		state := "●"
		if !c.IsActive {
			state = "○"
		}
		fmt.Fprintf(&s, "%s%s %-24s %s\n", cursor, state, c.Name, helpStyle.Render(c.Type))
	}
	return s.String()
}

func (m Model) renderImageDetail() string {
	img, err := m.app.Images.Get(m.selectedID)
	if err != nil {
		return fmt.Sprintf("Error loading image: %v\n", err)
	}

	active := "yes"
	if !img.IsActive {
		active = "no"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(img.Title))
	s.WriteString("\n")
	s.WriteString(field("URL", img.URL))
	s.WriteString(field("Alt", img.Alt))
	s.WriteString(field("Category", img.Category))
	s.WriteString(field("Tags", strings.Join(img.Tags, ", ")))
	s.WriteString(field("Used in", strings.Join(img.UsedIn, ", ")))
	s.WriteString(field("Active", active))
	s.WriteString(field("Uploaded", img.UploadedAt.Format("2006-01-02")))
	return s.String()
}

func (m Model) renderDetailHelp() string {
	var help []string
	switch m.tab {
	case TabLeads:
		help = []string{"1: New", "2: Contacted", "3: Completed", "d: Delete"}
	case TabPages:
		help = []string{"↑/↓: Select", "Space: Show/hide", "[/]: Move", "e: Edit"}
	case TabImages:
		help = []string{"Space: Show/hide", "c: Next category", "d: Delete"}
	}
	help = append(help, "Esc: Back", "q: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	if msg.String() == "esc" {
		m.viewMode = ViewList
		return m, nil
	}

	switch m.tab {
	case TabLeads:
		m.handleLeadDetailKeys(msg.String())
	case TabPages:
		return m.handlePageDetailKeys(msg.String())
	case TabImages:
		m.handleImageDetailKeys(msg.String())
	}
	return m, nil
}

func (m *Model) handleLeadDetailKeys(key string) {
	statuses := map[string]string{
		"1": models.StatusNew,
		"2": models.StatusContacted,
		"3": models.StatusCompleted,
	}
	if status, ok := statuses[key]; ok {
		if err := m.app.Leads.UpdateStatus(m.selectedID, status); err != nil {
			m.err = err
			return
		}
		m.message = "Status set to " + status
		return
	}
	if key == "d" {
		m.viewMode = ViewConfirmDelete
	}
}

func (m Model) handlePageDetailKeys(key string) (tea.Model, tea.Cmd) {
	page, err := m.app.Content.Page(m.selectedID)
	if err != nil {
		m.err = err
		return m, nil
	}
	if len(page.Components) == 0 {
		return m, nil
	}
	if m.componentRow >= len(page.Components) {
		m.componentRow = len(page.Components) - 1
	}
	c := page.Components[m.componentRow]

	switch key {
	case "up", "k":
		if m.componentRow > 0 {
			m.componentRow--
		}
	case "down", "j":
		if m.componentRow < len(page.Components)-1 {
			m.componentRow++
		}
	case " ", "space":
		m.err = m.app.Content.SetActive(page.Name, c.ID, !c.IsActive)
	case "[":
		if m.componentRow > 0 {
			m.err = m.app.Content.MoveComponent(page.Name, c.ID, m.componentRow-1)
			m.componentRow--
		}
	case "]":
		if m.componentRow < len(page.Components)-1 {
			m.err = m.app.Content.MoveComponent(page.Name, c.ID, m.componentRow+1)
			m.componentRow++
		}
	case "e":
		m.initFormInputs(c)
		m.viewMode = ViewEdit
		return m, m.formInputs[0].Focus()
	}
	return m, nil
}

func (m *Model) handleImageDetailKeys(key string) {
	img, err := m.app.Images.Get(m.selectedID)
	if err != nil {
		m.err = err
		return
	}

	switch key {
	case " ", "space":
		m.err = m.app.Images.SetActive(img.ID, !img.IsActive)
	case "c":
		m.err = m.app.Images.SetCategory(img.ID, nextCategory(img.Category))
	case "d":
		m.viewMode = ViewConfirmDelete
	}
}

func nextCategory(current string) string {
	for i, c := range models.ImageCategories {
		if c == current {
			return models.ImageCategories[(i+1)%len(models.ImageCategories)]
		}
	}
	return models.ImageCategories[0]
}

// stringSettingKeys returns the component's editable text settings in order.
func stringSettingKeys(c models.ComponentContent) []string {
	var keys []string
	for k, v := range c.Settings {
		if _, ok := v.(string); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
