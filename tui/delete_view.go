// ABOUTME: Delete confirmation view for TUI
// ABOUTME: Confirms deletion of leads and images, mirroring lead deletes to the backend
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("9")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

// RemoteDeleteMsg reports the backend half of a lead delete.
type RemoteDeleteMsg struct {
	ID  string
	Err error
}

func (m Model) renderConfirmDeleteView() string {
	var entityName, entityType string

	switch m.tab {
	case TabLeads:
		lead, err := m.app.Leads.Get(m.selectedID)
		if err != nil {
			return fmt.Sprintf("Error loading lead: %v", err)
		}
		entityName = lead.FullName()
		entityType = "lead"
	case TabImages:
		img, err := m.app.Images.Get(m.selectedID)
		if err != nil {
			return fmt.Sprintf("Error loading image: %v", err)
		}
		entityName = img.URL
		entityType = "image"
	default:
		return "Pages cannot be deleted"
	}

	title := warningStyle.Render("⚠  DELETE CONFIRMATION  ⚠")
	message := fmt.Sprintf("Are you sure you want to delete this %s?", entityType)
	entityInfo := fmt.Sprintf("\n%s: %s\n", strings.ToUpper(entityType), entityName)
	warning := "\nThis action cannot be undone!"

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Delete (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		warning,
		"",
		buttons,
	)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		confirmBoxStyle.Render(content),
	)
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		cmd, err := m.performDelete()
		m.viewMode = ViewList
		if err != nil {
			m.err = err
			return m, nil
		}
		m.message = "Successfully deleted"
		m.selectedID = ""
		if m.selectedRow > 0 && m.selectedRow >= m.rowCount() {
			m.selectedRow = m.rowCount() - 1
		}
		return m, cmd
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}

// performDelete removes the selection locally. For leads with a backend it
// returns a command that deletes remotely.
func (m Model) performDelete() (tea.Cmd, error) {
	id := m.selectedID

	switch m.tab {
	case TabLeads:
		if !m.app.Leads.Delete(id) {
			return nil, fmt.Errorf("lead not found: %s", id)
		}
		if m.backend == nil {
			return nil, nil
		}
		backend := m.backend
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
			defer cancel()
			return RemoteDeleteMsg{ID: id, Err: backend.DeleteLead(ctx, id)}
		}, nil
	case TabImages:
		if !m.app.Images.Delete(id) {
			return nil, fmt.Errorf("image not found: %s", id)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("pages cannot be deleted")
	}
}
