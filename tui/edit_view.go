package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/roofdesk/models"
)

const nameKey = "name"

func (m Model) renderEditView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EDIT COMPONENT"))
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(labelStyle.Render(m.formKeys[i]))
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(m.renderEditHelp())

	return s.String()
}

func (m Model) renderEditHelp() string {
	help := []string{
		"Tab: Next field",
		"Enter: Save",
		"Esc: Cancel",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewDetail
		m.formInputs = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex - 1 + len(m.formInputs)) % len(m.formInputs)
		return m, m.updateFormFocus()
	case "enter":
		if err := m.saveComponent(); err != nil {
			m.err = err
			return m, nil
		}
		m.viewMode = ViewDetail
		m.formInputs = nil
		m.message = "Component saved"
		return m, nil
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// initFormInputs builds one input for the name and one per text setting.
func (m *Model) initFormInputs(c models.ComponentContent) {
	keys := append([]string{nameKey}, stringSettingKeys(c)...)
	inputs := make([]textinput.Model, len(keys))

	for i, key := range keys {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 2000
		inputs[i].Width = 60
		if key == nameKey {
			inputs[i].SetValue(c.Name)
		} else {
			inputs[i].SetValue(c.Setting(key))
		}
	}

	m.formInputs = inputs
	m.formKeys = keys
	m.focusIndex = 0
	m.err = nil
}

func (m *Model) updateFormFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.formInputs {
		if i == m.focusIndex {
			cmd = m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) saveComponent() error {
	page, err := m.app.Content.Page(m.selectedID)
	if err != nil {
		return err
	}
	c := page.Components[m.componentRow]

	settings := map[string]interface{}{}
	for i, key := range m.formKeys {
		value := m.formInputs[i].Value()
		if key == nameKey {
			if strings.TrimSpace(value) != "" && value != c.Name {
				if err := m.app.Content.Rename(page.Name, c.ID, value); err != nil {
					return err
				}
			}
			continue
		}
		if value != c.Setting(key) {
			settings[key] = value
		}
	}

	if len(settings) == 0 {
		return nil
	}
	return m.app.Content.UpdateSettings(page.Name, c.ID, settings)
}
