// ABOUTME: Terminal lead form wizard
// ABOUTME: Drives the multi-step lead form with option pickers and text inputs
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/models"
)

// SourceTerminal is recorded on leads entered through the wizard.
const SourceTerminal = "terminal"

type formResetMsg struct {
	gen int
}

var (
	selectedOptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("170")).
				Bold(true)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	confirmStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(1, 2)
)

// FormModel is the bubbletea model for the lead form wizard
type FormModel struct {
	form   *leadform.Form
	cursor int
	inputs []textinput.Model
	labels []string
	focus  int
	gen    int
	err    error
}

// NewFormModel builds a wizard over a new form. The post-submit reset is
// driven by the bubbletea runtime, so opts must not set a scheduler.
func NewFormModel(leads leadform.LeadAdder, opts ...leadform.Option) FormModel {
	all := append([]leadform.Option{leadform.WithSource(SourceTerminal)}, opts...)
	all = append(all, leadform.WithScheduler(func(time.Duration, func()) func() {
		return func() {}
	}))

	m := FormModel{form: leadform.New(leads, all...)}
	m.prepareStep()
	return m
}

// Wait blocks until background submissions to the backend finish.
func (m FormModel) Wait() {
	m.form.Wait()
}

func (m FormModel) Init() tea.Cmd {
	return nil
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case formResetMsg:
		if msg.gen == m.gen && m.form.IsComplete() {
			m.form.Reset()
			m.prepareStep()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m FormModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.form.IsComplete() {
		switch key {
		case "q":
			return m, tea.Quit
		case "enter", "esc":
			m.form.Reset()
			m.prepareStep()
		}
		return m, nil
	}

	switch key {
	case "ctrl+r":
		m.form.Reset()
		m.prepareStep()
		return m, nil
	case "esc":
		m.captureInputs()
		m.form.Back()
		m.prepareStep()
		return m, m.focusCmd()
	}

	if options := m.stepOptions(); options != nil {
		return m.handleOptionKeys(key, options)
	}
	return m.handleInputKeys(msg)
}

func (m FormModel) handleOptionKeys(key string, options []models.Option) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter":
		value := options[m.cursor].Value
		var err error
		switch m.form.Current() {
		case leadform.StepService:
			err = m.form.SelectService(value)
		case leadform.StepPropertyType:
			err = m.form.SelectPropertyType(value)
		case leadform.StepUrgency:
			err = m.form.SelectUrgency(value)
		}
		m.err = err
		m.prepareStep()
		return m, m.focusCmd()
	}
	return m, nil
}

func (m FormModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.focusCmd()
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
		return m, m.focusCmd()
	case "enter":
		return m.advance()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// advance saves the current text step and moves on, or submits on the last step.
func (m FormModel) advance() (tea.Model, tea.Cmd) {
	m.captureInputs()

	var err error
	switch m.form.Current() {
	case leadform.StepAddress:
		err = m.form.NextFromAddress()
	case leadform.StepPhoto:
		err = m.form.AttachPhoto(strings.TrimSpace(m.inputs[0].Value()))
	case leadform.StepContact:
		if _, err = m.form.Submit(context.Background()); err == nil {
			m.err = nil
			m.gen++
			gen := m.gen
			return m, tea.Tick(leadform.ResetDelay, func(time.Time) tea.Msg {
				return formResetMsg{gen: gen}
			})
		}
	}

	m.err = err
	if err == nil {
		m.prepareStep()
	}
	return m, m.focusCmd()
}

// captureInputs copies text input values into the form draft.
func (m *FormModel) captureInputs() {
	switch m.form.Current() {
	case leadform.StepAddress:
		if len(m.inputs) == 2 {
			m.form.SetAddress(m.inputs[0].Value(), m.inputs[1].Value())
		}
	case leadform.StepContact:
		if len(m.inputs) == 4 {
			m.form.SetContact(m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value(), m.inputs[3].Value())
		}
	}
}

// prepareStep rebuilds the cursor or inputs for the current step from the draft.
func (m *FormModel) prepareStep() {
	m.cursor = 0
	m.focus = 0
	m.inputs = nil
	m.labels = nil

	d := m.form.Draft()
	switch m.form.Current() {
	case leadform.StepService:
		m.cursor = optionIndex(models.Services, d.Service)
	case leadform.StepPropertyType:
		m.cursor = optionIndex(models.PropertyTypes, d.PropertyType)
	case leadform.StepUrgency:
		m.cursor = optionIndex(models.Urgencies, d.Urgency)
	case leadform.StepAddress:
		m.setInputs([]string{"Address", "Zip code"}, []string{d.Address, d.ZipCode})
	case leadform.StepPhoto:
		m.setInputs([]string{"Photo"}, []string{d.Photo})
		m.inputs[0].Placeholder = "Path or URL (leave empty to skip)"
	case leadform.StepContact:
		m.setInputs([]string{"Name", "Phone", "Email", "Message"}, []string{d.Name, d.Phone, d.Email, d.Message})
	}
}

func (m *FormModel) setInputs(labels, values []string) {
	m.labels = labels
	m.inputs = make([]textinput.Model, len(labels))
	for i := range labels {
		m.inputs[i] = textinput.New()
		m.inputs[i].CharLimit = 500
		m.inputs[i].Width = 50
		m.inputs[i].SetValue(values[i])
	}
}

func (m *FormModel) focusCmd() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m FormModel) stepOptions() []models.Option {
	switch m.form.Current() {
	case leadform.StepService:
		return models.Services
	case leadform.StepPropertyType:
		return models.PropertyTypes
	case leadform.StepUrgency:
		return models.Urgencies
	}
	return nil
}

func optionIndex(options []models.Option, value string) int {
	for i, o := range options {
		if o.Value == value {
			return i
		}
	}
	return 0
}

var stepQuestions = map[leadform.Step]string{
	leadform.StepService:      "What do you need help with?",
	leadform.StepPropertyType: "What type of property is it?",
	leadform.StepUrgency:      "How soon do you need us?",
	leadform.StepAddress:      "Where is the property?",
	leadform.StepPhoto:        "Have a photo of the damage?",
	leadform.StepContact:      "How can we reach you?",
}

func (m FormModel) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("FREE ROOF ESTIMATE"))
	s.WriteString("\n")

	if lead, ok := m.form.Submitted(); ok {
		msg := fmt.Sprintf("Thanks, %s! We'll call %s shortly.\n\n%s",
			lead.FirstName, lead.Phone,
			helpStyle.Render(fmt.Sprintf("Starting over in %s • Enter: New request • q: Quit", leadform.ResetDelay)))
		s.WriteString(confirmStyle.Render(msg))
		return s.String()
	}

	s.WriteString(progressStyle.Render(fmt.Sprintf("Step %d of %d", m.form.Step(), m.form.Steps())))
	s.WriteString("\n\n")
	s.WriteString(stepQuestions[m.form.Current()])
	s.WriteString("\n\n")

	if options := m.stepOptions(); options != nil {
		for i, o := range options {
			if i == m.cursor {
				s.WriteString(selectedOptionStyle.Render("> " + o.Label))
			} else {
				s.WriteString("  " + o.Label)
			}
			s.WriteString("\n")
		}
	} else {
		for i, input := range m.inputs {
			cursor := "  "
			if i == m.focus {
				cursor = "> "
			}
			s.WriteString(cursor + labelStyle.Render(m.labels[i]) + input.View() + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n")
		s.WriteString(errorStyle.Render(formErrorText(m.err)))
		s.WriteString("\n")
	}

	s.WriteString(m.renderFormHelp())
	return s.String()
}

func (m FormModel) renderFormHelp() string {
	var help []string
	if m.stepOptions() != nil {
		help = []string{"↑/↓: Choose", "Enter: Next"}
	} else if m.form.Current() == leadform.StepContact {
		help = []string{"Tab: Next field", "Enter: Submit"}
	} else {
		help = []string{"Tab: Next field", "Enter: Next"}
	}
	if m.form.Step() > 1 {
		help = append(help, "Esc: Back")
	}
	help = append(help, "Ctrl+R: Start over", "Ctrl+C: Quit")
	return helpStyle.Render(strings.Join(help, " • "))
}

func formErrorText(err error) string {
	var verr *leadform.ValidationError
	if errors.As(err, &verr) {
		return "Please fill in your " + verr.Field
	}
	return err.Error()
}
