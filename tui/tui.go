// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen admin for leads, page content, and the image library
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewEdit
	ViewGraph
	ViewConfirmDelete
)

// Tab is the collection shown in the list view
type Tab int

const (
	TabLeads Tab = iota
	TabPages
	TabImages
)

var tabNames = []string{"Leads", "Pages", "Images"}

// Backend is the remote lead API. *apiclient.Client satisfies it.
type Backend interface {
	FetchLeads(ctx context.Context) ([]models.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

// Model is the admin bubbletea model
type Model struct {
	app      *store.App
	backend  Backend
	viewMode ViewMode
	tab      Tab

	// List view state
	selectedRow  int
	searching    bool
	searchInput  textinput.Model
	searchQuery  string
	statusFilter string

	// Detail view state
	selectedID   string
	componentRow int

	// Edit view state
	formInputs []textinput.Model
	formKeys   []string
	focusIndex int

	// Graph view state
	graphDimension string
	graphDOT       string

	syncing bool
	message string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates the admin model. backend may be nil.
func NewModel(app *store.App, backend Backend) Model {
	search := textinput.New()
	search.Placeholder = "Search name, email, phone"
	search.CharLimit = 100

	return Model{
		app:          app,
		backend:      backend,
		viewMode:     ViewList,
		tab:          TabLeads,
		searchInput:  search,
		statusFilter: "all",
		width:        80,
		height:       24,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case LeadsSyncedMsg:
		m.handleLeadsSynced(msg)
		return m, nil
	case RemoteDeleteMsg:
		if msg.Err != nil {
			m.message = "Deleted locally; backend delete failed: " + msg.Err.Error()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewEdit:
		return m.renderEditView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// Text entry owns every other key
	if m.searching || m.viewMode == ViewEdit {
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		return m.handleEditKeys(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}

	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(12)
)
