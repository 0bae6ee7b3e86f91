// ABOUTME: Interactive terminal subcommands
// ABOUTME: Launches the admin TUI and the lead form wizard
package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/roofdesk/config"
	"github.com/harperreed/roofdesk/leadform"
	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/tui"
)

// AdminCommand runs the full-screen admin. backend may be nil.
func AdminCommand(app *store.App, backend tui.Backend) error {
	p := tea.NewProgram(tui.NewModel(app, backend), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// FormCommand runs the lead form wizard and waits for pending submissions.
// submitter may be nil.
func FormCommand(app *store.App, cfg *config.Config, submitter leadform.Submitter) error {
	m := tui.NewFormModel(app.Leads, FormOptions(cfg, submitter)...)
	_, err := tea.NewProgram(m).Run()
	m.Wait()
	return err
}
