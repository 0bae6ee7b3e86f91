// ABOUTME: Lead CLI commands
// ABOUTME: Human-friendly commands for reviewing, updating, and syncing leads
package cli

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
)

// LeadBackend is the remote lead API. *apiclient.Client satisfies it.
type LeadBackend interface {
	FetchLeads(ctx context.Context) ([]models.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}

const backendTimeout = 15 * time.Second

// ListLeadsCommand lists leads, newest first.
func ListLeadsCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, email, or phone")
	status := fs.String("status", "all", "Filter by status (new, contacted, completed, all)")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if *status != "all" && !models.IsValidStatus(*status) {
		return fmt.Errorf("invalid status: %s", *status)
	}

	leads := app.Leads.Filter(*query, *status)
	if len(leads) == 0 {
		fmt.Println("No leads found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tPHONE\tSERVICE\tURGENCY\tSTATUS\tDATE\tID")
	_, _ = fmt.Fprintln(w, "----\t-----\t-------\t-------\t------\t----\t--")

	for i, lead := range leads {
		if *limit > 0 && i == *limit {
			break
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			lead.FullName(),
			orDash(lead.Phone),
			models.LabelFor(models.Services, lead.Service),
			orDash(lead.Urgency),
			lead.Status,
			lead.Date.Format("2006-01-02"),
			shortID(lead.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d lead(s)\n", len(leads))
	return nil
}

// ShowLeadCommand prints every field of one lead.
func ShowLeadCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("lead ID is required")
	}

	lead, err := findLead(app, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Printf("%s (ID: %s)\n", lead.FullName(), lead.ID)
	fmt.Printf("  Status:   %s\n", lead.Status)
	fmt.Printf("  Email:    %s\n", orDash(lead.Email))
	fmt.Printf("  Phone:    %s\n", orDash(lead.Phone))
	fmt.Printf("  Service:  %s\n", models.LabelFor(models.Services, lead.Service))
	fmt.Printf("  Property: %s\n", models.LabelFor(models.PropertyTypes, lead.PropertyType))
	fmt.Printf("  Urgency:  %s\n", models.LabelFor(models.Urgencies, lead.Urgency))
	fmt.Printf("  Address:  %s %s\n", lead.Address, lead.ZipCode)
	fmt.Printf("  Source:   %s\n", lead.Source)
	fmt.Printf("  Date:     %s\n", lead.Date.Format("2006-01-02 15:04"))
	if lead.Photo != "" {
		fmt.Printf("  Photo:    %s\n", lead.Photo)
	}
	if lead.Message != "" {
		fmt.Printf("\n%s\n", lead.Message)
	}
	return nil
}

// UpdateLeadStatusCommand sets a lead's status.
func UpdateLeadStatusCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: leads status <id> <new|contacted|completed>")
	}

	lead, err := findLead(app, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := app.Leads.UpdateStatus(lead.ID, fs.Arg(1)); err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	fmt.Printf("✓ %s is now %s\n", lead.FullName(), fs.Arg(1))
	return nil
}

// DeleteLeadCommand deletes a lead locally and, when a backend is set, remotely.
func DeleteLeadCommand(app *store.App, backend LeadBackend, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("lead ID is required")
	}

	lead, err := findLead(app, fs.Arg(0))
	if err != nil {
		return err
	}
	app.Leads.Delete(lead.ID)

	if backend != nil {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		if err := backend.DeleteLead(ctx, lead.ID); err != nil {
			log.Printf("warning: remote delete failed: %v", err)
		}
	}

	fmt.Printf("✓ Deleted lead: %s\n", lead.FullName())
	return nil
}

// LeadStatsCommand prints lead counts by status.
func LeadStatsCommand(app *store.App, args []string) error {
	stats := app.Leads.Stats()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "New\t%d\n", stats.New)
	_, _ = fmt.Fprintf(w, "Contacted\t%d\n", stats.Contacted)
	_, _ = fmt.Fprintf(w, "Completed\t%d\n", stats.Completed)
	_, _ = fmt.Fprintf(w, "Total\t%d\n", stats.Total)
	return w.Flush()
}

// SyncLeadsCommand replaces the local lead list with the backend's.
func SyncLeadsCommand(app *store.App, backend LeadBackend, args []string) error {
	if backend == nil {
		return fmt.Errorf("no backend configured (set ROOFDESK_API_URL)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()

	leads, err := backend.FetchLeads(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch leads: %w", err)
	}
	app.Leads.Replace(leads)

	fmt.Printf("✓ Synced %d lead(s) from backend\n", len(leads))
	return nil
}

// findLead resolves a full ID or the 8-character prefix shown by list.
func findLead(app *store.App, id string) (models.Lead, error) {
	if lead, err := app.Leads.Get(id); err == nil {
		return lead, nil
	}

	var match *models.Lead
	for _, lead := range app.Leads.All() {
		if len(id) >= 4 && strings.HasPrefix(lead.ID, id) {
			if match != nil {
				return models.Lead{}, fmt.Errorf("ambiguous lead ID: %s", id)
			}
			l := lead
			match = &l
		}
	}
	if match == nil {
		return models.Lead{}, fmt.Errorf("lead not found: %s", id)
	}
	return *match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
