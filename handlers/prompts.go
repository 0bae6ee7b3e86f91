// ABOUTME: MCP prompt handlers for reusable lead workflow templates
// ABOUTME: Provides lead follow-up, pipeline review, and page copy prompts
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	app *store.App
}

func NewPromptHandlers(app *store.App) *PromptHandlers {
	return &PromptHandlers{app: app}
}

// Prompts describes every prompt GetPrompt can build.
func (h *PromptHandlers) Prompts() []*mcp.Prompt {
	return []*mcp.Prompt{
		{
			Name:        "lead-follow-up",
			Description: "Draft a follow-up message for a lead",
			Arguments: []*mcp.PromptArgument{
				{Name: "lead_id", Description: "ID of the lead", Required: true},
			},
		},
		{
			Name:        "pipeline-review",
			Description: "Review open leads and suggest who to call first",
		},
		{
			Name:        "page-copy",
			Description: "Suggest improved copy for a page's active components",
			Arguments: []*mcp.PromptArgument{
				{Name: "page", Description: "Page name", Required: true},
			},
		},
	}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := request.Params.Arguments
	switch request.Params.Name {
	case "lead-follow-up":
		return h.getLeadFollowUpPrompt(args)
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	case "page-copy":
		return h.getPageCopyPrompt(args)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getLeadFollowUpPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["lead_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("lead_id is required")
	}

	lead, err := h.app.Leads.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}

	var b strings.Builder
	b.WriteString("Please draft a short, friendly follow-up for this roofing lead:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", lead.FullName())
	fmt.Fprintf(&b, "Service: %s\n", models.LabelFor(models.Services, lead.Service))
	fmt.Fprintf(&b, "Property: %s\n", models.LabelFor(models.PropertyTypes, lead.PropertyType))
	fmt.Fprintf(&b, "Urgency: %s\n", models.LabelFor(models.Urgencies, lead.Urgency))
	fmt.Fprintf(&b, "Address: %s %s\n", lead.Address, lead.ZipCode)
	fmt.Fprintf(&b, "Submitted: %s\n", lead.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "Status: %s\n", lead.Status)
	if lead.Message != "" {
		fmt.Fprintf(&b, "\nTheir message: %s\n", lead.Message)
	}

	b.WriteString("\nWrite:")
	b.WriteString("\n1. A text message under 300 characters")
	b.WriteString("\n2. A short email with a subject line")
	if lead.Urgency == "emergency" {
		b.WriteString("\n\nThis is an active leak. Offer same-day tarping.")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Follow-up for lead: %s", lead.FullName()),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	stats := viz.GenerateDashboardStats(h.app.Leads.All())

	var b strings.Builder
	b.WriteString("Here is the current lead pipeline for a roofing company:\n\n")
	fmt.Fprintf(&b, "Total: %d (new %d, contacted %d, completed %d)\n",
		stats.Totals.Total, stats.Totals.New, stats.Totals.Contacted, stats.Totals.Completed)

	if len(stats.StaleLeads) > 0 {
		fmt.Fprintf(&b, "\nNew leads untouched for over %d hours:\n", int(viz.StaleAfter.Hours()))
		for _, s := range stats.StaleLeads {
			fmt.Fprintf(&b, "- %s (%s, urgency %s) waiting %d days\n",
				s.Name, s.Phone, models.LabelFor(models.Urgencies, s.Urgency), s.DaysSince)
		}
	}

	b.WriteString("\nRank the open leads by who should be called first and explain why in one line each.")

	return &mcp.GetPromptResult{
		Description: "Lead pipeline review",
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}

func (h *PromptHandlers) getPageCopyPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	name, ok := args["page"]
	if !ok || name == "" {
		return nil, fmt.Errorf("page is required")
	}

	components, err := h.app.Content.ActiveComponents(name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "These are the visible sections of the %q page on a roofing company website:\n", name)
	for _, c := range components {
		fmt.Fprintf(&b, "\n## %s (%s)\n", c.Name, c.Type)
		for _, key := range []string{"heading", "subheading", "body", "ctaText"} {
			if v := c.Setting(key); v != "" {
				fmt.Fprintf(&b, "%s: %s\n", key, v)
			}
		}
	}
	b.WriteString("\nSuggest tighter copy for each section. Keep the same keys so it can be pasted back with update_component.")

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Copy suggestions for page: %s", name),
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: b.String()},
			},
		},
	}, nil
}
