// ABOUTME: Lead MCP tool handlers
// ABOUTME: Implements list_leads, update_lead_status, delete_lead, and lead_stats tools
package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/harperreed/roofdesk/models"
	"github.com/harperreed/roofdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LeadDeleter removes a lead from the remote backend. *apiclient.Client satisfies it.
type LeadDeleter interface {
	DeleteLead(ctx context.Context, id string) error
}

type LeadHandlers struct {
	leads  *store.LeadStore
	remote LeadDeleter
}

// NewLeadHandlers wires the local lead store; remote may be nil.
func NewLeadHandlers(leads *store.LeadStore, remote LeadDeleter) *LeadHandlers {
	return &LeadHandlers{leads: leads, remote: remote}
}

type LeadOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Service      string `json:"service,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	Urgency      string `json:"urgency,omitempty"`
	Address      string `json:"address,omitempty"`
	ZipCode      string `json:"zip_code,omitempty"`
	Message      string `json:"message,omitempty"`
	Status       string `json:"status"`
	Source       string `json:"source,omitempty"`
	Date         string `json:"date"`
}

func leadToOutput(l models.Lead) LeadOutput {
	return LeadOutput{
		ID:           l.ID,
		Name:         l.FullName(),
		Email:        l.Email,
		Phone:        l.Phone,
		Service:      l.Service,
		PropertyType: l.PropertyType,
		Urgency:      l.Urgency,
		Address:      l.Address,
		ZipCode:      l.ZipCode,
		Message:      l.Message,
		Status:       l.Status,
		Source:       l.Source,
		Date:         l.Date.Format(time.RFC3339),
	}
}

type ListLeadsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search text matched against name, email, and phone"`
	Status string `json:"status,omitempty" jsonschema:"Filter by status: new, contacted, completed, or all"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 25)"`
}

type ListLeadsOutput struct {
	Leads []LeadOutput `json:"leads"`
	Total int          `json:"total"`
}

func (h *LeadHandlers) ListLeads(_ context.Context, request *mcp.CallToolRequest, input ListLeadsInput) (*mcp.CallToolResult, ListLeadsOutput, error) {
	if input.Status != "" && input.Status != "all" && !models.IsValidStatus(input.Status) {
		return nil, ListLeadsOutput{}, fmt.Errorf("invalid status %q", input.Status)
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 25
	}

	matched := h.leads.Filter(input.Query, input.Status)
	out := ListLeadsOutput{Leads: []LeadOutput{}, Total: len(matched)}
	for i, l := range matched {
		if i == limit {
			break
		}
		out.Leads = append(out.Leads, leadToOutput(l))
	}

	return nil, out, nil
}

type UpdateLeadStatusInput struct {
	ID     string `json:"id" jsonschema:"Lead ID (required)"`
	Status string `json:"status" jsonschema:"New status: new, contacted, or completed"`
}

func (h *LeadHandlers) UpdateLeadStatus(_ context.Context, request *mcp.CallToolRequest, input UpdateLeadStatusInput) (*mcp.CallToolResult, LeadOutput, error) {
	if input.ID == "" {
		return nil, LeadOutput{}, fmt.Errorf("id is required")
	}
	if err := h.leads.UpdateStatus(input.ID, input.Status); err != nil {
		return nil, LeadOutput{}, fmt.Errorf("failed to update lead: %w", err)
	}

	lead, err := h.leads.Get(input.ID)
	if err != nil {
		return nil, LeadOutput{}, err
	}
	return nil, leadToOutput(lead), nil
}

type DeleteLeadInput struct {
	ID string `json:"id" jsonschema:"Lead ID (required)"`
}

type DeleteLeadOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *LeadHandlers) DeleteLead(ctx context.Context, request *mcp.CallToolRequest, input DeleteLeadInput) (*mcp.CallToolResult, DeleteLeadOutput, error) {
	if input.ID == "" {
		return nil, DeleteLeadOutput{}, fmt.Errorf("id is required")
	}
	if !h.leads.Delete(input.ID) {
		return nil, DeleteLeadOutput{}, fmt.Errorf("lead %s: %w", input.ID, store.ErrNotFound)
	}

	if h.remote != nil {
		if err := h.remote.DeleteLead(ctx, input.ID); err != nil {
			log.Printf("warning: remote delete failed for %s: %v", input.ID, err)
		}
	}

	return nil, DeleteLeadOutput{ID: input.ID, Deleted: true}, nil
}

type LeadStatsInput struct{}

func (h *LeadHandlers) LeadStats(_ context.Context, request *mcp.CallToolRequest, input LeadStatsInput) (*mcp.CallToolResult, models.LeadStats, error) {
	return nil, h.leads.Stats(), nil
}
