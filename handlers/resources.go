// ABOUTME: MCP resource handlers for exposing site and lead data
// ABOUTME: Provides read-only access to leads, pages, and images via roofdesk:// URIs
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/roofdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "roofdesk://"

type ResourceHandlers struct {
	app *store.App
}

func NewResourceHandlers(app *store.App) *ResourceHandlers {
	return &ResourceHandlers{app: app}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")

	switch parts[0] {
	case "leads":
		if len(parts) == 1 || parts[1] == "" {
			return jsonResource(uri, h.app.Leads.All())
		}
		lead, err := h.app.Leads.Get(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", uri, err)
		}
		return jsonResource(uri, lead)

	case "stats":
		return jsonResource(uri, h.app.Leads.Stats())

	case "pages":
		if len(parts) == 1 || parts[1] == "" {
			return jsonResource(uri, h.app.Content.Pages())
		}
		page, err := h.app.Content.Page(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", uri, err)
		}
		return jsonResource(uri, page)

	case "images":
		return jsonResource(uri, h.app.Images.All())

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

// Resources lists the fixed URIs served by ReadResource.
func (h *ResourceHandlers) Resources() []*mcp.Resource {
	return []*mcp.Resource{
		{URI: resourceScheme + "leads", Name: "leads", Description: "Every lead captured by the site", MIMEType: "application/json"},
		{URI: resourceScheme + "stats", Name: "lead-stats", Description: "Lead counts by status", MIMEType: "application/json"},
		{URI: resourceScheme + "pages", Name: "pages", Description: "Editable page content", MIMEType: "application/json"},
		{URI: resourceScheme + "images", Name: "images", Description: "Managed image library", MIMEType: "application/json"},
	}
}

// ResourceTemplates lists the parameterized URIs served by ReadResource.
func (h *ResourceHandlers) ResourceTemplates() []*mcp.ResourceTemplate {
	return []*mcp.ResourceTemplate{
		{URITemplate: resourceScheme + "leads/{id}", Name: "lead", Description: "A single lead", MIMEType: "application/json"},
		{URITemplate: resourceScheme + "pages/{name}", Name: "page", Description: "A single page and its components", MIMEType: "application/json"},
	}
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
