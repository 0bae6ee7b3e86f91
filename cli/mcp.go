// ABOUTME: MCP server subcommand
// ABOUTME: Exposes leads, page content, and images to MCP clients over stdio
package cli

import (
	"context"
	"log"

	"github.com/harperreed/roofdesk/handlers"
	"github.com/harperreed/roofdesk/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServer builds the server with every tool, resource, and prompt registered.
// remote may be nil.
func NewMCPServer(app *store.App, remote handlers.LeadDeleter) *mcp.Server {
	leadHandlers := handlers.NewLeadHandlers(app.Leads, remote)
	contentHandlers := handlers.NewContentHandlers(app.Content, app.Images)
	vizHandlers := handlers.NewVizHandlers(app.Leads)
	resourceHandlers := handlers.NewResourceHandlers(app)
	promptHandlers := handlers.NewPromptHandlers(app)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "roofdesk",
		Version: "0.1.0",
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_leads",
		Description: "Search leads by name, email, or phone with an optional status filter",
	}, leadHandlers.ListLeads)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_lead_status",
		Description: "Move a lead to new, contacted, or completed",
	}, leadHandlers.UpdateLeadStatus)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_lead",
		Description: "Delete a lead locally and from the backend",
	}, leadHandlers.DeleteLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "lead_stats",
		Description: "Count leads by status",
	}, leadHandlers.LeadStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_page",
		Description: "Show a page and all of its components",
	}, contentHandlers.GetPage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_component",
		Description: "Rename, show or hide, or change the settings of a page component",
	}, contentHandlers.UpdateComponent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_images",
		Description: "Search the image library by text and category",
	}, contentHandlers.ListImages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_funnel_graph",
		Description: "Generate a GraphViz funnel of leads grouped by service, property, or urgency",
	}, vizHandlers.GenerateFunnelGraph)

	for _, r := range resourceHandlers.Resources() {
		server.AddResource(r, resourceHandlers.ReadResource)
	}
	for _, rt := range resourceHandlers.ResourceTemplates() {
		server.AddResourceTemplate(rt, resourceHandlers.ReadResource)
	}
	for _, p := range promptHandlers.Prompts() {
		server.AddPrompt(p, promptHandlers.GetPrompt)
	}

	return server
}

// MCPCommand starts the MCP server on stdio
func MCPCommand(app *store.App, remote handlers.LeadDeleter) error {
	log.Println("Starting roofdesk MCP server...")

	ctx := context.Background()
	return NewMCPServer(app, remote).Run(ctx, &mcp.StdioTransport{})
}
