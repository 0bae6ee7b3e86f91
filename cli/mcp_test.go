// ABOUTME: Tests for the MCP server wiring
// ABOUTME: Connects an in-memory client and exercises tools, resources, and prompts
package cli

import (
	"context"
	"testing"

	"github.com/harperreed/roofdesk/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectTestClient(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func TestMCPServerRegistersTools(t *testing.T) {
	app := setupTestCLI(t)
	session := connectTestClient(t, NewMCPServer(app, nil))
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_leads", "update_lead_status", "delete_lead", "lead_stats",
		"get_page", "update_component", "list_images", "generate_funnel_graph",
	}, names)

	prompts, err := session.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, prompts.Prompts, 3)
}

func TestMCPCallTool(t *testing.T) {
	app := setupTestCLI(t)
	lead := addTestLead(app)
	session := connectTestClient(t, NewMCPServer(app, nil))
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "update_lead_status",
		Arguments: map[string]any{"id": lead.ID, "status": models.StatusContacted},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	got, err := app.Leads.Get(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusContacted, got.Status)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "update_lead_status",
		Arguments: map[string]any{"id": "missing", "status": models.StatusNew},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPReadResource(t *testing.T) {
	app := setupTestCLI(t)
	addTestLead(app)
	session := connectTestClient(t, NewMCPServer(app, nil))

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "roofdesk://stats"})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"new": 1`)
}
