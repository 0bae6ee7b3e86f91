// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_funnel_graph tool for agents
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	leads *store.LeadStore
}

func NewVizHandlers(leads *store.LeadStore) *VizHandlers {
	return &VizHandlers{leads: leads}
}

type GenerateFunnelInput struct {
	Dimension string `json:"dimension,omitempty" jsonschema:"Group leads by service, property, or urgency (default service)"`
}

type GenerateFunnelOutput struct {
	Dimension string `json:"dimension"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateFunnelGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateFunnelInput) (*mcp.CallToolResult, GenerateFunnelOutput, error) {
	dimension := input.Dimension
	if dimension == "" {
		dimension = viz.DimensionService
	}

	dot, err := viz.NewGraphGenerator(h.leads.All()).GenerateFunnelGraph(ctx, dimension)
	if err != nil {
		return nil, GenerateFunnelOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	return nil, GenerateFunnelOutput{
		Dimension: dimension,
		DOTSource: dot,
		NodeCount: strings.Count(dot, "label=") - strings.Count(dot, "->"),
		EdgeCount: strings.Count(dot, "->"),
	}, nil
}
