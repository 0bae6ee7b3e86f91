// ABOUTME: GraphViz lead funnel generation
// ABOUTME: Draws leads flowing from a form answer dimension into statuses
package viz

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/roofdesk/models"
)

// Funnel dimensions.
const (
	DimensionService  = "service"
	DimensionProperty = "property"
	DimensionUrgency  = "urgency"
)

type GraphGenerator struct {
	leads []models.Lead
}

func NewGraphGenerator(leads []models.Lead) *GraphGenerator {
	return &GraphGenerator{leads: leads}
}

// GenerateFunnelGraph returns DOT source for leads -> dimension value -> status.
func (g *GraphGenerator) GenerateFunnelGraph(ctx context.Context, dimension string) (string, error) {
	valueOf, options, err := dimensionAccessor(dimension)
	if err != nil {
		return "", err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer graph.Close()

	graph.SetRankDir(cgraph.LRRank)
	graph.SetLabel(fmt.Sprintf("Lead funnel by %s", dimension))

	root, err := graph.CreateNodeByName("leads")
	if err != nil {
		return "", fmt.Errorf("failed to create root node: %w", err)
	}
	root.SetLabel(fmt.Sprintf("Leads\n(%d)", len(g.leads)))
	root.SetShape("box")
	root.SetStyle("filled")
	root.SetFillColor("lightblue")

	statusNodes := make(map[string]*cgraph.Node)
	statusColors := map[string]string{
		models.StatusNew:       "lightyellow",
		models.StatusContacted: "lightgreen",
		models.StatusCompleted: "gray80",
	}
	for _, status := range models.LeadStatuses {
		node, err := graph.CreateNodeByName("status_" + status)
		if err != nil {
			return "", fmt.Errorf("failed to create status node: %w", err)
		}
		node.SetLabel(status)
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor(statusColors[status])
		statusNodes[status] = node
	}

	// value -> status -> count
	flows := make(map[string]map[string]int)
	totals := make(map[string]int)
	for _, lead := range g.leads {
		v := orUnknown(valueOf(lead))
		if flows[v] == nil {
			flows[v] = make(map[string]int)
		}
		flows[v][lead.Status]++
		totals[v]++
	}

	values := make([]string, 0, len(flows))
	for v := range flows {
		values = append(values, v)
	}
	sort.Strings(values)

	for _, v := range values {
		node, err := graph.CreateNodeByName("value_" + v)
		if err != nil {
			return "", fmt.Errorf("failed to create %s node: %w", dimension, err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(%d)", models.LabelFor(options, v), totals[v]))
		node.SetShape("box")

		in, err := graph.CreateEdgeByName("", root, node)
		if err != nil {
			return "", fmt.Errorf("failed to create edge: %w", err)
		}
		in.SetLabel(fmt.Sprintf("%d", totals[v]))

		for _, status := range models.LeadStatuses {
			n := flows[v][status]
			if n == 0 {
				continue
			}
			out, err := graph.CreateEdgeByName("", node, statusNodes[status])
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			out.SetLabel(fmt.Sprintf("%d", n))
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}

func dimensionAccessor(dimension string) (func(models.Lead) string, []models.Option, error) {
	switch dimension {
	case DimensionService, "":
		return func(l models.Lead) string { return l.Service }, models.Services, nil
	case DimensionProperty:
		return func(l models.Lead) string { return l.PropertyType }, models.PropertyTypes, nil
	case DimensionUrgency:
		return func(l models.Lead) string { return l.Urgency }, models.Urgencies, nil
	}
	return nil, nil, fmt.Errorf("unknown dimension %q (use service, property, or urgency)", dimension)
}
