// ABOUTME: Visualization CLI commands
// ABOUTME: Handles viz dashboard and lead funnel graph generation commands
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/roofdesk/store"
	"github.com/harperreed/roofdesk/viz"
)

// VizGraphCommand generates a lead funnel graph.
func VizGraphCommand(app *store.App, args []string) error {
	fs := flag.NewFlagSet("viz graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	dimension := fs.String("by", viz.DimensionService, "Group by service, property, or urgency")

	if err := fs.Parse(args); err != nil {
		return err
	}

	generator := viz.NewGraphGenerator(app.Leads.All())
	dot, err := generator.GenerateFunnelGraph(context.Background(), *dimension)
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

func VizDashboardCommand(app *store.App, args []string) error {
	stats := viz.GenerateDashboardStats(app.Leads.All())
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}
