package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skein-viz/skein/pkg/depgraph"
	"github.com/skein-viz/skein/pkg/graph"
)

// traceCommand creates the trace command for walking dependency closures.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		upOnly   bool
		downOnly bool
	)

	cmd := &cobra.Command{
		Use:   "trace [graph.json] [service]",
		Short: "Walk a service's upstream and downstream closure",
		Long: `Walk a service's upstream and downstream closure.

Downstream lists every service the given one transitively calls;
upstream lists every service that transitively calls it. Without a
service argument, trace prints graph-level facts: isolated services
and whether the graph contains a cycle.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service := ""
			if len(args) == 2 {
				service = args[1]
			}
			return c.runTrace(args[0], service, upOnly, downOnly)
		},
	}

	cmd.Flags().BoolVar(&upOnly, "up", false, "show only the upstream closure")
	cmd.Flags().BoolVar(&downOnly, "down", false, "show only the downstream closure")

	return cmd
}

// runTrace loads the graph and prints the requested closure.
func (c *CLI) runTrace(input, service string, upOnly, downOnly bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid graph: %w", err)
	}

	p := newProgress(c.Logger)
	dg := depgraph.New(g)

	if service == "" {
		c.printGraphFacts(dg)
		p.done(fmt.Sprintf("Traced %d services", dg.NodeCount()))
		return nil
	}

	if _, ok := dg.Node(service); !ok {
		return fmt.Errorf("unknown service: %q", service)
	}

	fmt.Println(StyleTitle.Render(service))
	if !upOnly {
		printClosure("downstream", dg.Dependencies(service), dg.Downstream(service))
	}
	if !downOnly {
		printClosure("upstream", dg.Dependents(service), dg.Upstream(service))
	}
	p.done("Traced " + service)
	return nil
}

// printGraphFacts prints graph-level observations.
func (c *CLI) printGraphFacts(dg *depgraph.Graph) {
	printInfo("%d services, %d dependencies", dg.NodeCount(), dg.EdgeCount())

	if dg.HasCycle() {
		printWarning("graph contains a dependency cycle")
	}

	isolated := dg.Isolated()
	if len(isolated) > 0 {
		printInfo("%d isolated services", len(isolated))
		for _, id := range isolated {
			printDetail("%s", id)
		}
	}
}

// printClosure prints the direct neighbors and the full transitive set
// for one direction.
func printClosure(label string, direct, transitive []string) {
	fmt.Println("  " + StyleHighlight.Render(label) + " " +
		StyleDim.Render(fmt.Sprintf("(%d direct, %d total)", len(direct), len(transitive))))
	directSet := make(map[string]bool, len(direct))
	for _, id := range direct {
		directSet[id] = true
	}
	for _, id := range transitive {
		marker := StyleDim.Render(iconArrow)
		if directSet[id] {
			marker = StyleHighlight.Render(iconArrow)
		}
		fmt.Println("    " + marker + " " + StyleValue.Render(id))
	}
}
