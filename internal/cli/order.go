package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorage/pkg/dag"
	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/render"
)

// orderOpts holds the flags of the order command.
type orderOpts struct {
	sceneOpts
	dot string // write the dependency graph as DOT
	svg string // write the dependency graph as SVG via Graphviz
}

// orderCommand creates the order command, which prints the evaluation order
// of a scene's constraints without running a pass.
func (c *CLI) orderCommand() *cobra.Command {
	var opts orderOpts

	cmd := &cobra.Command{
		Use:   "order [scene.toml]",
		Short: "Show the evaluation order of a scene's constraints",
		Long: `Show the evaluation order of a scene's constraints.

Constraints are scheduled so that every constraint runs after the ones whose
results it reads. When the dependencies form a cycle the order is completed
anyway and the steps chosen to break the cycle are marked as forced.

Use --dot or --svg to export the dependency graph.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: sceneFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.dot, "dot", "", "write the dependency graph in DOT format to this file")
	cmd.Flags().StringVar(&opts.svg, "svg", "", "write the dependency graph as SVG to this file")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, input string, opts orderOpts) error {
	s, err := c.loadScene(ctx, input, opts.sceneOpts)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}

	l := render.ToLayout(s.Name, s.Canvas, s.Engine, nil)
	sched := s.Engine.Schedule()

	fmt.Println(StyleTitle.Render(fmt.Sprintf("%d constraints", len(l.Constraints))))
	writeTable(os.Stdout, orderTable(l.Constraints))
	if sched.Order.Cyclic {
		printWarning("dependency cycle: %d step(s) forced", len(sched.Order.Forced))
	}

	if opts.dot == "" && opts.svg == "" {
		return nil
	}
	dot := scheduleDOT(s.Engine, sched)
	if opts.dot != "" {
		if err := os.WriteFile(opts.dot, []byte(dot), 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.dot, err)
		}
		printFile(opts.dot)
	}
	if opts.svg != "" {
		svg, err := dag.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render dependency graph: %w", err)
		}
		if err := os.WriteFile(opts.svg, svg, 0644); err != nil {
			return fmt.Errorf("write %s: %w", opts.svg, err)
		}
		printFile(opts.svg)
	}
	return nil
}

// scheduleDOT labels each graph node with its constraint's description, or
// its expression when it has none.
func scheduleDOT(eng *engine.Engine, sched *engine.Schedule) string {
	return dag.ToDOT(sched.Graph, dag.DOTOptions{
		Label: func(node int) string {
			id := sched.IDs[node]
			spec, ok := eng.Constraint(id)
			if !ok {
				return fmt.Sprintf("#%d", id)
			}
			if spec.Description != "" {
				return fmt.Sprintf("#%d %s", id, spec.Description)
			}
			return fmt.Sprintf("#%d %s", id, spec)
		},
		Order: &sched.Order,
	})
}
