package dag

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Label returns the display label of a node. Nil labels nodes with their
	// index.
	Label func(id int) string
	// Order, when set, annotates each node with its position in the
	// schedule and highlights forced nodes.
	Order *Order
}

// ToDOT converts the graph to Graphviz DOT format. Edges point from producer
// to consumer, so the drawing reads top to bottom in evaluation order.
// Back edges found by [Graph.BackEdges] are drawn dashed red.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Constraints {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"SF Mono, Menlo, monospace\", fontsize=12];\n")
	buf.WriteString("\n")

	var pos map[int]int
	forced := map[int]bool{}
	if opts.Order != nil {
		pos = Positions(opts.Order.Nodes)
		for _, id := range opts.Order.Forced {
			forced[id] = true
		}
	}

	for id := range g.Len() {
		label := fmt.Sprintf("#%d", id)
		if opts.Label != nil {
			label = opts.Label(id)
		}
		if pos != nil {
			label = fmt.Sprintf("%d. %s", pos[id]+1, label)
		}
		attrs := fmt.Sprintf("label=%q", label)
		if forced[id] {
			attrs += ", fillcolor=\"#fde2e1\", color=\"#c0392b\""
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", id, attrs)
	}

	buf.WriteString("\n")
	back := map[Edge]bool{}
	for _, e := range g.BackEdges() {
		back[e] = true
	}
	for _, e := range g.Edges() {
		if back[e] {
			fmt.Fprintf(&buf, "  n%d -> n%d [style=dashed, color=\"#c0392b\"];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
