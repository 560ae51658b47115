package dag

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func mustEdges(t *testing.T, n int, edges ...Edge) *Graph {
	t.Helper()
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			t.Fatalf("AddEdge(%d, %d): %v", e.From, e.To, err)
		}
	}
	return g
}

func TestAddEdge(t *testing.T) {
	g := New(3)
	tests := []struct {
		name     string
		from, to int
		wantErr  error
	}{
		{"valid", 0, 1, nil},
		{"duplicate", 0, 1, nil},
		{"self loop", 2, 2, ErrSelfLoop},
		{"negative", -1, 1, ErrUnknownNode},
		{"out of range", 0, 3, ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AddEdge(%d, %d) = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (duplicates ignored)", g.EdgeCount())
	}
	if !g.HasEdge(0, 1) || g.HasEdge(1, 0) {
		t.Error("HasEdge should be directional")
	}
}

func TestChildrenParentsSorted(t *testing.T) {
	g := mustEdges(t, 5, Edge{0, 4}, Edge{0, 2}, Edge{0, 3}, Edge{1, 2}, Edge{3, 2})

	if got := g.Children(0); !slices.Equal(got, []int{2, 3, 4}) {
		t.Errorf("Children(0) = %v, want [2 3 4]", got)
	}
	if got := g.Parents(2); !slices.Equal(got, []int{0, 1, 3}) {
		t.Errorf("Parents(2) = %v, want [0 1 3]", got)
	}
	if g.InDegree(2) != 3 || g.OutDegree(0) != 3 {
		t.Errorf("degrees = in %d out %d, want 3 and 3", g.InDegree(2), g.OutDegree(0))
	}
	want := []Edge{{0, 2}, {0, 3}, {0, 4}, {1, 2}, {3, 2}}
	if got := g.Edges(); !slices.Equal(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}

func TestSortAcyclic(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges []Edge
		want  []int
	}{
		{
			name: "no edges keeps registration order",
			n:    4,
			want: []int{0, 1, 2, 3},
		},
		{
			name:  "chain against registration order",
			n:     3,
			edges: []Edge{{2, 1}, {1, 0}},
			want:  []int{2, 1, 0},
		},
		{
			name:  "lowest ready index first",
			n:     5,
			edges: []Edge{{4, 0}, {3, 1}},
			want:  []int{2, 3, 1, 4, 0},
		},
		{
			name:  "diamond",
			n:     4,
			edges: []Edge{{3, 1}, {3, 2}, {1, 0}, {2, 0}},
			want:  []int{3, 1, 2, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustEdges(t, tt.n, tt.edges...)
			order := g.Sort()
			if order.Cyclic || len(order.Forced) != 0 {
				t.Errorf("Sort() reported a cycle on an acyclic graph: %+v", order)
			}
			if !slices.Equal(order.Nodes, tt.want) {
				t.Errorf("Sort() = %v, want %v", order.Nodes, tt.want)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}

func TestSortRespectsEveryEdge(t *testing.T) {
	edges := []Edge{{5, 0}, {5, 2}, {4, 0}, {4, 1}, {2, 3}, {3, 1}, {6, 5}}
	g := mustEdges(t, 7, edges...)
	pos := Positions(g.Sort().Nodes)
	for _, e := range edges {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("edge %d -> %d violated: positions %d >= %d", e.From, e.To, pos[e.From], pos[e.To])
		}
	}
}

func TestSortCycleTieBreak(t *testing.T) {
	// 0 <-> 1 form a cycle; 2 depends on both; 3 is free.
	g := mustEdges(t, 4, Edge{0, 1}, Edge{1, 0}, Edge{0, 2}, Edge{1, 2})
	order := g.Sort()

	if !order.Cyclic {
		t.Fatal("Sort() should report Cyclic")
	}
	if want := []int{3, 0, 1, 2}; !slices.Equal(order.Nodes, want) {
		t.Errorf("Sort() = %v, want %v", order.Nodes, want)
	}
	if !slices.Equal(order.Forced, []int{0}) {
		t.Errorf("Forced = %v, want [0]", order.Forced)
	}
}

func TestSortCyclePrefersFewestProducers(t *testing.T) {
	// 1 has one remaining producer, 0 has two.
	g := mustEdges(t, 3, Edge{1, 0}, Edge{2, 0}, Edge{0, 1}, Edge{0, 2}, Edge{1, 2})
	order := g.Sort()

	if len(order.Nodes) != 3 {
		t.Fatalf("Sort() returned %d nodes, want 3", len(order.Nodes))
	}
	if order.Forced[0] != 1 {
		t.Errorf("first forced node = %d, want 1", order.Forced[0])
	}
}

func TestSortIsDeterministic(t *testing.T) {
	edges := []Edge{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 3}, {5, 0}}
	first := mustEdges(t, 6, edges...).Sort()
	for range 20 {
		got := mustEdges(t, 6, edges...).Sort()
		if !slices.Equal(got.Nodes, first.Nodes) || !slices.Equal(got.Forced, first.Forced) {
			t.Fatalf("Sort() not deterministic: %v vs %v", got, first)
		}
	}
	seen := map[int]bool{}
	for _, id := range first.Nodes {
		if seen[id] {
			t.Fatalf("node %d emitted twice", id)
		}
		seen[id] = true
	}
	if len(seen) != 6 {
		t.Errorf("Sort() emitted %d nodes, want 6", len(seen))
	}
}

func TestBackEdges(t *testing.T) {
	g := mustEdges(t, 3, Edge{0, 1}, Edge{1, 2}, Edge{2, 0})
	back := g.BackEdges()
	if !slices.Equal(back, []Edge{{2, 0}}) {
		t.Errorf("BackEdges() = %v, want [{2 0}]", back)
	}
	if !errors.Is(g.Validate(), ErrGraphHasCycle) {
		t.Error("Validate() should report the cycle")
	}
}

func TestEmptyGraph(t *testing.T) {
	var g Graph
	if order := g.Sort(); len(order.Nodes) != 0 || order.Cyclic {
		t.Errorf("zero Graph Sort() = %+v", order)
	}
	if err := g.AddEdge(0, 1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge on zero Graph = %v", err)
	}
}

func TestToDOT(t *testing.T) {
	g := mustEdges(t, 3, Edge{0, 1}, Edge{1, 2}, Edge{2, 1})
	order := g.Sort()
	dot := ToDOT(g, DOTOptions{
		Label: func(id int) string { return []string{"size", "top", "center"}[id] },
		Order: &order,
	})

	for _, want := range []string{
		"digraph Constraints {",
		`n0 [label="1. size"]`,
		"n0 -> n1;",
		"style=dashed",
		"fillcolor=\"#fde2e1\"",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}
