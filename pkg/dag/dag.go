package dag

import (
	"container/heap"
	"errors"
	"slices"
)

var (
	// ErrUnknownNode is returned by [Graph.AddEdge] when either endpoint is
	// outside [0, Len()).
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge from a node to
	// itself. A constraint never depends on itself.
	ErrSelfLoop = errors.New("self-referential edge")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected. Cycles are detected using depth-first search with
	// white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Edge is a directed edge From → To: From must be evaluated before To.
// In constraint terms From is the producer and To the consumer.
type Edge struct {
	From, To int
}

// Graph is a directed graph over the dense node indices [0, n).
//
// The zero value is an empty graph with no nodes; use [New] to size it.
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	n        int
	outgoing [][]int // node -> consumers, ascending
	incoming [][]int // node -> producers, ascending
	edges    int
}

// New creates a graph with n nodes and no edges.
func New(n int) *Graph {
	return &Graph{
		n:        n,
		outgoing: make([][]int, n),
		incoming: make([][]int, n),
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return g.n }

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return g.edges }

// AddEdge adds the edge from → to. Duplicate edges are ignored.
// Returns ErrUnknownNode for out-of-range endpoints and ErrSelfLoop when
// from == to.
func (g *Graph) AddEdge(from, to int) error {
	if from < 0 || from >= g.n || to < 0 || to >= g.n {
		return ErrUnknownNode
	}
	if from == to {
		return ErrSelfLoop
	}
	pos, found := slices.BinarySearch(g.outgoing[from], to)
	if found {
		return nil
	}
	g.outgoing[from] = slices.Insert(g.outgoing[from], pos, to)
	pos, _ = slices.BinarySearch(g.incoming[to], from)
	g.incoming[to] = slices.Insert(g.incoming[to], pos, from)
	g.edges++
	return nil
}

// HasEdge reports whether the edge from → to exists.
func (g *Graph) HasEdge(from, to int) bool {
	if from < 0 || from >= g.n {
		return false
	}
	_, found := slices.BinarySearch(g.outgoing[from], to)
	return found
}

// Children returns the nodes that must run after id, in ascending order.
// The returned slice should not be modified.
func (g *Graph) Children(id int) []int { return g.outgoing[id] }

// Parents returns the nodes that must run before id, in ascending order.
// The returned slice should not be modified.
func (g *Graph) Parents(id int) []int { return g.incoming[id] }

// InDegree returns the number of producers of id.
func (g *Graph) InDegree(id int) int { return len(g.incoming[id]) }

// OutDegree returns the number of consumers of id.
func (g *Graph) OutDegree(id int) int { return len(g.outgoing[id]) }

// Edges returns every edge ordered by From, then To.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.edges)
	for from, tos := range g.outgoing {
		for _, to := range tos {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// Validate returns ErrGraphHasCycle if the graph is not acyclic.
// Cycle detection runs in O(N+E) time using depth-first search.
func (g *Graph) Validate() error {
	if len(g.BackEdges()) > 0 {
		return ErrGraphHasCycle
	}
	return nil
}

// BackEdges returns the edges that close a cycle during a depth-first search
// started from each unvisited node in ascending order. Removing them would
// make the graph acyclic. The graph itself is not modified.
func (g *Graph) BackEdges() []Edge {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, g.n)
	var back []Edge

	var dfs func(node int)
	dfs = func(node int) {
		color[node] = gray
		for _, child := range g.outgoing[node] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				back = append(back, Edge{From: node, To: child})
			}
		}
		color[node] = black
	}

	for id := range g.n {
		if color[id] == white {
			dfs(id)
		}
	}
	return back
}

// Order is the result of [Graph.Sort].
type Order struct {
	// Nodes lists every node exactly once in evaluation order.
	Nodes []int
	// Cyclic reports whether at least one node had to be emitted while it
	// still had unresolved producers.
	Cyclic bool
	// Forced lists the nodes emitted to break cycles, in emission order.
	Forced []int
}

// Sort orders the nodes with Kahn's algorithm.
//
// Among nodes with no remaining producers the lowest index goes first, so
// the order is deterministic. When no such node exists the graph has a
// cycle: the remaining node with the fewest remaining producers is emitted
// instead (lowest index on ties) and the sort continues. Sort therefore
// always returns a total order in exactly Len() removals; only the edges
// inside a cycle may be violated.
func (g *Graph) Sort() Order {
	inDegree := make([]int, g.n)
	done := make([]bool, g.n)
	ready := &intHeap{}
	for id := range g.n {
		inDegree[id] = len(g.incoming[id])
		if inDegree[id] == 0 {
			heap.Push(ready, id)
		}
	}

	order := Order{Nodes: make([]int, 0, g.n)}
	emit := func(id int) {
		done[id] = true
		order.Nodes = append(order.Nodes, id)
		for _, child := range g.outgoing[id] {
			if done[child] {
				continue
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				heap.Push(ready, child)
			}
		}
	}

	for len(order.Nodes) < g.n {
		if ready.Len() > 0 {
			id := heap.Pop(ready).(int)
			if done[id] {
				continue
			}
			emit(id)
			continue
		}

		forced := -1
		for id := range g.n {
			if done[id] {
				continue
			}
			if forced < 0 || inDegree[id] < inDegree[forced] {
				forced = id
			}
		}
		order.Cyclic = true
		order.Forced = append(order.Forced, forced)
		emit(forced)
	}
	return order
}

// Positions maps each node to its index in order. Useful for checking that
// producers precede consumers.
func Positions(order []int) map[int]int {
	m := make(map[int]int, len(order))
	for i, id := range order {
		m[id] = i
	}
	return m
}

type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
