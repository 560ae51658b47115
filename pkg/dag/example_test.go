package dag_test

import (
	"fmt"

	"github.com/matzehuels/anchorage/pkg/dag"
)

func ExampleGraph_Sort() {
	// Constraint 2 sets a label's height, constraint 1 stacks the label under
	// the axes, constraint 0 centers a title on the label.
	g := dag.New(3)
	_ = g.AddEdge(2, 1)
	_ = g.AddEdge(1, 0)

	order := g.Sort()
	fmt.Println("Order:", order.Nodes)
	fmt.Println("Cyclic:", order.Cyclic)
	// Output:
	// Order: [2 1 0]
	// Cyclic: false
}

func ExampleGraph_Sort_cycle() {
	g := dag.New(3)
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 0)

	order := g.Sort()
	fmt.Println("Order:", order.Nodes)
	fmt.Println("Forced:", order.Forced)
	// Output:
	// Order: [2 0 1]
	// Forced: [0]
}
