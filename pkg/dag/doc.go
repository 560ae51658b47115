// Package dag provides the dependency graph and scheduler that order layout
// constraint evaluation.
//
// # Overview
//
// Every active constraint is a node, addressed by its dense index in the
// engine's constraint arena. An edge From → To means constraint To reads a
// value that constraint From writes, so From must run first. The engine
// derives edges from the constraints' targets, anchors and attributes; this
// package only knows about integers.
//
// # Scheduling
//
// [Graph.Sort] runs Kahn's algorithm, always picking the lowest-index ready
// node so that the same constraint set always yields the same order. Layout
// constraints can form cycles (a label anchored to a group whose size depends
// on the label). Instead of failing, Sort breaks the tie by emitting the
// remaining node with the fewest unresolved producers and records the fact in
// [Order.Cyclic], so the caller can report one diagnostic and still lay out
// every element. The result is always a total order over all nodes.
//
// # Diagnostics
//
// [Graph.BackEdges] reports the edges a depth-first search finds closing a
// cycle, and [ToDOT] with [RenderSVG] export the graph through Graphviz for
// inspection.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
package dag
