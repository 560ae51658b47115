package engine

import (
	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/dag"
)

// affectedBy lists, for an attribute read from an element, the attributes
// whose writes can change it. Reading an attribute always depends on writes
// to the same attribute; that case is handled by the caller.
var affectedBy = map[attr.Attr][]attr.Attr{
	attr.Top:            {attr.Bottom, attr.Height, attr.VCenter, attr.MarkerDiameter},
	attr.Bottom:         {attr.Top, attr.Height, attr.VCenter, attr.MarkerDiameter},
	attr.VCenter:        {attr.Top, attr.Bottom, attr.Height},
	attr.Height:         {attr.Top, attr.Bottom, attr.VCenter, attr.MarkerDiameter},
	attr.Right:          {attr.Left, attr.Width, attr.HCenter, attr.MarkerDiameter},
	attr.Left:           {attr.Right, attr.Width, attr.HCenter, attr.MarkerDiameter},
	attr.HCenter:        {attr.Left, attr.Right, attr.Width},
	attr.Width:          {attr.Left, attr.Right, attr.HCenter, attr.MarkerDiameter},
	attr.MarkerDiameter: {attr.Width, attr.Height},
}

// affects reports whether a write to w can change the value of r read from
// an element whose constrained attributes are given by set.
//
// Sizes only depend on position writes when at least two positions on the
// axis are constrained independently; a single edge or center write moves
// the element without resizing it.
func affects(w, r attr.Attr, set attrSet) bool {
	if w == r {
		return true
	}
	found := false
	for _, a := range affectedBy[r] {
		if a == w {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if (r == attr.Width || r == attr.Height) && w.IsPosition() {
		lo, hi := attr.Edges(r.Axis())
		return set.count(lo, hi, attr.CenterFor(r.Axis())) >= 2
	}
	return true
}

type attrSet map[attr.Attr]bool

func (s attrSet) count(attrs ...attr.Attr) int {
	n := 0
	for _, a := range attrs {
		if s[a] {
			n++
		}
	}
	return n
}

type elemSet map[Element]struct{}

func newElemSet(elems []Element) elemSet {
	s := make(elemSet, len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// node is a constraint as seen by the scheduler: its resolved element sets
// at scheduling time.
type node struct {
	id      anchor.ID
	spec    anchor.Spec
	targets elemSet
	anchors elemSet
}

// Schedule is the result of ordering the active constraints.
type Schedule struct {
	// Graph has one node per active constraint; node i is IDs[i].
	Graph *dag.Graph
	// IDs maps graph nodes to constraint IDs, ascending.
	IDs []anchor.ID
	// Order is the sorted node list.
	Order dag.Order
}

// Sequence returns the scheduled constraint IDs in evaluation order.
func (s *Schedule) Sequence() []anchor.ID {
	out := make([]anchor.ID, len(s.Order.Nodes))
	for i, n := range s.Order.Nodes {
		out[i] = s.IDs[n]
	}
	return out
}

// Forced returns the constraint IDs emitted to break cycles.
func (s *Schedule) Forced() []anchor.ID {
	out := make([]anchor.ID, len(s.Order.Forced))
	for i, n := range s.Order.Forced {
		out[i] = s.IDs[n]
	}
	return out
}

// schedule builds the dependency graph over nodes and sorts it. Consumer i
// depends on producer j when:
//
//  1. i reads an attribute from an element j writes, and j's attribute can
//     change it;
//  2. i positions an element whose size on that axis j sets;
//  3. j sets the marker diameter of an element i constrains otherwise.
func schedule(nodes []node) *Schedule {
	constrained := make(map[Element]attrSet)
	for _, n := range nodes {
		for e := range n.targets {
			if constrained[e] == nil {
				constrained[e] = attrSet{}
			}
			constrained[e][n.spec.TargetAttr] = true
		}
	}

	g := dag.New(len(nodes))
	ids := make([]anchor.ID, len(nodes))
	for i, ni := range nodes {
		ids[i] = ni.id
		ti := ni.spec.TargetAttr
		for j, nj := range nodes {
			if i == j {
				continue
			}
			tj := nj.spec.TargetAttr
			if dependsOn(ni, nj, ti, tj, constrained) {
				_ = g.AddEdge(j, i)
			}
		}
	}
	return &Schedule{Graph: g, IDs: ids, Order: g.Sort()}
}

func dependsOn(ni, nj node, ti, tj attr.Attr, constrained map[Element]attrSet) bool {
	// Rule 1: anchor reads.
	if ai := ni.spec.AnchorAttr; len(ni.anchors) > 0 {
		for e := range ni.anchors {
			if _, ok := nj.targets[e]; ok && affects(tj, ai, constrained[e]) {
				return true
			}
		}
	}
	if !overlaps(ni.targets, nj.targets) {
		return false
	}
	// Rule 2: positions after sizes on the same axis.
	if ti.IsPosition() && tj == attr.SizeFor(ti.Axis()) {
		return true
	}
	// Rule 3: marker diameter first.
	return tj == attr.MarkerDiameter && ti != attr.MarkerDiameter
}

func overlaps(a, b elemSet) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	for e := range a {
		if _, ok := b[e]; ok {
			return true
		}
	}
	return false
}
