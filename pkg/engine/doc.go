// Package engine resolves anchor constraints for one reference frame.
//
// # Overview
//
// An [Engine] owns a set of [anchor.Spec] constraints, the named collections
// they refer to, and a [locate.Cache] of element geometry in physical units.
// Each call to [Engine.Update] runs one synchronous pass:
//
//  1. Rebuild the unit converter from the frame's viewport and size. A
//     change drops every cached entry.
//  2. Drop collection members the renderer no longer knows.
//  3. Reschedule if constraints or collections changed (see [Schedule]).
//  4. Re-query dynamic geometry.
//  5. Apply every constraint in scheduled order.
//  6. Prune constraints that referenced destroyed elements.
//
// # Resolution
//
// All arithmetic happens in physical units measured from the frame's
// lower-left corner, so reversed axes need no special cases here; the
// converter flips signs when reading and writing native boxes.
//
// The target value v of a constraint is
//
//	anchor None:     v = margin
//	anchor Literal:  v = literal ± margin   (minus only for a Top target)
//	otherwise:       v = aggregate(anchors, anchorAttr) ± margin
//
// where margins push outward from Bottom and Left anchors (minus) and in the
// positive direction from every other anchor attribute.
//
// A single target receives v directly. A group keeps its shape: position
// attributes translate every member by the same offset, Width and Height
// rescale the members about the group's current center, and MarkerDiameter
// is set on each member.
//
// # Scheduling
//
// A constraint that reads an attribute runs after every constraint writing
// an attribute that can change it, positions run after sizes on the same
// element, and marker diameters run first. Cycles do not fail the pass: the
// scheduler breaks them deterministically and the engine reports one
// CYCLIC_DEPENDENCY [Diagnostic] per pass.
//
// # Frames
//
// A [Registry] maps frame identities to engines. Engines are single-threaded;
// renderer writes that trigger a nested Update are dropped while a pass is
// running.
package engine
