package engine

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/locate"
	"github.com/matzehuels/anchorage/pkg/observability"
)

// Update runs one layout pass.
//
// The pass refreshes the unit converter, drops stale collection members,
// reschedules if the constraint set changed, re-queries dynamic geometry and
// then applies every constraint in scheduled order. Constraints that refer
// to destroyed elements are pruned afterwards.
//
// Update is idempotent: with unchanged geometry and constraints a second
// call writes nothing. A call made while a pass is running returns nil
// immediately. If the frame has been destroyed the first call returns
// [ErrFrameDestroyed] and closes the engine; later calls are no-ops.
func (e *Engine) Update(ctx context.Context) error {
	if e.active || e.closed {
		return nil
	}
	e.active = true
	defer func() { e.active = false }()

	frameID := e.frame.FrameID()
	if !e.frame.Alive() {
		e.Close()
		e.logger.Warn("reference frame destroyed, engine closed")
		return ErrFrameDestroyed
	}

	start := time.Now()
	hooks := observability.Engine()
	hooks.OnUpdateStart(ctx, frameID, e.live)

	conv := e.converter()
	if !conv.Valid() {
		vp, size := e.frame.Viewport(), e.frame.Size()
		e.diagnose(ctx, errors.ErrCodeInvalidUnits,
			fmt.Sprintf("cannot convert units for viewport %+v and size %+v", vp, size))
		hooks.OnUpdateComplete(ctx, frameID, 0, time.Since(start), nil)
		return nil
	}
	if e.cache.SetUnits(conv) {
		e.logger.Debug("units changed", "viewport", conv.Viewport(), "size", conv.Size())
	}

	if stale, emptied := e.colls.Prune(e.exists); len(stale) > 0 {
		e.dirty = true
		e.logger.Debug("stale collection members dropped", "collections", stale)
		e.invalidateCollections(emptied)
	}
	if e.dirty || e.sched == nil {
		e.reschedule()
		hooks.OnSchedule(ctx, frameID, e.sched.Graph.Len(), e.sched.Graph.EdgeCount(), e.sched.Order.Cyclic)
	}
	if e.sched.Order.Cyclic {
		e.diagnose(ctx, errors.ErrCodeCyclicDependency, e.cycleMessage())
	}

	e.cache.Refresh()
	writes := 0
	for _, id := range e.sched.Sequence() {
		writes += e.apply(id)
	}

	e.pruneInvalid(ctx)
	e.lastSeen = conv

	elapsed := time.Since(start)
	e.logger.Debug("update complete", "constraints", e.live, "writes", writes, "duration", elapsed)
	hooks.OnUpdateComplete(ctx, frameID, writes, elapsed, nil)
	return nil
}

// invalidateCollections marks every constraint targeting or anchored to one
// of the named collections for pruning at the end of the pass.
func (e *Engine) invalidateCollections(names []string) {
	if len(names) == 0 {
		return
	}
	refers := func(r anchor.Ref) bool {
		return r.Kind() == anchor.RefCollection && slices.Contains(names, r.Name())
	}
	for _, ent := range e.specs {
		if ent != nil && (refers(ent.spec.Target) || refers(ent.spec.Anchor)) {
			ent.invalid = true
		}
	}
}

func (e *Engine) exists(el Element) bool {
	_, ok := e.renderer.Geometry(el)
	return ok
}

func (e *Engine) cycleMessage() string {
	forced := e.sched.Forced()
	descs := make([]string, 0, len(forced))
	for _, id := range forced {
		if ent := e.specs[id]; ent != nil {
			descs = append(descs, describe(id, ent.spec))
		}
	}
	return fmt.Sprintf("constraint graph has a cycle; forced %d constraint(s) out of order: %v", len(forced), descs)
}

func describe(id anchor.ID, s anchor.Spec) string {
	if s.Description != "" {
		return fmt.Sprintf("#%d %s", id, s.Description)
	}
	return fmt.Sprintf("#%d %s", id, s)
}

func (e *Engine) diagnose(ctx context.Context, code errors.Code, msg string) {
	d := Diagnostic{Frame: e.frame.FrameID(), Code: code, Message: msg}
	e.logger.Warn(msg, "code", code)
	observability.Engine().OnDiagnostic(ctx, d.Frame, string(code), msg)
	if e.onDiag != nil {
		e.onDiag(d)
	}
}

// apply evaluates one constraint and returns the number of renderer writes.
func (e *Engine) apply(id anchor.ID) int {
	ent := e.specs[id]
	if ent == nil {
		return 0
	}
	s := ent.spec

	if e.stale(s.Target) || e.stale(s.Anchor) {
		ent.invalid = true
		return 0
	}

	targets := e.members(s.Target)
	if len(targets) == 0 {
		return 0
	}

	margin, ok := s.Margin.Resolve(e)
	if !ok {
		e.logger.Warn("margin unresolved, constraint skipped", "id", id, "margin", s.Margin)
		return 0
	}

	v, ok := e.targetValue(s, margin)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	if len(targets) == 1 {
		return count(e.cache.Write(targets[0], s.TargetAttr, v))
	}
	switch a := s.TargetAttr; {
	case a == attr.MarkerDiameter:
		n := 0
		for _, t := range targets {
			n += count(e.cache.Write(t, a, v))
		}
		return n
	case a.IsSize():
		return e.scaleGroup(targets, a.Axis(), v)
	default:
		return e.translateGroup(targets, a, v)
	}
}

// stale reports whether an explicit element list names a destroyed element.
func (e *Engine) stale(r anchor.Ref) bool {
	if r.Kind() != anchor.RefElements {
		return false
	}
	for _, el := range r.Elements() {
		if !e.exists(el) {
			return true
		}
	}
	return false
}

// targetValue resolves the physical value the target attribute should take.
func (e *Engine) targetValue(s anchor.Spec, margin float64) (float64, bool) {
	switch s.Anchor.Kind() {
	case anchor.RefNone:
		return margin, true
	case anchor.RefLiteral:
		conv := e.cache.Units()
		ax := s.TargetAttr.Axis()
		var p float64
		if s.TargetAttr.IsSize() {
			p = math.Abs(conv.DeltaToPhysical(ax, s.Anchor.Value()))
		} else {
			p = conv.ToPhysical(ax, s.Anchor.Value())
		}
		return p + anchor.LiteralSign(s.TargetAttr)*margin, true
	default:
		anchors := e.members(s.Anchor)
		if len(anchors) == 0 {
			return 0, false
		}
		p, ok := e.cache.Aggregate(anchors, s.AnchorAttr)
		if !ok {
			return 0, false
		}
		return p + anchor.AnchorSign(s.AnchorAttr)*margin, true
	}
}

// translateGroup moves every member by the same offset so the group's
// aggregate value of a becomes v.
func (e *Engine) translateGroup(targets []Element, a attr.Attr, v float64) int {
	current, ok := e.cache.Aggregate(targets, a)
	if !ok {
		return 0
	}
	d := v - current
	if math.Abs(d) <= locate.Tolerance {
		return 0
	}
	n := 0
	for _, t := range targets {
		own, ok := e.cache.Value(t, a)
		if !ok {
			continue
		}
		n += count(e.cache.Write(t, a, own+d))
	}
	return n
}

// scaleGroup rescales the group along ax about its current center so its
// bounding span becomes size. Each member keeps its fractional position.
func (e *Engine) scaleGroup(targets []Element, ax attr.Axis, size float64) int {
	bounds, ok := e.cache.Bounds(targets)
	if !ok {
		return 0
	}
	sizeAttr, centerAttr := attr.SizeFor(ax), attr.CenterFor(ax)
	var span, mid float64
	if ax == attr.X {
		span, mid = bounds.Width(), bounds.CenterX()
	} else {
		span, mid = bounds.Height(), bounds.CenterY()
	}

	size = math.Max(size, 0)
	n := 0
	if span <= locate.Tolerance {
		for _, t := range targets {
			n += count(e.cache.Write(t, sizeAttr, size))
			n += count(e.cache.Write(t, centerAttr, mid))
		}
		return n
	}

	k := size / span
	for _, t := range targets {
		ownSize, ok := e.cache.Value(t, sizeAttr)
		if !ok {
			continue
		}
		ownMid, _ := e.cache.Value(t, centerAttr)
		n += count(e.cache.Write(t, sizeAttr, ownSize*k))
		n += count(e.cache.Write(t, centerAttr, mid+(ownMid-mid)*k))
	}
	return n
}

func count(written bool) int {
	if written {
		return 1
	}
	return 0
}

// pruneInvalid drops constraints marked invalid during the pass and the
// cache entries no active constraint references.
func (e *Engine) pruneInvalid(ctx context.Context) {
	var pruned []anchor.ID
	for id, ent := range e.specs {
		if ent != nil && ent.invalid {
			pruned = append(pruned, anchor.ID(id))
			e.drop(anchor.ID(id))
		}
	}

	referenced := make(elemSet)
	for _, ent := range e.specs {
		if ent == nil {
			continue
		}
		for _, el := range e.members(ent.spec.Target) {
			referenced[el] = struct{}{}
		}
		for _, el := range e.members(ent.spec.Anchor) {
			referenced[el] = struct{}{}
		}
	}
	e.cache.Retain(func(el Element) bool {
		_, ok := referenced[el]
		return ok
	})

	if len(pruned) == 0 {
		return
	}
	e.logger.Debug("constraints pruned", "reason", "stale reference", "ids", pruned)
	observability.Engine().OnPrune(ctx, e.frame.FrameID(), len(pruned))
}
