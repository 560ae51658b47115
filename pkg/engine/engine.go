package engine

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/collection"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/locate"
	"github.com/matzehuels/anchorage/pkg/units"
)

// Element is an opaque handle to a drawable owned by the renderer.
type Element = anchor.Element

// Renderer is the rendering collaborator. It owns the elements and stores
// their bounding boxes in the frame's native coordinates.
type Renderer interface {
	// Geometry returns the element's native box, or false once the element
	// has been destroyed.
	Geometry(e Element) (geom.Box, bool)
	// SetGeometry replaces the element's native box; the next Geometry call
	// must observe it.
	SetGeometry(e Element, b geom.Box)
}

// DynamicReporter is implemented by renderers that know which elements can
// change outside the engine. Elements reported static are queried once and
// trusted until the engine writes them.
type DynamicReporter interface {
	Dynamic(e Element) bool
}

// Frame is the reference frame annotations are laid out around.
type Frame interface {
	FrameID() string
	Viewport() units.Viewport
	// Size is the frame size in physical units.
	Size() units.Size
	// Pixels is the frame size in device pixels; zero means one pixel per
	// physical unit.
	Pixels() units.Size
	// Alive reports whether the frame still exists.
	Alive() bool
}

// ErrFrameDestroyed is returned by the first update after the reference
// frame went away. The engine is closed afterwards.
var ErrFrameDestroyed = errors.New(errors.ErrCodeFrameDestroyed, "reference frame destroyed")

// Diagnostic is a non-fatal condition reported during an update.
type Diagnostic struct {
	Frame   string
	Code    errors.Code
	Message string
}

func (d Diagnostic) String() string { return string(d.Code) + ": " + d.Message }

// Options configures an [Engine].
type Options struct {
	// Logger receives debug and warning output. Nil uses log.Default().
	Logger *log.Logger
	// Properties are read by property margins. Nil uses config.Defaults().
	Properties *config.Properties
	// OnDiagnostic, if set, is called for every diagnostic.
	OnDiagnostic func(Diagnostic)
}

// Constraint is a registered spec and its ID.
type Constraint struct {
	ID   anchor.ID
	Spec anchor.Spec
}

type entry struct {
	spec    anchor.Spec
	invalid bool
}

// Engine resolves the constraints of one reference frame.
//
// An Engine is used from a single goroutine. Writes to the renderer may
// trigger nested calls to [Engine.Update]; those are dropped while a pass is
// running.
type Engine struct {
	frame    Frame
	renderer Renderer
	cache    *locate.Cache
	colls    *collection.Registry[Element]
	props    *config.Properties
	logger   *log.Logger
	onDiag   func(Diagnostic)

	specs []*entry // indexed by ID, nil once removed
	live  int

	sched *Schedule
	dirty bool

	lastSeen units.Converter
	active   bool
	closed   bool
}

// New creates an engine laying out around frame. Geometry is read from and
// written to r.
func New(frame Frame, r Renderer, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Properties == nil {
		opts.Properties = config.Defaults()
	}
	var dynamic func(Element) bool
	if dr, ok := r.(DynamicReporter); ok {
		dynamic = dr.Dynamic
	}
	return &Engine{
		frame:    frame,
		renderer: r,
		cache:    locate.New(r, dynamic),
		colls:    collection.NewRegistry[Element](),
		props:    opts.Properties,
		logger:   opts.Logger.With("frame", frame.FrameID()),
		onDiag:   opts.OnDiagnostic,
		dirty:    true,
	}
}

// FrameID returns the identity of the engine's reference frame.
func (e *Engine) FrameID() string { return e.frame.FrameID() }

// Closed reports whether the engine stopped processing.
func (e *Engine) Closed() bool { return e.closed }

// Close stops the engine. Later updates are no-ops.
func (e *Engine) Close() {
	e.closed = true
	e.cache.InvalidateAll()
}

// AddConstraint registers spec and returns its ID.
func (e *Engine) AddConstraint(spec anchor.Spec) (anchor.ID, error) {
	if err := spec.Validate(); err != nil {
		return 0, err
	}
	return e.add(spec), nil
}

// AddConstraints registers every spec, or none if any is invalid.
func (e *Engine) AddConstraints(specs ...anchor.Spec) ([]anchor.ID, error) {
	for _, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	ids := make([]anchor.ID, len(specs))
	for i, s := range specs {
		ids[i] = e.add(s)
	}
	return ids, nil
}

func (e *Engine) add(spec anchor.Spec) anchor.ID {
	id := anchor.ID(len(e.specs))
	e.specs = append(e.specs, &entry{spec: spec.Normalized()})
	e.live++
	e.dirty = true
	e.logger.Debug("constraint added", "id", id, "spec", spec)
	return id
}

// AddSpan registers the constraints stretching target over the native
// interval [lo, hi] along ax. Non-increasing or non-finite bounds are
// rejected with a DEGENERATE_INPUT error and a diagnostic; nothing is
// registered in that case.
func (e *Engine) AddSpan(target anchor.Ref, ax attr.Axis, lo, hi float64, description string) ([]anchor.ID, error) {
	specs, err := anchor.Span(target, ax, lo, hi, description)
	if err != nil {
		if errors.Is(err, errors.ErrCodeDegenerateInput) {
			e.diagnose(context.Background(), errors.ErrCodeDegenerateInput, errors.UserMessage(err))
		}
		return nil, err
	}
	return e.AddConstraints(specs...)
}

// RemoveConstraint unregisters the constraint with the given ID. It reports
// whether the constraint was active.
func (e *Engine) RemoveConstraint(id anchor.ID) bool {
	if id < 0 || int(id) >= len(e.specs) || e.specs[id] == nil {
		return false
	}
	e.drop(id)
	return true
}

func (e *Engine) drop(id anchor.ID) {
	e.specs[id] = nil
	e.live--
	e.dirty = true
}

// Constraints returns the active constraints in registration order.
func (e *Engine) Constraints() []Constraint {
	out := make([]Constraint, 0, e.live)
	for id, ent := range e.specs {
		if ent != nil {
			out = append(out, Constraint{ID: anchor.ID(id), Spec: ent.spec})
		}
	}
	return out
}

// Constraint returns the spec registered under id.
func (e *Engine) Constraint(id anchor.ID) (anchor.Spec, bool) {
	if id < 0 || int(id) >= len(e.specs) || e.specs[id] == nil {
		return anchor.Spec{}, false
	}
	return e.specs[id].spec, true
}

// Len returns the number of active constraints.
func (e *Engine) Len() int { return e.live }

// AddToCollection inserts elems into the named collection. Adding a new
// member reschedules the constraints before the next pass.
func (e *Engine) AddToCollection(name string, elems ...Element) error {
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if e.colls.Add(name, elems...) {
		e.dirty = true
	}
	return nil
}

// Collection returns the members of the named collection, or nil for an
// unknown name.
func (e *Engine) Collection(name string) []Element { return e.colls.Get(name) }

// Collections returns the names of all collections, sorted.
func (e *Engine) Collections() []string { return e.colls.Names() }

// RemoveElements removes elems from every collection and every constraint.
//
// A constraint is pruned when its explicit target or anchor list becomes
// empty, or when it refers to a collection this call emptied. A constraint
// referring to a collection that still has members stays active. The pruned
// IDs are returned in ascending order.
func (e *Engine) RemoveElements(elems ...Element) []anchor.ID {
	gone := newElemSet(elems)
	drop := func(el Element) bool {
		_, ok := gone[el]
		return ok
	}

	_, emptied := e.colls.Remove(elems...)
	wasEmptied := func(r anchor.Ref) bool {
		return r.Kind() == anchor.RefCollection && slices.Contains(emptied, r.Name())
	}

	var pruned []anchor.ID
	for id, ent := range e.specs {
		if ent == nil {
			continue
		}
		target, tChanged := ent.spec.Target.Without(drop)
		anch, aChanged := ent.spec.Anchor.Without(drop)
		empty := (tChanged && len(target.Elements()) == 0) || (aChanged && len(anch.Elements()) == 0)
		if empty || wasEmptied(ent.spec.Target) || wasEmptied(ent.spec.Anchor) {
			pruned = append(pruned, anchor.ID(id))
			e.drop(anchor.ID(id))
			continue
		}
		if tChanged || aChanged {
			ent.spec.Target, ent.spec.Anchor = target, anch
			e.dirty = true
		}
	}

	for _, el := range elems {
		e.cache.Forget(el)
	}
	e.dirty = true
	if len(pruned) > 0 {
		e.logger.Debug("constraints pruned", "reason", "elements removed", "ids", pruned)
	}
	return pruned
}

// SetStatic marks e as static (queried once, trusted until written) or
// dynamic (re-queried every pass).
func (e *Engine) SetStatic(el Element, static bool) {
	e.cache.SetDynamic(el, !static)
}

// Invalidate forces the next pass to re-query el.
func (e *Engine) Invalidate(el Element) { e.cache.Invalidate(el) }

// Geometry returns el's cached physical rectangle, querying the renderer on
// a miss.
func (e *Engine) Geometry(el Element) (geom.Rect, bool) {
	ent, ok := e.cache.Get(el)
	return ent.Rect, ok
}

// Properties returns the named properties margins read. Changes take effect
// on the next update.
func (e *Engine) Properties() *config.Properties { return e.props }

// SetOnDiagnostic replaces the diagnostic callback given in [Options].
func (e *Engine) SetOnDiagnostic(fn func(Diagnostic)) { e.onDiag = fn }

// Units returns the converter of the last update.
func (e *Engine) Units() units.Converter { return e.cache.Units() }

// NeedsUpdate reports whether the constraint set or the frame's viewport
// or size changed since the last pass.
func (e *Engine) NeedsUpdate() bool {
	if e.closed {
		return false
	}
	if e.dirty {
		return true
	}
	return !e.lastSeen.Same(e.converter())
}

func (e *Engine) converter() units.Converter {
	return units.New(e.frame.Viewport(), e.frame.Size(), e.frame.Pixels())
}

// Schedule returns the current evaluation order, rebuilding it if the
// constraint set or collections changed.
func (e *Engine) Schedule() *Schedule {
	if e.dirty || e.sched == nil {
		e.reschedule()
	}
	return e.sched
}

// Order returns the constraint IDs in evaluation order.
func (e *Engine) Order() []anchor.ID { return e.Schedule().Sequence() }

func (e *Engine) reschedule() {
	nodes := make([]node, 0, e.live)
	for id, ent := range e.specs {
		if ent == nil {
			continue
		}
		nodes = append(nodes, node{
			id:      anchor.ID(id),
			spec:    ent.spec,
			targets: newElemSet(e.members(ent.spec.Target)),
			anchors: newElemSet(e.members(ent.spec.Anchor)),
		})
	}
	e.sched = schedule(nodes)
	e.dirty = false
	e.logger.Debug("constraints scheduled",
		"nodes", e.sched.Graph.Len(),
		"edges", e.sched.Graph.EdgeCount(),
		"cyclic", e.sched.Order.Cyclic)
}

// members resolves a reference to its current elements.
func (e *Engine) members(r anchor.Ref) []Element {
	switch r.Kind() {
	case anchor.RefElements:
		return r.Elements()
	case anchor.RefCollection:
		return e.colls.Get(r.Name())
	}
	return nil
}

// Property implements anchor.State.
func (e *Engine) Property(key string) (float64, bool) { return e.props.Get(key) }

// Value implements anchor.State.
func (e *Engine) Value(elems []Element, a attr.Attr) (float64, bool) {
	return e.cache.Aggregate(elems, a)
}
