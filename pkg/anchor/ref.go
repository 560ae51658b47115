package anchor

import (
	"fmt"
	"slices"
	"strings"
)

// Element is an opaque handle to a drawable owned by the rendering
// collaborator. Implementations must be comparable by identity, which in
// practice means pointer types.
type Element interface {
	ElementID() string
}

// RefKind discriminates the variants of [Ref].
type RefKind int

const (
	RefNone RefKind = iota
	RefElements
	RefCollection
	RefLiteral
)

// Ref names what a constraint targets or anchors to: an explicit element
// list, a collection resolved at evaluation time, a literal native value, or
// nothing at all.
type Ref struct {
	kind     RefKind
	elements []Element
	name     string
	value    float64
}

// None is the empty reference. As an anchor it means the margin is an
// absolute physical size or offset.
var None = Ref{}

// Elements references an explicit list of elements.
func Elements(elems ...Element) Ref {
	return Ref{kind: RefElements, elements: slices.Clone(elems)}
}

// Collection references a named collection.
func Collection(name string) Ref {
	return Ref{kind: RefCollection, name: name}
}

// Literal references a scalar in the frame's native coordinates.
func Literal(v float64) Ref {
	return Ref{kind: RefLiteral, value: v}
}

// Kind returns the variant.
func (r Ref) Kind() RefKind { return r.kind }

// IsNone reports whether r is the empty reference.
func (r Ref) IsNone() bool { return r.kind == RefNone }

// Elements returns a copy of the explicit element list.
func (r Ref) Elements() []Element { return slices.Clone(r.elements) }

// Name returns the collection name.
func (r Ref) Name() string { return r.name }

// Value returns the literal value.
func (r Ref) Value() float64 { return r.value }

// Without returns r minus the given elements. Only explicit element lists
// are affected; the second result reports whether anything was removed.
func (r Ref) Without(drop func(Element) bool) (Ref, bool) {
	if r.kind != RefElements {
		return r, false
	}
	kept := slices.DeleteFunc(slices.Clone(r.elements), drop)
	if len(kept) == len(r.elements) {
		return r, false
	}
	return Ref{kind: RefElements, elements: kept}, true
}

// String renders the reference in scene-file syntax, e.g.
// "collection:xticks" or "literal:2.5".
func (r Ref) String() string {
	switch r.kind {
	case RefElements:
		ids := make([]string, len(r.elements))
		for i, e := range r.elements {
			ids[i] = e.ElementID()
		}
		return "element:" + strings.Join(ids, ",")
	case RefCollection:
		return "collection:" + r.name
	case RefLiteral:
		return fmt.Sprintf("literal:%g", r.value)
	default:
		return "none"
	}
}
