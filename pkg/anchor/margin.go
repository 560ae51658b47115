package anchor

import (
	"fmt"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/units"
)

// State is the read-only view of the engine handed to computed margins.
type State interface {
	// Property returns a named configuration value and whether it is set.
	Property(key string) (float64, bool)
	// Units returns the converter for the current pass.
	Units() units.Converter
	// Collection returns the current members of a collection.
	Collection(name string) []Element
	// Value returns the physical value of a for the given elements, using
	// the group aggregate for more than one element.
	Value(elems []Element, a attr.Attr) (float64, bool)
}

// MarginKind discriminates the variants of [Margin].
type MarginKind int

const (
	MarginConstant MarginKind = iota
	MarginProperty
	MarginComputed
)

// Margin is a physical-unit offset: a constant, a named engine property
// looked up on every pass, or a function of the engine state.
type Margin struct {
	kind  MarginKind
	value float64
	key   string
	fn    func(State) float64
}

// Constant returns a fixed margin in physical units.
func Constant(v float64) Margin { return Margin{kind: MarginConstant, value: v} }

// Property returns a margin read from the named engine property.
func Property(key string) Margin { return Margin{kind: MarginProperty, key: key, value: 1} }

// Computed returns a margin evaluated by fn on every pass.
func Computed(fn func(State) float64) Margin { return Margin{kind: MarginComputed, fn: fn} }

// Scaled returns a property margin multiplied by factor, e.g. half a font
// height.
func Scaled(key string, factor float64) Margin {
	return Margin{kind: MarginProperty, key: key, value: factor}
}

// Kind returns the variant.
func (m Margin) Kind() MarginKind { return m.kind }

// Key returns the property key of a property margin.
func (m Margin) Key() string { return m.key }

// Resolve evaluates the margin against s. An unknown property resolves to
// zero and false.
func (m Margin) Resolve(s State) (float64, bool) {
	switch m.kind {
	case MarginProperty:
		v, ok := s.Property(m.key)
		return v * m.value, ok
	case MarginComputed:
		if m.fn == nil {
			return 0, false
		}
		return m.fn(s), true
	default:
		return m.value, true
	}
}

// String renders the margin in scene-file syntax.
func (m Margin) String() string {
	switch m.kind {
	case MarginProperty:
		if m.value != 1 {
			return fmt.Sprintf("prop:%s*%g", m.key, m.value)
		}
		return "prop:" + m.key
	case MarginComputed:
		return "computed"
	default:
		return fmt.Sprintf("%g", m.value)
	}
}
