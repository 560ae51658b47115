package anchor

import (
	"fmt"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/errors"
)

// ID identifies a registered constraint. IDs are assigned in registration
// order and never reused within an engine, so they double as the
// deterministic tie-break when scheduling.
type ID int

// Spec is a declarative constraint: set TargetAttr of Target to the value of
// AnchorAttr of Anchor, offset by Margin.
//
// With Anchor == [None] the margin is the value itself, an absolute physical
// size or offset. With a [Literal] anchor the value is a native coordinate on
// the target attribute's axis and AnchorAttr is forced to [attr.Literal].
type Spec struct {
	Target     Ref
	TargetAttr attr.Attr
	Anchor     Ref
	AnchorAttr attr.Attr
	Margin     Margin

	// Description is a human-readable label used in logs and graph exports.
	Description string
}

// Normalized returns s with AnchorAttr made consistent with the anchor kind.
func (s Spec) Normalized() Spec {
	switch s.Anchor.Kind() {
	case RefLiteral:
		s.AnchorAttr = attr.Literal
	case RefNone:
		s.AnchorAttr = attr.None
	}
	return s
}

// Validate reports structural problems that make the spec unusable. It does
// not check whether referenced elements exist.
func (s Spec) Validate() error {
	s = s.Normalized()

	switch s.Target.Kind() {
	case RefElements:
		if len(s.Target.elements) == 0 {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s: target element list is empty", s.label())
		}
	case RefCollection:
		if s.Target.Name() == "" {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s: target collection has no name", s.label())
		}
	default:
		return errors.New(errors.ErrCodeInvalidConstraint, "%s: target must be elements or a collection, got %s", s.label(), s.Target)
	}

	if s.TargetAttr == attr.None || s.TargetAttr == attr.Literal {
		return errors.New(errors.ErrCodeInvalidConstraint, "%s: target attribute %s cannot be written", s.label(), s.TargetAttr)
	}

	switch s.Anchor.Kind() {
	case RefElements:
		if len(s.Anchor.elements) == 0 {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s: anchor element list is empty", s.label())
		}
		fallthrough
	case RefCollection:
		if s.AnchorAttr == attr.None || s.AnchorAttr == attr.Literal {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s: anchor attribute %s cannot be read from elements", s.label(), s.AnchorAttr)
		}
	case RefLiteral:
		if s.TargetAttr.Axis() == attr.NoAxis {
			return errors.New(errors.ErrCodeInvalidConstraint, "%s: literal anchor needs an axis but target attribute is %s", s.label(), s.TargetAttr)
		}
	}

	return nil
}

func (s Spec) label() string {
	if s.Description != "" {
		return s.Description
	}
	return "constraint"
}

// String renders the spec compactly, e.g.
// "collection:xticklabels.top = element:axes.bottom - prop:tick.pad".
func (s Spec) String() string {
	s = s.Normalized()
	lhs := fmt.Sprintf("%s.%s", s.Target, s.TargetAttr)
	switch s.Anchor.Kind() {
	case RefNone:
		return fmt.Sprintf("%s = %s", lhs, s.Margin)
	case RefLiteral:
		return fmt.Sprintf("%s = %s %c %s", lhs, s.Anchor, signRune(LiteralSign(s.TargetAttr)), s.Margin)
	default:
		return fmt.Sprintf("%s = %s.%s %c %s", lhs, s.Anchor, s.AnchorAttr, signRune(AnchorSign(s.AnchorAttr)), s.Margin)
	}
}

func signRune(sign float64) rune {
	if sign < 0 {
		return '-'
	}
	return '+'
}

// AnchorSign is the direction a margin pushes away from an anchor edge:
// outward from Top and Right (+1), outward from Bottom and Left (-1).
// Centers and sizes add.
func AnchorSign(a attr.Attr) float64 {
	switch a {
	case attr.Bottom, attr.Left:
		return -1
	}
	return 1
}

// LiteralSign is the direction a margin pushes away from a literal anchor.
// Along X margins always add; along Y a target Top hangs below the literal
// and every other attribute sits above it.
func LiteralSign(target attr.Attr) float64 {
	if target == attr.Top {
		return -1
	}
	return 1
}
