package scene

import (
	"strings"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/geom"
)

// Kind is the primitive an element draws.
type Kind int

const (
	KindRect Kind = iota
	KindLine
	KindText
	KindMarker
	KindFrame
)

var kindNames = [...]string{"rect", "line", "text", "marker", "frame"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind parses a kind name. The empty string is a rect.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindRect, nil
	}
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidScene, "unknown element kind %q", s)
}

// Element is a drawable on a [Canvas]. Its box is in native coordinates.
type Element struct {
	ID   string
	Kind Kind
	Text string
	Box  geom.Box

	// AlignX and AlignY pin the edge of a text box that stays put when the
	// text is refitted: Left, HCenter or Right, and Bottom, VCenter or Top.
	// None centers.
	AlignX attr.Attr
	AlignY attr.Attr

	// Static elements are never moved by anything but the engine.
	Static bool
}

// ParseAlign parses a text alignment edge for ax. The empty string centers.
func ParseAlign(ax attr.Axis, s string) (attr.Attr, error) {
	a, err := attr.Parse(s)
	if err != nil {
		return attr.None, errors.Wrap(errors.ErrCodeInvalidScene, err, "align")
	}
	if a != attr.None && (!a.IsPosition() || a.Axis() != ax) {
		return attr.None, errors.New(errors.ErrCodeInvalidScene, "%s is not a %s alignment", a, ax)
	}
	return a, nil
}

// ElementID implements engine.Element.
func (e *Element) ElementID() string { return e.ID }
