package attr

import (
	"fmt"
	"strings"
)

// Attr is a geometric attribute of an element's bounding box.
//
// The zero value [None] means "no attribute" and is used by constraints
// whose anchor is an absolute physical size or offset.
type Attr int

const (
	None Attr = iota
	Left
	Right
	Top
	Bottom
	HCenter
	VCenter
	Width
	Height
	MarkerDiameter
	// Literal marks a scalar anchor given in native coordinates rather than
	// an attribute of a queryable element. Its axis is inferred from the
	// attribute it is paired with.
	Literal
)

// All lists every attribute except [None], in declaration order.
var All = []Attr{Left, Right, Top, Bottom, HCenter, VCenter, Width, Height, MarkerDiameter, Literal}

var names = map[Attr]string{
	None:           "none",
	Left:           "left",
	Right:          "right",
	Top:            "top",
	Bottom:         "bottom",
	HCenter:        "hcenter",
	VCenter:        "vcenter",
	Width:          "width",
	Height:         "height",
	MarkerDiameter: "markerdiameter",
	Literal:        "literal",
}

// String returns the lower-case attribute name, e.g. "top".
func (a Attr) String() string {
	if s, ok := names[a]; ok {
		return s
	}
	return fmt.Sprintf("attr(%d)", int(a))
}

// Parse converts a case-insensitive attribute name back to an [Attr].
// Hyphens and underscores are ignored, so "marker-diameter" and
// "MarkerDiameter" both parse.
func Parse(s string) (Attr, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s))
	switch key {
	case "", "none":
		return None, nil
	case "xcenter", "centerx":
		return HCenter, nil
	case "ycenter", "centery":
		return VCenter, nil
	case "diameter":
		return MarkerDiameter, nil
	}
	for a, name := range names {
		if name == key {
			return a, nil
		}
	}
	return None, fmt.Errorf("unknown position attribute %q", s)
}

// Axis identifies the horizontal or vertical axis of the reference frame.
type Axis int

const (
	// NoAxis is returned for attributes that belong to neither axis.
	NoAxis Axis = iota
	X
	Y
)

// String returns "x", "y" or "none".
func (ax Axis) String() string {
	switch ax {
	case X:
		return "x"
	case Y:
		return "y"
	default:
		return "none"
	}
}

// Axis reports which axis the attribute belongs to. MarkerDiameter, Literal
// and None return [NoAxis].
func (a Attr) Axis() Axis {
	switch a {
	case Left, Right, HCenter, Width:
		return X
	case Top, Bottom, VCenter, Height:
		return Y
	default:
		return NoAxis
	}
}

// IsHorizontal reports whether the attribute belongs to the horizontal axis.
func (a Attr) IsHorizontal() bool { return a.Axis() == X }

// IsVertical reports whether the attribute belongs to the vertical axis.
func (a Attr) IsVertical() bool { return a.Axis() == Y }

// IsSize reports whether the attribute is a size (Width, Height,
// MarkerDiameter) rather than a position.
func (a Attr) IsSize() bool {
	return a == Width || a == Height || a == MarkerDiameter
}

// IsPosition reports whether the attribute is a position on one axis:
// an edge or a center.
func (a Attr) IsPosition() bool {
	switch a {
	case Left, Right, Top, Bottom, HCenter, VCenter:
		return true
	}
	return false
}

// Opposite maps Top to Bottom and Left to Right (and back). Centers, sizes
// and the remaining attributes map to themselves.
func (a Attr) Opposite() Attr {
	switch a {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return a
}

// SizeFor returns the size attribute of the given axis.
func SizeFor(ax Axis) Attr {
	switch ax {
	case X:
		return Width
	case Y:
		return Height
	}
	return None
}

// CenterFor returns the center attribute of the given axis.
func CenterFor(ax Axis) Attr {
	switch ax {
	case X:
		return HCenter
	case Y:
		return VCenter
	}
	return None
}

// Edges returns the lower and upper edge attributes of the given axis:
// (Left, Right) for X and (Bottom, Top) for Y.
func Edges(ax Axis) (lo, hi Attr) {
	switch ax {
	case X:
		return Left, Right
	case Y:
		return Bottom, Top
	}
	return None, None
}
