// Package geom defines the two bounding-box representations used by the
// layout engine.
//
// A [Box] is what the rendering collaborator stores: extents in the reference
// frame's native (data) coordinates. X0/X1 and Y0/Y1 are numeric minima and
// maxima, so on a reversed axis X0 is drawn to the right of X1.
//
// A [Rect] is what the engine computes with: edges in physical units measured
// from the frame's lower-left corner, where Left <= Right and Bottom <= Top
// always hold regardless of axis direction.
package geom

import "math"

// Box is an axis-aligned bounding box in native coordinates.
type Box struct {
	X0 float64 `json:"x0"`
	X1 float64 `json:"x1"`
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`
}

// Normalize returns b with X0 <= X1 and Y0 <= Y1.
func (b Box) Normalize() Box {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

// Dx returns the horizontal native extent.
func (b Box) Dx() float64 { return b.X1 - b.X0 }

// Dy returns the vertical native extent.
func (b Box) Dy() float64 { return b.Y1 - b.Y0 }

// Equal reports whether two boxes match within tol on every coordinate.
func (b Box) Equal(o Box, tol float64) bool {
	return near(b.X0, o.X0, tol) && near(b.X1, o.X1, tol) &&
		near(b.Y0, o.Y0, tol) && near(b.Y1, o.Y1, tol)
}

// Rect is an axis-aligned rectangle in physical units.
type Rect struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
}

// Width returns the horizontal span of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of the rectangle.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// CenterX returns the horizontal center point of the rectangle.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center point of the rectangle.
func (r Rect) CenterY() float64 { return (r.Bottom + r.Top) / 2 }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Min(r.Bottom, o.Bottom),
		Top:    math.Max(r.Top, o.Top),
	}
}

// Equal reports whether two rectangles match within tol on every edge.
func (r Rect) Equal(o Rect, tol float64) bool {
	return near(r.Left, o.Left, tol) && near(r.Right, o.Right, tol) &&
		near(r.Bottom, o.Bottom, tol) && near(r.Top, o.Top, tol)
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }
