// Package units converts between the reference frame's native coordinates
// and the physical units the layout engine works in.
//
// Native units are the frame's own data coordinates as given by its
// [Viewport]. Physical units are fixed-size (points in the bundled scene
// format) and measured from the frame's lower-left corner, so a font size or
// a tick length keeps its visual size regardless of zoom.
//
// A [Converter] is a pure value computed from the current viewport, the
// frame's physical size and its size in device pixels. The engine rebuilds
// it at the start of every update; nothing in it depends on constraints.
//
// # Reversed Axes
//
// A viewport whose XMin is greater than its XMax (or YMin greater than YMax)
// describes a reversed axis: native values decrease left to right (or bottom
// to top). Position and delta conversions take the direction into account,
// so physical offsets always point right and up.
package units

import (
	"math"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/geom"
)

// Viewport is the displayed native range of the reference frame. XMin and
// YMin are the values shown at the left and bottom edges.
type Viewport struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// Size is a width and height pair, in physical units or pixels depending on
// where it is used.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Converter holds per-frame scale factors and axis-direction flags.
// The zero value is invalid; use [New].
type Converter struct {
	vp     Viewport
	size   Size
	pixels Size

	scaleX, scaleY float64 // native per physical unit, always positive
	pixelX, pixelY float64 // native per device pixel, always positive
	revX, revY     bool
	valid          bool
}

// New computes scale factors for the given viewport, physical frame size and
// pixel size. A zero pixel size is treated as one pixel per physical unit.
//
// A viewport with zero span on either axis, or a non-positive physical size,
// yields a converter whose [Converter.Valid] reports false.
func New(vp Viewport, size Size, pixels Size) Converter {
	c := Converter{vp: vp, size: size, pixels: pixels}
	if pixels.Width <= 0 || pixels.Height <= 0 {
		c.pixels = size
	}

	spanX := math.Abs(vp.XMax - vp.XMin)
	spanY := math.Abs(vp.YMax - vp.YMin)
	if spanX == 0 || spanY == 0 || size.Width <= 0 || size.Height <= 0 ||
		math.IsNaN(spanX) || math.IsNaN(spanY) || math.IsInf(spanX, 0) || math.IsInf(spanY, 0) {
		return c
	}

	c.scaleX = spanX / size.Width
	c.scaleY = spanY / size.Height
	c.pixelX = spanX / c.pixels.Width
	c.pixelY = spanY / c.pixels.Height
	c.revX = vp.XMin > vp.XMax
	c.revY = vp.YMin > vp.YMax
	c.valid = true
	return c
}

// Valid reports whether the converter can map coordinates.
func (c Converter) Valid() bool { return c.valid }

// Viewport returns the viewport the converter was built from.
func (c Converter) Viewport() Viewport { return c.vp }

// Size returns the physical frame size.
func (c Converter) Size() Size { return c.size }

// Pixels returns the frame size in device pixels.
func (c Converter) Pixels() Size { return c.pixels }

// Scale returns native units per physical unit along ax.
func (c Converter) Scale(ax attr.Axis) float64 {
	if ax == attr.Y {
		return c.scaleY
	}
	return c.scaleX
}

// PixelScale returns native units per device pixel along ax.
func (c Converter) PixelScale(ax attr.Axis) float64 {
	if ax == attr.Y {
		return c.pixelY
	}
	return c.pixelX
}

// Reversed reports whether native values decrease along ax.
func (c Converter) Reversed(ax attr.Axis) bool {
	if ax == attr.Y {
		return c.revY
	}
	return c.revX
}

func (c Converter) sign(ax attr.Axis) float64 {
	if c.Reversed(ax) {
		return -1
	}
	return 1
}

func (c Converter) origin(ax attr.Axis) float64 {
	if ax == attr.Y {
		return c.vp.YMin
	}
	return c.vp.XMin
}

// ToPhysical maps a native position on ax to physical units from the frame's
// lower-left corner.
func (c Converter) ToPhysical(ax attr.Axis, native float64) float64 {
	return c.sign(ax) * (native - c.origin(ax)) / c.Scale(ax)
}

// ToNative maps a physical position on ax back to native coordinates.
func (c Converter) ToNative(ax attr.Axis, physical float64) float64 {
	return c.origin(ax) + c.sign(ax)*physical*c.Scale(ax)
}

// DeltaToNative converts a physical offset to a native offset. On a reversed
// axis the sign flips.
func (c Converter) DeltaToNative(ax attr.Axis, d float64) float64 {
	return c.sign(ax) * d * c.Scale(ax)
}

// DeltaToPhysical converts a native offset to a physical offset.
func (c Converter) DeltaToPhysical(ax attr.Axis, d float64) float64 {
	return c.sign(ax) * d / c.Scale(ax)
}

// PixelsToPhysical converts a length in device pixels to physical units.
func (c Converter) PixelsToPhysical(ax attr.Axis, px float64) float64 {
	return px * c.PixelScale(ax) / c.Scale(ax)
}

// BoxToRect converts a native box to a physical rectangle. The result always
// has Left <= Right and Bottom <= Top.
func (c Converter) BoxToRect(b geom.Box) geom.Rect {
	l, r := c.ToPhysical(attr.X, b.X0), c.ToPhysical(attr.X, b.X1)
	bt, tp := c.ToPhysical(attr.Y, b.Y0), c.ToPhysical(attr.Y, b.Y1)
	return geom.Rect{
		Left:   math.Min(l, r),
		Right:  math.Max(l, r),
		Bottom: math.Min(bt, tp),
		Top:    math.Max(bt, tp),
	}
}

// RectToBox converts a physical rectangle to a normalized native box.
func (c Converter) RectToBox(r geom.Rect) geom.Box {
	return geom.Box{
		X0: c.ToNative(attr.X, r.Left),
		X1: c.ToNative(attr.X, r.Right),
		Y0: c.ToNative(attr.Y, r.Bottom),
		Y1: c.ToNative(attr.Y, r.Top),
	}.Normalize()
}

// Same reports whether c and o were built from identical inputs. The engine
// uses it to detect viewport and size changes between updates.
func (c Converter) Same(o Converter) bool {
	return c.vp == o.vp && c.size == o.size && c.pixels == o.pixels
}
