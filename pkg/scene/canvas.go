package scene

import (
	"slices"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/units"
)

// FrameElementID is the ID of the element every canvas keeps in sync with
// its viewport.
const FrameElementID = "frame"

// advance is the width of one terminal cell in em, used to estimate text
// extents without glyph metrics.
const advance = 0.6

// Canvas is an in-memory rendering collaborator. It owns a reference frame
// and the elements drawn around it, and implements engine.Renderer,
// engine.DynamicReporter and engine.Frame.
//
// Text elements are sized from their content and the font properties; when
// the viewport changes their native boxes are refitted about their centers,
// which is why they are reported dynamic.
type Canvas struct {
	id     string
	vp     units.Viewport
	size   units.Size
	pixels units.Size
	props  *config.Properties
	alive  bool

	elements []*Element
	byID     map[string]*Element
	frame    *Element
}

// NewCanvas creates a canvas with a fresh frame identity. props may be nil.
func NewCanvas(vp units.Viewport, size units.Size, props *config.Properties) *Canvas {
	if props == nil {
		props = config.Defaults()
	}
	c := &Canvas{
		id:    uuid.NewString(),
		vp:    vp,
		size:  size,
		props: props,
		alive: true,
		byID:  make(map[string]*Element),
	}
	c.frame = &Element{ID: FrameElementID, Kind: KindFrame, Static: true}
	c.syncFrame()
	c.elements = append(c.elements, c.frame)
	c.byID[FrameElementID] = c.frame
	return c
}

// FrameID implements engine.Frame.
func (c *Canvas) FrameID() string { return c.id }

// SetFrameID replaces the frame identity.
func (c *Canvas) SetFrameID(id string) { c.id = id }

// Viewport implements engine.Frame.
func (c *Canvas) Viewport() units.Viewport { return c.vp }

// Size implements engine.Frame.
func (c *Canvas) Size() units.Size { return c.size }

// Pixels implements engine.Frame.
func (c *Canvas) Pixels() units.Size { return c.pixels }

// Alive implements engine.Frame.
func (c *Canvas) Alive() bool { return c.alive }

// Properties returns the properties used to size text.
func (c *Canvas) Properties() *config.Properties { return c.props }

// Destroy marks the frame as gone.
func (c *Canvas) Destroy() { c.alive = false }

// SetPixels sets the device-pixel size of the frame.
func (c *Canvas) SetPixels(px units.Size) { c.pixels = px }

// SetViewport changes the displayed native range and refits text.
func (c *Canvas) SetViewport(vp units.Viewport) {
	old := c.units()
	c.vp = vp
	c.refit(old)
}

// SetSize changes the physical frame size and refits text.
func (c *Canvas) SetSize(size units.Size) {
	old := c.units()
	c.size = size
	c.refit(old)
}

// Pan shifts the viewport by the given fractions of its span.
func (c *Canvas) Pan(fx, fy float64) {
	vp := c.vp
	dx, dy := (vp.XMax-vp.XMin)*fx, (vp.YMax-vp.YMin)*fy
	c.SetViewport(units.Viewport{XMin: vp.XMin + dx, XMax: vp.XMax + dx, YMin: vp.YMin + dy, YMax: vp.YMax + dy})
}

// Zoom scales the viewport about its center; factors above one zoom in.
func (c *Canvas) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	vp := c.vp
	cx, cy := (vp.XMin+vp.XMax)/2, (vp.YMin+vp.YMax)/2
	hx, hy := (vp.XMax-vp.XMin)/2/factor, (vp.YMax-vp.YMin)/2/factor
	c.SetViewport(units.Viewport{XMin: cx - hx, XMax: cx + hx, YMin: cy - hy, YMax: cy + hy})
}

func (c *Canvas) units() units.Converter {
	return units.New(c.vp, c.size, c.pixels)
}

func (c *Canvas) syncFrame() {
	c.frame.Box = geom.Box{X0: c.vp.XMin, X1: c.vp.XMax, Y0: c.vp.YMin, Y1: c.vp.YMax}.Normalize()
}

// refit keeps every text element's physical size across a units change,
// holding its aligned edges in place.
func (c *Canvas) refit(old units.Converter) {
	c.syncFrame()
	conv := c.units()
	if !old.Valid() || !conv.Valid() {
		return
	}
	for _, e := range c.elements {
		if e.Kind != KindText {
			continue
		}
		r := old.BoxToRect(e.Box)
		left, right := place(pin(r.Left, r.Right, e.AlignX), r.Width(), e.AlignX)
		bottom, top := place(pin(r.Bottom, r.Top, e.AlignY), r.Height(), e.AlignY)
		e.Box = conv.RectToBox(geom.Rect{Left: left, Right: right, Bottom: bottom, Top: top})
	}
}

// pin returns the coordinate of the aligned edge of [lo, hi].
func pin(lo, hi float64, a attr.Attr) float64 {
	switch a {
	case attr.Left, attr.Bottom:
		return lo
	case attr.Right, attr.Top:
		return hi
	}
	return (lo + hi) / 2
}

// place is the inverse of pin: the interval of length size whose aligned
// edge sits at p.
func place(p, size float64, a attr.Attr) (lo, hi float64) {
	switch a {
	case attr.Left, attr.Bottom:
		return p, p + size
	case attr.Right, attr.Top:
		return p - size, p
	}
	return p - size/2, p + size/2
}

// MeasureText estimates the physical extent of text from its cell width and
// the font properties.
func (c *Canvas) MeasureText(text string) (w, h float64) {
	cells := runewidth.StringWidth(text)
	return float64(cells) * advance * c.props.MustGet(config.FontSize), c.props.MustGet(config.FontHeight)
}

// Add places e on the canvas. An empty ID is replaced by a generated one.
// Text elements with an empty box are sized from their content and
// centered on the frame.
func (c *Canvas) Add(e *Element) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := errors.ValidateName(e.ID); err != nil {
		return err
	}
	if _, dup := c.byID[e.ID]; dup {
		return errors.New(errors.ErrCodeInvalidScene, "duplicate element %q", e.ID)
	}
	if e.Kind == KindFrame {
		return errors.New(errors.ErrCodeInvalidScene, "element %q: only the canvas owns a frame", e.ID)
	}
	e.Box = e.Box.Normalize()
	if e.Kind == KindText && e.Box == (geom.Box{}) {
		c.fitText(e)
	}
	c.elements = append(c.elements, e)
	c.byID[e.ID] = e
	return nil
}

func (c *Canvas) fitText(e *Element) {
	conv := c.units()
	if !conv.Valid() {
		return
	}
	w, h := c.MeasureText(e.Text)
	left, right := place(c.size.Width/2, w, attr.None)
	bottom, top := place(c.size.Height/2, h, attr.None)
	e.Box = conv.RectToBox(geom.Rect{Left: left, Right: right, Bottom: bottom, Top: top})
}

// Element returns the element with the given ID.
func (c *Canvas) Element(id string) (*Element, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Elements returns all live elements in insertion order, the frame first.
func (c *Canvas) Elements() []*Element { return slices.Clone(c.elements) }

// Remove destroys the elements with the given IDs. The frame cannot be
// removed. It returns the removed elements.
func (c *Canvas) Remove(ids ...string) []*Element {
	var removed []*Element
	for _, id := range ids {
		e, ok := c.byID[id]
		if !ok || e == c.frame {
			continue
		}
		delete(c.byID, id)
		removed = append(removed, e)
	}
	if len(removed) > 0 {
		c.elements = slices.DeleteFunc(c.elements, func(e *Element) bool {
			return slices.Contains(removed, e)
		})
	}
	return removed
}

// Geometry implements engine.Renderer.
func (c *Canvas) Geometry(el anchor.Element) (geom.Box, bool) {
	e, ok := el.(*Element)
	if !ok || c.byID[e.ID] != e {
		return geom.Box{}, false
	}
	return e.Box, true
}

// SetGeometry implements engine.Renderer. Writes to unknown elements and to
// the frame are ignored.
func (c *Canvas) SetGeometry(el anchor.Element, b geom.Box) {
	e, ok := el.(*Element)
	if !ok || c.byID[e.ID] != e || e == c.frame {
		return
	}
	e.Box = b.Normalize()
}

// Dynamic implements engine.DynamicReporter.
func (c *Canvas) Dynamic(el anchor.Element) bool {
	e, ok := el.(*Element)
	if !ok {
		return true
	}
	return !e.Static
}

// Bounds returns the union of every element's physical rectangle, frame
// included.
func (c *Canvas) Bounds() geom.Rect {
	conv := c.units()
	out := geom.Rect{Right: c.size.Width, Top: c.size.Height}
	if !conv.Valid() {
		return out
	}
	for _, e := range c.elements {
		out = out.Union(conv.BoxToRect(e.Box))
	}
	return out
}

// Units returns the converter for the canvas' current viewport and size.
func (c *Canvas) Units() units.Converter { return c.units() }
