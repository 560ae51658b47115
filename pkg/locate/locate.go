package locate

import (
	"math"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/units"
)

// Tolerance is the physical distance below which a write is treated as a
// no-op. Repeated passes over unchanged input converge on the same boxes
// instead of drifting by rounding error.
const Tolerance = 1e-9

// Renderer is the part of the rendering collaborator the cache talks to.
type Renderer interface {
	// Geometry returns the element's native box, or false if the element no
	// longer exists.
	Geometry(e anchor.Element) (geom.Box, bool)
	// SetGeometry replaces the element's native box. The change must be
	// visible to the next Geometry call.
	SetGeometry(e anchor.Element, b geom.Box)
}

// Entry is the cached geometry of one element.
type Entry struct {
	geom.Rect
	Dynamic bool
}

// Value returns the physical value of a. Literal and None have no value.
func (e Entry) Value(a attr.Attr) (float64, bool) {
	return rectValue(e.Rect, a)
}

func rectValue(r geom.Rect, a attr.Attr) (float64, bool) {
	switch a {
	case attr.Left:
		return r.Left, true
	case attr.Right:
		return r.Right, true
	case attr.Bottom:
		return r.Bottom, true
	case attr.Top:
		return r.Top, true
	case attr.HCenter:
		return r.CenterX(), true
	case attr.VCenter:
		return r.CenterY(), true
	case attr.Width:
		return r.Width(), true
	case attr.Height:
		return r.Height(), true
	case attr.MarkerDiameter:
		return math.Max(r.Width(), r.Height()), true
	}
	return 0, false
}

// Cache holds physical geometry per element. It is owned by a single engine
// and is not safe for concurrent use.
type Cache struct {
	r        Renderer
	conv     units.Converter
	entries  map[anchor.Element]*Entry
	dynamic  func(anchor.Element) bool
	override map[anchor.Element]bool
}

// New creates a cache over r. dynamic decides whether an element is
// re-queried every pass; nil makes every element dynamic.
func New(r Renderer, dynamic func(anchor.Element) bool) *Cache {
	return &Cache{
		r:        r,
		entries:  make(map[anchor.Element]*Entry),
		dynamic:  dynamic,
		override: make(map[anchor.Element]bool),
	}
}

// Units returns the converter currently in use.
func (c *Cache) Units() units.Converter { return c.conv }

// SetUnits installs conv. When it differs from the previous converter every
// entry is dropped, since cached physical values no longer match the native
// boxes. It reports whether the entries were invalidated.
func (c *Cache) SetUnits(conv units.Converter) bool {
	if c.conv.Same(conv) {
		return false
	}
	c.conv = conv
	c.InvalidateAll()
	return true
}

// SetDynamic overrides the dynamic policy for e. The override outlives the
// cache entry itself.
func (c *Cache) SetDynamic(e anchor.Element, dynamic bool) {
	c.override[e] = dynamic
	if ent, ok := c.entries[e]; ok {
		ent.Dynamic = dynamic
	}
}

// IsDynamic reports whether e is re-queried on every pass.
func (c *Cache) IsDynamic(e anchor.Element) bool {
	if d, ok := c.override[e]; ok {
		return d
	}
	if c.dynamic == nil {
		return true
	}
	return c.dynamic(e)
}

// Query reads e's geometry from the collaborator, converts it and caches
// it. It returns false if the element no longer exists, in which case any
// cached entry is dropped.
func (c *Cache) Query(e anchor.Element) (Entry, bool) {
	box, ok := c.r.Geometry(e)
	if !ok {
		delete(c.entries, e)
		return Entry{}, false
	}
	ent := &Entry{Rect: c.conv.BoxToRect(box), Dynamic: c.IsDynamic(e)}
	c.entries[e] = ent
	return *ent, true
}

// Get returns the cached entry for e, querying the collaborator on a miss.
func (c *Cache) Get(e anchor.Element) (Entry, bool) {
	if ent, ok := c.entries[e]; ok {
		return *ent, true
	}
	return c.Query(e)
}

// Cached reports whether e currently has an entry.
func (c *Cache) Cached(e anchor.Element) bool {
	_, ok := c.entries[e]
	return ok
}

// Value returns the physical value of a for e.
func (c *Cache) Value(e anchor.Element, a attr.Attr) (float64, bool) {
	ent, ok := c.Get(e)
	if !ok {
		return 0, false
	}
	return ent.Value(a)
}

// Write realizes the physical value v for attribute a of e.
//
// Position writes move the element and keep its size. Width and Height
// writes keep the left and bottom edges fixed; a negative size collapses to
// zero. MarkerDiameter resizes both axes to v about the element's center.
// Writes that would change nothing beyond [Tolerance] are skipped. Write
// reports whether the collaborator was updated.
func (c *Cache) Write(e anchor.Element, a attr.Attr, v float64) bool {
	ent, ok := c.Get(e)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	r := ent.Rect
	switch a {
	case attr.Left:
		r = shiftX(r, v-r.Left)
	case attr.Right:
		r = shiftX(r, v-r.Right)
	case attr.HCenter:
		r = shiftX(r, v-r.CenterX())
	case attr.Bottom:
		r = shiftY(r, v-r.Bottom)
	case attr.Top:
		r = shiftY(r, v-r.Top)
	case attr.VCenter:
		r = shiftY(r, v-r.CenterY())
	case attr.Width:
		r.Right = r.Left + math.Max(v, 0)
	case attr.Height:
		r.Top = r.Bottom + math.Max(v, 0)
	case attr.MarkerDiameter:
		d := math.Max(v, 0) / 2
		cx, cy := r.CenterX(), r.CenterY()
		r = geom.Rect{Left: cx - d, Right: cx + d, Bottom: cy - d, Top: cy + d}
	default:
		return false
	}
	return c.SetRect(e, r)
}

// SetRect writes a whole physical rectangle for e. It reports whether the
// collaborator was updated.
func (c *Cache) SetRect(e anchor.Element, r geom.Rect) bool {
	ent, ok := c.Get(e)
	if !ok {
		return false
	}
	if ent.Rect.Equal(r, Tolerance) {
		return false
	}
	c.r.SetGeometry(e, c.conv.RectToBox(r))
	c.entries[e] = &Entry{Rect: r, Dynamic: ent.Dynamic}
	return true
}

func shiftX(r geom.Rect, d float64) geom.Rect {
	r.Left += d
	r.Right += d
	return r
}

func shiftY(r geom.Rect, d float64) geom.Rect {
	r.Bottom += d
	r.Top += d
	return r
}

// Bounds returns the union of the members' rectangles. Elements that no
// longer exist are ignored; false means none was found.
func (c *Cache) Bounds(elems []anchor.Element) (geom.Rect, bool) {
	var (
		out   geom.Rect
		found bool
	)
	for _, e := range elems {
		ent, ok := c.Get(e)
		if !ok {
			continue
		}
		if !found {
			out, found = ent.Rect, true
			continue
		}
		out = out.Union(ent.Rect)
	}
	return out, found
}

// Aggregate returns the value of a for a group of elements.
//
// A single element yields its own value. For larger groups edges are the
// outer extrema of the members, sizes are spans of the bounding box and
// centers its midpoint. Because physical space always grows right and up,
// "outer" in native space is direction-aware on reversed axes. For
// MarkerDiameter the largest member diameter is returned.
func (c *Cache) Aggregate(elems []anchor.Element, a attr.Attr) (float64, bool) {
	if len(elems) == 1 {
		return c.Value(elems[0], a)
	}
	if a == attr.MarkerDiameter {
		var (
			best  float64
			found bool
		)
		for _, e := range elems {
			if v, ok := c.Value(e, a); ok && (!found || v > best) {
				best, found = v, true
			}
		}
		return best, found
	}
	r, ok := c.Bounds(elems)
	if !ok {
		return 0, false
	}
	return rectValue(r, a)
}

// Refresh re-queries every dynamic entry. Entries whose element is gone are
// dropped; their elements are returned.
func (c *Cache) Refresh() []anchor.Element {
	var gone []anchor.Element
	for e, ent := range c.entries {
		if !ent.Dynamic {
			continue
		}
		if _, ok := c.Query(e); !ok {
			gone = append(gone, e)
		}
	}
	return gone
}

// Invalidate drops the entry for e so the next read queries the
// collaborator.
func (c *Cache) Invalidate(e anchor.Element) {
	delete(c.entries, e)
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() {
	clear(c.entries)
}

// Retain drops the entries of elements for which keep returns false and
// returns how many entries were dropped. Dynamic overrides are kept.
func (c *Cache) Retain(keep func(anchor.Element) bool) int {
	dropped := 0
	for e := range c.entries {
		if !keep(e) {
			delete(c.entries, e)
			dropped++
		}
	}
	return dropped
}

// Forget drops the entry and dynamic override of e.
func (c *Cache) Forget(e anchor.Element) {
	delete(c.entries, e)
	delete(c.override, e)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }
