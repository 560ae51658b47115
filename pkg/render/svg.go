package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/scene"
)

// FontFamily is the font stack used for text elements.
const FontFamily = `system-ui, -apple-system, "Segoe UI", Helvetica, Arial, sans-serif`

const defaultPadding = 10.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	padding float64
	boxes   bool
	labels  bool
}

// WithPadding sets the blank margin around the drawing, in physical units.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = max(p, 0) } }

// WithBoxes outlines every element's bounding box.
func WithBoxes() SVGOption { return func(r *svgRenderer) { r.boxes = true } }

// WithLabels prints element IDs next to their boxes.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// RenderSVG draws the canvas in physical units. The drawing covers the frame
// and every element placed outside it, so annotations laid out around the
// frame are never clipped.
func RenderSVG(c *scene.Canvas, opts ...SVGOption) []byte {
	r := svgRenderer{padding: defaultPadding}
	for _, opt := range opts {
		opt(&r)
	}

	conv := c.Units()
	bounds := c.Bounds()
	width := bounds.Width() + 2*r.padding
	height := bounds.Height() + 2*r.padding

	// SVG grows downward; physical y grows upward from the frame's bottom.
	place := func(rect geom.Rect) (x, y, w, h float64) {
		return rect.Left - bounds.Left + r.padding, bounds.Top - rect.Top + r.padding, rect.Width(), rect.Height()
	}

	props := c.Properties()
	stroke := props.MustGet(config.LineWidth)
	fontSize := props.MustGet(config.FontSize)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", width, height)

	if conv.Valid() {
		for _, e := range c.Elements() {
			x, y, w, h := place(conv.BoxToRect(e.Box))
			renderElement(&buf, e, x, y, w, h, stroke, fontSize)
			if r.boxes && e.Kind != scene.KindFrame {
				fmt.Fprintf(&buf, `  <rect class="bbox" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#e74c3c" stroke-width="0.5" stroke-dasharray="2,2"/>`+"\n", x, y, w, h)
			}
			if r.labels && e.Kind != scene.KindFrame {
				fmt.Fprintf(&buf, `  <text class="label" x="%.2f" y="%.2f" font-family="%s" font-size="%.1f" fill="#e74c3c">%s</text>`+"\n",
					x+w+1, y+fontSize*0.5, FontFamily, fontSize*0.5, escapeXML(e.ID))
			}
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderElement(buf *bytes.Buffer, e *scene.Element, x, y, w, h, stroke, fontSize float64) {
	id := escapeXML(e.ID)
	switch e.Kind {
	case scene.KindFrame:
		fmt.Fprintf(buf, `  <rect id="%s" class="frame" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="#333" stroke-width="%.2f"/>`+"\n",
			id, x, y, w, h, stroke)
	case scene.KindLine:
		x1, y1, x2, y2 := x, y+h/2, x+w, y+h/2
		if h > w {
			x1, y1, x2, y2 = x+w/2, y, x+w/2, y+h
		}
		fmt.Fprintf(buf, `  <line id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#333" stroke-width="%.2f"/>`+"\n",
			id, x1, y1, x2, y2, stroke)
	case scene.KindText:
		// SVG y runs downward, so the top edge is the smaller coordinate.
		tx, ty := alignedPoint(x, x+w, e.AlignX), alignedPoint(y+h, y, e.AlignY)
		fmt.Fprintf(buf, `  <text id="%s" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="%s" font-family="%s" font-size="%.1f" fill="#333">%s</text>`+"\n",
			id, tx, ty, e.AlignX.ToHAlign(), e.AlignY.ToVAlign(), FontFamily, fontSize, escapeXML(e.Text))
	case scene.KindMarker:
		fmt.Fprintf(buf, `  <circle id="%s" cx="%.2f" cy="%.2f" r="%.2f" fill="#3498db"/>`+"\n",
			id, x+w/2, y+h/2, math.Min(w, h)/2)
	default:
		fmt.Fprintf(buf, `  <rect id="%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#95a5a6"/>`+"\n",
			id, x, y, w, h)
	}
}

// alignedPoint returns the coordinate of the aligned edge between lo (Left or
// Bottom) and hi (Right or Top).
func alignedPoint(lo, hi float64, a attr.Attr) float64 {
	switch a {
	case attr.Left, attr.Bottom:
		return lo
	case attr.Right, attr.Top:
		return hi
	}
	return (lo + hi) / 2
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
