// Package attr enumerates the geometric attributes that layout constraints
// read and write.
//
// Every element managed by the layout engine is described by an axis-aligned
// bounding box. An [Attr] names one scalar of that box: an edge (Left, Right,
// Top, Bottom), a center (HCenter, VCenter) or a size (Width, Height,
// MarkerDiameter). [Literal] stands in for a plain number given in the
// reference frame's native coordinates.
//
// # Axes
//
// Left, Right, HCenter and Width belong to the horizontal axis [X]; Top,
// Bottom, VCenter and Height belong to the vertical axis [Y]. MarkerDiameter
// sizes both axes at once and Literal takes its axis from the attribute it is
// paired with, so both report [NoAxis].
//
// # Alignment
//
// Text is positioned relative to a computed anchor point. [Attr.ToHAlign] and
// [Attr.ToVAlign] translate an attribute into the alignment that pins that
// edge of the text box; [TextHAlign] and [TextVAlign] give the alignment for
// text placed against an anchor edge, which is the opposite edge.
//
// All functions in this package are pure and total.
package attr
