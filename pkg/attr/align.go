package attr

// HAlign is a horizontal text alignment.
type HAlign int

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
)

// String returns the SVG text-anchor style name of the alignment.
func (h HAlign) String() string {
	switch h {
	case HAlignLeft:
		return "start"
	case HAlignRight:
		return "end"
	default:
		return "middle"
	}
}

// VAlign is a vertical text alignment.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

// String returns the SVG dominant-baseline style name of the alignment.
func (v VAlign) String() string {
	switch v {
	case VAlignTop:
		return "hanging"
	case VAlignBottom:
		return "text-after-edge"
	default:
		return "central"
	}
}

// ToHAlign converts a horizontal attribute to the alignment that pins the
// same edge: Left to HAlignLeft, Right to HAlignRight. Every other attribute
// is centered.
func (a Attr) ToHAlign() HAlign {
	switch a {
	case Left:
		return HAlignLeft
	case Right:
		return HAlignRight
	}
	return HAlignCenter
}

// ToVAlign converts a vertical attribute to the alignment that pins the same
// edge: Top to VAlignTop, Bottom to VAlignBottom. Every other attribute is
// centered.
func (a Attr) ToVAlign() VAlign {
	switch a {
	case Top:
		return VAlignTop
	case Bottom:
		return VAlignBottom
	}
	return VAlignMiddle
}

// FromHAlign is the inverse of [Attr.ToHAlign].
func FromHAlign(h HAlign) Attr {
	switch h {
	case HAlignLeft:
		return Left
	case HAlignRight:
		return Right
	}
	return HCenter
}

// FromVAlign is the inverse of [Attr.ToVAlign].
func FromVAlign(v VAlign) Attr {
	switch v {
	case VAlignTop:
		return Top
	case VAlignBottom:
		return Bottom
	}
	return VCenter
}

// TextHAlign returns the alignment for text placed against the anchor
// attribute a. Text placed at an anchor's Right edge grows away from it and
// is therefore left aligned.
func TextHAlign(a Attr) HAlign { return a.Opposite().ToHAlign() }

// TextVAlign returns the alignment for text placed against the anchor
// attribute a. Text placed at an anchor's Bottom edge hangs from its top.
func TextVAlign(a Attr) VAlign { return a.Opposite().ToVAlign() }
