// Package anchor defines the declarative constraint records consumed by the
// layout engine.
//
// A [Spec] ties one attribute of a target to one attribute of an anchor plus
// a margin:
//
//	labels.Top = axes.Bottom - tick.pad
//
// is written as
//
//	anchor.Spec{
//	    Target:     anchor.Collection("xticklabels"),
//	    TargetAttr: attr.Top,
//	    Anchor:     anchor.Elements(axes),
//	    AnchorAttr: attr.Bottom,
//	    Margin:     anchor.Property("tick.pad"),
//	}
//
// Targets and anchors are [Ref] values, a tagged variant of element lists,
// collection names, literal native values and [None]. Margins are [Margin]
// values: constants, named engine properties or functions of the engine
// [State]. Margins are always physical units.
//
// This package holds data only; resolution lives in the engine.
package anchor
