// Package scene loads annotated frames from TOML or YAML files and hosts
// them on an in-memory [Canvas].
//
// A scene file declares a reference frame (its native viewport and physical
// size), the elements drawn around it, optional named collections, the
// constraints tying the elements together and any spans:
//
//	[frame]
//	xmin = 0
//	xmax = 10
//	ymin = 0
//	ymax = 10
//	width = 100
//	height = 100
//
//	[[elements]]
//	id = "title"
//	kind = "text"
//	text = "Results"
//
//	[[constraints]]
//	target = "element:title"
//	attr = "bottom"
//	anchor = "element:frame"
//	anchor_attr = "top"
//	margin = "prop:title.pad"
//
// The canvas always carries an element with ID "frame" whose box follows
// the viewport; constraints may anchor to it but never target it.
//
// Text elements without a box are sized from their content. When the
// viewport pans or zooms they keep their physical size; halign and valign
// choose which edge stays put (the center by default).
//
// [Decode] and [Load] build a [Scene] with its own engine. Renderers in
// pkg/render draw the result.
package scene
