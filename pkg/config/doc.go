// Package config holds the named properties that layout margins read.
//
// Constraints rarely hard-code distances. A tick label sits "tick.pad" below
// its tick, a title "title.pad" above the axes. [Properties] maps such keys
// to physical-unit values, ships sensible defaults, and keeps the derived
// font metrics (font.height, font.ascent, font.descent) in step with
// font.size.
//
// Properties can be loaded from TOML or YAML (JSON is accepted as YAML).
// Nested tables flatten to dotted keys, so
//
//	[properties]
//	font.size = 12
//	tick = { pad = 2 }
//
// sets "font.size" and "tick.pad".
package config
