// Package locate caches element geometry in physical units for the layout
// engine.
//
// The rendering collaborator stores every element's bounding box in the
// reference frame's native coordinates. Constraints, however, are expressed
// in physical units measured from the frame's lower-left corner. A [Cache]
// sits between the two: [Cache.Query] pulls a native box and converts it
// with the current [units.Converter], [Cache.Write] realizes one attribute
// and writes the whole box back to the collaborator.
//
// # Dynamic and Static Entries
//
// Dynamic entries are re-queried from the collaborator at the start of every
// pass ([Cache.Refresh]) because something outside the engine may move them,
// such as text whose extent depends on the zoom level. Static entries are
// trusted until the engine writes them or [Cache.Invalidate] drops them.
// Elements are dynamic unless the cache's policy says otherwise.
//
// # Groups
//
// [Cache.Aggregate] treats a list of elements as one bounding box, which is
// how a constraint anchors to "the tick labels" rather than to one label.
package locate
