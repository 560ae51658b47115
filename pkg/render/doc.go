// Package render draws laid-out scenes.
//
// # Overview
//
// A [scene.Canvas] holds native boxes; the renderers here convert them to
// physical units and emit:
//
//   - SVG via [RenderSVG], covering the frame plus every annotation placed
//     around it
//   - JSON via [ToLayout] and [MarshalLayout], including the evaluation order
//     of the constraints and any diagnostics of the last pass
//   - PDF and PNG via [ToPDF] and [ToPNG], which shell out to rsvg-convert
//
// [Render] dispatches on a format name and reports to the scene
// observability hooks:
//
//	data, err := render.Render(ctx, render.FormatSVG, s, nil, render.Options{})
//
// # SVG Output
//
// Physical y grows upward from the frame's bottom edge while SVG y grows
// downward, so rectangles are flipped about the top of the drawing. Text is
// centered in its box using the font.size property; lines are drawn along
// the longer side of their box and markers as circles inscribed in it.
// [WithBoxes] and [WithLabels] overlay bounding boxes and element IDs for
// debugging constraint sets.
package render
