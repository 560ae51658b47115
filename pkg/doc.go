// Package pkg provides the core libraries for anchorage, a constraint layout
// engine for annotations placed around a reference frame.
//
// # Overview
//
// A plot annotation (a title, a tick label, a legend marker, a scale bar) is
// positioned relative to something else: the axes frame, other annotations,
// or a native data coordinate. anchorage lets callers declare those
// relationships once and re-solves them whenever the frame pans, zooms or
// resizes. The pkg directory is organized into three areas:
//
//  1. Model: [attr], [geom], [units], [anchor] and [collection] describe
//     attributes, boxes, coordinate systems, constraints and element groups.
//  2. Solving: [locate], [dag] and [engine] cache element geometry, order
//     constraints by their dependencies and apply them in one pass.
//  3. Surfaces: [config], [scene] and [render] load scene files, host them on
//     a canvas and write SVG, PDF, PNG or JSON layouts.
//
// # Architecture
//
// The typical data flow:
//
//	scene file (TOML / YAML)
//	         ↓
//	    [scene] package (canvas + elements + constraint specs)
//	         ↓
//	    [engine] package (dependency schedule + layout pass)
//	         ↓
//	    [render] package (SVG / PDF / PNG / JSON)
//
// # Quick Start
//
// Load a scene, lay it out and render it:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/anchorage/pkg/engine"
//	    "github.com/matzehuels/anchorage/pkg/render"
//	    "github.com/matzehuels/anchorage/pkg/scene"
//	)
//
//	s, err := scene.Load(ctx, "plot.toml", engine.Options{})
//	if err != nil {
//	    return err
//	}
//	if err := s.Layout(ctx); err != nil {
//	    return err
//	}
//	svg, err := render.Render(ctx, render.FormatSVG, s, nil, render.Options{})
//
// Constraints can also be built in code:
//
//	eng.AddConstraint(anchor.Spec{
//	    Target:     anchor.Collection("xticklabels"),
//	    TargetAttr: attr.Top,
//	    Anchor:     anchor.Collection("xticks"),
//	    AnchorAttr: attr.Bottom,
//	    Margin:     anchor.Property("tick.pad"),
//	})
//
// # Main Packages
//
// [attr] - Geometric attributes (edges, centers, sizes, marker diameter) and
// the axis each one belongs to.
//
// [geom] - Boxes in native coordinates and rectangles in physical units.
//
// [units] - Conversion between native, physical and pixel coordinates,
// including reversed axes.
//
// [anchor] - Declarative constraint records: targets, anchors, margins and
// spans.
//
// [collection] - Named, ordered element groups with identity semantics.
//
// [locate] - Per-pass geometry cache that reads and writes through the
// renderer.
//
// [dag] - Dependency graph with deterministic topological ordering and
// forced cycle breaking. Exports to Graphviz DOT.
//
// [engine] - The layout engine and the per-frame engine registry.
//
// [config] - Named layout properties (font metrics, paddings) loaded from
// TOML or YAML.
//
// [scene] - Scene files, the canvas renderer and text measurement.
//
// [render] - SVG drawing, JSON layouts and PDF/PNG conversion.
//
// [errors] - Coded errors shared by the CLI, the HTTP service and engine
// diagnostics.
//
// [observability] - Hooks for engine passes, scene loading and HTTP requests.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/engine/...     # Specific package
//	go test -run Example ./...   # Examples only
//
// [attr]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/attr
// [geom]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/geom
// [units]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/units
// [anchor]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/anchor
// [collection]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/collection
// [locate]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/locate
// [dag]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/dag
// [engine]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/engine
// [config]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/config
// [scene]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/render
// [errors]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/anchorage/pkg/observability
package pkg
