package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorage/pkg/render"
)

// layoutOpts holds the flags of the layout command.
type layoutOpts struct {
	sceneOpts
	output  string   // output file (single format) or base path (several)
	formats []string // svg, json, pdf, png
	boxes   bool     // outline bounding boxes in SVG output
	labels  bool     // print element IDs in SVG output
	scale   float64  // PNG scale factor
	table   bool     // print the resolved geometry
}

// layoutCommand creates the layout command, which resolves a scene's
// constraints once and writes the result.
func (c *CLI) layoutCommand() *cobra.Command {
	var formatsStr string
	opts := layoutOpts{scale: 2}

	cmd := &cobra.Command{
		Use:   "layout [scene.toml]",
		Short: "Resolve a scene's constraints and render the result",
		Long: `Resolve a scene's constraints and render the result.

The scene file (TOML, YAML or JSON) declares a reference frame, the elements
around it and the anchor constraints between them. One layout pass is run and
the resolved geometry is written as SVG, JSON, PDF or PNG.

PDF and PNG output require rsvg-convert (librsvg).`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: sceneFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.boxes, "boxes", false, "outline element bounding boxes")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label elements with their IDs")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print the resolved geometry")

	return cmd
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(render.Formats, f) {
			return fmt.Errorf("invalid format: %s (must be one of %s)", f, strings.Join(render.Formats, ", "))
		}
	}
	return nil
}

func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	s, err := c.loadScene(ctx, input, opts.sceneOpts)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", input, err)
	}
	if err := s.Layout(ctx); err != nil {
		return fmt.Errorf("layout %s: %w", input, err)
	}
	prog.done(fmt.Sprintf("Laid out %d constraints", s.Engine.Len()))

	ropts := render.Options{Scale: opts.scale}
	if opts.boxes {
		ropts.SVG = append(ropts.SVG, render.WithBoxes())
	}
	if opts.labels {
		ropts.SVG = append(ropts.SVG, render.WithLabels())
	}

	var written []string
	for _, format := range opts.formats {
		data, err := render.Render(ctx, format, s.Scene, s.diags, ropts)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}

	printSuccess("Layout complete")
	for _, p := range written {
		printFile(p)
	}
	printStats(len(s.Canvas.Elements()), s.Engine.Len(), len(s.diags))
	printDiagnostics(s.diags)
	if opts.table {
		printNewline()
		writeTable(os.Stdout, geometryTable(render.ToLayout(s.Name, s.Canvas, nil, nil).Elements))
	}
	printNewline()
	printNextStep("Inspect the evaluation order", appName+" order "+input)
	return nil
}

// outputPath picks where a format is written. With several formats the
// explicit output is a base path and every file gets its format extension.
func outputPath(input, output, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if format == render.FormatJSON {
		return base + ".layout.json"
	}
	return base + "." + format
}
