package render

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/observability"
	"github.com/matzehuels/anchorage/pkg/scene"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// Formats lists every supported output format.
var Formats = []string{FormatSVG, FormatJSON, FormatPDF, FormatPNG}

// Options configures [Render].
type Options struct {
	SVG   []SVGOption
	Scale float64 // PNG scale factor; zero means 1
}

// Render draws a laid-out scene in the given format. diags are included in
// JSON output.
func Render(ctx context.Context, format string, s *scene.Scene, diags []engine.Diagnostic, opts Options) ([]byte, error) {
	start := time.Now()
	data, err := render(strings.ToLower(format), s, diags, opts)
	observability.Scene().OnRender(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func render(format string, s *scene.Scene, diags []engine.Diagnostic, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return MarshalLayout(ToLayout(s.Name, s.Canvas, s.Engine, diags))
	case FormatSVG, "":
		return RenderSVG(s.Canvas, opts.SVG...), nil
	case FormatPDF:
		return ToPDF(RenderSVG(s.Canvas, opts.SVG...))
	case FormatPNG:
		return ToPNG(RenderSVG(s.Canvas, opts.SVG...), opts.Scale)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (want one of %s)", format, strings.Join(Formats, ", "))
}
