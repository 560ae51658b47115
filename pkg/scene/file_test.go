package scene

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/errors"
)

func quietOptions() engine.Options {
	return engine.Options{Logger: log.New(io.Discard)}
}

func TestLoadAndLayout(t *testing.T) {
	for _, file := range []string{"annotated.toml", "annotated.yaml"} {
		t.Run(file, func(t *testing.T) {
			s, err := Load(context.Background(), filepath.Join("testdata", file), quietOptions())
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if s.Name != "annotated" {
				t.Errorf("Name = %q", s.Name)
			}
			if s.Canvas.FrameID() != "main" {
				t.Errorf("FrameID() = %q", s.Canvas.FrameID())
			}
			if got := s.Engine.Len(); got != 4 {
				t.Errorf("Engine.Len() = %d, want 4 (two constraints, one span)", got)
			}

			if err := s.Layout(context.Background()); err != nil {
				t.Fatalf("Layout() error: %v", err)
			}

			title, _ := s.Canvas.Element("title")
			// title.pad is 6pt above a 100pt frame, at 0.1 native per point.
			if !near(title.Box.Y0, 10.6) || !near(title.Box.Y1, 11.8) {
				t.Errorf("title y = [%v, %v], want [10.6, 11.8]", title.Box.Y0, title.Box.Y1)
			}
			if !near((title.Box.X0+title.Box.X1)/2, 5) {
				t.Errorf("title x center = %v, want 5", (title.Box.X0+title.Box.X1)/2)
			}

			bar, _ := s.Canvas.Element("bar")
			if !near(bar.Box.X0, 2) || !near(bar.Box.X1, 6) {
				t.Errorf("bar x = [%v, %v], want [2, 6]", bar.Box.X0, bar.Box.X1)
			}
			if bar.Box.Y0 != 0 || bar.Box.Y1 != 1 {
				t.Errorf("span moved bar vertically: %+v", bar.Box)
			}
		})
	}
}

func TestLayoutFollowsViewport(t *testing.T) {
	s, err := Load(context.Background(), "testdata/annotated.toml", quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Layout(context.Background()); err != nil {
		t.Fatal(err)
	}

	s.Canvas.Zoom(2)
	if !s.Engine.NeedsUpdate() {
		t.Fatal("NeedsUpdate() = false after zoom")
	}
	if err := s.Layout(context.Background()); err != nil {
		t.Fatal(err)
	}

	bar, _ := s.Canvas.Element("bar")
	if !near(bar.Box.X0, 2) || !near(bar.Box.X1, 6) {
		t.Errorf("span after zoom = [%v, %v], want [2, 6]", bar.Box.X0, bar.Box.X1)
	}
	title, _ := s.Canvas.Element("title")
	// Viewport is now [2.5, 7.5]: 0.05 native per point.
	if !near(title.Box.Y0, 7.5+0.3) {
		t.Errorf("title bottom after zoom = %v, want 7.8", title.Box.Y0)
	}
}

func TestDecodeErrors(t *testing.T) {
	const frame = `
[frame]
xmin = 0
xmax = 1
ymin = 0
ymax = 1
width = 10
height = 10
`
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"bad toml", "[frame", errors.ErrCodeInvalidFormat},
		{"zero size", "[frame]\nxmax = 1\nymax = 1\n", errors.ErrCodeInvalidUnits},
		{"unknown kind", frame + "[[elements]]\nid = \"a\"\nkind = \"blob\"\n", errors.ErrCodeInvalidScene},
		{"short box", frame + "[[elements]]\nid = \"a\"\nbox = [0, 1]\n", errors.ErrCodeInvalidScene},
		{"frame target", frame + "[[constraints]]\ntarget = \"element:frame\"\nattr = \"top\"\nmargin = 1\n", errors.ErrCodeInvalidScene},
		{"unknown element", frame + "[[constraints]]\ntarget = \"element:nope\"\nattr = \"top\"\n", errors.ErrCodeInvalidScene},
		{"unknown collection member", frame + "[collections]\nticks = [\"nope\"]\n", errors.ErrCodeNotFound},
		{"degenerate span", frame + "[[elements]]\nid = \"a\"\n[[spans]]\ntarget = \"element:a\"\naxis = \"x\"\nfrom = 3\nto = 3\n", errors.ErrCodeDegenerateInput},
		{"derived property", frame + "[properties]\n\"font.height\" = 3\n", errors.ErrCodeInvalidScene},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(context.Background(), []byte(tt.body), config.FormatTOML, quietOptions())
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.toml"), quietOptions())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(t.TempDir(), "scene.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(context.Background(), path, quietOptions()); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Load(.txt) error = %v, want UNSUPPORTED", err)
	}
}

func TestSceneRemove(t *testing.T) {
	s, err := Load(context.Background(), "testdata/annotated.toml", quietOptions())
	if err != nil {
		t.Fatal(err)
	}
	pruned := s.Remove("title")
	if len(pruned) != 2 {
		t.Errorf("Remove(title) pruned %v, want both title constraints", pruned)
	}
	if _, ok := s.Canvas.Element("title"); ok {
		t.Error("title still on canvas")
	}
	if err := s.Layout(context.Background()); err != nil {
		t.Fatalf("Layout() after remove: %v", err)
	}
}

func TestParseRef(t *testing.T) {
	c := newTestCanvas()
	a, b := &Element{ID: "a"}, &Element{ID: "b"}
	_ = c.Add(a)
	_ = c.Add(b)

	tests := []struct {
		in      string
		kind    anchor.RefKind
		wantErr bool
	}{
		{"", anchor.RefNone, false},
		{"none", anchor.RefNone, false},
		{"element:a", anchor.RefElements, false},
		{"elements:a, b", anchor.RefElements, false},
		{"collection:xticks", anchor.RefCollection, false},
		{"literal:2.5", anchor.RefLiteral, false},
		{"literal:x", 0, true},
		{"element:zz", 0, true},
		{"axes", 0, true},
		{"shape:a", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRef(tt.in, c.Element)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRef() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && r.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", r.Kind(), tt.kind)
			}
		})
	}
}

func TestParseMargin(t *testing.T) {
	st := engine.New(newTestCanvas(), newTestCanvas(), quietOptions())
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{nil, 0, false},
		{1.5, 1.5, false},
		{3, 3, false},
		{int64(4), 4, false},
		{"2.5", 2.5, false},
		{"prop:tick.pad", 3.5, false},
		{"prop:tick.pad*2", 7, false},
		{"prop:tick.pad*0", 0, false},
		{"prop:tick.pad*x", 0, true},
		{"prop:", 0, true},
		{"wide", 0, true},
		{true, 0, true},
	}
	for _, tt := range tests {
		m, err := ParseMargin(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMargin(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if got, _ := m.Resolve(st); got != tt.want {
			t.Errorf("ParseMargin(%v) resolves to %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeFor(t *testing.T) {
	data, err := os.ReadFile("testdata/annotated.toml")
	if err != nil {
		t.Fatal(err)
	}
	reg := engine.NewRegistry(quietOptions())

	a, err := DecodeFor(context.Background(), data, config.FormatTOML, reg)
	if err != nil {
		t.Fatalf("DecodeFor() error: %v", err)
	}
	b, err := DecodeFor(context.Background(), data, config.FormatTOML, reg)
	if err != nil {
		t.Fatalf("DecodeFor() error: %v", err)
	}
	if a.Canvas.FrameID() == b.Canvas.FrameID() || a.Engine == b.Engine {
		t.Error("scenes decoded from the same file share a frame")
	}
	if reg.Len() != 2 {
		t.Errorf("registry holds %d engines, want 2", reg.Len())
	}
	if got, _ := a.Engine.Property("title.pad"); got != 6 {
		t.Errorf("title.pad = %v, want the scene's 6", got)
	}

	if _, err := DecodeFor(context.Background(), []byte(`[[constraints]]`), config.FormatTOML, reg); err == nil {
		t.Fatal("DecodeFor() accepted a scene without a frame")
	}
	if _, err := DecodeFor(context.Background(), append(data, []byte("\n[[constraints]]\ntarget = \"element:frame\"\nattr = \"top\"\n")...), config.FormatTOML, reg); err == nil {
		t.Fatal("DecodeFor() accepted a frame target")
	}
	if reg.Len() != 2 {
		t.Errorf("failed decodes left %d engines, want 2", reg.Len())
	}
}
