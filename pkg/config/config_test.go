package config

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/matzehuels/anchorage/pkg/errors"
)

func TestDefaults(t *testing.T) {
	p := Defaults()
	tests := []struct {
		key  string
		want float64
	}{
		{FontSize, 10},
		{FontHeight, 12},
		{FontAscent, 8},
		{FontDescent, 2},
		{LineWidth, 0.8},
		{TickLength, 3.5},
		{TickPad, 3.5},
		{LabelPad, 4},
		{TitlePad, 6},
		{ScalebarThickness, 2},
		{MarkerSize, 6},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := p.Get(tt.key)
			if !ok || got != tt.want {
				t.Errorf("Get(%q) = %v, %v; want %v", tt.key, got, ok, tt.want)
			}
		})
	}
	if len(p.Keys()) != len(tests) {
		t.Errorf("Keys() = %v", p.Keys())
	}
}

func TestSetFontSizeDerivesMetrics(t *testing.T) {
	p := Defaults()
	if err := p.Set(FontSize, 20); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if p.MustGet(FontHeight) != 24 || p.MustGet(FontAscent) != 16 || p.MustGet(FontDescent) != 4 {
		t.Errorf("derived metrics = %v/%v/%v", p.MustGet(FontHeight), p.MustGet(FontAscent), p.MustGet(FontDescent))
	}
}

func TestSetRejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value float64
	}{
		{"derived key", FontHeight, 3},
		{"bad key", "Font Size", 3},
		{"empty key", "", 3},
		{"zero font size", FontSize, 0},
		{"nan", TickPad, math.NaN()},
		{"infinite", LabelPad, math.Inf(1)},
		{"negative infinite font size", FontSize, math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Defaults().Set(tt.key, tt.value); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Set(%q) = %v, want INVALID_INPUT", tt.key, err)
			}
		})
	}
}

func TestCustomProperty(t *testing.T) {
	p := Defaults()
	if err := p.Set("legend.gap", 1.5); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, ok := p.Get("legend.gap"); !ok || v != 1.5 {
		t.Errorf("Get() = %v, %v", v, ok)
	}
	if !slices.Contains(p.Keys(), "legend.gap") {
		t.Error("Keys() should list custom properties")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := Defaults()
	c := p.Clone()
	_ = c.Set(TickPad, 9)
	if p.MustGet(TickPad) != 3.5 {
		t.Error("Clone shares storage with the original")
	}
}

func TestApplyIsAtomic(t *testing.T) {
	p := Defaults()
	err := p.Apply(map[string]any{"tick": map[string]any{"pad": 1.0}, "title": "big"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Apply() error = %v", err)
	}
	if p.MustGet(TickPad) != 3.5 {
		t.Error("failed Apply must not change properties")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{
			name:   "toml dotted keys",
			format: FormatTOML,
			data:   "[properties]\nfont.size = 20\ntick.pad = 2\n",
		},
		{
			name:   "toml inline table",
			format: FormatTOML,
			data:   "font = { size = 20 }\ntick = { pad = 2 }\n",
		},
		{
			name:   "yaml nested",
			format: FormatYAML,
			data:   "properties:\n  font:\n    size: 20\n  tick:\n    pad: 2\n",
		},
		{
			name:   "json",
			format: FormatYAML,
			data:   `{"font.size": 20, "tick.pad": 2}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if p.MustGet(FontHeight) != 24 {
				t.Errorf("font.height = %v, want 24", p.MustGet(FontHeight))
			}
			if p.MustGet(TickPad) != 2 {
				t.Errorf("tick.pad = %v, want 2", p.MustGet(TickPad))
			}
			if p.MustGet(LabelPad) != 4 {
				t.Errorf("label.pad = %v, want default 4", p.MustGet(LabelPad))
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode([]byte("font = ["), FormatTOML); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad toml: %v", err)
	}
	if _, err := Decode([]byte("a: [1"), FormatYAML); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad yaml: %v", err)
	}
	if _, err := Decode(nil, Format("ini")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown format: %v", err)
	}
	if _, err := Decode([]byte("tick:\n  pad: .nan\n"), FormatYAML); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nan property: %v", err)
	}
	if _, err := Decode([]byte("label:\n  pad: .inf\n"), FormatYAML); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("infinite property: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "props.yaml")
	if err := os.WriteFile(path, []byte("label.pad: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.MustGet(LabelPad) != 7 {
		t.Errorf("label.pad = %v, want 7", p.MustGet(LabelPad))
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: %v", err)
	}
	if _, err := Load(filepath.Join(dir, "props.ini")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unsupported extension: %v", err)
	}
}

func TestReadRawLayersOverExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.toml")
	if err := os.WriteFile(path, []byte("[properties]\n\"tick.pad\" = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	raw, err := ReadRaw(path)
	if err != nil {
		t.Fatalf("ReadRaw() error: %v", err)
	}

	p := Defaults()
	if err := p.Set(TitlePad, 9); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(raw); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if p.MustGet(TickPad) != 1 || p.MustGet(TitlePad) != 9 {
		t.Errorf("tick.pad, title.pad = %v, %v; want 1, 9", p.MustGet(TickPad), p.MustGet(TitlePad))
	}
}
