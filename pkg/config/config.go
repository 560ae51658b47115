package config

import (
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/anchorage/pkg/errors"
)

// Well-known property keys.
const (
	FontSize          = "font.size"
	FontHeight        = "font.height"
	FontAscent        = "font.ascent"
	FontDescent       = "font.descent"
	LineWidth         = "line.width"
	TickLength        = "tick.length"
	TickPad           = "tick.pad"
	LabelPad          = "label.pad"
	TitlePad          = "title.pad"
	ScalebarThickness = "scalebar.thickness"
	MarkerSize        = "marker.size"
)

var defaults = map[string]float64{
	FontSize:          10,
	LineWidth:         0.8,
	TickLength:        3.5,
	TickPad:           3.5,
	LabelPad:          4,
	TitlePad:          6,
	ScalebarThickness: 2,
	MarkerSize:        6,
}

// Font metrics as fractions of font.size.
const (
	heightRatio  = 1.2
	ascentRatio  = 0.8
	descentRatio = 0.2
)

func derived(key string) bool {
	return key == FontHeight || key == FontAscent || key == FontDescent
}

// Format identifies a property file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. JSON decodes as YAML.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported file extension %q", filepath.Ext(path))
}

// Properties is a set of named physical-unit values.
// It is not safe for concurrent modification.
type Properties struct {
	values map[string]float64
}

// Defaults returns a fresh property set holding the built-in defaults and
// the font metrics derived from them.
func Defaults() *Properties {
	p := &Properties{values: maps.Clone(defaults)}
	p.derive()
	return p
}

func (p *Properties) derive() {
	size := p.values[FontSize]
	p.values[FontHeight] = heightRatio * size
	p.values[FontAscent] = ascentRatio * size
	p.values[FontDescent] = descentRatio * size
}

// Get returns the value of key.
func (p *Properties) Get(key string) (float64, bool) {
	v, ok := p.values[key]
	return v, ok
}

// MustGet returns the value of key, or zero when unset.
func (p *Properties) MustGet(key string) float64 {
	return p.values[key]
}

// Set assigns key. Setting font.size recomputes the derived font metrics,
// which cannot be set directly. Unknown keys are accepted as custom
// properties as long as they are well formed.
func (p *Properties) Set(key string, v float64) error {
	if err := errors.ValidatePropertyKey(key); err != nil {
		return err
	}
	if derived(key) {
		return errors.New(errors.ErrCodeInvalidInput, "property %q is derived from %s", key, FontSize)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "property %q must be finite, got %g", key, v)
	}
	if key == FontSize && v <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %g", FontSize, v)
	}
	p.values[key] = v
	if key == FontSize {
		p.derive()
	}
	return nil
}

// Keys returns every key in sorted order.
func (p *Properties) Keys() []string {
	return slices.Sorted(maps.Keys(p.values))
}

// Clone returns an independent copy.
func (p *Properties) Clone() *Properties {
	return &Properties{values: maps.Clone(p.values)}
}

// Apply sets every numeric leaf of raw, flattening nested maps into dotted
// keys. font.size is applied first so the other entries see its derived
// metrics. Nothing is changed if any entry is invalid.
func (p *Properties) Apply(raw map[string]any) error {
	flat := make(map[string]float64)
	if err := flatten("", raw, flat); err != nil {
		return err
	}
	next := p.Clone()
	keys := slices.Sorted(maps.Keys(flat))
	if size, ok := flat[FontSize]; ok {
		if err := next.Set(FontSize, size); err != nil {
			return err
		}
	}
	for _, k := range keys {
		if k == FontSize {
			continue
		}
		if err := next.Set(k, flat[k]); err != nil {
			return err
		}
	}
	p.values = next.values
	return nil
}

func flatten(prefix string, raw map[string]any, out map[string]float64) error {
	for k, v := range raw {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		case float64:
			out[key] = val
		case int:
			out[key] = float64(val)
		case int64:
			out[key] = float64(val)
		default:
			return errors.New(errors.ErrCodeInvalidInput, "property %q: want a number, got %T", key, v)
		}
	}
	return nil
}

// Decode parses data in the given format and applies it on top of the
// defaults. A top-level "properties" table is used when present, so a scene
// file can be read as a property file.
func Decode(data []byte, format Format) (*Properties, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	p := Defaults()
	if err := p.Apply(raw); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	raw := map[string]any{}
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if nested, ok := raw["properties"].(map[string]any); ok {
		raw = nested
	}
	return raw, nil
}

// Load reads a property file, choosing the format by extension.
func Load(path string) (*Properties, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return nil, err
	}
	p := Defaults()
	if err := p.Apply(raw); err != nil {
		return nil, err
	}
	return p, nil
}

// ReadRaw reads a property file without applying it, so its entries can be
// layered over an existing set with [Properties.Apply].
func ReadRaw(path string) (map[string]any, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return decodeRaw(data, format)
}
