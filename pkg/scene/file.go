package scene

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/errors"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/observability"
	"github.com/matzehuels/anchorage/pkg/units"
)

// File is the decoded form of a scene file.
type File struct {
	Name        string              `toml:"name" yaml:"name" json:"name,omitempty"`
	Frame       FrameSpec           `toml:"frame" yaml:"frame" json:"frame"`
	Properties  map[string]any      `toml:"properties" yaml:"properties" json:"properties,omitempty"`
	Elements    []ElementSpec       `toml:"elements" yaml:"elements" json:"elements"`
	Collections map[string][]string `toml:"collections" yaml:"collections" json:"collections,omitempty"`
	Constraints []ConstraintSpec    `toml:"constraints" yaml:"constraints" json:"constraints"`
	Spans       []SpanSpec          `toml:"spans" yaml:"spans" json:"spans,omitempty"`
}

// FrameSpec describes the reference frame.
type FrameSpec struct {
	ID          string  `toml:"id" yaml:"id" json:"id,omitempty"`
	XMin        float64 `toml:"xmin" yaml:"xmin" json:"xmin"`
	XMax        float64 `toml:"xmax" yaml:"xmax" json:"xmax"`
	YMin        float64 `toml:"ymin" yaml:"ymin" json:"ymin"`
	YMax        float64 `toml:"ymax" yaml:"ymax" json:"ymax"`
	Width       float64 `toml:"width" yaml:"width" json:"width"`
	Height      float64 `toml:"height" yaml:"height" json:"height"`
	PixelWidth  float64 `toml:"pixel_width" yaml:"pixel_width" json:"pixel_width,omitempty"`
	PixelHeight float64 `toml:"pixel_height" yaml:"pixel_height" json:"pixel_height,omitempty"`
}

// ElementSpec describes one element. Box is [x0, x1, y0, y1] in native
// coordinates; text elements may omit it to be sized from their content.
type ElementSpec struct {
	ID          string    `toml:"id" yaml:"id" json:"id,omitempty"`
	Kind        string    `toml:"kind" yaml:"kind" json:"kind,omitempty"`
	Text        string    `toml:"text" yaml:"text" json:"text,omitempty"`
	Box         []float64 `toml:"box" yaml:"box" json:"box,omitempty"`
	HAlign      string    `toml:"halign" yaml:"halign" json:"halign,omitempty"`
	VAlign      string    `toml:"valign" yaml:"valign" json:"valign,omitempty"`
	Static      bool      `toml:"static" yaml:"static" json:"static,omitempty"`
	Collections []string  `toml:"collections" yaml:"collections" json:"collections,omitempty"`
}

// ConstraintSpec describes one constraint in scene syntax.
type ConstraintSpec struct {
	Target      string `toml:"target" yaml:"target" json:"target"`
	Attr        string `toml:"attr" yaml:"attr" json:"attr"`
	Anchor      string `toml:"anchor" yaml:"anchor" json:"anchor,omitempty"`
	AnchorAttr  string `toml:"anchor_attr" yaml:"anchor_attr" json:"anchor_attr,omitempty"`
	Margin      any    `toml:"margin" yaml:"margin" json:"margin,omitempty"`
	Description string `toml:"description" yaml:"description" json:"description,omitempty"`
}

// SpanSpec stretches a target over a native interval.
type SpanSpec struct {
	Target      string  `toml:"target" yaml:"target" json:"target"`
	Axis        string  `toml:"axis" yaml:"axis" json:"axis"`
	From        float64 `toml:"from" yaml:"from" json:"from"`
	To          float64 `toml:"to" yaml:"to" json:"to"`
	Description string  `toml:"description" yaml:"description" json:"description,omitempty"`
}

// Parse decodes a scene file. JSON is accepted as YAML.
func Parse(data []byte, format config.Format) (*File, error) {
	var f File
	switch format {
	case config.FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml scene")
		}
	case config.FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml scene")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported scene format %q", format)
	}
	return &f, nil
}

// Canvas builds the canvas described by the file, with properties applied
// on top of the defaults.
func (f *File) Canvas() (*Canvas, error) {
	props := config.Defaults()
	if err := props.Apply(f.Properties); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "properties")
	}

	fr := f.Frame
	vp := units.Viewport{XMin: fr.XMin, XMax: fr.XMax, YMin: fr.YMin, YMax: fr.YMax}
	size := units.Size{Width: fr.Width, Height: fr.Height}
	if !units.New(vp, size, units.Size{}).Valid() {
		return nil, errors.New(errors.ErrCodeInvalidUnits, "frame: viewport %+v with size %+v cannot be laid out", vp, size)
	}

	c := NewCanvas(vp, size, props)
	c.SetPixels(units.Size{Width: fr.PixelWidth, Height: fr.PixelHeight})
	if fr.ID != "" {
		c.SetFrameID(fr.ID)
	}

	for i, es := range f.Elements {
		kind, err := ParseKind(es.Kind)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "elements[%d]", i)
		}
		e := &Element{ID: es.ID, Kind: kind, Text: es.Text, Static: es.Static}
		if e.AlignX, err = ParseAlign(attr.X, es.HAlign); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "elements[%d]", i)
		}
		if e.AlignY, err = ParseAlign(attr.Y, es.VAlign); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "elements[%d]", i)
		}
		switch len(es.Box) {
		case 0:
		case 4:
			e.Box = geom.Box{X0: es.Box[0], X1: es.Box[1], Y0: es.Box[2], Y1: es.Box[3]}
		default:
			return nil, errors.New(errors.ErrCodeInvalidScene, "elements[%d]: box needs 4 values [x0, x1, y0, y1], got %d", i, len(es.Box))
		}
		if err := c.Add(e); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidScene, err, "elements[%d]", i)
		}
	}
	return c, nil
}

// Apply registers the file's collections, constraints and spans with eng,
// resolving element IDs on c, and merges the file's properties into the
// engine's. It stops at the first invalid entry.
func (f *File) Apply(eng *engine.Engine, c *Canvas) error {
	if err := eng.Properties().Apply(f.Properties); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "properties")
	}

	for _, es := range f.Elements {
		e, ok := c.Element(es.ID)
		if !ok {
			continue
		}
		for _, name := range es.Collections {
			if err := eng.AddToCollection(name, e); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "element %q", es.ID)
			}
		}
	}
	for name, ids := range f.Collections {
		for _, id := range ids {
			e, ok := c.Element(id)
			if !ok {
				return errors.New(errors.ErrCodeNotFound, "collection %q: unknown element %q", name, id)
			}
			if err := eng.AddToCollection(name, e); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidScene, err, "collection %q", name)
			}
		}
	}

	specs := make([]anchor.Spec, 0, len(f.Constraints))
	for i, cs := range f.Constraints {
		spec, err := cs.spec(c)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "constraints[%d]", i)
		}
		specs = append(specs, spec)
	}
	if _, err := eng.AddConstraints(specs...); err != nil {
		return err
	}

	for i, ss := range f.Spans {
		target, err := ParseRef(ss.Target, c.Element)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "spans[%d]", i)
		}
		ax, err := parseAxis(ss.Axis)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScene, err, "spans[%d]", i)
		}
		desc := ss.Description
		if desc == "" {
			desc = fmt.Sprintf("span %s", ss.Target)
		}
		if _, err := eng.AddSpan(target, ax, ss.From, ss.To, desc); err != nil {
			return err
		}
	}
	return nil
}

func (cs ConstraintSpec) spec(c *Canvas) (anchor.Spec, error) {
	target, err := ParseRef(cs.Target, c.Element)
	if err != nil {
		return anchor.Spec{}, err
	}
	for _, e := range target.Elements() {
		if e.ElementID() == FrameElementID {
			return anchor.Spec{}, errors.New(errors.ErrCodeInvalidConstraint, "the frame cannot be a target")
		}
	}
	ta, err := attr.Parse(cs.Attr)
	if err != nil {
		return anchor.Spec{}, err
	}
	anch, err := ParseRef(cs.Anchor, c.Element)
	if err != nil {
		return anchor.Spec{}, err
	}
	aa := attr.None
	if cs.AnchorAttr != "" {
		if aa, err = attr.Parse(cs.AnchorAttr); err != nil {
			return anchor.Spec{}, err
		}
	}
	margin, err := ParseMargin(cs.Margin)
	if err != nil {
		return anchor.Spec{}, err
	}
	spec := anchor.Spec{
		Target:      target,
		TargetAttr:  ta,
		Anchor:      anch,
		AnchorAttr:  aa,
		Margin:      margin,
		Description: cs.Description,
	}
	return spec, spec.Validate()
}

func parseAxis(s string) (attr.Axis, error) {
	switch s {
	case "x", "X", "horizontal":
		return attr.X, nil
	case "y", "Y", "vertical":
		return attr.Y, nil
	}
	return attr.NoAxis, errors.New(errors.ErrCodeInvalidScene, "unknown axis %q", s)
}

// Scene is a laid-out canvas and the engine that maintains it.
type Scene struct {
	Name   string
	File   *File
	Canvas *Canvas
	Engine *engine.Engine
}

// Decode parses data and builds a scene with its own engine. Call
// [Scene.Layout] to run the first pass.
func Decode(ctx context.Context, data []byte, format config.Format, opts engine.Options) (*Scene, error) {
	return decodeWith(ctx, data, format, func(c *Canvas) *engine.Engine {
		if opts.Properties == nil {
			opts.Properties = c.Properties()
		}
		return engine.New(c, c, opts)
	})
}

// DecodeFor is like [Decode] but takes the engine from reg. The canvas gets
// a fresh frame identity so concurrent scenes never share an engine; the
// caller removes it from reg when done.
func DecodeFor(ctx context.Context, data []byte, format config.Format, reg *engine.Registry) (*Scene, error) {
	id := uuid.NewString()
	s, err := decodeWith(ctx, data, format, func(c *Canvas) *engine.Engine {
		c.SetFrameID(id)
		return reg.For(c, c)
	})
	if err != nil {
		reg.Remove(id)
	}
	return s, err
}

func decodeWith(ctx context.Context, data []byte, format config.Format, newEngine func(*Canvas) *engine.Engine) (*Scene, error) {
	start := time.Now()
	s, err := decode(data, format, newEngine)
	elements, constraints := 0, 0
	name := "<inline>"
	if s != nil {
		elements, constraints = len(s.Canvas.Elements()), s.Engine.Len()
		if s.Name != "" {
			name = s.Name
		}
	}
	observability.Scene().OnLoad(ctx, name, elements, constraints, time.Since(start), err)
	return s, err
}

func decode(data []byte, format config.Format, newEngine func(*Canvas) *engine.Engine) (*Scene, error) {
	f, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	c, err := f.Canvas()
	if err != nil {
		return nil, err
	}
	eng := newEngine(c)
	if err := f.Apply(eng, c); err != nil {
		eng.Close()
		return nil, err
	}
	return &Scene{Name: f.Name, File: f, Canvas: c, Engine: eng}, nil
}

// Load reads a scene file, choosing the format by extension.
func Load(ctx context.Context, path string, opts engine.Options) (*Scene, error) {
	format, err := config.FormatFor(path)
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
	s, err := Decode(ctx, data, format, opts)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Layout runs one engine pass.
func (s *Scene) Layout(ctx context.Context) error {
	return s.Engine.Update(ctx)
}

// Remove destroys elements on the canvas and drops them from the engine.
func (s *Scene) Remove(ids ...string) []anchor.ID {
	removed := s.Canvas.Remove(ids...)
	elems := make([]anchor.Element, len(removed))
	for i, e := range removed {
		elems[i] = e
	}
	return s.Engine.RemoveElements(elems...)
}
