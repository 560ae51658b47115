package render

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/scene"
	"github.com/matzehuels/anchorage/pkg/units"
)

// Layout is the wire format for a laid-out scene, used by `anchorage layout
// --format json` and the HTTP service.
type Layout struct {
	Name        string       `json:"name,omitempty"`
	Frame       Frame        `json:"frame"`
	Elements    []Block      `json:"elements"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Frame describes the reference frame.
type Frame struct {
	ID       string         `json:"id"`
	Viewport units.Viewport `json:"viewport"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
}

// Block is one positioned element. Box is native, Rect is physical.
type Block struct {
	ID   string    `json:"id"`
	Kind string    `json:"kind"`
	Text string    `json:"text,omitempty"`
	Box  geom.Box  `json:"box"`
	Rect geom.Rect `json:"rect"`
}

// Constraint is one active constraint and its place in the evaluation order.
type Constraint struct {
	ID          int    `json:"id"`
	Step        int    `json:"step"`
	Expr        string `json:"expr"`
	Description string `json:"description,omitempty"`
	Forced      bool   `json:"forced,omitempty"`
}

// Diagnostic mirrors engine.Diagnostic.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToLayout snapshots c and the constraints of eng. eng may be nil.
func ToLayout(name string, c *scene.Canvas, eng *engine.Engine, diags []engine.Diagnostic) Layout {
	l := Layout{
		Name: name,
		Frame: Frame{
			ID:       c.FrameID(),
			Viewport: c.Viewport(),
			Width:    c.Size().Width,
			Height:   c.Size().Height,
		},
	}

	conv := c.Units()
	for _, e := range c.Elements() {
		b := Block{ID: e.ID, Kind: e.Kind.String(), Text: e.Text, Box: e.Box}
		if conv.Valid() {
			b.Rect = conv.BoxToRect(e.Box)
		}
		l.Elements = append(l.Elements, b)
	}

	if eng != nil && !eng.Closed() {
		sched := eng.Schedule()
		seq, forced := sched.Sequence(), sched.Forced()
		for _, con := range eng.Constraints() {
			l.Constraints = append(l.Constraints, Constraint{
				ID:          int(con.ID),
				Step:        slices.Index(seq, con.ID),
				Expr:        con.Spec.String(),
				Description: con.Spec.Description,
				Forced:      slices.Contains(forced, con.ID),
			})
		}
		slices.SortStableFunc(l.Constraints, func(a, b Constraint) int { return a.Step - b.Step })
	}

	for _, d := range diags {
		l.Diagnostics = append(l.Diagnostics, Diagnostic{Code: string(d.Code), Message: d.Message})
	}
	return l
}

// RenderJSON emits the resolved geometry of c without constraint details.
func RenderJSON(c *scene.Canvas) ([]byte, error) {
	return MarshalLayout(ToLayout("", c, nil, nil))
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Frame.Width <= 0 || l.Frame.Height <= 0 {
		return Layout{}, fmt.Errorf("layout frame must have a positive size")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
