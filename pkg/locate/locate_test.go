package locate

import (
	"math"
	"testing"

	"github.com/matzehuels/anchorage/pkg/anchor"
	"github.com/matzehuels/anchorage/pkg/attr"
	"github.com/matzehuels/anchorage/pkg/geom"
	"github.com/matzehuels/anchorage/pkg/units"
)

type elem struct{ id string }

func (e *elem) ElementID() string { return e.id }

type fakeRenderer struct {
	boxes  map[anchor.Element]geom.Box
	writes int
}

func newFake() *fakeRenderer {
	return &fakeRenderer{boxes: make(map[anchor.Element]geom.Box)}
}

func (f *fakeRenderer) Geometry(e anchor.Element) (geom.Box, bool) {
	b, ok := f.boxes[e]
	return b, ok
}

func (f *fakeRenderer) SetGeometry(e anchor.Element, b geom.Box) {
	f.writes++
	f.boxes[e] = b
}

// identity: one native unit per physical unit, origin at 0.
func identity() units.Converter {
	return units.New(units.Viewport{XMax: 100, YMax: 100}, units.Size{Width: 100, Height: 100}, units.Size{})
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQueryConvertsToPhysical(t *testing.T) {
	f := newFake()
	e := &elem{"a"}
	f.boxes[e] = geom.Box{X0: 2, X1: 6, Y0: 10, Y1: 20}

	c := New(f, nil)
	c.SetUnits(units.New(units.Viewport{XMax: 20, YMin: 40, YMax: 0}, units.Size{Width: 10, Height: 20}, units.Size{}))

	ent, ok := c.Query(e)
	if !ok {
		t.Fatal("Query() should find the element")
	}
	want := geom.Rect{Left: 1, Right: 3, Bottom: 10, Top: 15}
	if !ent.Rect.Equal(want, 1e-9) {
		t.Errorf("Query() = %+v, want %+v", ent.Rect, want)
	}
	if !ent.Dynamic {
		t.Error("elements default to dynamic")
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name  string
		attr  attr.Attr
		value float64
		want  geom.Box
	}{
		{"top keeps height", attr.Top, 30, geom.Box{X0: 10, X1: 20, Y0: 20, Y1: 30}},
		{"bottom keeps height", attr.Bottom, 0, geom.Box{X0: 10, X1: 20, Y0: 0, Y1: 10}},
		{"vcenter", attr.VCenter, 50, geom.Box{X0: 10, X1: 20, Y0: 45, Y1: 55}},
		{"left keeps width", attr.Left, 0, geom.Box{X0: 0, X1: 10, Y0: 10, Y1: 20}},
		{"right keeps width", attr.Right, 40, geom.Box{X0: 30, X1: 40, Y0: 10, Y1: 20}},
		{"hcenter", attr.HCenter, 0, geom.Box{X0: -5, X1: 5, Y0: 10, Y1: 20}},
		{"height keeps bottom", attr.Height, 4, geom.Box{X0: 10, X1: 20, Y0: 10, Y1: 14}},
		{"width keeps left", attr.Width, 2, geom.Box{X0: 10, X1: 12, Y0: 10, Y1: 20}},
		{"negative height collapses", attr.Height, -3, geom.Box{X0: 10, X1: 20, Y0: 10, Y1: 10}},
		{"marker diameter about center", attr.MarkerDiameter, 4, geom.Box{X0: 13, X1: 17, Y0: 13, Y1: 17}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			e := &elem{"a"}
			f.boxes[e] = geom.Box{X0: 10, X1: 20, Y0: 10, Y1: 20}
			c := New(f, nil)
			c.SetUnits(identity())

			if !c.Write(e, tt.attr, tt.value) {
				t.Fatal("Write() reported no change")
			}
			if got := f.boxes[e]; !got.Equal(tt.want, 1e-9) {
				t.Errorf("box = %+v, want %+v", got, tt.want)
			}
			if v, _ := c.Value(e, tt.attr); tt.value >= 0 && !approx(v, tt.value) {
				t.Errorf("Value(%v) = %v, want %v", tt.attr, v, tt.value)
			}
		})
	}
}

func TestWriteReversedAxis(t *testing.T) {
	f := newFake()
	e := &elem{"a"}
	// Native y runs from 10 at the bottom to 0 at the top, 2 native per physical.
	f.boxes[e] = geom.Box{X0: 0, X1: 1, Y0: 6, Y1: 8}
	c := New(f, nil)
	c.SetUnits(units.New(units.Viewport{XMin: 0, XMax: 10, YMin: 10, YMax: 0}, units.Size{Width: 10, Height: 5}, units.Size{}))

	top, _ := c.Value(e, attr.Top)
	if !approx(top, 2) {
		t.Fatalf("Top = %v, want 2", top)
	}
	c.Write(e, attr.Top, 3)

	// Moving up one physical unit lowers native y by two.
	want := geom.Box{X0: 0, X1: 1, Y0: 4, Y1: 6}
	if got := f.boxes[e]; !got.Equal(want, 1e-9) {
		t.Errorf("box = %+v, want %+v", got, want)
	}
}

func TestWriteSkipsNoop(t *testing.T) {
	f := newFake()
	e := &elem{"a"}
	f.boxes[e] = geom.Box{X0: 0, X1: 1, Y0: 0, Y1: 1}
	c := New(f, nil)
	c.SetUnits(identity())

	if c.Write(e, attr.Top, 1) {
		t.Error("Write() of the current value should be skipped")
	}
	if f.writes != 0 {
		t.Errorf("collaborator saw %d writes, want 0", f.writes)
	}
	if c.Write(&elem{"gone"}, attr.Top, 1) {
		t.Error("Write() to a missing element should fail")
	}
	if c.Write(e, attr.Literal, 1) || c.Write(e, attr.Top, math.NaN()) {
		t.Error("Write() should reject literal attributes and NaN")
	}
}

func TestAggregate(t *testing.T) {
	f := newFake()
	a, b := &elem{"a"}, &elem{"b"}
	f.boxes[a] = geom.Box{X0: 0, X1: 2, Y0: 0, Y1: 1}
	f.boxes[b] = geom.Box{X0: 5, X1: 6, Y0: 2, Y1: 6}
	c := New(f, nil)
	c.SetUnits(identity())

	group := []anchor.Element{a, b, &elem{"gone"}}
	tests := []struct {
		attr attr.Attr
		want float64
	}{
		{attr.Left, 0},
		{attr.Right, 6},
		{attr.Bottom, 0},
		{attr.Top, 6},
		{attr.Width, 6},
		{attr.Height, 6},
		{attr.HCenter, 3},
		{attr.VCenter, 3},
		{attr.MarkerDiameter, 4},
	}
	for _, tt := range tests {
		t.Run(tt.attr.String(), func(t *testing.T) {
			got, ok := c.Aggregate(group, tt.attr)
			if !ok || !approx(got, tt.want) {
				t.Errorf("Aggregate(%v) = %v, %v; want %v", tt.attr, got, ok, tt.want)
			}
		})
	}

	if v, _ := c.Aggregate([]anchor.Element{b}, attr.Bottom); v != 2 {
		t.Errorf("single-element Aggregate = %v, want 2", v)
	}
	if _, ok := c.Aggregate(nil, attr.Top); ok {
		t.Error("empty group should have no aggregate")
	}
}

func TestAggregateReversedOuterEdge(t *testing.T) {
	f := newFake()
	a, b := &elem{"a"}, &elem{"b"}
	f.boxes[a] = geom.Box{X0: 8, X1: 9, Y0: 0, Y1: 1}
	f.boxes[b] = geom.Box{X0: 2, X1: 3, Y0: 0, Y1: 1}
	c := New(f, nil)
	// Reversed x: native 10 at the left edge.
	c.SetUnits(units.New(units.Viewport{XMin: 10, XMax: 0, YMax: 10}, units.Size{Width: 10, Height: 10}, units.Size{}))

	left, _ := c.Aggregate([]anchor.Element{a, b}, attr.Left)
	if !approx(c.Units().ToNative(attr.X, left), 9) {
		t.Errorf("outer left edge maps to native %v, want 9", c.Units().ToNative(attr.X, left))
	}
}

func TestRefreshDynamicOnly(t *testing.T) {
	f := newFake()
	dyn, stat := &elem{"dyn"}, &elem{"stat"}
	f.boxes[dyn] = geom.Box{X1: 1, Y1: 1}
	f.boxes[stat] = geom.Box{X1: 1, Y1: 1}
	c := New(f, func(e anchor.Element) bool { return e != stat })
	c.SetUnits(identity())
	c.Get(dyn)
	c.Get(stat)

	f.boxes[dyn] = geom.Box{X0: 5, X1: 6, Y1: 1}
	f.boxes[stat] = geom.Box{X0: 5, X1: 6, Y1: 1}
	c.Refresh()

	if v, _ := c.Value(dyn, attr.Left); v != 5 {
		t.Errorf("dynamic Left = %v, want 5", v)
	}
	if v, _ := c.Value(stat, attr.Left); v != 0 {
		t.Errorf("static Left = %v, want cached 0", v)
	}

	c.Invalidate(stat)
	if v, _ := c.Value(stat, attr.Left); v != 5 {
		t.Errorf("invalidated static Left = %v, want 5", v)
	}

	delete(f.boxes, dyn)
	if gone := c.Refresh(); len(gone) != 1 || gone[0] != dyn {
		t.Errorf("Refresh() gone = %v, want [dyn]", gone)
	}
}

func TestSetDynamicOverride(t *testing.T) {
	f := newFake()
	e := &elem{"a"}
	f.boxes[e] = geom.Box{X1: 1, Y1: 1}
	c := New(f, nil)
	c.SetUnits(identity())

	c.SetDynamic(e, false)
	if ent, _ := c.Get(e); ent.Dynamic {
		t.Error("override should make the entry static")
	}
	c.Retain(func(anchor.Element) bool { return false })
	if c.Len() != 0 {
		t.Errorf("Len() = %d after Retain, want 0", c.Len())
	}
	if c.IsDynamic(e) {
		t.Error("override should survive Retain")
	}
	c.Forget(e)
	if !c.IsDynamic(e) {
		t.Error("Forget should drop the override")
	}
}

func TestSetUnitsInvalidates(t *testing.T) {
	f := newFake()
	e := &elem{"a"}
	f.boxes[e] = geom.Box{X1: 1, Y1: 1}
	c := New(f, nil)
	c.SetUnits(identity())
	c.Get(e)

	if c.SetUnits(identity()) {
		t.Error("same converter should not invalidate")
	}
	if c.Len() != 1 {
		t.Fatal("entry should survive an unchanged converter")
	}
	if !c.SetUnits(units.New(units.Viewport{XMax: 50, YMax: 100}, units.Size{Width: 100, Height: 100}, units.Size{})) {
		t.Error("changed viewport should invalidate")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after viewport change, want 0", c.Len())
	}
}
