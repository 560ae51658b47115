package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModel(t *testing.T) {
	s, err := testCLI().loadScene(testContext(), "testdata/plot.toml", sceneOpts{})
	if err != nil {
		t.Fatal(err)
	}
	m := newWatchModel(testContext(), s)
	if m.passes != 1 || m.err != nil {
		t.Fatalf("initial pass = %d, err = %v", m.passes, m.err)
	}

	tests := []struct {
		key        string
		xmin, ymin float64
	}{
		{"left", -1, 0},
		{"up", -1, 1},
		{"+", 0, 2},
		{"r", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			next, cmd := m.Update(key(tt.key))
			if cmd != nil {
				t.Fatal("navigation key returned a command")
			}
			m = next.(watchModel)
			vp := s.Canvas.Viewport()
			if !near(vp.XMin, tt.xmin) || !near(vp.YMin, tt.ymin) {
				t.Errorf("viewport min = (%v, %v), want (%v, %v)", vp.XMin, vp.YMin, tt.xmin, tt.ymin)
			}
			// Ticks hang 3.5pt below the frame at any zoom.
			tick, _ := s.Canvas.Element("tick0")
			r := s.Canvas.Units().BoxToRect(tick.Box)
			if !near(r.Top, 0) || !near(r.Bottom, -3.5) {
				t.Errorf("tick rect = %+v", r)
			}
		})
	}
	if m.passes != 5 {
		t.Errorf("passes = %d, want 5", m.passes)
	}

	if _, cmd := m.Update(key("x")); cmd != nil {
		t.Error("unbound key returned a command")
	}
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}

	view := m.View()
	for _, want := range []string{"plot", "tick0", "pass 5"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
