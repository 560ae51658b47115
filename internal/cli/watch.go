package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorage/pkg/render"
	"github.com/matzehuels/anchorage/pkg/units"
)

const (
	panStep  = 0.1
	zoomStep = 1.25
)

// watchCommand creates the watch command, an interactive viewer that pans
// and zooms the frame and re-runs the layout after every change.
func (c *CLI) watchCommand() *cobra.Command {
	var opts sceneOpts

	cmd := &cobra.Command{
		Use:   "watch [scene.toml]",
		Short: "Pan and zoom a scene interactively",
		Long: `Pan and zoom a scene interactively.

The arrow keys (or h/j/k/l) pan the frame's viewport, + and - zoom, r resets.
After every change the constraints are re-resolved and the table shows each
element in native and physical units: physical offsets stay put while the
native coordinates follow the viewport.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: sceneFileCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.loadScene(ctx, args[0], opts)
			if err != nil {
				return fmt.Errorf("load scene %s: %w", args[0], err)
			}
			m := newWatchModel(ctx, s)
			_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
			return err
		},
	}

	opts.register(cmd)
	return cmd
}

// watchModel is the bubbletea model of the watch command.
type watchModel struct {
	ctx    context.Context
	scene  *loadedScene
	home   units.Viewport
	passes int
	err    error
}

func newWatchModel(ctx context.Context, s *loadedScene) watchModel {
	m := watchModel{ctx: ctx, scene: s, home: s.Canvas.Viewport()}
	m.relayout()
	return m
}

func (m *watchModel) relayout() {
	m.scene.diags = m.scene.diags[:0]
	m.err = m.scene.Layout(m.ctx)
	m.passes++
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	c := m.scene.Canvas
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		c.Pan(-panStep, 0)
	case "right", "l":
		c.Pan(panStep, 0)
	case "up", "k":
		c.Pan(0, panStep)
	case "down", "j":
		c.Pan(0, -panStep)
	case "+", "=":
		c.Zoom(zoomStep)
	case "-", "_":
		c.Zoom(1 / zoomStep)
	case "r":
		c.SetViewport(m.home)
	default:
		return m, nil
	}
	m.relayout()
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder
	vp := m.scene.Canvas.Viewport()

	b.WriteString(StyleTitle.Render(m.scene.Name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→/↑/↓ pan  +/- zoom  r reset  q quit"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "viewport x %s  y %s  %s\n",
		StyleValue.Render(fmt.Sprintf("[%.3g, %.3g]", vp.XMin, vp.XMax)),
		StyleValue.Render(fmt.Sprintf("[%.3g, %.3g]", vp.YMin, vp.YMax)),
		StyleDim.Render(fmt.Sprintf("pass %d", m.passes)))

	b.WriteString(geometryTable(render.ToLayout(m.scene.Name, m.scene.Canvas, nil, nil).Elements))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	}
	for _, d := range m.scene.diags {
		b.WriteString(StyleWarning.Render(d.String()))
		b.WriteString("\n")
	}
	return b.String()
}
