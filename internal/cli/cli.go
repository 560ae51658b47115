// Package cli implements the anchorage command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/anchorage/pkg/buildinfo"
	"github.com/matzehuels/anchorage/pkg/config"
	"github.com/matzehuels/anchorage/pkg/engine"
	"github.com/matzehuels/anchorage/pkg/render"
	"github.com/matzehuels/anchorage/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "anchorage"

	// defaultAddr is the listen address of `anchorage serve`.
	defaultAddr = ":8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Anchorage lays out annotations around a reference frame",
		Long:         `Anchorage resolves declarative anchor constraints between annotation elements (labels, ticks, titles, scale bars) and a reference frame, keeping their physical spacing fixed as the frame is panned, zoomed or resized.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.orderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Scene Loading
// =============================================================================

// sceneOpts are the flags shared by every command that loads a scene.
type sceneOpts struct {
	props string // property file applied on top of the scene's own
}

func (o *sceneOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.props, "props", "p", "", "property file (toml or yaml) overriding the scene's properties")
}

// loadedScene is a scene plus the diagnostics its engine reported.
type loadedScene struct {
	*scene.Scene
	diags []engine.Diagnostic
}

// loadScene reads a scene file, applies the property overrides and registers
// a diagnostic collector. It does not run a layout pass.
func (c *CLI) loadScene(ctx context.Context, path string, opts sceneOpts) (*loadedScene, error) {
	ls := &loadedScene{}
	engOpts := engine.Options{
		Logger:       loggerFromContext(ctx),
		OnDiagnostic: func(d engine.Diagnostic) { ls.diags = append(ls.diags, d) },
	}
	s, err := scene.Load(ctx, path, engOpts)
	if err != nil {
		return nil, err
	}
	if opts.props != "" {
		raw, err := config.ReadRaw(opts.props)
		if err != nil {
			return nil, err
		}
		if err := s.Engine.Properties().Apply(raw); err != nil {
			return nil, fmt.Errorf("apply %s: %w", opts.props, err)
		}
	}
	ls.Scene = s
	return ls, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	out := strings.Split(s, ",")
	for i := range out {
		out[i] = strings.ToLower(strings.TrimSpace(out[i]))
	}
	return out
}
