// Package cli implements the chemlayout command-line interface.
//
// Commands:
//   - render: parse, lay out and render molecules in one step
//   - layout: parse and lay out, writing a scene.json
//   - visualize: render a scene.json produced by layout
//   - arrange: lay out several inputs side by side
//   - serve: run the HTTP API
//   - cache: inspect and clear the local cache
//
// All commands accept --config to select a TOML settings file and
// --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/chemlayout/internal/config"
	"github.com/matzehuels/chemlayout/pkg/buildinfo"
	"github.com/matzehuels/chemlayout/pkg/cache"
	"github.com/matzehuels/chemlayout/pkg/layout"
	"github.com/matzehuels/chemlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "chemlayout"

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
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and built-in settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Chemlayout computes 2D layouts for molecule graphs",
		Long: `Chemlayout computes 2D coordinates for molecule graphs with a short
force simulation, fits them to a viewport and renders them as SVG, PNG, DOT,
JSON or SD files. Input can be SMILES, reaction SMILES, SD files or graph JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/chemlayout/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves settings before any subcommand runs.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.verbose {
		c.SetLogLevel(LogDebug)
	} else {
		c.SetLogLevel(cfg.Level())
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	cc, keyer, err := c.Config.NewCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags binds the viewport and engine flags shared by the layout
// commands. Only flags the user set override the loaded configuration.
type layoutFlags struct {
	width, height, padding, spacing float64

	minDistance  float64
	iterations   int
	maxScale     float64
	springLength float64
	noLayout     bool
	noHeuristic  bool
}

func (f *layoutFlags) register(fs *pflag.FlagSet) {
	def := layout.DefaultConfig()
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height")
	fs.Float64Var(&f.padding, "padding", def.Padding, "viewport padding (0 fits edge to edge)")
	fs.Float64Var(&f.spacing, "spacing", layout.DefaultSpacing, "horizontal gap between arranged graphs")
	fs.Float64Var(&f.minDistance, "min-distance", def.MinDistance, "distance below which atoms repel")
	fs.IntVar(&f.iterations, "iterations", def.Iterations, "force simulation passes")
	fs.Float64Var(&f.maxScale, "max-scale", def.MaxScale, "maximum fit-to-viewport scale")
	fs.Float64Var(&f.springLength, "spring-length", def.SpringLength, "bond rest length")
	fs.BoolVar(&f.noLayout, "no-layout", false, "keep input coordinates (disables the layout engine)")
	fs.BoolVar(&f.noHeuristic, "force-layout", false, "lay out even graphs that already look laid out")
}

// apply fills opts from the loaded configuration, then from changed flags.
func (f *layoutFlags) apply(fs *pflag.FlagSet, cfg *config.Config, opts *pipeline.Options) {
	lc := cfg.LayoutConfig()
	opts.Width = cfg.Viewport.Width
	opts.Height = cfg.Viewport.Height
	opts.Spacing = cfg.Viewport.Spacing

	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("width", func() { opts.Width = f.width })
	set("height", func() { opts.Height = f.height })
	set("padding", func() {
		opts.Padding = f.padding
		lc.Padding = f.padding
	})
	set("spacing", func() { opts.Spacing = f.spacing })
	set("min-distance", func() { lc.MinDistance = f.minDistance })
	set("iterations", func() { lc.Iterations = f.iterations })
	set("max-scale", func() { lc.MaxScale = f.maxScale })
	set("spring-length", func() { lc.SpringLength = f.springLength })
	set("no-layout", func() { lc.Enabled = !f.noLayout })
	set("force-layout", func() { lc.DisableSizeHeuristic = f.noHeuristic })

	opts.Layout = &lc
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
