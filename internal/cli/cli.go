// Package cli implements the skein command-line interface.
//
// This package provides commands for laying out service dependency graphs,
// rendering them as orthogonally routed diagrams, inspecting their tier
// structure, and running the HTTP API. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute node positions and edge lanes from a graph
//   - render: Go straight from a graph to SVG/JSON artifacts
//   - visualize: Render artifacts from a previously computed layout
//   - trace: Walk a service's upstream and downstream closure
//   - inspect: Browse the tier structure interactively
//   - serve: Run the HTTP API
//   - cache: Manage the local result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skein-viz/skein/pkg/buildinfo"
	"github.com/skein-viz/skein/pkg/cache"
	"github.com/skein-viz/skein/pkg/pipeline"
	"github.com/skein-viz/skein/pkg/positions"
)

// appName is the application name used for directories and display.
const appName = "skein"

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
	Config Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration, falling back to defaults when no config file exists.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfigOrDefault(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "skein",
		Short:        "Skein lays out and routes service dependency graphs",
		Long:         `Skein is a CLI tool for turning service dependency graphs into readable diagrams: nodes are snapped into tiers, tier gaps widen to fit the edges crossing them, and every edge gets its own orthogonal lane.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	store, err := c.newPositionStore(ctx)
	if err != nil {
		_ = cch.Close()
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, store, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.Redis.Addr,
			c.Config.Cache.Redis.Password, c.Config.Cache.Redis.DB)
	case BackendNone:
		return cache.NewNullCache(), nil
	default:
		dir := c.Config.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) newPositionStore(ctx context.Context) (positions.Store, error) {
	switch c.Config.Positions.Backend {
	case BackendMongo:
		return positions.NewMongoStore(ctx, c.Config.Positions.Mongo.URI,
			c.Config.Positions.Mongo.Database)
	case BackendNone:
		return nil, nil
	default:
		dir := c.Config.Positions.Dir
		if dir == "" {
			var err error
			if dir, err = positionsDir(); err != nil {
				return nil, nil
			}
		}
		return positions.NewFileStore(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/skein/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// positionsDir returns the directory for saved node positions
// (~/.local/share/skein/positions/).
func positionsDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "positions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "positions"), nil
}

// configDir returns the configuration directory (~/.config/skein/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// addLayoutFlags registers the flags shared by every command that computes
// a layout.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Direction, "direction", "d", "TB", "layout direction: TB (default), LR")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", "grid", "coarse layout engine: grid (default), graphviz")
	cmd.Flags().Float64Var(&opts.LaneSpacing, "lane-spacing", 0, "distance between adjacent edge lanes")
	cmd.Flags().Float64Var(&opts.Padding, "padding", 0, "clearance between lanes and tier boundaries")
	cmd.Flags().Float64Var(&opts.MinLayerGap, "min-gap", 0, "minimum distance between adjacent tiers")
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "node footprint width")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "node footprint height")
	cmd.Flags().StringVar(&opts.ViewerID, "viewer", "", "merge this viewer's saved node positions")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
}
