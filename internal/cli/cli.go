// Package cli implements the mindlayout command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindlayout/pkg/buildinfo"
	"github.com/matzehuels/mindlayout/pkg/cache"
	"github.com/matzehuels/mindlayout/pkg/config"
	"github.com/matzehuels/mindlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = buildinfo.Name

	// layoutSuffix is appended to the input name for layout output files.
	layoutSuffix = ".layout.json"
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

	// configPath is the --config flag; empty means the default location.
	configPath string
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
		Use:   appName,
		Short: "Mindlayout positions mind maps around their central idea",
		Long: `Mindlayout computes readable 2-D layouts for mind maps: the central idea at the
origin, clusters in angular sectors around it, and no two nodes overlapping.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/mindlayout/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads the config file and applies environment overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.CacheConfig, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		cfg.Backend = config.BackendNone
	}
	store, err := newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("cache ready", "backend", cfg.Backend)
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache builds the cache selected by cfg.Backend. The file backend falls
// back to no caching when no cache directory can be determined.
func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return newRedisCache(ctx, cfg)
	case config.BackendMongo:
		return newMongoCache(ctx, cfg)
	case config.BackendTiered:
		fast, err := newRedisCache(ctx, cfg)
		if err != nil {
			return nil, err
		}
		durable, err := newMongoCache(ctx, cfg)
		if err != nil {
			fast.Close()
			return nil, err
		}
		return cache.NewTieredCache(fast, durable), nil
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

func newRedisCache(ctx context.Context, cfg config.CacheConfig) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{URL: cfg.RedisURL, Prefix: cfg.RedisPrefix})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rc, nil
}

func newMongoCache(ctx context.Context, cfg config.CacheConfig) (*cache.MongoCache, error) {
	mc, err := cache.NewMongoCache(ctx, cache.MongoOptions{
		URI:        cfg.MongoURI,
		Database:   cfg.MongoDatabase,
		Collection: cfg.MongoCollection,
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return mc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mindlayout/).
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

// outputPath derives an output file name from the input: "map.json" with
// suffix ".layout.json" becomes "map.layout.json".
func outputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags binds the engine parameters to a command. Flags default to the
// config file values and override them when set.
type layoutFlags struct {
	strategy  string
	radius    float64
	increment float64
	spread    float64
	gap       float64
	minSector float64
	padding   float64
	passes    int
	seed      uint64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.strategy, "strategy", "s", "", "positioning strategy: radial (default), force")
	fs.Float64Var(&f.radius, "base-radius", 0, "distance of top-level nodes from the root")
	fs.Float64Var(&f.increment, "depth-increment", 0, "radius added per depth level")
	fs.Float64Var(&f.spread, "child-spread", 0, "angular spread of a node's children (degrees)")
	fs.Float64Var(&f.gap, "sector-gap", 0, "gap between cluster sectors (degrees)")
	fs.Float64Var(&f.minSector, "min-sector", 0, "minimum sector width (degrees)")
	fs.Float64Var(&f.padding, "padding", 0, "minimum clearance between node boxes")
	fs.IntVar(&f.passes, "max-passes", 0, "overlap resolver pass limit")
	fs.Uint64Var(&f.seed, "seed", 0, "random seed for jitter (0 selects the default)")
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
}

// options merges the flags that were set over the config values.
func (f *layoutFlags) options(cmd *cobra.Command, lc config.LayoutConfig) pipeline.Options {
	opts := pipeline.OptionsFromConfig(lc)
	fs := cmd.Flags()
	if fs.Changed("strategy") {
		opts.Strategy = f.strategy
	}
	if fs.Changed("base-radius") {
		opts.BaseRadius = f.radius
	}
	if fs.Changed("depth-increment") {
		opts.DepthIncrement = f.increment
	}
	if fs.Changed("child-spread") {
		opts.ChildSpreadDeg = f.spread
	}
	if fs.Changed("sector-gap") {
		gap := f.gap
		opts.SectorGapDeg = &gap
	}
	if fs.Changed("min-sector") {
		opts.MinSectorDeg = f.minSector
	}
	if fs.Changed("padding") {
		pad := f.padding
		opts.NodePadding = &pad
	}
	if fs.Changed("max-passes") {
		opts.MaxPasses = f.passes
	}
	if fs.Changed("seed") {
		opts.Seed = f.seed
	}
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
