// Package cli implements the gvlayout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/gvlayout/internal/config"
	"github.com/matzehuels/gvlayout/pkg/buildinfo"
	"github.com/matzehuels/gvlayout/pkg/cache"
	"github.com/matzehuels/gvlayout/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "gvlayout"

	// redisPrefix namespaces engine outputs in a shared Redis instance.
	redisPrefix = "gvlayout:"
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
		Short: "gvlayout lays out graphs with Graphviz",
		Long: `gvlayout computes node positions for a graph by running it through a
Graphviz layout engine (dot, neato, fdp, sfdp, circo, twopi) and writing the
positions back into the graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.registerHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./gvlayout.yaml or the user config dir)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// addLayoutFlags registers the flags that override layout settings.
// Defaults shown here are informational; only flags the user sets
// take precedence over the config file and environment.
func addLayoutFlags(fs *pflag.FlagSet) {
	d := layout.DefaultConfig()
	fs.String("algorithm", d.Algorithm(), "layout algorithm: dot, neato, fdp, sfdp, circo, twopi")
	fs.String("binary", d.Binary(), "path to the Graphviz executable")
	fs.String("rank-dir", d.RankDir(), "rank direction: LR, TB, RL, BT")
	fs.String("overlap", d.Overlap(), "node overlap policy")
	fs.Bool("concentrate", d.Concentrate(), "merge parallel edges")
	fs.String("format", d.Format(), "engine output format")
	fs.String("engine", string(d.Engine()), "engine: exec (external binary) or embedded")
	fs.Duration("timeout", config.DefaultTimeout, "abort a pass after this long (0 disables)")
	fs.Bool("strict-exit", d.StrictExit(), "treat any non-zero engine exit as an error")
}

// addCacheFlags registers the flags that select the cache backend.
func addCacheFlags(fs *pflag.FlagSet) {
	fs.Bool("no-cache", false, "disable caching")
	fs.String("cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/gvlayout)")
	fs.Duration("cache-ttl", config.DefaultCacheTTL, "lifetime of cached engine outputs")
	fs.String("redis-url", "", "cache engine outputs in Redis instead of on disk")
}

// settings loads the merged settings for cmd.
func (c *CLI) settings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if s.File != "" {
		c.Logger.Debug("loaded config", "file", s.File)
	}
	return s, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a layout runner for CLI use. Callers close runner.Cache.
func (c *CLI) newRunner(ctx context.Context, s *config.Settings) (*layout.Runner, error) {
	cc, err := newCache(ctx, s)
	if err != nil {
		return nil, err
	}
	r := layout.NewRunner(cc, c.Logger)
	r.CacheTTL = s.CacheTTL
	return r, nil
}

func newCache(ctx context.Context, s *config.Settings) (cache.Cache, error) {
	if !s.Cache {
		return cache.NewNullCache(), nil
	}
	if s.RedisURL != "" {
		return cache.NewRedisCache(ctx, s.RedisURL, redisPrefix)
	}
	dir, err := resolveCacheDir(s)
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// resolveCacheDir returns the configured cache directory or the XDG default.
func resolveCacheDir(s *config.Settings) (string, error) {
	if s.CacheDir != "" {
		return s.CacheDir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/gvlayout/).
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
