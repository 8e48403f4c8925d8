package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linkagesim/pkg/buildinfo"
	"github.com/matzehuels/linkagesim/pkg/cache"
	"github.com/matzehuels/linkagesim/pkg/config"
	"github.com/matzehuels/linkagesim/pkg/scissor"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = buildinfo.Name
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
		Short:        "Linkagesim solves scissor linkages",
		Long:         `Linkagesim computes the geometry of chains of scissor units (pantograph linkages) from their rod dimensions and a shared driving parameter.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Command Plumbing
// =============================================================================

// driveFlags are the flags that override a chain file's drive section.
type driveFlags struct {
	mode     string
	topology string
	theta    float64
	offset   float64
	heading  float64
}

// register adds the drive flags to cmd.
func (f *driveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "driving mode: angle or span (overrides file)")
	cmd.Flags().StringVar(&f.topology, "topology", "", "unit topology: serial or lazy-tongs (overrides file)")
	cmd.Flags().Float64Var(&f.theta, "theta", 0, "driving parameter (overrides file)")
	cmd.Flags().Float64Var(&f.offset, "offset", 0, "baseline x offset (overrides file)")
	cmd.Flags().Float64Var(&f.heading, "heading", 0, "baseline heading in radians (overrides file)")
}

// apply copies every flag the user set onto file.
func (f *driveFlags) apply(cmd *cobra.Command, file *config.File) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		m, err := scissor.ParseMode(f.mode)
		if err != nil {
			return err
		}
		file.Drive.Mode = m.String()
	}
	if flags.Changed("topology") {
		t, err := scissor.ParseTopology(f.topology)
		if err != nil {
			return err
		}
		file.Drive.Topology = t.String()
	}
	if flags.Changed("theta") {
		file.Drive.Theta = f.theta
	}
	if flags.Changed("offset") {
		file.Drive.Offset = f.offset
	}
	if flags.Changed("heading") {
		file.Drive.Heading = f.heading
	}
	return nil
}

// newSolver builds a solver for file that logs through the CLI logger.
func (c *CLI) newSolver(file *config.File) *scissor.Solver {
	return scissor.New(append(file.SolverOptions(), scissor.WithLogger(c.Logger))...)
}

// newCache opens the backend selected in file. Without a usable cache
// directory it degrades to no caching.
func (c *CLI) newCache(ctx context.Context, file *config.File, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch file.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, file.Cache.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", file.Cache.RedisAddr, err)
		}
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

// newKeyer scopes cache keys to the running release.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/linkagesim/).
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
