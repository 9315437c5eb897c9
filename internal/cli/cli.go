// Package cli implements the albumstack command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/albumstack/internal/config"
	"github.com/matzehuels/albumstack/pkg/buildinfo"
	"github.com/matzehuels/albumstack/pkg/cache"
	"github.com/matzehuels/albumstack/pkg/observability"
	"github.com/matzehuels/albumstack/pkg/pipeline"
	"github.com/matzehuels/albumstack/pkg/session"
	"github.com/matzehuels/albumstack/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Flag values shared by every command.
	configPath   string
	storeBackend string
	storePath    string

	// cfg is loaded on first use. Tests set it directly.
	cfg *config.Config

	// openStore is replaced in tests to inject a shared in-memory store.
	openStore func(ctx context.Context, cfg store.Config) (store.Store, error)
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		openStore: store.Open,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Albumstack lays out photo album pages",
		Long:         `Albumstack edits album pages built from single, split and grid blocks, places every photo slot on the page and renders previews as SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetEditHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/albumstack/config.toml)")
	root.PersistentFlags().StringVar(&c.storeBackend, "store", "", "document store: "+strings.Join(store.Backends, ", "))
	root.PersistentFlags().StringVar(&c.storePath, "store-path", "", "document directory (file) or database file (sqlite)")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.titleCommand())
	root.AddCommand(c.blockCommand())
	root.AddCommand(c.assetCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Store
// =============================================================================

// config loads the config file once. Flags override what it says.
func (c *CLI) config() (config.Config, error) {
	if c.cfg == nil {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return cfg, err
		}
		c.cfg = &cfg
	}
	cfg := *c.cfg
	if c.storeBackend != "" {
		cfg.Store.Backend = c.storeBackend
	}
	if c.storePath != "" {
		cfg.Store.Path = c.storePath
	}
	return cfg, nil
}

// store opens the configured document store. Callers close it.
func (c *CLI) store(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	open := c.openStore
	if open == nil {
		open = store.Open
	}
	st, err := open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	c.Logger.Debug("opened store", "backend", cfg.Store.Backend)
	return st, nil
}

// edit opens a session on id, applies op and persists the result. expected
// is the revision the caller last saw; store.AnyRevision skips the check.
func (c *CLI) edit(ctx context.Context, id string, expected int64, name string, op session.Op) error {
	st, err := c.store(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := session.Open(ctx, st, id, c.Logger)
	if err != nil {
		return err
	}
	doc, err := sess.Apply(ctx, expected, name, op)
	if err != nil {
		return err
	}
	printSuccess("%s %s", StyleHighlight.Render(doc.ID), StyleDim.Render(fmt.Sprintf("revision %d", doc.Revision)))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, newKeyer(cfg), c.Logger), nil
}

// newKeyer prefixes cache keys with the configured scope.
func newKeyer(cfg config.Config) cache.Keyer {
	if cfg.Cache.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Scope+":")
}

func newCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == config.CacheRedis {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, DB: cfg.Cache.RedisDB})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions starts from the config file's width and theme.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{Width: cfg.Width, Theme: cfg.Theme, Logger: c.Logger}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// revisionFlag registers --rev on cmd. The default skips the revision check.
func revisionFlag(cmd *cobra.Command, rev *int64) {
	cmd.Flags().Int64Var(rev, "rev", store.AnyRevision, "expected document revision (fails on mismatch)")
}
