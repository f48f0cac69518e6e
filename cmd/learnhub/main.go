package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"learnhub/cmd/learnhub/ui"
	"learnhub/internal/catalog"
	"learnhub/internal/config"
	"learnhub/internal/events"
	"learnhub/internal/logging"
	"learnhub/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	contentDir string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "learnhub",
	Short: "learnhub - terminal learning hub with durable progress tracking",
	Long: `learnhub is a terminal viewer for a directory of markdown learning units.

It tracks which units you have completed, keeps bookmarks, remembers your
display preferences, and derives study analytics (completion rate, daily
streak). All state is stored locally and can be exported to or imported
from a portable snapshot file.

Run without arguments to start the interactive viewer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive viewer
		return runViewer(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (overrides config)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(bookmarksCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(resetCmd)
}

// loadConfig resolves configuration from flags, env, and the config file.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(config.DefaultDataDir(), "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if contentDir != "" {
		cfg.Catalog.ContentDir = contentDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openHub boots logging, the blob store, and the state hub.
// The returned close function flushes and releases the store.
func openHub(cfg *config.Config) (*state.Hub, func(), error) {
	if err := logging.Initialize(cfg.Storage.DataDir); err != nil {
		logger.Warn("file logging unavailable", zap.Error(err))
	}

	kv, err := state.NewSQLiteKV(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open state store: %w", err)
	}

	hub := state.NewHub(state.NewPersistentStore(kv), events.NewBus())
	closeFn := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("failed to close state store", zap.Error(err))
		}
	}
	return hub, closeFn, nil
}

// openCatalog scans the content directory and wires the unit count into
// the hub.
func openCatalog(ctx context.Context, cfg *config.Config, hub *state.Hub) (*catalog.Catalog, error) {
	cat := catalog.New(cfg.Catalog.ContentDir, func(units []catalog.Unit) {
		hub.SetTotalModules(len(units))
	})
	if err := cat.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to scan content directory %s: %w", cfg.Catalog.ContentDir, err)
	}
	return cat, nil
}

// runViewer launches the interactive TUI.
func runViewer(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hub, closeHub, err := openHub(cfg)
	if err != nil {
		return err
	}
	defer closeHub()

	cat, err := openCatalog(ctx, cfg, hub)
	if err != nil {
		return err
	}

	if cfg.Catalog.Watch {
		w, err := catalog.NewWatcher(cat)
		if err != nil {
			logger.Warn("content watcher unavailable", zap.Error(err))
		} else {
			if err := w.Start(ctx); err == nil {
				defer w.Stop()
			}
		}
	}

	return ui.Run(hub, cat)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
