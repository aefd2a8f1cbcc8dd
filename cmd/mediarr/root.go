package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/internal/migrations"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "mediarr",
	Short: "Manage a local movie library",
	Long: `mediarr - local movie library manager

Scans datasource folders for movies, matches them against metadata
providers, writes NFO sidecars, and keeps the catalog in sync with
what is on disk.

Run 'mediarrd' to keep the library synchronized continuously.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mediarr {{.Version}}\n")
}

// newLogger keeps CLI output clean: warnings and errors only, unless
// --verbose is set.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "config: %s\n", p)
		}
		return nil, fmt.Errorf("invalid configuration")
	}
	return cfg, nil
}

func openCatalog(cfg *config.Config, log *slog.Logger) (*catalog.Catalog, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	cat := catalog.New(catalog.NewStore(db), nil, log)
	return cat, func() { _ = db.Close() }, nil
}

// datasourcesFor resolves a positional datasource name to the configured
// entries, or returns all of them when the name is empty.
func datasourcesFor(cfg *config.Config, name string) ([]config.DatasourceConfig, error) {
	if name == "" {
		return cfg.Datasources, nil
	}
	for _, ds := range cfg.Datasources {
		if ds.Name == name {
			return []config.DatasourceConfig{ds}, nil
		}
	}
	return nil, fmt.Errorf("datasource %q not configured", name)
}
