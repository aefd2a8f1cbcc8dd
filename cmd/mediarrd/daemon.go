package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/internal/events"
	"github.com/mediarr/mediarr/internal/migrations"
	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/internal/scanner"
	"github.com/mediarr/mediarr/internal/scheduler"
	"github.com/mediarr/mediarr/internal/scrape"
	"github.com/mediarr/mediarr/internal/tmdb"
	"github.com/mediarr/mediarr/internal/watcher"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		})
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}))
}

// daemon keeps the catalog synchronized: filesystem events and the cron
// schedule both funnel into one request queue, so scans never overlap.
type daemon struct {
	cfg      *config.Config
	log      *slog.Logger
	cat      *catalog.Catalog
	scanner  *scanner.Scanner
	coord    *scrape.Coordinator // nil when no provider is configured
	requests chan config.DatasourceConfig
}

func runDaemon(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "config: %s\n", p)
		}
		return fmt.Errorf("invalid configuration")
	}

	logger := newLogger(cfg.Log)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	bus := events.NewBus(logger.With("component", "bus"))
	defer bus.Close()

	cat := catalog.New(catalog.NewStore(db), bus, logger.With("component", "catalog"))
	sink := events.LogSink{Logger: logger.With("component", "messages")}

	d := &daemon{
		cfg:      cfg,
		log:      logger.With("component", "daemon"),
		cat:      cat,
		scanner:  scanner.New(cat, cfg.Scanner, bus, sink, nil, logger),
		requests: make(chan config.DatasourceConfig, 16),
	}

	if cfg.Scraper.TMDB != nil && cfg.Scraper.TMDB.APIKey != "" {
		reg := provider.NewRegistry()
		client := tmdb.NewClient(cfg.Scraper.TMDB.APIKey, tmdb.WithLanguage(cfg.Scraper.Language))
		if err := reg.Register(tmdb.NewProvider(client, cfg.Scraper.Country)); err != nil {
			return fmt.Errorf("register provider: %w", err)
		}
		d.coord = scrape.NewCoordinator(cat, reg, scrape.OptionsFromConfig(cfg), bus, sink, logger)
	} else {
		logger.Warn("no metadata provider configured, scans will not scrape")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("daemon starting",
		"version", version,
		"database", cfg.Database.Path,
		"datasources", len(cfg.Datasources),
		"watcher", cfg.Watcher.Enabled,
		"schedule", cfg.Schedule.Rescan,
	)
	return d.run(ctx)
}

func (d *daemon) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return d.syncLoop(ctx) })

	if d.cfg.Watcher.Enabled {
		w, err := watcher.New(d.cfg.Datasources, d.cfg.Watcher, d.request, d.log)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	sched, err := scheduler.New(d.cfg.Schedule, d.cfg.Datasources, d.request, d.log)
	if err != nil {
		return err
	}
	g.Go(func() error { return sched.Run(ctx) })

	// Initial pass so a fresh daemon starts from a synchronized catalog.
	for _, ds := range d.cfg.Datasources {
		d.request(ds)
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		d.log.Info("daemon stopped")
		return nil
	}
	return err
}

// request enqueues a datasource sync. A full queue means a burst of
// triggers; dropping one is harmless because a queued scan already covers
// it.
func (d *daemon) request(ds config.DatasourceConfig) {
	select {
	case d.requests <- ds:
	default:
		d.log.Debug("sync queue full, dropping request", "datasource", ds.Root)
	}
}

func (d *daemon) syncLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ds := <-d.requests:
			d.sync(ctx, ds)
		}
	}
}

// sync scans one datasource and scrapes whatever the scan newly found.
func (d *daemon) sync(ctx context.Context, ds config.DatasourceConfig) {
	sum, err := d.scanner.Scan(ctx, ds, nil)
	if err != nil {
		d.log.Error("scan failed", "datasource", ds.Root, "error", err)
		return
	}
	if d.coord == nil || sum.UnitsNew == 0 {
		return
	}

	newlyAdded := true
	scraped := false
	units, _, err := d.cat.Store().ListUnits(catalog.UnitFilter{
		NewlyAdded: &newlyAdded,
		Scraped:    &scraped,
	})
	if err != nil {
		d.log.Error("list new units failed", "error", err)
		return
	}
	if len(units) == 0 {
		return
	}
	if _, err := d.coord.ScrapeAll(ctx, units, nil); err != nil {
		d.log.Error("scrape batch failed", "error", err)
	}
}
