// Package scanner walks datasource roots, discovers media units, and
// reconciles the catalog against what is actually on disk.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/config"
	"github.com/mediarr/mediarr/internal/events"
	"github.com/mediarr/mediarr/pkg/mediafile"
)

// Prober receives video files that still lack container information, for
// asynchronous technical-metadata extraction.
type Prober interface {
	Queue(ctx context.Context, files []*catalog.File)
}

// Scanner runs datasource update passes.
type Scanner struct {
	catalog *catalog.Catalog
	cfg     config.ScannerConfig
	bus     *events.Bus
	sink    events.Sink
	prober  Prober
	log     *slog.Logger
}

// New creates a scanner. The bus and prober may be nil; a nil sink logs
// messages instead.
func New(cat *catalog.Catalog, cfg config.ScannerConfig, bus *events.Bus, sink events.Sink, prober Prober, log *slog.Logger) *Scanner {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.LogSink{Logger: log}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if len(cfg.SkipFolders) == 0 {
		cfg.SkipFolders = config.DefaultSkipFolders
	}
	return &Scanner{
		catalog: cat,
		cfg:     cfg,
		bus:     bus,
		sink:    sink,
		prober:  prober,
		log:     log.With("component", "scanner"),
	}
}

// Summary is the outcome of one datasource pass.
type Summary struct {
	PassID     string
	UnitsFound int
	UnitsNew   int
	Removed    int
}

func (s *Scanner) publish(e events.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *Scanner) report(sev events.Severity, subject, key string, args ...any) {
	s.sink.Report(events.Message{Severity: sev, Subject: subject, Key: key, Args: args})
}

// Scan runs one update pass over a datasource. An unreadable root is a
// configuration error returned to the caller; failures inside individual
// unit roots are reported and skipped.
func (s *Scanner) Scan(ctx context.Context, ds config.DatasourceConfig, progress events.Progress) (*Summary, error) {
	if progress == nil {
		progress = events.NopProgress
	}
	root := filepath.Clean(ds.Root)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		s.report(events.SeverityError, root, "scan.datasource_unreadable")
		return nil, fmt.Errorf("datasource root %s not readable: %w", root, err)
	}

	passID := uuid.NewString()
	s.log.Info("scan started", "pass", passID, "datasource", root)
	s.publish(events.ScanStarted{
		BaseEvent:  events.NewBaseEvent(events.TypeScanStarted, "datasource", 0),
		PassID:     passID,
		Datasource: root,
	})

	// The flag marks units of the most recent pass only, so the previous
	// pass's marks are dropped before new ones are set.
	if err := s.catalog.Store().ClearNewlyAdded(root); err != nil {
		return nil, fmt.Errorf("clear newly added: %w", err)
	}

	candidates, err := s.triageRoot(root)
	if err != nil {
		return nil, err
	}

	roots := s.discoverUnitRoots(root, candidates)

	obs := newObserved()
	sum := &Summary{PassID: passID}

	// Multi-dir detection relies on catalog-by-path lookups that become
	// racy when two workers share a directory, so it runs serialized.
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.DetectMultiDir {
		g.SetLimit(1)
	} else {
		g.SetLimit(s.cfg.Workers)
	}

	total := len(roots)
	for i, unitRoot := range roots {
		i, unitRoot := i, unitRoot
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			progress(i+1, total, unitRoot)
			found, created, err := s.processUnitRoot(root, unitRoot, obs)
			if err != nil {
				s.log.Warn("unit root failed", "path", unitRoot, "error", err)
				s.report(events.SeverityWarning, unitRoot, "scan.unit_failed", err.Error())
				return nil
			}
			obs.addCounts(found, created)
			return nil
		})
	}
	err = g.Wait()

	// Cancellation still reconciles and reports what was completed.
	sum.UnitsFound, sum.UnitsNew = obs.counts()
	removed, rerr := s.reconcile(root, obs)
	if rerr != nil {
		s.log.Error("reconciliation failed", "datasource", root, "error", rerr)
	}
	sum.Removed = removed

	if s.prober != nil {
		pending, perr := s.catalog.Store().FilesMissingContainer(root)
		if perr != nil {
			s.log.Error("probe lookup failed", "datasource", root, "error", perr)
		} else if len(pending) > 0 {
			s.prober.Queue(ctx, pending)
		}
	}

	s.publish(events.ScanFinished{
		BaseEvent:  events.NewBaseEvent(events.TypeScanFinished, "datasource", 0),
		PassID:     passID,
		Datasource: root,
		UnitsFound: sum.UnitsFound,
		UnitsNew:   sum.UnitsNew,
		Removed:    sum.Removed,
	})
	s.log.Info("scan finished", "pass", passID,
		"found", sum.UnitsFound, "new", sum.UnitsNew, "removed", sum.Removed)

	if err != nil {
		return sum, err
	}
	return sum, nil
}

// triageRoot lists the immediate children of a datasource root. Non-skipped
// subdirectories become candidate unit roots. Loose video files directly in
// the root make the root itself a candidate when multi-dir detection is on,
// and are a configuration error otherwise.
func (s *Scanner) triageRoot(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("list datasource root: %w", err)
	}

	var candidates []string
	looseVideo := false
	for _, e := range entries {
		if e.IsDir() {
			if s.skipDir(e.Name()) {
				continue
			}
			candidates = append(candidates, filepath.Join(root, e.Name()))
			continue
		}
		if mediafile.Classify(e.Name()) == mediafile.KindVideo {
			looseVideo = true
		}
	}

	if looseVideo {
		if s.cfg.DetectMultiDir {
			candidates = append(candidates, root)
		} else {
			s.report(events.SeverityError, root, "scan.loose_video_in_root")
		}
	}
	return candidates, nil
}

func (s *Scanner) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	lower := strings.ToLower(name)
	for _, skip := range s.cfg.SkipFolders {
		if lower == strings.ToLower(skip) {
			return true
		}
	}
	return false
}
