package scrape

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/events"
	"github.com/mediarr/mediarr/internal/nfo"
	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/pkg/mediafile"
)

// Coordinator runs scrape batches: resolve a match, fetch metadata,
// apply it, maintain set membership, pick artwork and trailers, persist,
// and write the NFO sidecar. Per-unit problems become messages and
// counters, never batch failures.
type Coordinator struct {
	catalog  *catalog.Catalog
	resolver *Resolver
	opts     Options
	bus      *events.Bus
	sink     events.Sink
	log      *slog.Logger
}

// NewCoordinator creates a scrape coordinator.
func NewCoordinator(cat *catalog.Catalog, registry *provider.Registry, opts Options, bus *events.Bus, sink events.Sink, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	if sink == nil {
		sink = events.LogSink{Logger: log}
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultOptions().Workers
	}
	return &Coordinator{
		catalog:  cat,
		resolver: NewResolver(registry, opts, log),
		opts:     opts,
		bus:      bus,
		sink:     sink,
		log:      log.With("component", "scrape"),
	}
}

// Summary reports the outcome of one scrape batch.
type Summary struct {
	BatchID   string
	Scraped   int
	Rejected  int
	Failed    int
	Cancelled bool
}

// ScrapeAll processes the units with a bounded worker pool. Cancellation
// via ctx stops dispatching; units already in flight finish.
func (c *Coordinator) ScrapeAll(ctx context.Context, units []*catalog.Unit, progress events.Progress) (*Summary, error) {
	if progress == nil {
		progress = events.NopProgress
	}
	batchID := uuid.NewString()
	c.log.Info("scrape batch started", "batch", batchID, "units", len(units))
	c.publish(events.ScrapeStarted{
		BaseEvent: events.NewBaseEvent(events.TypeScrapeStarted, "batch", 0),
		BatchID:   batchID,
		Units:     len(units),
	})

	var scraped, rejected, failed, done atomic.Int64
	cancelled := false

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for _, u := range units {
		if gctx.Err() != nil {
			cancelled = true
			break
		}
		u := u
		g.Go(func() error {
			switch c.scrapeOne(gctx, u) {
			case outcomeScraped:
				scraped.Add(1)
			case outcomeRejected:
				rejected.Add(1)
			case outcomeFailed:
				failed.Add(1)
			}
			progress(int(done.Add(1)), len(units), u.Title)
			return nil
		})
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		cancelled = true
	}

	s := &Summary{
		BatchID:   batchID,
		Scraped:   int(scraped.Load()),
		Rejected:  int(rejected.Load()),
		Failed:    int(failed.Load()),
		Cancelled: cancelled,
	}
	c.log.Info("scrape batch finished", "batch", batchID,
		"scraped", s.Scraped, "rejected", s.Rejected, "failed", s.Failed, "cancelled", s.Cancelled)
	c.publish(events.ScrapeFinished{
		BaseEvent: events.NewBaseEvent(events.TypeScrapeFinished, "batch", 0),
		BatchID:   batchID,
		Scraped:   s.Scraped,
		Rejected:  s.Rejected,
		Failed:    s.Failed,
		Cancelled: s.Cancelled,
	})
	return s, nil
}

type outcome int

const (
	outcomeScraped outcome = iota
	outcomeRejected
	outcomeFailed
)

func (c *Coordinator) scrapeOne(ctx context.Context, u *catalog.Unit) outcome {
	q := provider.Query{
		Title:    u.Title,
		Year:     u.Year,
		Language: c.opts.Language,
		Country:  c.opts.Country,
		IDs:      u.ExternalIDs,
	}

	match, err := c.resolver.Resolve(ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoMatch), errors.Is(err, ErrAmbiguous), errors.Is(err, ErrBelowThreshold):
			c.report(events.SeverityWarning, u.Path, "scrape.rejected", err.Error())
			return outcomeRejected
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return outcomeFailed
		default:
			c.report(events.SeverityError, u.Path, "scrape.failed", err.Error())
			return outcomeFailed
		}
	}

	md, err := match.Provider.FetchMetadata(ctx, match.Candidate.ID)
	if err != nil {
		c.report(events.SeverityError, u.Path, "scrape.metadata_failed", err.Error())
		return outcomeFailed
	}

	applyMetadata(u, md, c.opts.Fields)

	var set *catalog.Set
	if c.opts.Fields.Collection && md.CollectionID != "" {
		set = c.applySet(ctx, u, match.Provider, md)
	}

	if c.opts.Fields.Artwork {
		c.applyArtwork(ctx, u, match.Provider, match.Candidate.ID)
	}
	if c.opts.Fields.Trailer {
		c.applyTrailers(ctx, u, match.Provider, match.Candidate.ID)
	}

	u.Scraped = true
	if err := c.catalog.Persist(u); err != nil {
		c.report(events.SeverityError, u.Path, "scrape.persist_failed", err.Error())
		return outcomeFailed
	}

	if c.opts.WriteNFO {
		c.writeNFO(u, set)
	}
	return outcomeScraped
}

// applyMetadata copies the fetched record onto the unit, honoring the
// field gates. Identity fields (year, ids, runtime, certification) are
// always taken.
func applyMetadata(u *catalog.Unit, md *provider.Metadata, gates FieldGates) {
	if gates.Title {
		if md.Title != "" {
			u.Title = md.Title
		}
		if md.OriginalTitle != "" {
			u.OriginalTitle = md.OriginalTitle
		}
		if md.Tagline != "" {
			u.Tagline = md.Tagline
		}
	}
	if gates.Plot && md.Plot != "" {
		u.Plot = md.Plot
	}
	if gates.Rating {
		u.Rating = md.Rating
		u.Votes = md.Votes
		if md.Top250 > 0 {
			u.Top250 = md.Top250
		}
	}
	if gates.Cast {
		u.Actors = u.Actors[:0]
		for _, p := range md.Actors {
			u.Actors = append(u.Actors, catalog.Actor{Name: p.Name, Role: p.Role, Thumb: p.Thumb})
		}
		u.Directors = strings.Join(md.Directors, ", ")
		u.Writers = strings.Join(md.Writers, ", ")
		u.Producers = strings.Join(md.Producers, ", ")
	}
	if gates.Genres {
		u.Genres = md.Genres
	}

	if md.Year > 0 {
		u.Year = md.Year
	}
	if md.ReleaseDate != "" {
		u.ReleaseDate = md.ReleaseDate
	}
	if md.Runtime > 0 {
		u.Runtime = md.Runtime
	}
	if md.Certification != "" {
		u.Certification = md.Certification
	}
	for p, id := range md.ExternalIDs {
		u.SetExternalID(p, id)
	}
}

// applySet resolves the unit's collection and attaches membership. Set
// lookups are best effort; a failed fetch still creates the set from the
// metadata's collection name.
func (c *Coordinator) applySet(ctx context.Context, u *catalog.Unit, p provider.Provider, md *provider.Metadata) *catalog.Set {
	title := md.SetTitle
	var info *provider.SetInfo
	if sp, ok := p.(provider.SetProvider); ok {
		var err error
		info, err = sp.FetchSetInfo(ctx, md.CollectionID)
		if err != nil {
			c.log.Warn("set info fetch failed", "collection", md.CollectionID, "error", err)
		} else if info.Title != "" {
			title = info.Title
		}
	}
	if title == "" {
		return nil
	}

	set, err := c.catalog.GetOrCreateSet(md.CollectionID, title)
	if err != nil {
		c.report(events.SeverityError, u.Path, "scrape.set_failed", err.Error())
		return nil
	}
	if info != nil && (set.Plot != info.Overview || set.PosterURL != info.PosterURL || set.FanartURL != info.FanartURL) {
		set.Plot = info.Overview
		set.PosterURL = info.PosterURL
		set.FanartURL = info.FanartURL
		if err := c.catalog.Store().UpdateSet(set); err != nil {
			c.log.Warn("set update failed", "set", set.ID, "error", err)
		}
	}
	if err := c.catalog.AttachToSet(u, set); err != nil {
		c.report(events.SeverityError, u.Path, "scrape.set_failed", err.Error())
	}
	return set
}

func (c *Coordinator) applyArtwork(ctx context.Context, u *catalog.Unit, p provider.Provider, id string) {
	ap, ok := p.(provider.ArtworkProvider)
	if !ok {
		return
	}
	images, err := ap.FetchArtwork(ctx, id)
	if err != nil {
		c.report(events.SeverityWarning, u.Path, "scrape.artwork_failed", err.Error())
		return
	}
	sel := SelectArtwork(images, c.opts.Artwork, u.MultiDir)
	if u.Artwork == nil {
		u.Artwork = make(map[string]string)
	}
	if sel.Poster != "" {
		u.Artwork["poster"] = sel.Poster
	}
	if sel.Fanart != "" {
		u.Artwork["fanart"] = sel.Fanart
	}
	for i, url := range sel.ExtraFanart {
		u.Artwork[extraKey("extrafanart", i)] = url
	}
	for i, url := range sel.ExtraThumbs {
		u.Artwork[extraKey("extrathumb", i)] = url
	}
}

func (c *Coordinator) applyTrailers(ctx context.Context, u *catalog.Unit, p provider.Provider, id string) {
	tp, ok := p.(provider.TrailerProvider)
	if !ok {
		return
	}
	trailers, err := tp.FetchTrailers(ctx, id)
	if err != nil {
		c.report(events.SeverityWarning, u.Path, "scrape.trailer_failed", err.Error())
		return
	}
	u.Trailers = SelectTrailers(u.Trailers, trailers, c.opts.Trailer)
}

func (c *Coordinator) writeNFO(u *catalog.Unit, set *catalog.Set) {
	main := u.MainVideo()
	if main == nil {
		return
	}
	path := nfo.SidecarPath(main.Path)
	if err := nfo.FromUnit(u, set).WriteFile(path); err != nil {
		c.report(events.SeverityError, u.Path, "scrape.nfo_failed", err.Error())
		return
	}
	if !u.HasFile(path) {
		f := &catalog.File{Path: path, Kind: mediafile.KindNFO, Basename: main.Basename}
		if err := c.catalog.AddFileToUnit(u, f); err != nil {
			c.log.Warn("nfo file record failed", "path", path, "error", err)
		}
	}
}

func (c *Coordinator) publish(e events.Event) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}

func (c *Coordinator) report(sev events.Severity, subject, key string, args ...any) {
	c.sink.Report(events.Message{Severity: sev, Subject: subject, Key: key, Args: args})
}

func extraKey(prefix string, i int) string {
	return prefix + "." + strconv.Itoa(i)
}
