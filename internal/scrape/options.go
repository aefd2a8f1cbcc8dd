package scrape

import "github.com/mediarr/mediarr/internal/config"

// FieldGates controls which metadata field groups a scrape overwrites.
type FieldGates struct {
	Title      bool
	Plot       bool
	Rating     bool
	Cast       bool
	Genres     bool
	Collection bool
	Artwork    bool
	Trailer    bool
}

// AllFields enables every gate.
func AllFields() FieldGates {
	return FieldGates{
		Title: true, Plot: true, Rating: true, Cast: true,
		Genres: true, Collection: true, Artwork: true, Trailer: true,
	}
}

// ArtworkOptions controls artwork selection.
type ArtworkOptions struct {
	PosterSize     int // preferred width in px
	FanartSize     int
	MaxExtraThumbs int
	MaxExtraFanart int
}

// TrailerOptions controls trailer selection.
type TrailerOptions struct {
	Quality string // e.g. "1080p"
	Source  string // e.g. "youtube"
}

// Options holds the settings of one scrape run. Treat a value as
// immutable once handed to a Coordinator; concurrent workers read it
// without locking.
type Options struct {
	Provider  string
	Language  string
	Country   string
	Threshold float64
	Fallback  bool
	// TrustIDs skips the title search for units that already carry an
	// external id the provider recognizes.
	TrustIDs bool
	Workers  int
	WriteNFO bool
	Fields   FieldGates
	Artwork  ArtworkOptions
	Trailer  TrailerOptions
}

// DefaultOptions returns the stock scrape settings.
func DefaultOptions() Options {
	return Options{
		Provider:  "tmdb",
		Language:  "en",
		Country:   "US",
		Threshold: 0.75,
		Fallback:  true,
		Workers:   3,
		WriteNFO:  true,
		Fields:    AllFields(),
		Artwork: ArtworkOptions{
			PosterSize:     1000,
			FanartSize:     1920,
			MaxExtraThumbs: 5,
			MaxExtraFanart: 5,
		},
		Trailer: TrailerOptions{Quality: "1080p", Source: "youtube"},
	}
}

// OptionsFromConfig builds scrape options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	o := DefaultOptions()
	if cfg.Scraper.Provider != "" {
		o.Provider = cfg.Scraper.Provider
	}
	if cfg.Scraper.Language != "" {
		o.Language = cfg.Scraper.Language
	}
	if cfg.Scraper.Country != "" {
		o.Country = cfg.Scraper.Country
	}
	if cfg.Scraper.Threshold > 0 {
		o.Threshold = cfg.Scraper.Threshold
	}
	o.Fallback = cfg.Scraper.Fallback
	o.TrustIDs = cfg.Scraper.TrustIDs
	if cfg.Scraper.Workers > 0 {
		o.Workers = cfg.Scraper.Workers
	}
	o.Fields = FieldGates{
		Title:      cfg.NFO.Title,
		Plot:       cfg.NFO.Plot,
		Rating:     cfg.NFO.Rating,
		Cast:       cfg.NFO.Cast,
		Genres:     cfg.NFO.Genres,
		Collection: cfg.NFO.Collection,
		Artwork:    cfg.NFO.Artwork,
		Trailer:    cfg.NFO.Trailer,
	}
	o.Artwork = ArtworkOptions{
		PosterSize:     cfg.Artwork.PosterSize,
		FanartSize:     cfg.Artwork.FanartSize,
		MaxExtraThumbs: cfg.Artwork.MaxExtraThumbs,
		MaxExtraFanart: cfg.Artwork.MaxExtraFanart,
	}
	o.Trailer = TrailerOptions{Quality: cfg.Trailer.Quality, Source: cfg.Trailer.Source}
	return o
}
