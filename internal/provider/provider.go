// Package provider defines the metadata provider contract and the
// registry that orders providers for fallback.
package provider

import (
	"context"
	"errors"
)

// ErrTransient marks a provider failure worth retrying or falling back
// on. Permanent failures (bad api key, malformed request) are returned
// as-is.
var ErrTransient = errors.New("provider: transient failure")

// ErrNoResult is returned by Fetch operations when the provider has no
// record for the given id.
var ErrNoResult = errors.New("provider: no result")

// Query specifies what to look up.
type Query struct {
	Title    string
	Year     int // 0 when unknown
	Language string
	Country  string
	// IDs short-circuits the title search when the provider recognizes
	// one of the namespaces.
	IDs map[string]string
}

// Candidate is one search result with its match confidence.
type Candidate struct {
	Provider string
	ID       string
	Title    string
	Year     int
	Score    float64 // [0,1]
}

// Metadata is the full record fetched for an accepted candidate.
type Metadata struct {
	Title         string
	OriginalTitle string
	Tagline       string
	Plot          string
	Year          int
	ReleaseDate   string
	Runtime       int
	Rating        float64
	Votes         int
	Top250        int
	Certification string
	Genres        []string
	Actors        []Person
	Directors     []string
	Writers       []string
	Producers     []string
	ExternalIDs   map[string]string
	CollectionID  string
	SetTitle      string
}

// Person is one credited cast or crew member.
type Person struct {
	Name  string
	Role  string
	Thumb string
}

// Image is one artwork option.
type Image struct {
	Kind   string // poster, fanart, thumb
	URL    string
	Width  int
	Height int
}

// Trailer is one trailer option.
type Trailer struct {
	Name    string
	URL     string
	Quality string // e.g. 1080p
	Source  string // e.g. youtube
}

// SetInfo describes a collection a unit belongs to.
type SetInfo struct {
	CollectionID string
	Title        string
	Overview     string
	PosterURL    string
	FanartURL    string
}

// Provider searches and fetches movie metadata. Implementations must be
// safe for concurrent use.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Candidate, error)
	FetchMetadata(ctx context.Context, id string) (*Metadata, error)
}

// ArtworkProvider is implemented by providers that serve artwork.
type ArtworkProvider interface {
	FetchArtwork(ctx context.Context, id string) ([]Image, error)
}

// TrailerProvider is implemented by providers that serve trailers.
type TrailerProvider interface {
	FetchTrailers(ctx context.Context, id string) ([]Trailer, error)
}

// SetProvider is implemented by providers that resolve collections.
type SetProvider interface {
	FetchSetInfo(ctx context.Context, collectionID string) (*SetInfo, error)
}
