// Package catalog manages the collection of media units, their files, and
// sets.
package catalog

import (
	"path/filepath"
	"time"

	"github.com/mediarr/mediarr/pkg/mediafile"
)

// Unit represents one logical piece of content tracked by the catalog.
// Set membership is a weak reference: the unit stores SetID only, and the
// set is resolved through the catalog.
type Unit struct {
	ID            int64
	Title         string
	OriginalTitle string
	Tagline       string
	Plot          string
	Year          int
	ReleaseDate   string
	Rating        float64
	Votes         int
	Top250        int
	Runtime       int // minutes
	Certification string
	Genres        []string
	Actors        []Actor
	Directors     string // concatenated, "a, b"
	Writers       string
	Producers     string
	Artwork       map[string]string // kind -> remote url
	Trailers      []Trailer
	Datasource    string
	Path          string
	SetID         *int64
	ExternalIDs   map[string]string // provider -> id, e.g. "imdb" -> "tt0137523"
	Files         []*File
	Scraped       bool
	NewlyAdded    bool
	MultiDir      bool
	Disc          bool
	AddedAt       time.Time
	UpdatedAt     time.Time
}

// Actor is one cast member.
type Actor struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Thumb string `json:"thumb,omitempty"`
}

// Trailer references one trailer, local or remote. At most one trailer of
// a unit carries InNFO.
type Trailer struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Quality  string `json:"quality,omitempty"`
	Source   string `json:"source,omitempty"`
	Provider string `json:"provider"`
	InNFO    bool   `json:"in_nfo"`
}

// File is one on-disk file owned by a unit. Identity is the path; the
// kind never changes for a given path.
type File struct {
	ID         int64
	UnitID     int64
	Path       string
	Kind       mediafile.Kind
	Basename   string // stacking markers stripped, no extension
	Disc       bool
	SizeBytes  int64
	Container  string
	VideoCodec string
	AudioCodec string
	AddedAt    time.Time
}

// Filename returns the file's base name.
func (f *File) Filename() string { return filepath.Base(f.Path) }

// Set groups units under a shared title and optional external collection
// id.
type Set struct {
	ID           int64
	Title        string
	CollectionID string
	Plot         string
	PosterURL    string
	FanartURL    string
	AddedAt      time.Time
	UpdatedAt    time.Time
}

// ExternalID returns the unit's id for a provider namespace, or "".
func (u *Unit) ExternalID(provider string) string {
	return u.ExternalIDs[provider]
}

// SetExternalID records an id in a provider namespace.
func (u *Unit) SetExternalID(provider, id string) {
	if u.ExternalIDs == nil {
		u.ExternalIDs = make(map[string]string)
	}
	u.ExternalIDs[provider] = id
}

// IsScraped reports whether the unit has metadata, either because a
// scrape pass marked it or inferred from a minimum fill: non-empty plot,
// valid year, at least one genre and one cast member.
func (u *Unit) IsScraped() bool {
	if u.Scraped {
		return true
	}
	return u.Plot != "" && u.Year > 0 && len(u.Genres) > 0 && len(u.Actors) > 0
}

// VideoFiles returns the unit's files of kind video, in stored order.
func (u *Unit) VideoFiles() []*File {
	var out []*File
	for _, f := range u.Files {
		if f.Kind == mediafile.KindVideo {
			out = append(out, f)
		}
	}
	return out
}

// MainVideo returns the unit's first video file, or nil.
func (u *Unit) MainVideo() *File {
	for _, f := range u.Files {
		if f.Kind == mediafile.KindVideo {
			return f
		}
	}
	return nil
}

// HasFile reports whether the unit already owns the given path.
func (u *Unit) HasFile(path string) bool {
	for _, f := range u.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}
