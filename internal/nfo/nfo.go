// Package nfo reads and writes Kodi-compatible movie NFO sidecar files.
package nfo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/pkg/naming"
)

// ErrInvalid is returned when a file is neither a valid XML NFO nor a
// plain-text file carrying a recognizable provider id.
var ErrInvalid = errors.New("nfo: not a valid NFO file")

// Movie holds the metadata read from or written to a movie NFO.
type Movie struct {
	Title         string
	OriginalTitle string
	SortTitle     string
	Tagline       string
	Plot          string
	Year          int
	Premiered     string
	Runtime       int // minutes
	Rating        float64
	Votes         int
	Top250        int
	Certification string
	Genres        []string
	Studios       []string
	Directors     []string
	Writers       []string
	Actors        []catalog.Actor
	ExternalIDs   map[string]string
	TrailerURL    string
	SetName       string
	SetOverview   string
	Watched       bool
	PlayCount     int
}

// xmlMovie is the <movie> root element of a Kodi movie NFO. Legacy
// single-id elements are read for compatibility but never written.
type xmlMovie struct {
	XMLName       xml.Name      `xml:"movie"`
	Title         string        `xml:"title"`
	OriginalTitle string        `xml:"originaltitle,omitempty"`
	SortTitle     string        `xml:"sorttitle,omitempty"`
	Tagline       string        `xml:"tagline,omitempty"`
	Plot          string        `xml:"plot,omitempty"`
	Year          string        `xml:"year,omitempty"`
	Premiered     string        `xml:"premiered,omitempty"`
	Runtime       string        `xml:"runtime,omitempty"`
	Top250        string        `xml:"top250,omitempty"`
	MPAA          string        `xml:"mpaa,omitempty"`
	Genres        []string      `xml:"genre"`
	Studios       []string      `xml:"studio"`
	Directors     []string      `xml:"director"`
	Credits       []string      `xml:"credits"`
	Actors        []xmlActor    `xml:"actor"`
	UniqueIDs     []xmlUniqueID `xml:"uniqueid"`
	Ratings       *xmlRatings   `xml:"ratings,omitempty"`
	Set           *xmlSet       `xml:"set,omitempty"`
	Trailer       string        `xml:"trailer,omitempty"`
	Watched       string        `xml:"watched,omitempty"`
	PlayCount     string        `xml:"playcount,omitempty"`
	ID            string        `xml:"id,omitempty"`
	IMDBId        string        `xml:"imdbid,omitempty"`
	TMDBId        string        `xml:"tmdbid,omitempty"`
}

type xmlActor struct {
	Name  string `xml:"name"`
	Role  string `xml:"role,omitempty"`
	Thumb string `xml:"thumb,omitempty"`
	Order string `xml:"order,omitempty"`
}

type xmlUniqueID struct {
	Type    string `xml:"type,attr"`
	Default string `xml:"default,attr,omitempty"`
	Value   string `xml:",chardata"`
}

type xmlRatings struct {
	Ratings []xmlRating `xml:"rating"`
}

type xmlRating struct {
	Name  string  `xml:"name,attr"`
	Max   string  `xml:"max,attr"`
	Value float64 `xml:"value"`
	Votes int     `xml:"votes"`
}

type xmlSet struct {
	Name     string `xml:"name"`
	Overview string `xml:"overview,omitempty"`
}

// ReadFile parses an NFO file. Invalid XML falls back to scanning the raw
// text for an IMDB id, so URL-only NFO files still seed a provider id.
func ReadFile(path string) (*Movie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes NFO content. See ReadFile.
func Parse(data []byte) (*Movie, error) {
	var x xmlMovie
	if err := xml.Unmarshal(data, &x); err != nil || x.Title == "" {
		if id := naming.FindIMDBID(string(data)); id != "" {
			return &Movie{ExternalIDs: map[string]string{"imdb": id}}, nil
		}
		return nil, ErrInvalid
	}

	m := &Movie{
		Title:         x.Title,
		OriginalTitle: x.OriginalTitle,
		SortTitle:     x.SortTitle,
		Tagline:       x.Tagline,
		Plot:          x.Plot,
		Premiered:     x.Premiered,
		Certification: x.MPAA,
		Genres:        x.Genres,
		Studios:       x.Studios,
		Directors:     x.Directors,
		Writers:       x.Credits,
		TrailerURL:    x.Trailer,
		ExternalIDs:   make(map[string]string),
		Watched:       strings.EqualFold(strings.TrimSpace(x.Watched), "true"),
	}
	if y, err := strconv.Atoi(x.Year); err == nil {
		m.Year = y
	}
	if r, err := strconv.Atoi(x.Runtime); err == nil {
		m.Runtime = r
	}
	if t, err := strconv.Atoi(x.Top250); err == nil {
		m.Top250 = t
	}
	if c, err := strconv.Atoi(x.PlayCount); err == nil {
		m.PlayCount = c
	}

	for _, a := range x.Actors {
		m.Actors = append(m.Actors, catalog.Actor{Name: a.Name, Role: a.Role, Thumb: a.Thumb})
	}

	for _, uid := range x.UniqueIDs {
		v := strings.TrimSpace(uid.Value)
		if uid.Type != "" && v != "" {
			m.ExternalIDs[uid.Type] = v
		}
	}
	// legacy single-id elements
	if m.ExternalIDs["imdb"] == "" {
		switch {
		case x.IMDBId != "":
			m.ExternalIDs["imdb"] = x.IMDBId
		case strings.HasPrefix(x.ID, "tt"):
			m.ExternalIDs["imdb"] = x.ID
		}
	}
	if m.ExternalIDs["tmdb"] == "" && x.TMDBId != "" {
		m.ExternalIDs["tmdb"] = x.TMDBId
	}

	if x.Ratings != nil {
		for _, r := range x.Ratings.Ratings {
			if r.Name == "default" || m.Rating == 0 {
				m.Rating = r.Value
				m.Votes = r.Votes
			}
		}
	}

	if x.Set != nil {
		m.SetName = x.Set.Name
		m.SetOverview = x.Set.Overview
	}
	return m, nil
}

// ApplyTo seeds a unit with the NFO's metadata. Only non-zero NFO fields
// overwrite the unit.
func (m *Movie) ApplyTo(u *catalog.Unit) {
	if m.Title != "" {
		u.Title = m.Title
	}
	if m.OriginalTitle != "" {
		u.OriginalTitle = m.OriginalTitle
	}
	if m.Tagline != "" {
		u.Tagline = m.Tagline
	}
	if m.Plot != "" {
		u.Plot = m.Plot
	}
	if m.Year != 0 {
		u.Year = m.Year
	}
	if m.Premiered != "" {
		u.ReleaseDate = m.Premiered
	}
	if m.Runtime != 0 {
		u.Runtime = m.Runtime
	}
	if m.Rating != 0 {
		u.Rating = m.Rating
		u.Votes = m.Votes
	}
	if m.Top250 != 0 {
		u.Top250 = m.Top250
	}
	if m.Certification != "" {
		u.Certification = m.Certification
	}
	if len(m.Genres) > 0 {
		u.Genres = m.Genres
	}
	if len(m.Actors) > 0 {
		u.Actors = m.Actors
	}
	if len(m.Directors) > 0 {
		u.Directors = strings.Join(m.Directors, ", ")
	}
	if len(m.Writers) > 0 {
		u.Writers = strings.Join(m.Writers, ", ")
	}
	for provider, id := range m.ExternalIDs {
		u.SetExternalID(provider, id)
	}
	if m.TrailerURL != "" {
		u.Trailers = append(u.Trailers, catalog.Trailer{
			Name:     "Trailer",
			URL:      m.TrailerURL,
			Provider: "nfo",
			InNFO:    true,
		})
	}
}

// FromUnit builds the NFO representation of a unit. The set, when not
// nil, is written as the Kodi <set> element.
func FromUnit(u *catalog.Unit, set *catalog.Set) *Movie {
	m := &Movie{
		Title:         u.Title,
		OriginalTitle: u.OriginalTitle,
		Tagline:       u.Tagline,
		Plot:          u.Plot,
		Year:          u.Year,
		Premiered:     u.ReleaseDate,
		Runtime:       u.Runtime,
		Rating:        u.Rating,
		Votes:         u.Votes,
		Top250:        u.Top250,
		Certification: u.Certification,
		Genres:        u.Genres,
		Actors:        u.Actors,
		ExternalIDs:   u.ExternalIDs,
	}
	if u.Directors != "" {
		m.Directors = splitNames(u.Directors)
	}
	if u.Writers != "" {
		m.Writers = splitNames(u.Writers)
	}
	for _, t := range u.Trailers {
		if t.InNFO {
			m.TrailerURL = t.URL
			break
		}
	}
	if set != nil {
		m.SetName = set.Title
		m.SetOverview = set.Plot
	}
	return m
}

func splitNames(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// WriteFile writes the movie as a Kodi NFO to path.
func (m *Movie) WriteFile(path string) error {
	x := xmlMovie{
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		SortTitle:     m.SortTitle,
		Tagline:       m.Tagline,
		Plot:          m.Plot,
		Premiered:     m.Premiered,
		MPAA:          m.Certification,
		Genres:        m.Genres,
		Studios:       m.Studios,
		Directors:     m.Directors,
		Credits:       m.Writers,
		Trailer:       m.TrailerURL,
	}
	if m.Year != 0 {
		x.Year = strconv.Itoa(m.Year)
	}
	if m.Runtime != 0 {
		x.Runtime = strconv.Itoa(m.Runtime)
	}
	if m.Top250 != 0 {
		x.Top250 = strconv.Itoa(m.Top250)
	}
	for i, a := range m.Actors {
		x.Actors = append(x.Actors, xmlActor{
			Name: a.Name, Role: a.Role, Thumb: a.Thumb, Order: strconv.Itoa(i),
		})
	}
	for _, provider := range orderedProviders(m.ExternalIDs) {
		uid := xmlUniqueID{Type: provider, Value: m.ExternalIDs[provider]}
		if provider == "imdb" {
			uid.Default = "true"
		}
		x.UniqueIDs = append(x.UniqueIDs, uid)
	}
	if m.Rating != 0 {
		x.Ratings = &xmlRatings{Ratings: []xmlRating{
			{Name: "default", Max: "10", Value: m.Rating, Votes: m.Votes},
		}}
	}
	if m.SetName != "" {
		x.Set = &xmlSet{Name: m.SetName, Overview: m.SetOverview}
	}

	data, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal nfo: %w", err)
	}
	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write nfo: %w", err)
	}
	return nil
}

// SidecarPath returns the NFO path paired with a video file, replacing
// its extension.
func SidecarPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".nfo"
}

// Find locates the NFO for a video file: <video>.nfo first, then
// movie.nfo in the same directory. Returns "" when neither exists.
func Find(videoPath string) string {
	p := SidecarPath(videoPath)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	p = filepath.Join(filepath.Dir(videoPath), "movie.nfo")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func orderedProviders(ids map[string]string) []string {
	// imdb and tmdb lead, the rest alphabetically
	var out []string
	for _, p := range []string{"imdb", "tmdb"} {
		if ids[p] != "" {
			out = append(out, p)
		}
	}
	var rest []string
	for p, v := range ids {
		if p != "imdb" && p != "tmdb" && v != "" {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
