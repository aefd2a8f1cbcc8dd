package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/hbollon/go-edlib"

	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/pkg/naming"
)

// Provider adapts the TMDB client to the metadata provider contract.
type Provider struct {
	client  *Client
	country string
}

// NewProvider creates the TMDB provider. Country selects which
// certification to report (e.g. "US").
func NewProvider(client *Client, country string) *Provider {
	if country == "" {
		country = "US"
	}
	return &Provider{client: client, country: country}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return "tmdb" }

// Search implements provider.Provider. A known TMDB or IMDB id
// short-circuits the title search and returns a single full-confidence
// candidate.
func (p *Provider) Search(ctx context.Context, q provider.Query) ([]provider.Candidate, error) {
	if id := q.IDs["tmdb"]; id != "" {
		d, err := p.client.movie(ctx, id)
		if err != nil {
			return nil, p.wrapErr(err)
		}
		return []provider.Candidate{{
			Provider: p.Name(), ID: id, Title: d.Title, Year: d.year(), Score: 1.0,
		}}, nil
	}

	var (
		results []searchResult
		err     error
	)
	if imdbID := q.IDs["imdb"]; imdbID != "" {
		results, err = p.client.findByIMDB(ctx, imdbID)
		if err == nil && len(results) > 0 {
			// id lookups are exact
			r := results[0]
			return []provider.Candidate{{
				Provider: p.Name(), ID: strconv.FormatInt(r.ID, 10),
				Title: r.Title, Year: r.year(), Score: 1.0,
			}}, nil
		}
	}

	results, err = p.client.searchMovie(ctx, q.Title, q.Year)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	// a year-constrained search with no hits gets one retry without the
	// year, parsed years are wrong often enough
	if len(results) == 0 && q.Year > 0 {
		results, err = p.client.searchMovie(ctx, q.Title, 0)
		if err != nil {
			return nil, p.wrapErr(err)
		}
	}

	candidates := make([]provider.Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, provider.Candidate{
			Provider: p.Name(),
			ID:       strconv.FormatInt(r.ID, 10),
			Title:    r.Title,
			Year:     r.year(),
			Score:    scoreCandidate(q, r),
		})
	}
	return candidates, nil
}

// scoreCandidate rates a search result against the query using
// Jaro-Winkler similarity over normalized titles, nudged by year
// agreement.
func scoreCandidate(q provider.Query, r searchResult) float64 {
	norm := naming.NormalizeForMatch(q.Title)
	score := float64(edlib.JaroWinklerSimilarity(norm, naming.NormalizeForMatch(r.Title)))
	if r.OriginalTitle != "" && r.OriginalTitle != r.Title {
		alt := float64(edlib.JaroWinklerSimilarity(norm, naming.NormalizeForMatch(r.OriginalTitle)))
		if alt > score {
			score = alt
		}
	}

	if q.Year > 0 && r.year() > 0 {
		diff := q.Year - r.year()
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			score += 0.05
		case diff == 1:
			// release vs production year, no adjustment
		default:
			score -= 0.1
		}
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

// FetchMetadata implements provider.Provider.
func (p *Provider) FetchMetadata(ctx context.Context, id string) (*provider.Metadata, error) {
	d, err := p.client.movie(ctx, id)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	m := &provider.Metadata{
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Tagline:       d.Tagline,
		Plot:          d.Overview,
		Year:          d.year(),
		ReleaseDate:   d.ReleaseDate,
		Runtime:       d.Runtime,
		Rating:        d.VoteAverage,
		Votes:         d.VoteCount,
		Certification: d.certification(p.country),
		ExternalIDs:   map[string]string{"tmdb": strconv.FormatInt(d.ID, 10)},
	}
	if d.IMDBID != "" {
		m.ExternalIDs["imdb"] = d.IMDBID
	}
	for _, g := range d.Genres {
		m.Genres = append(m.Genres, g.Name)
	}
	if d.Credits != nil {
		for _, c := range d.Credits.Cast {
			m.Actors = append(m.Actors, provider.Person{
				Name: c.Name, Role: c.Character, Thumb: imageURL(c.ProfilePath),
			})
		}
		for _, c := range d.Credits.Crew {
			switch c.Job {
			case "Director":
				m.Directors = append(m.Directors, c.Name)
			case "Screenplay", "Writer", "Story":
				m.Writers = append(m.Writers, c.Name)
			case "Producer", "Executive Producer":
				m.Producers = append(m.Producers, c.Name)
			}
		}
	}
	if d.BelongsToCollection != nil {
		m.CollectionID = strconv.FormatInt(d.BelongsToCollection.ID, 10)
		m.SetTitle = d.BelongsToCollection.Name
	}
	return m, nil
}

// FetchArtwork implements provider.ArtworkProvider.
func (p *Provider) FetchArtwork(ctx context.Context, id string) ([]provider.Image, error) {
	resp, err := p.client.movieImages(ctx, id)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	var out []provider.Image
	for _, img := range resp.Posters {
		out = append(out, provider.Image{
			Kind: "poster", URL: imageURL(img.FilePath), Width: img.Width, Height: img.Height,
		})
	}
	for _, img := range resp.Backdrops {
		out = append(out, provider.Image{
			Kind: "fanart", URL: imageURL(img.FilePath), Width: img.Width, Height: img.Height,
		})
	}
	return out, nil
}

// FetchTrailers implements provider.TrailerProvider.
func (p *Provider) FetchTrailers(ctx context.Context, id string) ([]provider.Trailer, error) {
	videos, err := p.client.movieVideos(ctx, id)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	var out []provider.Trailer
	for _, v := range videos {
		if v.Type != "Trailer" || v.Site != "YouTube" {
			continue
		}
		out = append(out, provider.Trailer{
			Name:    v.Name,
			URL:     "https://www.youtube.com/watch?v=" + v.Key,
			Quality: fmt.Sprintf("%dp", v.Size),
			Source:  "youtube",
		})
	}
	return out, nil
}

// FetchSetInfo implements provider.SetProvider.
func (p *Provider) FetchSetInfo(ctx context.Context, collectionID string) (*provider.SetInfo, error) {
	d, err := p.client.collection(ctx, collectionID)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	return &provider.SetInfo{
		CollectionID: strconv.FormatInt(d.ID, 10),
		Title:        d.Name,
		Overview:     d.Overview,
		PosterURL:    imageURL(d.PosterPath),
		FanartURL:    imageURL(d.BackdropPath),
	}, nil
}

// wrapErr maps client errors to the provider error vocabulary.
func (p *Provider) wrapErr(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return provider.ErrNoResult
	case errors.Is(err, errRetryable):
		return fmt.Errorf("%w: %v", provider.ErrTransient, err)
	default:
		return err
	}
}
