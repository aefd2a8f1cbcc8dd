package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediarr/mediarr/internal/provider"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key", WithBaseURL(server.URL))
	return NewProvider(client, "US")
}

func TestProvider_Search(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "Fight Club", r.URL.Query().Get("query"))
		assert.Equal(t, "1999", r.URL.Query().Get("year"))

		resp := searchResponse{Results: []searchResult{
			{ID: 550, Title: "Fight Club", OriginalTitle: "Fight Club", ReleaseDate: "1999-10-15"},
			{ID: 9999, Title: "Fight Club Rules", ReleaseDate: "2010-01-01"},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	})

	candidates, err := p.Search(context.Background(), provider.Query{Title: "Fight Club", Year: 1999})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "550", candidates[0].ID)
	assert.Equal(t, 1999, candidates[0].Year)
	assert.InDelta(t, 1.0, candidates[0].Score, 0.001, "exact title and year should score 1.0")
	assert.Less(t, candidates[1].Score, candidates[0].Score)
}

func TestProvider_Search_TMDBIDShortCircuits(t *testing.T) {
	var searchCalled atomic.Bool
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/3/movie/550":
			_ = json.NewEncoder(w).Encode(movieDetails{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15"})
		default:
			searchCalled.Store(true)
			http.NotFound(w, r)
		}
	})

	candidates, err := p.Search(context.Background(), provider.Query{
		Title: "completely wrong title",
		IDs:   map[string]string{"tmdb": "550"},
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1.0, candidates[0].Score)
	assert.False(t, searchCalled.Load(), "id lookup should not hit the search endpoint")
}

func TestProvider_Search_IMDBFind(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/find/tt0137523", r.URL.Path)
		assert.Equal(t, "imdb_id", r.URL.Query().Get("external_source"))
		_ = json.NewEncoder(w).Encode(findResponse{MovieResults: []searchResult{
			{ID: 550, Title: "Fight Club", ReleaseDate: "1999-10-15"},
		}})
	})

	candidates, err := p.Search(context.Background(), provider.Query{
		IDs: map[string]string{"imdb": "tt0137523"},
	})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "550", candidates[0].ID)
	assert.Equal(t, 1.0, candidates[0].Score)
}

func TestProvider_Search_RetriesWithoutYear(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			assert.Equal(t, "2003", r.URL.Query().Get("year"))
			_ = json.NewEncoder(w).Encode(searchResponse{})
			return
		}
		assert.Empty(t, r.URL.Query().Get("year"))
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []searchResult{
			{ID: 603, Title: "The Matrix", ReleaseDate: "1999-03-31"},
		}})
	})

	candidates, err := p.Search(context.Background(), provider.Query{Title: "The Matrix", Year: 2003})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestProvider_FetchMetadata(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("append_to_response"), "credits")

		d := movieDetails{
			ID:          550,
			IMDBID:      "tt0137523",
			Title:       "Fight Club",
			Overview:    "An insomniac office worker.",
			ReleaseDate: "1999-10-15",
			Runtime:     139,
			VoteAverage: 8.4,
			VoteCount:   26000,
			Genres:      []genre{{ID: 18, Name: "Drama"}},
		}
		d.BelongsToCollection = &collectionRef{ID: 123, Name: "Example Collection"}
		d.Credits = &credits{
			Cast: []castMember{{Name: "Edward Norton", Character: "The Narrator"}},
			Crew: []crewMember{
				{Name: "David Fincher", Job: "Director"},
				{Name: "Jim Uhls", Job: "Screenplay"},
			},
		}
		d.ReleaseDates = &releaseDates{Results: []countryReleases{
			{ISO3166: "DE", ReleaseDates: []releaseDate{{Certification: "FSK 18"}}},
			{ISO3166: "US", ReleaseDates: []releaseDate{{Certification: "R"}}},
		}}
		_ = json.NewEncoder(w).Encode(d)
	})

	m, err := p.FetchMetadata(context.Background(), "550")
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", m.Title)
	assert.Equal(t, 1999, m.Year)
	assert.Equal(t, "R", m.Certification)
	assert.Equal(t, []string{"Drama"}, m.Genres)
	assert.Equal(t, []string{"David Fincher"}, m.Directors)
	assert.Equal(t, []string{"Jim Uhls"}, m.Writers)
	assert.Equal(t, "tt0137523", m.ExternalIDs["imdb"])
	assert.Equal(t, "123", m.CollectionID)
	assert.Equal(t, "Example Collection", m.SetTitle)
}

func TestProvider_FetchMetadata_NotFound(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := p.FetchMetadata(context.Background(), "99999999")
	assert.ErrorIs(t, err, provider.ErrNoResult)
}

func TestProvider_FetchTrailers_FiltersNonYouTube(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/550/videos", r.URL.Path)
		_ = json.NewEncoder(w).Encode(videosResponse{Results: []video{
			{Name: "Official Trailer", Key: "abc", Site: "YouTube", Size: 1080, Type: "Trailer"},
			{Name: "Teaser", Key: "def", Site: "YouTube", Size: 720, Type: "Teaser"},
			{Name: "Vimeo Trailer", Key: "ghi", Site: "Vimeo", Size: 1080, Type: "Trailer"},
		}})
	})

	trailers, err := p.FetchTrailers(context.Background(), "550")
	require.NoError(t, err)
	require.Len(t, trailers, 1)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", trailers[0].URL)
	assert.Equal(t, "1080p", trailers[0].Quality)
	assert.Equal(t, "youtube", trailers[0].Source)
}

func TestProvider_FetchSetInfo(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/collection/123", r.URL.Path)
		_ = json.NewEncoder(w).Encode(collectionDetails{
			ID: 123, Name: "Example Collection", Overview: "All of them.",
			PosterPath: "/p.jpg", BackdropPath: "/b.jpg",
		})
	})

	info, err := p.FetchSetInfo(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", info.CollectionID)
	assert.Equal(t, "Example Collection", info.Title)
	assert.Equal(t, imageBaseURL+"/p.jpg", info.PosterURL)
}

func TestClient_MovieCached(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(movieDetails{ID: 550, Title: "Fight Club"})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithCacheTTL(time.Hour))

	_, err := client.movie(context.Background(), "550")
	require.NoError(t, err)
	_, err = client.movie(context.Background(), "550")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "should use cache, not call API again")
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(movieDetails{ID: 550, Title: "Fight Club"})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithRetryAttempts(3))

	d, err := client.movie(context.Background(), "550")
	require.NoError(t, err)
	assert.Equal(t, "Fight Club", d.Title)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
