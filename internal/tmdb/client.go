package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = 24 * time.Hour

// ErrNotFound is returned when a movie doesn't exist in TMDB.
var ErrNotFound = errors.New("movie not found")

// errRetryable marks responses worth retrying (5xx, 429, transport
// errors).
var errRetryable = errors.New("retryable tmdb error")

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
	cache      *cache
	attempts   uint
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithCacheTTL sets the cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLanguage sets the metadata language (default "en").
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

// WithRetryAttempts sets how many times a transient failure is retried.
func WithRetryAttempts(n uint) Option {
	return func(c *Client) {
		c.attempts = n
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		language: "en",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    newCache(defaultCacheTTL),
		attempts: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches a TMDB endpoint and decodes the response, retrying
// transient failures with backoff.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := c.baseURL + path + "?" + params.Encode()

	return retry.Do(
		func() error { return c.doOnce(ctx, reqURL, out) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, errRetryable) }),
	)
}

func (c *Client) doOnce(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errRetryable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: %s", errRetryable, resp.Status)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// searchMovie queries /3/search/movie.
func (c *Client) searchMovie(ctx context.Context, query string, year int) ([]searchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("year", fmt.Sprintf("%d", year))
	}
	var resp searchResponse
	if err := c.getJSON(ctx, "/3/search/movie", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// findByIMDB resolves an IMDB id to TMDB movie results.
func (c *Client) findByIMDB(ctx context.Context, imdbID string) ([]searchResult, error) {
	params := url.Values{}
	params.Set("external_source", "imdb_id")
	var resp findResponse
	if err := c.getJSON(ctx, "/3/find/"+imdbID, params, &resp); err != nil {
		return nil, err
	}
	return resp.MovieResults, nil
}

// movie fetches full movie details with credits and certifications.
// Details are cached.
func (c *Client) movie(ctx context.Context, id string) (*movieDetails, error) {
	if d, ok := c.cache.get(id); ok {
		return d, nil
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,release_dates")
	var d movieDetails
	if err := c.getJSON(ctx, "/3/movie/"+id, params, &d); err != nil {
		return nil, err
	}
	c.cache.set(id, &d)
	return &d, nil
}

func (c *Client) movieImages(ctx context.Context, id string) (*imagesResponse, error) {
	// no language filter: posters in any language beat none
	params := url.Values{}
	params.Set("include_image_language", c.language+",null")
	var resp imagesResponse
	if err := c.getJSON(ctx, "/3/movie/"+id+"/images", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) movieVideos(ctx context.Context, id string) ([]video, error) {
	var resp videosResponse
	if err := c.getJSON(ctx, "/3/movie/"+id+"/videos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) collection(ctx context.Context, id string) (*collectionDetails, error) {
	var d collectionDetails
	if err := c.getJSON(ctx, "/3/collection/"+id, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
