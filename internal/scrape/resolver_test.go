package scrape_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/internal/scrape"
	"github.com/mediarr/mediarr/internal/scrape/mocks"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockProvider(t *testing.T, name string) *mocks.MockProvider {
	ctrl := gomock.NewController(t)
	m := mocks.NewMockProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	return m
}

func newResolver(t *testing.T, opts scrape.Options, providers ...provider.Provider) *scrape.Resolver {
	t.Helper()
	reg := provider.NewRegistry()
	for _, p := range providers {
		require.NoError(t, reg.Register(p))
	}
	return scrape.NewResolver(reg, opts, testLogger())
}

func cand(id string, score float64) provider.Candidate {
	return provider.Candidate{Provider: "tmdb", ID: id, Title: "candidate " + id, Score: score}
}

func TestResolver_AcceptsBestAboveThreshold(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 0.92), cand("2", 0.60), cand("3", 0.40),
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "1", match.Candidate.ID)
}

func TestResolver_ExactThresholdAccepts(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 0.75), cand("2", 0.50),
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "1", match.Candidate.ID)
}

func TestResolver_SingleResultTrustedBelowThreshold(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 0.30),
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Obscure"})
	require.NoError(t, err)
	assert.Equal(t, "1", match.Candidate.ID)
}

func TestResolver_PerfectTieRejected(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 1.0), cand("2", 1.0), cand("3", 0.8),
	}, nil)

	_, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Remake"})
	assert.ErrorIs(t, err, scrape.ErrAmbiguous)
}

func TestResolver_ThreeWayTieRejected(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 1.0), cand("2", 1.0), cand("3", 1.0),
	}, nil)

	_, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Remake"})
	assert.ErrorIs(t, err, scrape.ErrAmbiguous)
}

func TestResolver_SingleTopScoreNotRejected(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 1.0), cand("2", 0.9),
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "1", match.Candidate.ID)
}

func TestResolver_BelowThresholdRejected(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 0.70), cand("2", 0.65),
	}, nil)

	_, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Movie"})
	assert.ErrorIs(t, err, scrape.ErrBelowThreshold)
}

func TestResolver_NoCandidates(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := newResolver(t, scrape.DefaultOptions(), m).Resolve(context.Background(), provider.Query{Title: "Nothing"})
	assert.ErrorIs(t, err, scrape.ErrNoMatch)
}

func TestResolver_FallsBackToSecondProvider(t *testing.T) {
	primary := newMockProvider(t, "tmdb")
	primary.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)
	secondary := newMockProvider(t, "omdb")
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		{Provider: "omdb", ID: "x", Title: "Movie", Score: 0.9},
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), primary, secondary).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "omdb", match.Provider.Name())
}

func TestResolver_FallbackDisabledStopsAtPrimary(t *testing.T) {
	primary := newMockProvider(t, "tmdb")
	primary.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil)
	secondary := newMockProvider(t, "omdb")
	// no Search expectation: the secondary must not be queried

	opts := scrape.DefaultOptions()
	opts.Fallback = false
	_, err := newResolver(t, opts, primary, secondary).Resolve(context.Background(), provider.Query{Title: "Movie"})
	assert.ErrorIs(t, err, scrape.ErrNoMatch)
}

func TestResolver_TrustIDsSkipsSearch(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	// no Search expectation: the stored id must settle the match

	opts := scrape.DefaultOptions()
	opts.TrustIDs = true
	match, err := newResolver(t, opts, m).Resolve(context.Background(), provider.Query{
		Title: "Movie",
		IDs:   map[string]string{"tmdb": "550"},
	})
	require.NoError(t, err)
	assert.Equal(t, "550", match.Candidate.ID)
	assert.Equal(t, 1.0, match.Candidate.Score)
}

func TestResolver_TrustIDsFallsBackToSearchWithoutID(t *testing.T) {
	m := newMockProvider(t, "tmdb")
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		cand("1", 0.92),
	}, nil)

	opts := scrape.DefaultOptions()
	opts.TrustIDs = true
	match, err := newResolver(t, opts, m).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "1", match.Candidate.ID)
}

func TestResolver_TransientErrorFallsBack(t *testing.T) {
	primary := newMockProvider(t, "tmdb")
	primary.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, provider.ErrTransient)
	secondary := newMockProvider(t, "omdb")
	secondary.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]provider.Candidate{
		{Provider: "omdb", ID: "x", Title: "Movie", Score: 0.95},
	}, nil)

	match, err := newResolver(t, scrape.DefaultOptions(), primary, secondary).Resolve(context.Background(), provider.Query{Title: "Movie"})
	require.NoError(t, err)
	assert.Equal(t, "x", match.Candidate.ID)
}
