package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mediarr/mediarr/internal/provider"
)

// Match is an accepted candidate together with the provider that
// produced it.
type Match struct {
	Candidate provider.Candidate
	Provider  provider.Provider
}

// Resolver turns a query into an accepted match, falling back through
// the provider registry when the primary cannot produce one.
type Resolver struct {
	registry  *provider.Registry
	primary   string
	threshold float64
	fallback  bool
	trustIDs  bool
	log       *slog.Logger
}

// NewResolver creates a resolver.
func NewResolver(registry *provider.Registry, opts Options, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		registry:  registry,
		primary:   opts.Provider,
		threshold: opts.Threshold,
		fallback:  opts.Fallback,
		trustIDs:  opts.TrustIDs,
		log:       log.With("component", "resolver"),
	}
}

// Resolve queries providers in fallback order until one yields an
// acceptable candidate. Rejections (no candidates, ambiguity, score
// under threshold) move on to the next provider; the last rejection is
// returned when every provider is exhausted.
func (r *Resolver) Resolve(ctx context.Context, q provider.Query) (*Match, error) {
	providers := r.registry.Ordered(r.primary)
	if !r.fallback && len(providers) > 1 {
		providers = providers[:1]
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers registered")
	}

	lastErr := error(ErrNoMatch)
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// In trust-ids mode a stored id settles the match without a
		// search. Units without one still go through the providers.
		if r.trustIDs {
			if id := q.IDs[p.Name()]; id != "" {
				return &Match{
					Candidate: provider.Candidate{Provider: p.Name(), ID: id, Title: q.Title, Year: q.Year, Score: 1},
					Provider:  p,
				}, nil
			}
		}

		candidates, err := p.Search(ctx, q)
		if err != nil {
			r.log.Warn("provider search failed", "provider", p.Name(), "title", q.Title, "error", err)
			if errors.Is(err, provider.ErrTransient) || errors.Is(err, provider.ErrNoResult) {
				lastErr = err
				continue
			}
			return nil, err
		}

		best, err := r.decide(candidates)
		if err != nil {
			r.log.Debug("no acceptable candidate", "provider", p.Name(), "title", q.Title, "reason", err)
			lastErr = err
			continue
		}
		return &Match{Candidate: best, Provider: p}, nil
	}
	return nil, lastErr
}

// decide applies the acceptance policy to one provider's candidates:
// a lone candidate is trusted at any score; a perfect-score tie rejects
// the whole result; otherwise the best candidate must reach the
// threshold, boundary inclusive.
func (r *Resolver) decide(candidates []provider.Candidate) (provider.Candidate, error) {
	switch len(candidates) {
	case 0:
		return provider.Candidate{}, ErrNoMatch
	case 1:
		return candidates[0], nil
	}

	sorted := make([]provider.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	top := sorted[0].Score
	if top >= 1.0 {
		ties := 0
		for _, c := range sorted {
			if c.Score >= 1.0 {
				ties++
			}
		}
		if ties > 1 {
			return provider.Candidate{}, fmt.Errorf("%w: %d candidates scored %.2f", ErrAmbiguous, ties, top)
		}
	}

	if top < r.threshold {
		return provider.Candidate{}, fmt.Errorf("%w: best %.2f, threshold %.2f", ErrBelowThreshold, top, r.threshold)
	}
	return sorted[0], nil
}
