package scrape

import (
	"strings"

	"github.com/mediarr/mediarr/internal/catalog"
	"github.com/mediarr/mediarr/internal/provider"
)

// SelectTrailers merges fetched trailers into a unit's trailer list and
// marks at most one remote trailer for the NFO. A locally downloaded
// trailer file always plays first in Kodi, so it never gets the NFO
// slot; it just suppresses flagging a remote one.
func SelectTrailers(existing []catalog.Trailer, fetched []provider.Trailer, opts TrailerOptions) []catalog.Trailer {
	out := make([]catalog.Trailer, 0, len(existing)+len(fetched))
	hasLocal := false
	for _, t := range existing {
		t.InNFO = false
		if t.Provider == "local" {
			hasLocal = true
		}
		out = append(out, t)
	}

	seen := make(map[string]bool, len(out))
	for _, t := range out {
		seen[t.URL] = true
	}
	for _, t := range fetched {
		if seen[t.URL] {
			continue
		}
		seen[t.URL] = true
		out = append(out, catalog.Trailer{
			Name:     t.Name,
			URL:      t.URL,
			Quality:  t.Quality,
			Source:   t.Source,
			Provider: "scrape",
		})
	}

	if hasLocal {
		return out
	}
	if idx := preferredTrailer(out, opts); idx >= 0 {
		out[idx].InNFO = true
	}
	return out
}

// preferredTrailer returns the index of the remote trailer to flag:
// quality and source both matching, then quality alone, then the first
// remote. -1 when there is no remote trailer.
func preferredTrailer(trailers []catalog.Trailer, opts TrailerOptions) int {
	first := -1
	qualityOnly := -1
	for i, t := range trailers {
		if t.Provider == "local" {
			continue
		}
		if first < 0 {
			first = i
		}
		if !strings.EqualFold(t.Quality, opts.Quality) {
			continue
		}
		if strings.EqualFold(t.Source, opts.Source) {
			return i
		}
		if qualityOnly < 0 {
			qualityOnly = i
		}
	}
	if qualityOnly >= 0 {
		return qualityOnly
	}
	return first
}
