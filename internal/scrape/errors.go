// Package scrape matches units against metadata providers and applies
// the results.
package scrape

import "errors"

var (
	// ErrNoMatch indicates the providers returned no candidates.
	// This is informational, not a failure.
	ErrNoMatch = errors.New("no match found")

	// ErrAmbiguous indicates several candidates scored a perfect tie, so
	// none can be trusted.
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrBelowThreshold indicates the best candidate scored under the
	// acceptance threshold.
	ErrBelowThreshold = errors.New("best match below threshold")
)
