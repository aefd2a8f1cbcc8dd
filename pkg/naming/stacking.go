// Package naming extracts clean titles, years, and ids from raw file and
// folder names.
package naming

import (
	"regexp"
	"strings"
)

// stackingRegex matches disc/part markers like "cd1", "disc 2", "part3",
// "pt.1", "dvd2". The marker must be separated from the rest of the name
// so that titles like "Apartment 1" survive.
var stackingRegex = regexp.MustCompile(`(?i)[ _.-]+(?:cd|dvd|dis[ck]|p(?:ar)?t)[ _.-]*\d{1,2}(?:[ _.-]|$)`)

// stackingOfRegex matches "(1 of 2)" style markers, with or without parens.
var stackingOfRegex = regexp.MustCompile(`(?i)[ _.-]+\(?\d{1,2}[ _.-]*of[ _.-]*\d{1,2}\)?(?:[ _.-]|$)`)

// CleanStackingMarkers removes disc/part markers from a name.
// Idempotent: cleaning an already clean name returns it unchanged.
func CleanStackingMarkers(name string) string {
	// Adjacent markers share their separator, so a single replacement pass
	// can leave the second one behind. Repeat until nothing matches.
	cleaned := name
	for {
		next := stackingRegex.ReplaceAllString(cleaned, " ")
		next = stackingOfRegex.ReplaceAllString(next, " ")
		if next == cleaned {
			break
		}
		cleaned = next
	}
	if cleaned == name {
		return name
	}
	return strings.TrimSpace(collapseSpaces(cleaned))
}

// HasStackingMarker reports whether the name carries a disc/part marker.
func HasStackingMarker(name string) bool {
	return stackingRegex.MatchString(name) || stackingOfRegex.MatchString(name)
}

// StackingMarker returns the marker found in the name, trimmed of
// separators, or "" when the name has none.
func StackingMarker(name string) string {
	m := stackingRegex.FindString(name)
	if m == "" {
		m = stackingOfRegex.FindString(name)
	}
	return strings.Trim(m, " _.-")
}

var multiSpaceRegex = regexp.MustCompile(`\s{2,}`)

func collapseSpaces(s string) string {
	return multiSpaceRegex.ReplaceAllString(s, " ")
}
