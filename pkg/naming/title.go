package naming

import (
	"regexp"
	"strconv"
	"strings"
)

// yearRegex matches a plausible 4-digit release year.
var yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// imdbIDRegex matches an IMDB identifier anywhere in a path.
var imdbIDRegex = regexp.MustCompile(`tt\d{7}`)

// releaseTagRegex matches tokens that mark the start of the release-tag
// tail of a scene name (resolution, source, codec, audio). Everything from
// the first such token on is noise, not title.
var releaseTagRegex = regexp.MustCompile(`(?i)^(` +
	`\d{3,4}[pi]|4k|uhd|hdr|hdr10\+?|dv|dovi|` +
	`bluray|blu-ray|bdrip|brrip|remux|web-?dl|web-?rip|hdtv|dvdrip|dvdscr|dvd|cam|ts|r5|` +
	`x26[45]|h\.?26[45]|hevc|avc|xvid|divx|av1|` +
	`dts(-hd)?|truehd|atmos|aac|ac3|eac3|ddp?5?\.?1?|flac|mp3|` +
	`proper|repack|rerip|remastered|extended|unrated|uncut|internal|limited|retail|multi|subbed|dubbed` +
	`)$`)

// ExtractTitle parses a raw file or folder name into a display title.
// Release tags, stacking markers, and the year are stripped.
func ExtractTitle(name string) string {
	title, _ := ExtractTitleYear(name)
	return title
}

// ExtractTitleYear parses a raw name into a display title and a 4-digit
// year. The year is 0 when the name carries no plausible year token; that
// is a normal outcome, not an error.
func ExtractTitleYear(name string) (string, int) {
	s := strings.NewReplacer(".", " ", "_", " ").Replace(name)
	s = CleanStackingMarkers(s)

	words := strings.Fields(s)

	// The year is the last plausible 4-digit token, never the leading one:
	// "2001 A Space Odyssey (1968)" -> 1968, "2012" alone stays a title.
	yearIdx := -1
	for i := len(words) - 1; i > 0; i-- {
		trimmed := strings.Trim(words[i], "()[]{}")
		if len(trimmed) == 4 && yearRegex.MatchString(trimmed) {
			yearIdx = i
			break
		}
	}

	year := 0
	if yearIdx > 0 {
		year, _ = strconv.Atoi(strings.Trim(words[yearIdx], "()[]{}"))
	}

	var titleWords []string
	for i, word := range words {
		if i == yearIdx {
			break
		}
		trimmed := strings.Trim(word, "()[]{}")
		// Release tags and anything after them are noise. Tags before any
		// title word are skipped rather than treated as a terminator, so
		// names like "[1080p] Movie" still yield a title.
		if releaseTagRegex.MatchString(trimmed) {
			if len(titleWords) > 0 {
				break
			}
			continue
		}
		if trimmed != "" {
			titleWords = append(titleWords, trimmed)
		}
	}

	title := strings.TrimSpace(strings.Join(titleWords, " "))
	if title == "" {
		// Degenerate names ("1080p.mkv"): fall back to the cleaned input.
		title = strings.TrimSpace(collapseSpaces(s))
	}
	return title, year
}

// FindIMDBID extracts an IMDB id (tt1234567) from a path string.
// Returns "" when absent.
func FindIMDBID(path string) string {
	return imdbIDRegex.FindString(path)
}
