package mediafile

import (
	"path/filepath"
	"regexp"
	"strings"
)

// trailerRegex matches trailer naming conventions: "Movie-trailer.mkv",
// "trailer.mp4", "Movie.trailer2.mkv".
var trailerRegex = regexp.MustCompile(`(?i)(^|[ ._-])trailer\d*$`)

// sampleRegex matches sample clips shipped alongside releases.
var sampleRegex = regexp.MustCompile(`(?i)(^|[ ._-])sample$`)

// posterNames and friends are the conventional artwork basenames.
var (
	posterNames = map[string]bool{"poster": true, "cover": true, "folder": true, "movie": true}
	fanartNames = map[string]bool{"fanart": true, "backdrop": true, "background": true}
	thumbNames  = map[string]bool{"thumb": true, "landscape": true}
)

// Classify determines the semantic kind of a file purely from its path and
// filename. The same path always classifies the same way, and unrecognized
// extensions yield KindUnknown rather than an error.
func Classify(path string) Kind {
	name := filepath.Base(path)
	ext := lowerExt(name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	switch {
	case ext == ".nfo":
		return KindNFO

	case videoExtensions[ext]:
		if trailerRegex.MatchString(stem) || underDir(path, "trailers", "trailer") {
			return KindTrailer
		}
		if sampleRegex.MatchString(stem) || underDir(path, "extras", "extra") || strings.Contains(strings.ToLower(stem), "-extra") {
			return KindVideoExtra
		}
		return KindVideo

	case subtitleExtensions[ext]:
		return KindSubtitle

	case audioExtensions[ext]:
		return KindAudio

	case graphicExtensions[ext]:
		if underDir(path, "extrafanart") {
			return KindExtraFanart
		}
		lower := strings.ToLower(stem)
		// "Movie-poster.jpg" conventions carry the artwork role as a suffix.
		base := lower
		if idx := strings.LastIndexAny(lower, "-."); idx >= 0 {
			base = lower[idx+1:]
		}
		switch {
		case posterNames[lower] || posterNames[base]:
			return KindPoster
		case fanartNames[lower] || fanartNames[base]:
			return KindFanart
		case thumbNames[lower] || thumbNames[base]:
			return KindThumb
		}
		return KindGraphic
	}

	return KindUnknown
}

// IsDiscFile reports whether the path lies inside a disc structure
// (BDMV or VIDEO_TS). The disc flag is independent of the kind.
func IsDiscFile(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		switch strings.ToUpper(seg) {
		case "BDMV", "VIDEO_TS", "HVDVD_TS":
			return true
		}
	}
	return false
}

// DiscRoot walks upward from dir and returns the directory containing the
// disc structure, or "" when dir is not inside one.
func DiscRoot(dir string) string {
	for cur := dir; ; {
		switch strings.ToUpper(filepath.Base(cur)) {
		case "BDMV", "VIDEO_TS", "HVDVD_TS":
			return filepath.Dir(cur)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return ""
		}
		cur = parent
	}
}

// underDir reports whether any parent directory of path matches one of the
// given names (case-insensitive).
func underDir(path string, names ...string) bool {
	dir := filepath.Dir(filepath.ToSlash(path))
	for _, seg := range strings.Split(dir, "/") {
		for _, n := range names {
			if strings.EqualFold(seg, n) {
				return true
			}
		}
	}
	return false
}

func lowerExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
