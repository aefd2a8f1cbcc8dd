package scrape

import "github.com/mediarr/mediarr/internal/provider"

// ArtworkSelection is the outcome of picking artwork for one unit.
type ArtworkSelection struct {
	Poster      string
	Fanart      string
	ExtraThumbs []string
	ExtraFanart []string
}

// SelectArtwork picks artwork from a provider's options. The preferred
// size wins; when nothing matches, the first option of each kind is the
// fallback. Units sharing a directory with other units take only the
// primary poster and fanart, extras would collide on disk.
func SelectArtwork(images []provider.Image, opts ArtworkOptions, multiDir bool) ArtworkSelection {
	var posters, fanarts []provider.Image
	for _, img := range images {
		switch img.Kind {
		case "poster":
			posters = append(posters, img)
		case "fanart":
			fanarts = append(fanarts, img)
		}
	}

	sel := ArtworkSelection{
		Poster: pickBySize(posters, opts.PosterSize),
		Fanart: pickBySize(fanarts, opts.FanartSize),
	}
	if multiDir {
		return sel
	}

	for _, img := range fanarts {
		if img.URL == sel.Fanart {
			continue
		}
		if len(sel.ExtraFanart) < opts.MaxExtraFanart {
			sel.ExtraFanart = append(sel.ExtraFanart, img.URL)
		}
		if len(sel.ExtraThumbs) < opts.MaxExtraThumbs {
			sel.ExtraThumbs = append(sel.ExtraThumbs, img.URL)
		}
	}
	return sel
}

// pickBySize returns the url of the image whose width is closest to the
// preferred size, or the first image when sizes are unknown.
func pickBySize(images []provider.Image, preferred int) string {
	if len(images) == 0 {
		return ""
	}
	best := images[0]
	bestDelta := -1
	for _, img := range images {
		if img.Width <= 0 {
			continue
		}
		delta := img.Width - preferred
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			best = img
			bestDelta = delta
		}
	}
	return best.URL
}
