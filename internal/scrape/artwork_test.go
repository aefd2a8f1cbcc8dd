package scrape_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediarr/mediarr/internal/provider"
	"github.com/mediarr/mediarr/internal/scrape"
)

func TestSelectArtwork_PrefersConfiguredSize(t *testing.T) {
	images := []provider.Image{
		{Kind: "poster", URL: "p-500", Width: 500},
		{Kind: "poster", URL: "p-1000", Width: 1000},
		{Kind: "poster", URL: "p-2000", Width: 2000},
		{Kind: "fanart", URL: "f-1280", Width: 1280},
		{Kind: "fanart", URL: "f-1920", Width: 1920},
	}
	opts := scrape.ArtworkOptions{PosterSize: 1000, FanartSize: 1920, MaxExtraFanart: 5, MaxExtraThumbs: 5}

	sel := scrape.SelectArtwork(images, opts, false)
	assert.Equal(t, "p-1000", sel.Poster)
	assert.Equal(t, "f-1920", sel.Fanart)
	assert.Equal(t, []string{"f-1280"}, sel.ExtraFanart)
}

func TestSelectArtwork_FallbackFirstWhenNoSizes(t *testing.T) {
	images := []provider.Image{
		{Kind: "poster", URL: "first"},
		{Kind: "poster", URL: "second"},
	}
	sel := scrape.SelectArtwork(images, scrape.ArtworkOptions{PosterSize: 1000}, false)
	assert.Equal(t, "first", sel.Poster)
}

func TestSelectArtwork_CapsExtras(t *testing.T) {
	images := []provider.Image{{Kind: "fanart", URL: "main", Width: 1920}}
	for i := 0; i < 10; i++ {
		images = append(images, provider.Image{Kind: "fanart", URL: "extra", Width: 1280})
	}
	opts := scrape.ArtworkOptions{FanartSize: 1920, MaxExtraFanart: 3, MaxExtraThumbs: 2}

	sel := scrape.SelectArtwork(images, opts, false)
	assert.Len(t, sel.ExtraFanart, 3)
	assert.Len(t, sel.ExtraThumbs, 2)
}

func TestSelectArtwork_MultiDirSkipsExtras(t *testing.T) {
	images := []provider.Image{
		{Kind: "poster", URL: "p", Width: 1000},
		{Kind: "fanart", URL: "f1", Width: 1920},
		{Kind: "fanart", URL: "f2", Width: 1920},
	}
	opts := scrape.ArtworkOptions{PosterSize: 1000, FanartSize: 1920, MaxExtraFanart: 5, MaxExtraThumbs: 5}

	sel := scrape.SelectArtwork(images, opts, true)
	assert.Equal(t, "p", sel.Poster)
	assert.NotEmpty(t, sel.Fanart)
	assert.Empty(t, sel.ExtraFanart)
	assert.Empty(t, sel.ExtraThumbs)
}

func TestSelectArtwork_NoImages(t *testing.T) {
	sel := scrape.SelectArtwork(nil, scrape.ArtworkOptions{}, false)
	assert.Empty(t, sel.Poster)
	assert.Empty(t, sel.Fanart)
}
