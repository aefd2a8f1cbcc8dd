package mediafile

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"/movies/MovieA (2010)/MovieA.2010.mkv", KindVideo},
		{"/movies/MovieA (2010)/MovieA.2010.nfo", KindNFO},
		{"/movies/MovieA (2010)/MovieA.2010.srt", KindSubtitle},
		{"/movies/MovieA (2010)/MovieA-trailer.mp4", KindTrailer},
		{"/movies/MovieA (2010)/trailer.mkv", KindTrailer},
		{"/movies/MovieA (2010)/trailers/teaser.mkv", KindTrailer},
		{"/movies/MovieA (2010)/sample.mkv", KindVideoExtra},
		{"/movies/MovieA (2010)/MovieA.sample.mkv", KindVideoExtra},
		{"/movies/MovieA (2010)/extras/deleted-scenes.mkv", KindVideoExtra},
		{"/movies/MovieA (2010)/poster.jpg", KindPoster},
		{"/movies/MovieA (2010)/folder.jpg", KindPoster},
		{"/movies/MovieA (2010)/MovieA-poster.jpg", KindPoster},
		{"/movies/MovieA (2010)/fanart.jpg", KindFanart},
		{"/movies/MovieA (2010)/MovieA-fanart.jpg", KindFanart},
		{"/movies/MovieA (2010)/thumb.jpg", KindThumb},
		{"/movies/MovieA (2010)/extrafanart/fanart1.jpg", KindExtraFanart},
		{"/movies/MovieA (2010)/screenshot.png", KindGraphic},
		{"/movies/MovieA (2010)/soundtrack.mp3", KindAudio},
		{"/movies/MovieA (2010)/readme.txt", KindUnknown},
		{"/movies/MovieA (2010)/MovieA.exe", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Classify(tt.path); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	paths := []string{
		"/m/Movie/BDMV/STREAM/00000.m2ts",
		"/m/Movie/Movie.mkv",
		"/m/Movie/poster.jpg",
	}
	for _, p := range paths {
		if Classify(p) != Classify(p) {
			t.Errorf("Classify(%q) not deterministic", p)
		}
		if IsDiscFile(p) != IsDiscFile(p) {
			t.Errorf("IsDiscFile(%q) not deterministic", p)
		}
	}
}

func TestIsDiscFile(t *testing.T) {
	if !IsDiscFile("/m/Movie/BDMV/STREAM/00000.m2ts") {
		t.Error("BDMV path should be a disc file")
	}
	if !IsDiscFile("/m/Movie/VIDEO_TS/VTS_01_1.VOB") {
		t.Error("VIDEO_TS path should be a disc file")
	}
	if IsDiscFile("/m/Movie/Movie.mkv") {
		t.Error("plain file should not be a disc file")
	}
}

func TestDiscRoot(t *testing.T) {
	if got := DiscRoot("/m/Movie/BDMV/STREAM"); got != "/m/Movie" {
		t.Errorf("DiscRoot = %q, want %q", got, "/m/Movie")
	}
	if got := DiscRoot("/m/Movie"); got != "" {
		t.Errorf("DiscRoot = %q, want empty", got)
	}
}
