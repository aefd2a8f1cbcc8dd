package naming

import "testing"

func TestExtractTitleYear(t *testing.T) {
	tests := []struct {
		input string
		title string
		year  int
	}{
		{"MovieA (2010)", "MovieA", 2010},
		{"MovieA.2010", "MovieA", 2010},
		{"Movie_A_2010", "Movie A", 2010},
		{"The.Movie.2019.1080p.BluRay.x264-GROUP", "The Movie", 2019},
		{"The.Movie.1080p.BluRay.x264-GROUP", "The Movie", 0},
		{"Some Movie", "Some Movie", 0},
		{"Some Movie cd1", "Some Movie", 0},
		{"Some.Movie.2008.cd2", "Some Movie", 2008},
		// A leading 4-digit token is a title, not a year.
		{"2001 A Space Odyssey (1968)", "2001 A Space Odyssey", 1968},
		{"2012 (2009)", "2012", 2009},
		{"2012", "2012", 0},
		// Year-ish numbers outside the sane range are not years.
		{"Movie 1899", "Movie 1899", 0},
		{"Movie 2150", "Movie 2150", 0},
		{"[1080p] Movie", "Movie", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			title, year := ExtractTitleYear(tt.input)
			if title != tt.title || year != tt.year {
				t.Errorf("ExtractTitleYear(%q) = (%q, %d), want (%q, %d)",
					tt.input, title, year, tt.title, tt.year)
			}
		})
	}
}

func TestExtractTitle(t *testing.T) {
	if got := ExtractTitle("Some.Movie.2008.720p"); got != "Some Movie" {
		t.Errorf("ExtractTitle = %q, want %q", got, "Some Movie")
	}
}

func TestFindIMDBID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/movies/MovieA (2010)/MovieA.nfo", ""},
		{"https://www.imdb.com/title/tt1234567/", "tt1234567"},
		{"<imdbid>tt0137523</imdbid>", "tt0137523"},
		{"no id here", ""},
	}

	for _, tt := range tests {
		if got := FindIMDBID(tt.input); got != tt.want {
			t.Errorf("FindIMDBID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
