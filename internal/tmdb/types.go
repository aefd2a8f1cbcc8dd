// Package tmdb implements the TMDB metadata provider.
package tmdb

import "strconv"

type searchResponse struct {
	Results      []searchResult `json:"results"`
	TotalResults int            `json:"total_results"`
}

type searchResult struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
}

func (r searchResult) year() int { return yearOf(r.ReleaseDate) }

type findResponse struct {
	MovieResults []searchResult `json:"movie_results"`
}

type movieDetails struct {
	ID                  int64          `json:"id"`
	IMDBID              string         `json:"imdb_id"`
	Title               string         `json:"title"`
	OriginalTitle       string         `json:"original_title"`
	Tagline             string         `json:"tagline"`
	Overview            string         `json:"overview"`
	ReleaseDate         string         `json:"release_date"`
	Runtime             int            `json:"runtime"`
	VoteAverage         float64        `json:"vote_average"`
	VoteCount           int            `json:"vote_count"`
	Genres              []genre        `json:"genres"`
	BelongsToCollection *collectionRef `json:"belongs_to_collection"`
	Credits             *credits       `json:"credits"`
	ReleaseDates        *releaseDates  `json:"release_dates"`
}

func (m *movieDetails) year() int { return yearOf(m.ReleaseDate) }

// certification returns the rating for the given country, or "".
func (m *movieDetails) certification(country string) string {
	if m.ReleaseDates == nil {
		return ""
	}
	for _, r := range m.ReleaseDates.Results {
		if r.ISO3166 != country {
			continue
		}
		for _, rd := range r.ReleaseDates {
			if rd.Certification != "" {
				return rd.Certification
			}
		}
	}
	return ""
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type collectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type credits struct {
	Cast []castMember `json:"cast"`
	Crew []crewMember `json:"crew"`
}

type castMember struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

type crewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type releaseDates struct {
	Results []countryReleases `json:"results"`
}

type countryReleases struct {
	ISO3166      string        `json:"iso_3166_1"`
	ReleaseDates []releaseDate `json:"release_dates"`
}

type releaseDate struct {
	Certification string `json:"certification"`
}

type imagesResponse struct {
	Posters   []image `json:"posters"`
	Backdrops []image `json:"backdrops"`
}

type image struct {
	FilePath string `json:"file_path"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type videosResponse struct {
	Results []video `json:"results"`
}

type video struct {
	Name string `json:"name"`
	Key  string `json:"key"`
	Site string `json:"site"`
	Size int    `json:"size"` // 720, 1080
	Type string `json:"type"` // Trailer, Teaser
}

type collectionDetails struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Overview     string `json:"overview"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

const imageBaseURL = "https://image.tmdb.org/t/p/original"

func imageURL(path string) string {
	if path == "" {
		return ""
	}
	return imageBaseURL + path
}

func yearOf(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}
