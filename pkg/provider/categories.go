package provider

import (
	"net/url"
	"strconv"

	"github.com/20ns/movierec-sub005/pkg/domain"
)

// Category describes one paginated provider listing
type Category struct {
	Name      string // stable identifier used in logs and failure counters
	Path      string // endpoint path relative to the base URL
	MediaType domain.MediaType
	Query     url.Values // extra query parameters, nil for none
}

// genre codes used for per-genre discovery categories
const (
	GenreAction      = 28
	GenreComedy      = 35
	GenreDrama       = 18
	GenreHorror      = 27
	GenreSciFi       = 878
	GenreDocumentary = 99
	GenreRomance     = 10749
	GenreThriller    = 53
	GenreAnimation   = 16
)

// discoveryGenres enumerates the genres covered by weekly per-genre lists
var discoveryGenres = []int{
	GenreAction, GenreComedy, GenreDrama, GenreHorror,
	GenreSciFi, GenreDocumentary, GenreRomance, GenreThriller, GenreAnimation,
}

// DailyCategories returns the popular and trending listings fetched on the
// daily schedule.
func DailyCategories() []Category {
	return []Category{
		{Name: "popular-movies", Path: "/movie/popular", MediaType: domain.MediaTypeMovie},
		{Name: "popular-tv", Path: "/tv/popular", MediaType: domain.MediaTypeTV},
		{Name: "trending-movies", Path: "/trending/movie/day", MediaType: domain.MediaTypeMovie},
		{Name: "trending-tv", Path: "/trending/tv/day", MediaType: domain.MediaTypeTV},
	}
}

// WeeklyCategories returns the genre-enumerated and specialized listings
// fetched on the weekly schedule.
func WeeklyCategories() []Category {
	cats := []Category{
		{Name: "top-rated-movies", Path: "/movie/top_rated", MediaType: domain.MediaTypeMovie},
		{Name: "top-rated-tv", Path: "/tv/top_rated", MediaType: domain.MediaTypeTV},
	}

	for _, genre := range discoveryGenres {
		q := url.Values{}
		q.Set("with_genres", strconv.Itoa(genre))
		q.Set("sort_by", "popularity.desc")
		cats = append(cats, Category{
			Name:      "genre-movies-" + strconv.Itoa(genre),
			Path:      "/discover/movie",
			MediaType: domain.MediaTypeMovie,
			Query:     q,
		})
	}
	return cats
}
