package provider

import (
	"strconv"
	"time"

	"github.com/20ns/movierec-sub005/pkg/domain"
)

// pageResponse is the provider's paginated listing body
type pageResponse struct {
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Results      []wireResult `json:"results"`
}

// wireResult is a single listing entry. Movie and TV listings use different
// field names for title and release date, both sets are mapped.
type wireResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"` // tv listings
	Overview         string  `json:"overview"`
	GenreIDs         []int   `json:"genre_ids"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"` // tv listings
	OriginalLanguage string  `json:"original_language"`
	Runtime          int     `json:"runtime"` // present on some endpoints only
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
}

// toMediaItem maps a wire entry to the domain model
func (r wireResult) toMediaItem(mediaType domain.MediaType) domain.MediaItem {
	title := r.Title
	if title == "" {
		title = r.Name
	}

	item := domain.MediaItem{
		ID:               strconv.FormatInt(r.ID, 10),
		Type:             mediaType,
		Title:            title,
		Overview:         r.Overview,
		Genres:           r.GenreIDs,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		OriginalLanguage: r.OriginalLanguage,
		RuntimeMinutes:   r.Runtime,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
	}

	rawDate := r.ReleaseDate
	if rawDate == "" {
		rawDate = r.FirstAirDate
	}
	if rawDate != "" {
		if t, err := time.Parse("2006-01-02", rawDate); err == nil {
			item.ReleaseDate = &t
		}
	}

	return item
}
