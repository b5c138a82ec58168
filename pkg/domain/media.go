package domain

import (
	"fmt"
	"time"
)

// MediaType identifies the kind of media item
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType converts a string to a MediaType
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeTV:
		return MediaType(s), nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// MediaItem represents a single movie or show snapshot from the metadata provider.
// ID together with Type uniquely identifies an item.
type MediaItem struct {
	ID               string
	Type             MediaType
	Title            string
	Overview         string
	Genres           []int // provider genre codes, order preserved
	VoteAverage      float64
	VoteCount        int // 0 means unknown
	Popularity       float64
	ReleaseDate      *time.Time
	OriginalLanguage string
	RuntimeMinutes   int // 0 means unknown
	PosterPath       string
	BackdropPath     string
}

// HasGenre reports whether the item carries the given genre code
func (m *MediaItem) HasGenre(code int) bool {
	for _, g := range m.Genres {
		if g == code {
			return true
		}
	}
	return false
}

// CacheEntry wraps a MediaItem with cache bookkeeping. FetchedAt is
// monotonically non-decreasing per (ID, Type) across overwrites.
type CacheEntry struct {
	Item      MediaItem
	FetchedAt time.Time
	SourceTag ScheduleType
}

// CandidateFilter restricts the candidate pool read from the metadata store
type CandidateFilter struct {
	MediaType MediaType     // empty means both types
	MaxAge    time.Duration // 0 means no freshness restriction
	Limit     int           // 0 means no limit
}
