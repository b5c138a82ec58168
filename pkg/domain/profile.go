package domain

import (
	"fmt"
	"sort"
)

// DiscoveryTag is a recognized content discovery preference
type DiscoveryTag string

const (
	DiscoveryTrending            DiscoveryTag = "trending"
	DiscoveryHiddenGems          DiscoveryTag = "hiddenGems"
	DiscoveryCriticallyAcclaimed DiscoveryTag = "criticallyAcclaimed"
)

// RuntimePreference expresses the preferred runtime bucket
type RuntimePreference string

const (
	RuntimeShort  RuntimePreference = "short"
	RuntimeMedium RuntimePreference = "medium"
	RuntimeLong   RuntimePreference = "long"
	RuntimeAny    RuntimePreference = "any"
)

// InternationalPreference expresses openness to non-default languages
type InternationalPreference string

const (
	InternationalLow      InternationalPreference = "low"
	InternationalMedium   InternationalPreference = "medium"
	InternationalVeryOpen InternationalPreference = "veryOpen"
)

// NeutralGenreRating is the implied rating for genres the user never rated
const NeutralGenreRating = 5

// PreferenceProfile is a validated representation of a user's stated tastes.
// It is always produced via ParseProfile, never trusted raw from the caller.
type PreferenceProfile struct {
	GenreRatings         map[int]int // genre code -> 1..10, unset implies neutral 5
	Discovery            []DiscoveryTag
	Runtime              RuntimePreference
	International        InternationalPreference
	FavoriteContentHints []string // soft seed signals only, never filters
	DealBreakers         []int    // genre codes that hard-exclude candidates
}

// GenreRating returns the user's rating for a genre, neutral when unset
func (p *PreferenceProfile) GenreRating(code int) int {
	if r, ok := p.GenreRatings[code]; ok {
		return r
	}
	return NeutralGenreRating
}

// HasDiscovery reports whether the given discovery tag is selected
func (p *PreferenceProfile) HasDiscovery(tag DiscoveryTag) bool {
	for _, t := range p.Discovery {
		if t == tag {
			return true
		}
	}
	return false
}

// IsDealBreaker reports whether any of the genre codes is a deal breaker
func (p *PreferenceProfile) IsDealBreaker(genres []int) bool {
	for _, db := range p.DealBreakers {
		for _, g := range genres {
			if g == db {
				return true
			}
		}
	}
	return false
}

// ProfileRequest is the raw, loosely-typed preference payload as submitted by
// callers. All fields are optional.
type ProfileRequest struct {
	GenreRatings         map[int]int `json:"genreRatings"`
	Discovery            []string    `json:"contentDiscoveryPreference"`
	Runtime              string      `json:"runtimePreference"`
	International        string      `json:"internationalContentPreference"`
	FavoriteContentHints []string    `json:"favoriteContentHints"`
	DealBreakers         []int       `json:"dealBreakers"`
}

// ParseProfile normalizes a raw profile request into a validated profile.
// Recoverable problems (out-of-range ratings, unknown tags) are clamped or
// dropped and reported as warnings rather than errors.
func ParseProfile(req ProfileRequest) (PreferenceProfile, []string) {
	var warnings []string

	profile := PreferenceProfile{
		GenreRatings:  make(map[int]int, len(req.GenreRatings)),
		Runtime:       RuntimeAny,
		International: InternationalMedium,
	}

	for code, rating := range req.GenreRatings {
		clamped := rating
		if clamped < 1 {
			clamped = 1
		}
		if clamped > 10 {
			clamped = 10
		}
		if clamped != rating {
			warnings = append(warnings, fmt.Sprintf("genre %d rating %d clamped to %d", code, rating, clamped))
		}
		profile.GenreRatings[code] = clamped
	}

	for _, raw := range req.Discovery {
		switch tag := DiscoveryTag(raw); tag {
		case DiscoveryTrending, DiscoveryHiddenGems, DiscoveryCriticallyAcclaimed:
			profile.Discovery = append(profile.Discovery, tag)
		default:
			warnings = append(warnings, fmt.Sprintf("unrecognized discovery preference %q dropped", raw))
		}
	}

	if req.Runtime != "" {
		switch pref := RuntimePreference(req.Runtime); pref {
		case RuntimeShort, RuntimeMedium, RuntimeLong, RuntimeAny:
			profile.Runtime = pref
		default:
			warnings = append(warnings, fmt.Sprintf("unrecognized runtime preference %q, using %q", req.Runtime, RuntimeAny))
		}
	}

	if req.International != "" {
		switch pref := InternationalPreference(req.International); pref {
		case InternationalLow, InternationalMedium, InternationalVeryOpen:
			profile.International = pref
		default:
			warnings = append(warnings, fmt.Sprintf("unrecognized international preference %q, using %q", req.International, InternationalMedium))
		}
	}

	profile.FavoriteContentHints = append(profile.FavoriteContentHints, req.FavoriteContentHints...)

	// deduplicate deal breakers, keep deterministic order
	seen := make(map[int]bool, len(req.DealBreakers))
	for _, code := range req.DealBreakers {
		if seen[code] {
			continue
		}
		seen[code] = true
		profile.DealBreakers = append(profile.DealBreakers, code)
	}
	sort.Ints(profile.DealBreakers)

	return profile, warnings
}

// ScoredCandidate is a ranked recommendation produced per request, never persisted
type ScoredCandidate struct {
	MediaID      string    `json:"mediaId"`
	MediaType    MediaType `json:"mediaType"`
	Title        string    `json:"title"`
	Score        float64   `json:"score"`
	MatchReasons []string  `json:"matchReasons"`
}
