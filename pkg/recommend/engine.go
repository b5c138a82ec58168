// Package recommend implements the preference-driven scoring and ranking
// engine. Ranking is a pure function of the candidate pool and a validated
// preference profile: no state is carried across calls, identical inputs
// produce identical ordered output.
package recommend

import (
	"sort"
	"strings"

	"github.com/20ns/movierec-sub005/pkg/domain"
	"github.com/20ns/movierec-sub005/pkg/feature"
)

// score term weights. Terms are bounded and combined additively so one weak
// term cannot zero out an otherwise strong match.
const (
	discoveryWeight    = 2.0
	runtimeFullBonus   = 1.0
	runtimeAdjacent    = 0.5
	intlFullBonus      = 1.0
	intlPartialBonus   = 0.5
	intlUniformBonus   = 0.3
	recencyWeight      = 0.5
	favoriteHintBonus  = 0.75
	reasonThreshold    = 0.25 // a term below this is not worth explaining
	scoreEpsilon       = 1e-9 // float scores closer than this tie-break deterministically
	runtimeShortBound  = 90   // minutes, exclusive upper bound of the short bucket
	runtimeMediumBound = 150  // minutes, inclusive upper bound of the medium bucket
)

// Candidate pairs a cached media item with its derived feature vector
type Candidate struct {
	Item   domain.MediaItem
	Vector feature.Vector
}

// Ranked is a scored candidate in ranking order
type Ranked struct {
	Candidate    Candidate
	Score        float64
	MatchReasons []string
}

// ToScoredCandidate converts to the external result shape
func (r *Ranked) ToScoredCandidate() domain.ScoredCandidate {
	return domain.ScoredCandidate{
		MediaID:      r.Candidate.Item.ID,
		MediaType:    r.Candidate.Item.Type,
		Title:        r.Candidate.Item.Title,
		Score:        r.Score,
		MatchReasons: r.MatchReasons,
	}
}

// Options carry the language configuration the international-fit term needs
type Options struct {
	DefaultLanguage   string
	LanguageAllowList []string
}

// Rank filters hard exclusions and orders the remaining candidates by
// descending score. Excluded candidates never appear in the output and never
// affect tie-breaking. An empty pool yields an empty result, not an error.
func Rank(candidates []Candidate, profile domain.PreferenceProfile, opts Options) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		if profile.IsDealBreaker(c.Item.Genres) {
			continue
		}
		score, reasons := scoreCandidate(c, profile, opts)
		ranked = append(ranked, Ranked{Candidate: c, Score: score, MatchReasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankedLess(&ranked[i], &ranked[j])
	})
	return ranked
}

// rankedLess orders by descending score; ties within epsilon fall back to
// higher vote average, then higher popularity, then lexicographic id for
// deterministic output.
func rankedLess(a, b *Ranked) bool {
	if diff := a.Score - b.Score; diff > scoreEpsilon || diff < -scoreEpsilon {
		return a.Score > b.Score
	}
	if a.Candidate.Item.VoteAverage != b.Candidate.Item.VoteAverage {
		return a.Candidate.Item.VoteAverage > b.Candidate.Item.VoteAverage
	}
	if a.Candidate.Item.Popularity != b.Candidate.Item.Popularity {
		return a.Candidate.Item.Popularity > b.Candidate.Item.Popularity
	}
	return a.Candidate.Item.ID < b.Candidate.Item.ID
}

// scoreCandidate computes the additive score and collects match reasons for
// terms that contributed materially, in term order.
func scoreCandidate(c Candidate, profile domain.PreferenceProfile, opts Options) (float64, []string) {
	var score float64
	var reasons []string

	// 1. genre affinity: neutral ratings center at zero, positive ratings
	// boost, low ratings suppress
	affinity := 0.0
	for genre, weight := range c.Vector.GenreWeights {
		affinity += weight * float64(profile.GenreRating(genre)-domain.NeutralGenreRating)
	}
	score += affinity
	if affinity > reasonThreshold {
		reasons = append(reasons, "matches your genre tastes")
	}

	// 2. discovery bonus
	quality := c.Vector.VoteReliability * (c.Item.VoteAverage / 10)
	if profile.HasDiscovery(domain.DiscoveryTrending) {
		term := discoveryWeight * c.Vector.PopularityNorm
		score += term
		if term > reasonThreshold {
			reasons = append(reasons, "trending now")
		}
	}
	if profile.HasDiscovery(domain.DiscoveryHiddenGems) {
		term := discoveryWeight * quality * (1 - c.Vector.PopularityNorm)
		score += term
		if term > reasonThreshold {
			reasons = append(reasons, "hidden gem")
		}
	}
	if profile.HasDiscovery(domain.DiscoveryCriticallyAcclaimed) {
		term := discoveryWeight * quality
		score += term
		if term > reasonThreshold {
			reasons = append(reasons, "critically acclaimed")
		}
	}

	// 3. runtime fit
	if term := runtimeFit(c.Item.RuntimeMinutes, profile.Runtime); term > 0 {
		score += term
		if term > reasonThreshold {
			reasons = append(reasons, "fits your preferred runtime")
		}
	}

	// 4. international fit
	if term := internationalFit(c.Item.OriginalLanguage, profile.International, opts); term > 0 {
		score += term
		if term > reasonThreshold {
			reasons = append(reasons, "matches your language preference")
		}
	}

	// 5. recency nudges freshness without dominating taste signals
	recency := recencyWeight * c.Vector.RecencyScore
	score += recency
	if recency > reasonThreshold {
		reasons = append(reasons, "recent release")
	}

	// favorite hints are soft seed signals, never filters
	if matchesFavoriteHint(c.Item.Title, profile.FavoriteContentHints) {
		score += favoriteHintBonus
		reasons = append(reasons, "similar to your favorites")
	}

	return score, reasons
}

// runtimeBucket maps minutes to short/medium/long, -1 for unknown
func runtimeBucket(minutes int) int {
	switch {
	case minutes <= 0:
		return -1
	case minutes < runtimeShortBound:
		return 0
	case minutes <= runtimeMediumBound:
		return 1
	default:
		return 2
	}
}

// runtimeFit rewards the preferred bucket fully, the adjacent bucket
// partially, and is neutral for unknown runtime or no preference
func runtimeFit(minutes int, pref domain.RuntimePreference) float64 {
	if pref == domain.RuntimeAny || pref == "" {
		return 0
	}

	bucket := runtimeBucket(minutes)
	if bucket < 0 {
		return 0
	}

	var want int
	switch pref {
	case domain.RuntimeShort:
		want = 0
	case domain.RuntimeMedium:
		want = 1
	case domain.RuntimeLong:
		want = 2
	default:
		return 0
	}

	switch dist := abs(bucket - want); dist {
	case 0:
		return runtimeFullBonus
	case 1:
		return runtimeAdjacent
	default:
		return 0
	}
}

// internationalFit scales the language bonus by the openness tier
func internationalFit(language string, pref domain.InternationalPreference, opts Options) float64 {
	isDefault := language != "" && strings.EqualFold(language, opts.DefaultLanguage)

	switch pref {
	case domain.InternationalLow:
		if isDefault {
			return intlFullBonus
		}
		return 0
	case domain.InternationalMedium, "":
		if isDefault {
			return intlFullBonus
		}
		for _, allowed := range opts.LanguageAllowList {
			if strings.EqualFold(language, allowed) {
				return intlPartialBonus
			}
		}
		return 0
	case domain.InternationalVeryOpen:
		return intlUniformBonus
	}
	return 0
}

// matchesFavoriteHint reports whether any hint matches the title as a
// case-insensitive substring
func matchesFavoriteHint(title string, hints []string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, hint := range hints {
		h := strings.TrimSpace(strings.ToLower(hint))
		if h == "" {
			continue
		}
		if strings.Contains(lower, h) || strings.Contains(h, lower) {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
