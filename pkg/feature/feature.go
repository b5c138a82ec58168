// Package feature derives per-item feature vectors from media metadata.
// Vectors are cheap hand-computed signals (genre weights plus scalar
// popularity, recency and quality features), recomputable at any time from
// the metadata item that produced them.
package feature

import (
	"math"
	"time"
)

const (
	// recencyHalfLife controls the exponential decay of RecencyScore:
	// an item loses half its recency every five years
	recencyHalfLife = 5 * 365 * 24 * time.Hour

	// recencyFloor is the minimum non-zero recency, also used for undated items
	recencyFloor = 0.05

	// votePrior dampens VoteReliability for items with few votes
	votePrior = 50

	// unknownVotesReliability is the fixed attenuation applied when the
	// provider reports no vote count at all
	unknownVotesReliability = 0.7
)

// Vector holds the derived features for a single media item.
// GenreWeights sums to 1 across present genres and is empty when the item
// carries no genres.
type Vector struct {
	GenreWeights    map[int]float64
	PopularityNorm  float64 // popularity rescaled to [0,1] against the run maximum
	RecencyScore    float64 // (0,1], decays with age of the release date
	VoteReliability float64 // (0,1], confidence discount for low vote counts
}

// DominantGenre returns the highest-weight genre code, breaking ties by the
// lower code for determinism. The second return is false for empty vectors.
func (v *Vector) DominantGenre() (int, bool) {
	best, bestWeight, found := 0, -1.0, false
	for code, w := range v.GenreWeights {
		if w > bestWeight || (w == bestWeight && code < best) {
			best, bestWeight, found = code, w, true
		}
	}
	return best, found
}

// Input carries the metadata fields a vector is derived from
type Input struct {
	Genres      []int
	Popularity  float64
	VoteCount   int
	ReleaseDate *time.Time
}

// Compute derives a feature vector. maxPopularity is the normalization
// reference (the maximum popularity observed in the ingestion run); now fixes
// the recency calculation so the derivation is deterministic.
func Compute(in Input, maxPopularity float64, now time.Time) Vector {
	v := Vector{
		GenreWeights:    genreWeights(in.Genres),
		PopularityNorm:  popularityNorm(in.Popularity, maxPopularity),
		RecencyScore:    recencyScore(in.ReleaseDate, now),
		VoteReliability: voteReliability(in.VoteCount),
	}
	return v
}

// genreWeights distributes weight uniformly over the distinct present genres
func genreWeights(genres []int) map[int]float64 {
	weights := make(map[int]float64, len(genres))
	distinct := 0
	for _, g := range genres {
		if _, ok := weights[g]; !ok {
			distinct++
		}
		weights[g] = 0
	}
	if distinct == 0 {
		return weights
	}
	w := 1.0 / float64(distinct)
	for g := range weights {
		weights[g] = w
	}
	return weights
}

func popularityNorm(popularity, maxPopularity float64) float64 {
	if maxPopularity <= 0 || popularity <= 0 {
		return 0
	}
	norm := popularity / maxPopularity
	return math.Min(norm, 1)
}

func recencyScore(releaseDate *time.Time, now time.Time) float64 {
	if releaseDate == nil {
		return recencyFloor
	}
	age := now.Sub(*releaseDate)
	if age <= 0 {
		return 1
	}
	score := math.Exp2(-float64(age) / float64(recencyHalfLife))
	return math.Max(score, recencyFloor)
}

func voteReliability(voteCount int) float64 {
	if voteCount <= 0 {
		return unknownVotesReliability
	}
	return float64(voteCount) / float64(voteCount+votePrior)
}
