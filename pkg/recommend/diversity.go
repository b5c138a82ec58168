package recommend

import "math"

// Diversify applies the genre diversity guard to a ranked list: within the
// top-K window, at most maxShare of the slots may be held by items sharing
// one dominant genre. Excess same-genre items are demoted below the cutoff in
// favor of the next-best distinct-genre candidates; relative score order is
// preserved among non-demoted items and among the demoted ones.
func Diversify(ranked []Ranked, topK int, maxShare float64) []Ranked {
	if len(ranked) <= 1 {
		return ranked
	}
	if topK <= 0 || topK > len(ranked) {
		topK = len(ranked)
	}
	if maxShare <= 0 || maxShare >= 1 {
		return ranked
	}

	genreCap := int(math.Floor(maxShare * float64(topK)))
	if genreCap < 1 {
		genreCap = 1
	}

	counts := make(map[int]int)
	selected := make([]Ranked, 0, topK)
	picked := make([]bool, len(ranked))

	// fill the top-K window greedily in score order, skipping candidates
	// whose dominant genre already holds its full share
	for i := range ranked {
		if len(selected) == topK {
			break
		}
		genre, ok := ranked[i].Candidate.Vector.DominantGenre()
		if ok && counts[genre] >= genreCap {
			continue
		}
		if ok {
			counts[genre]++
		}
		selected = append(selected, ranked[i])
		picked[i] = true
	}

	// backfill when there were not enough distinct-genre candidates
	for i := range ranked {
		if len(selected) == topK {
			break
		}
		if !picked[i] {
			selected = append(selected, ranked[i])
			picked[i] = true
		}
	}

	// everything else follows in original score order
	result := selected
	for i := range ranked {
		if !picked[i] {
			result = append(result, ranked[i])
		}
	}
	return result
}
