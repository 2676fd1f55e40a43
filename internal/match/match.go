// Package match resolves free-text speaker tokens to roster names using
// character-bigram Dice similarity.
package match

// Similarity returns the bigram Dice coefficient between a and b in [0,1].
// Equal non-empty strings score 1; any string shorter than two runes scores 0
// against everything else, empty strings included. The intersection is
// multiset-aware: a bigram occurring twice in one string can match up to its
// count in the other.
func Similarity(a, b string) float64 {
	if a == b && a != "" {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[string(ra[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := string(rb[i : i+2])
		if counts[bg] > 0 {
			counts[bg]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(ra)-1+len(rb)-1)
}

// Matcher picks the closest candidate name for a speaker token.
type Matcher struct {
	Threshold float64
}

func New(threshold float64) *Matcher {
	return &Matcher{Threshold: threshold}
}

// Best returns the highest-scoring candidate and its score. Ties resolve to
// the earlier candidate. Returns ("", 0) for an empty candidate set.
func (m *Matcher) Best(speaker string, candidates []string) (string, float64) {
	bestName, bestScore := "", 0.0
	for _, c := range candidates {
		if score := Similarity(speaker, c); score > bestScore {
			bestName, bestScore = c, score
		}
	}
	return bestName, bestScore
}

// Resolve maps a speaker to a candidate name: exact equality short-circuits
// with score 1, otherwise the best fuzzy candidate is accepted only when its
// score meets the threshold.
func (m *Matcher) Resolve(speaker string, candidates []string) (string, float64, bool) {
	for _, c := range candidates {
		if c == speaker {
			return c, 1, true
		}
	}
	name, score := m.Best(speaker, candidates)
	if name != "" && score >= m.Threshold {
		return name, score, true
	}
	return "", 0, false
}
