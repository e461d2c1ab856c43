package lcs

import "strings"

// Closest returns the candidate most similar to s. Similarity is the length of
// the common prefix plus the common suffix, ignoring case. Ties are broken by
// the length of the shared leading and trailing words, then by the candidate
// order. It reports false if no candidate shares at least half of s.
func Closest(s string, candidates []string) (string, bool) {
	lower := strings.ToLower(s)

	best, bestScore, bestWords := "", 0, 0
	for _, c := range candidates {
		lc := strings.ToLower(c)
		score := min(prefixLen(lower, lc)+suffixLen(lower, lc), len(s), len(c))
		words := sharedWords(s, c)

		if score > bestScore || score == bestScore && words > bestWords {
			best, bestScore, bestWords = c, score, words
		}
	}

	if best == "" || bestScore*2 < len(s) {
		return "", false
	}
	return best, true
}
