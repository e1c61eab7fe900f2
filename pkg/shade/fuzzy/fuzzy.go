// Package fuzzy scores string similarity on a 0..100 scale.
//
// Scores are Levenshtein distances normalized by the longer input, so
// "night" vs "light" scores 80 and "soft" vs "sofa" scores 75.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Ratio returns the similarity of a and b in [0, 100].
func Ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

// TokenSortRatio compares a and b after lowercasing, splitting on whitespace
// and sorting the words, so word order does not affect the score.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedWords(a), sortedWords(b))
}

func sortedWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	sort.Strings(words)
	return strings.Join(words, " ")
}

// Best returns the candidate with the highest Ratio against word, provided it
// reaches threshold. Ties keep the earliest candidate, so callers that pass a
// sorted slice get the lexicographically smallest winner.
func Best(word string, candidates []string, threshold float64) (string, float64, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := Ratio(word, c)
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	if best == "" || bestScore < threshold {
		return "", 0, false
	}
	return best, bestScore, true
}
