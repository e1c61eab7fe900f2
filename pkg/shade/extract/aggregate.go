package extract

import (
	"sort"

	"github.com/cognicore/shade/pkg/shade/vocab"
)

// Aggregate returns the sorted union of the given phrase lists with
// normalization applied and empties dropped.
func Aggregate(lists ...[]string) []string {
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, p := range list {
			if p = vocab.Normalize(p); p != "" {
				seen[p] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
