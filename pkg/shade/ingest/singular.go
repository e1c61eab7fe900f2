package ingest

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Singular returns the lowercase singular form of word ("pinks" -> "pink",
// "berries" -> "berry"). Words of three letters or fewer are only
// lowercased, which keeps "yes" and "has" intact.
func Singular(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if len(w) <= 3 {
		return w
	}
	return inflection.Singular(w)
}
