package simplify

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/shade/pkg/shade/internalerr"
)

//go:embed default_lexicon.yaml
var defaultLexicon []byte

// Lexicon stores meaning mappings for color words:
// - Synonym groups: variants mapped to one canonical word (golden -> gold)
// - Suffix stripping: "-ish"/"-y"/"-ey" removed with consonant undoubling
//
// A Lexicon is filled before use and only read afterwards.
type Lexicon struct {
	// canonical -> all variants (including canonical itself)
	synonyms map[string][]string

	// variant -> canonical
	reverseIndex map[string]string
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		synonyms:     make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// DefaultLexicon returns the built-in color lexicon.
func DefaultLexicon() *Lexicon {
	lex, err := ParseLexicon(defaultLexicon)
	if err != nil {
		panic(fmt.Sprintf("simplify: embedded lexicon: %v", err))
	}
	return lex
}

// LoadLexicon loads synonym groups from a YAML file.
//
// Expected format:
//
//	synonyms:
//	  - canonical: gold
//	    variants: [golden, gilded]
//	  - canonical: red
//	    variants: [crimson, scarlet]
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon parses lexicon YAML.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var file struct {
		Synonyms []struct {
			Canonical string   `yaml:"canonical"`
			Variants  []string `yaml:"variants"`
		} `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: lexicon: %v", internalerr.ErrInvalidConfig, err)
	}

	lex := NewLexicon()
	for _, entry := range file.Synonyms {
		if strings.TrimSpace(entry.Canonical) == "" {
			return nil, fmt.Errorf("%w: lexicon entry without canonical", internalerr.ErrInvalidConfig)
		}
		lex.AddSynonymGroup(entry.Canonical, entry.Variants)
	}
	return lex, nil
}

// AddSynonymGroup adds a canonical word and its variants. The canonical form
// is always the first variant. Redefining a group drops its old variants.
func (l *Lexicon) AddSynonymGroup(canonical string, variants []string) {
	canonical = strings.ToLower(strings.TrimSpace(canonical))

	if old, ok := l.synonyms[canonical]; ok {
		for _, v := range old {
			delete(l.reverseIndex, v)
		}
	}

	normalized := []string{canonical}
	seen := map[string]bool{canonical: true}
	for _, v := range variants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" && !seen[v] {
			normalized = append(normalized, v)
			seen[v] = true
		}
	}

	l.synonyms[canonical] = normalized
	for _, v := range normalized {
		l.reverseIndex[v] = canonical
	}
}

// Normalize returns the canonical form of word, or word itself when unknown.
func (l *Lexicon) Normalize(word string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if canonical, ok := l.reverseIndex[word]; ok {
		return canonical
	}
	return word
}

// Variants returns every known form of word, canonical first.
func (l *Lexicon) Variants(word string) []string {
	word = strings.ToLower(strings.TrimSpace(word))
	if canonical, ok := l.reverseIndex[word]; ok {
		return l.synonyms[canonical]
	}
	return []string{word}
}

// Simplify returns the canonical form of word followed by its suffix-stripped
// stems, each mapped through the lexicon. Unknown words without a strippable
// suffix yield an empty result.
func (l *Lexicon) Simplify(ctx context.Context, word string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(w string) {
		if w != "" && w != word && !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}

	add(l.Normalize(word))
	for _, stem := range Stems(word) {
		add(l.Normalize(stem))
	}
	return out, nil
}

// Stats returns statistics about the lexicon contents.
func (l *Lexicon) Stats() LexiconStats {
	total := 0
	for _, variants := range l.synonyms {
		total += len(variants)
	}
	return LexiconStats{SynonymGroups: len(l.synonyms), TotalVariants: total}
}

// LexiconStats holds statistics about lexicon contents.
type LexiconStats struct {
	SynonymGroups int
	TotalVariants int
}

// Stems strips a descriptive suffix from word and returns the candidate base
// words, most likely first:
//
//	peachy  -> peach, peache
//	reddish -> red, redd
//	bluish  -> blu, blue
//	rosy    -> ros, rose
//	clayey  -> clay, claye
//
// Words without a "-ish", "-ey" or "-y" suffix return nil.
func Stems(word string) []string {
	var base string
	switch {
	case strings.HasSuffix(word, "ish") && len(word) > 5:
		base = strings.TrimSuffix(word, "ish")
	case strings.HasSuffix(word, "ey") && len(word) > 4:
		base = strings.TrimSuffix(word, "ey")
	case strings.HasSuffix(word, "y") && len(word) > 3:
		base = strings.TrimSuffix(word, "y")
	default:
		return nil
	}

	n := len(base)
	if n >= 2 && base[n-1] == base[n-2] && !isVowel(base[n-1]) {
		return []string{base[:n-1], base}
	}
	if base[n-1] == 'e' {
		return []string{base}
	}
	return []string{base, base + "e"}
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}
