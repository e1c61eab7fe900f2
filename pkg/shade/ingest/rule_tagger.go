package ingest

import (
	"strings"
	"unicode"

	"github.com/cognicore/shade/pkg/shade/vocab"
)

// RuleTagger is a deterministic tagger: closed-class word tables, vocabulary
// hints and suffix rules. It never fails and needs no model files.
type RuleTagger struct {
	hints map[string]POS
}

// NewRuleTagger creates a tagger with optional word -> POS hints. Hints win
// over suffix rules but not over the closed-class tables.
func NewRuleTagger(hints map[string]POS) *RuleTagger {
	h := make(map[string]POS, len(hints))
	for w, p := range hints {
		h[strings.ToLower(w)] = p
	}
	return &RuleTagger{hints: h}
}

// VocabularyHints tags tones and cosmetic nouns as nouns and modifiers as
// adjectives.
func VocabularyHints(v *vocab.Vocabulary) map[string]POS {
	hints := make(map[string]POS)
	for _, t := range v.Tones() {
		hints[t] = Noun
	}
	for _, n := range v.CosmeticNouns() {
		hints[n] = Noun
	}
	for _, m := range v.Modifiers() {
		hints[m] = Adjective
	}
	return hints
}

// Tag splits text into words and punctuation. Letters, digits and
// apostrophes form words; hyphens separate words ("rose-gold" -> rose, gold);
// any other non-space rune becomes a punctuation token.
func (t *RuleTagger) Tag(text string) ([]Token, error) {
	var tokens []Token
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := strings.Trim(current.String(), "'")
		current.Reset()
		if word == "" {
			return
		}
		tokens = append(tokens, t.tagWord(word, len(tokens)))
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'' || r == '’':
			if r == '’' {
				r = '\''
			}
			current.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			flush()
		default:
			flush()
			tokens = append(tokens, Token{Text: string(r), Lemma: string(r), POS: Punctuation, Index: len(tokens)})
		}
	}
	flush()

	return tokens, nil
}

func (t *RuleTagger) tagWord(word string, index int) Token {
	lower := strings.ToLower(word)
	pos := t.classify(lower)

	lemma := lower
	if pos == Noun {
		lemma = Singular(lower)
	}
	return Token{Text: word, Lemma: lemma, POS: pos, Index: index}
}

func (t *RuleTagger) classify(w string) POS {
	if pos, ok := closedClass[w]; ok {
		return pos
	}
	if pos, ok := t.hints[w]; ok {
		return pos
	}
	if pos, ok := t.hints[Singular(w)]; ok && pos == Noun {
		return Noun
	}
	if isNumeric(w) {
		return Numeral
	}
	if strings.Contains(w, "'") {
		return Particle
	}

	switch {
	case strings.HasSuffix(w, "ly") && len(w) > 4:
		return Adverb
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return Verb
	case strings.HasSuffix(w, "ed") && len(w) > 4:
		return Verb
	}
	for _, suffix := range adjectiveSuffixes {
		if strings.HasSuffix(w, suffix) && len(w) > len(suffix)+2 {
			return Adjective
		}
	}
	return Noun
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

var adjectiveSuffixes = []string{"ish", "y", "ous", "ful", "ic", "ive", "al", "less", "able"}

var closedClass = buildClosedClass(map[POS][]string{
	Determiner: {"a", "an", "the", "this", "that", "these", "those", "some", "any", "each",
		"every", "no", "my", "your", "his", "her", "its", "our", "their", "another"},
	Pronoun: {"i", "me", "you", "he", "she", "it", "we", "they", "them", "us", "him", "mine",
		"yours", "something", "anything", "everything", "nothing", "myself", "yourself", "one"},
	Adposition: {"in", "on", "at", "of", "for", "with", "without", "from", "by", "about",
		"into", "over", "under", "between", "through", "near", "around"},
	Conjunction:  {"and", "or", "but", "nor", "yet"},
	Subordinator: {"if", "because", "while", "although", "though", "than", "when", "whereas", "unless"},
	Interjection: {"oh", "wow", "hey", "hi", "hello", "yes", "yeah", "please", "thanks", "ok", "okay"},
	Particle:     {"not", "to"},
	Auxiliary: {"is", "am", "are", "was", "were", "be", "been", "being", "do", "does", "did",
		"will", "would", "can", "could", "should", "might", "may", "must", "shall", "have", "has", "had"},
	Adverb: {"very", "really", "so", "too", "quite", "just", "also", "more", "most", "rather",
		"somewhat", "maybe", "always", "never", "still", "even", "there", "here", "now", "again"},
	Verb: {"like", "love", "want", "need", "prefer", "think", "feel", "get", "go", "make",
		"wear", "buy", "look", "looks", "find", "try", "show", "give", "keep", "hate", "wish"},
})

func buildClosedClass(classes map[POS][]string) map[string]POS {
	m := make(map[string]POS)
	for pos, words := range classes {
		for _, w := range words {
			m[w] = pos
		}
	}
	return m
}
