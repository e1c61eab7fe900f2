// Package expression recognizes style expressions ("soft glam", "edgy") in a
// tagged segment and reports the modifiers they imply.
package expression

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/fuzzy"
	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

const (
	// AliasThreshold is the token-sort score a multi-word alias needs
	// against the whole segment.
	AliasThreshold = 85
	// TokenThreshold is the ratio a single token needs against a
	// single-word trigger.
	TokenThreshold = 75
	// minPrefixLen is the shortest token allowed to match a trigger by prefix.
	minPrefixLen = 4
)

// ignoredPOS never carries a style trigger.
var ignoredPOS = map[ingest.POS]bool{
	ingest.Adverb:       true,
	ingest.Pronoun:      true,
	ingest.Determiner:   true,
	ingest.Conjunction:  true,
	ingest.Adposition:   true,
	ingest.Interjection: true,
	ingest.Particle:     true,
	ingest.Subordinator: true,
	ingest.Verb:         true,
	ingest.Auxiliary:    true,
}

type trigger struct {
	expression string
	phrase     string
	words      []string
}

func (t trigger) multiword() bool {
	return len(t.words) > 1
}

// Matcher matches expression triggers against tokens. It is immutable after
// New and safe for concurrent use.
type Matcher struct {
	vocab        *vocab.Vocabulary
	triggers     []trigger // ordered by expression name, then alias order
	triggerWords map[string]bool
	logger       *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// New builds a matcher from the expressions of v. An expression's name is
// always one of its triggers.
func New(v *vocab.Vocabulary, opts ...Option) *Matcher {
	m := &Matcher{vocab: v, triggerWords: make(map[string]bool)}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	for _, e := range v.Expressions() {
		seen := make(map[string]bool)
		for _, phrase := range append([]string{e.Name}, e.Aliases...) {
			if seen[phrase] {
				continue
			}
			seen[phrase] = true
			words := strings.Fields(phrase)
			m.triggers = append(m.triggers, trigger{expression: e.Name, phrase: phrase, words: words})
			for _, w := range words {
				m.triggerWords[w] = true
			}
		}
	}
	return m
}

// ValidTokens returns the lowercase surfaces of tokens that may carry a
// trigger. Function words and verbs are dropped; a verb survives when it is
// a trigger word itself or looks like a participle ("-ed", "-en"). English
// stop words are dropped unless they are trigger words.
func (m *Matcher) ValidTokens(tokens []ingest.Token) []string {
	var out []string
	for _, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		w := strings.ToLower(tok.Text)
		isTrigger := m.triggerWords[w]

		if ignoredPOS[tok.POS] {
			verbal := tok.POS == ingest.Verb || tok.POS == ingest.Auxiliary
			participle := strings.HasSuffix(w, "ed") || strings.HasSuffix(w, "en")
			if !verbal || !(isTrigger || participle) {
				continue
			}
		}
		if !isTrigger && english.IsStopWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Match returns the sorted names of the expressions found in a segment.
// text is the raw segment; tokens are its tagged words.
func (m *Matcher) Match(tokens []ingest.Token, text string) []string {
	context := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if tok.IsWord() {
			context[strings.ToLower(tok.Text)] = true
		}
	}

	matched := make(map[string]bool)
	consumed := make(map[string]bool)

	normalized := vocab.Normalize(text)
	for _, t := range m.triggers {
		if !t.multiword() {
			continue
		}
		if score := fuzzy.TokenSortRatio(t.phrase, normalized); score >= AliasThreshold {
			m.logger.Debug("alias matched",
				zap.String("expression", t.expression),
				zap.String("alias", t.phrase),
				zap.Float64("score", score))
			matched[t.expression] = true
			for _, w := range t.words {
				consumed[w] = true
			}
		}
	}

	for _, tok := range m.ValidTokens(tokens) {
		if consumed[tok] {
			continue
		}
		for _, t := range m.triggers {
			if matched[t.expression] {
				continue
			}
			if m.tokenMatches(tok, t, context) {
				m.logger.Debug("trigger matched",
					zap.String("expression", t.expression),
					zap.String("token", tok),
					zap.String("trigger", t.phrase))
				matched[t.expression] = true
			}
		}
	}

	for _, e := range m.vocab.Expressions() {
		if matched[e.Name] {
			continue
		}
		rule, ok := m.vocab.ContextRule(e.Name)
		if ok && anyIn(rule.RequireTokens, context) && anyIn(rule.ContextClues, context) {
			m.logger.Debug("expression promoted by context", zap.String("expression", e.Name))
			matched[e.Name] = true
		}
	}

	// suppression reads the pre-suppression set, so rule order never matters
	var suppressed []string
	for _, dominant := range m.vocab.Dominants() {
		if matched[dominant] {
			suppressed = append(suppressed, m.vocab.Subordinates(dominant)...)
		}
	}
	for _, s := range suppressed {
		delete(matched, s)
	}

	out := make([]string, 0, len(matched))
	for name := range matched {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// tokenMatches is the layered single-token matcher: blocklist, exact, safe
// prefix, multi-word trigger fully present in context, then fuzzy ratio.
func (m *Matcher) tokenMatches(token string, t trigger, context map[string]bool) bool {
	if m.vocab.IsMatchBlocked(token, t.phrase) {
		return false
	}
	if token == t.phrase {
		return true
	}
	if t.multiword() {
		if !contains(t.words, token) {
			return false
		}
		for _, w := range t.words {
			if !context[w] {
				return false
			}
		}
		return true
	}
	if utf8.RuneCountInString(token) >= minPrefixLen && strings.HasPrefix(t.phrase, token) {
		return true
	}
	return fuzzy.Ratio(token, t.phrase) >= TokenThreshold
}

// Modifiers returns the sorted union of the modifiers implied by expressions.
func (m *Matcher) Modifiers(expressions []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range expressions {
		e, ok := m.vocab.Expression(name)
		if !ok {
			continue
		}
		for _, mod := range e.Modifiers {
			if !seen[mod] {
				seen[mod] = true
				out = append(out, mod)
			}
		}
	}
	sort.Strings(out)
	return out
}

// HasCosmeticNoun reports whether any token names a cosmetic product.
func (m *Matcher) HasCosmeticNoun(tokens []ingest.Token) bool {
	for _, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		w := strings.ToLower(tok.Text)
		if m.vocab.IsCosmeticNoun(w) || m.vocab.IsCosmeticNoun(ingest.Singular(w)) {
			return true
		}
	}
	return false
}

func anyIn(words []string, set map[string]bool) bool {
	for _, w := range words {
		if set[w] {
			return true
		}
	}
	return false
}

func contains(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
