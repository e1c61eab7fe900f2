package extract

import (
	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// usage counts surfaces across the segment and inside accepted compounds.
type usage struct {
	total    map[string]int
	compound map[string]int
	consumed map[string]bool
}

func countUsage(tokens []ingest.Token, candidates []Candidate) usage {
	u := usage{
		total:    make(map[string]int),
		compound: make(map[string]int),
		consumed: make(map[string]bool),
	}
	for _, t := range tokens {
		u.total[surfaceOf(t)]++
	}
	positions := make(map[int]bool)
	for _, c := range candidates {
		for _, p := range c.Positions {
			positions[p] = true
		}
	}
	for p := range positions {
		if p < 0 || p >= len(tokens) {
			continue
		}
		s := surfaceOf(tokens[p])
		u.compound[s]++
		u.consumed[s] = true
	}
	return u
}

// Standalone returns single-word phrases for tokens that resolve as a
// modifier or a tone and are not fully consumed by compounds. injected words
// are added when they resolve, regardless of the token stream.
//
// Fuzzy modifier resolution is reserved for adjectives; other tokens must
// match exactly or through the suffix heuristic.
func (e *Extractor) Standalone(tokens []ingest.Token, candidates []Candidate, injected []string) []string {
	u := countUsage(tokens, candidates)

	var out []string
	for _, tok := range tokens {
		if !tok.IsWord() {
			continue
		}
		text := surfaceOf(tok)
		if u.total[text] <= u.compound[text] {
			continue
		}
		if p, ok := e.standalonePhrase(text, tok.POS); ok {
			out = append(out, p)
		}
	}

	for _, w := range injected {
		w = vocab.Normalize(w)
		if w == "" {
			continue
		}
		if p, ok := e.standalonePhrase(w, ingest.Adjective); ok {
			e.logger.Debug("injected phrase", zap.String("phrase", p))
			out = append(out, p)
		}
	}
	return out
}

func (e *Extractor) standalonePhrase(text string, pos ingest.POS) (string, bool) {
	singular := ingest.Singular(text)
	if e.vocab.IsCosmeticNoun(text) || e.vocab.IsCosmeticNoun(singular) {
		return "", false
	}

	if e.vocab.IsTone(singular) {
		// a tone noun must be a palette name; product words like "rose"
		// in "rose lipstick" are left to the lone-tone pass
		if isNoun(pos) && !e.vocab.IsWebColor(singular) {
			return "", false
		}
		return singular, true
	}

	var (
		mod string
		ok  bool
	)
	if pos == ingest.Adjective {
		mod, ok = e.resolver.Modifier(text)
	} else {
		mod, ok = e.resolver.ModifierExact(text)
	}
	return mod, ok
}

// LoneTones returns tone nouns that never took part in an accepted compound.
func (e *Extractor) LoneTones(tokens []ingest.Token, candidates []Candidate) []string {
	u := countUsage(tokens, candidates)

	var out []string
	for _, tok := range tokens {
		if !isNoun(tok.POS) {
			continue
		}
		text := surfaceOf(tok)
		singular := ingest.Singular(text)
		if u.consumed[text] || !e.vocab.IsTone(singular) || e.vocab.IsCosmeticNoun(singular) {
			continue
		}
		out = append(out, singular)
	}
	return out
}

func isNoun(pos ingest.POS) bool {
	return pos == ingest.Noun || pos == ingest.ProperNoun
}
