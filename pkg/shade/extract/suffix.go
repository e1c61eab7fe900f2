package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/simplify"
)

// SuffixFallback accepts "-y"/"-ish" words that name a tone directly or whose
// simplification contains a known tone. By default only adjectives that are
// not known modifiers qualify. Tokens fully consumed by compounds are
// skipped. A Chain of simplifiers is consulted member by member until one
// answer names a tone. A failing simplifier counts as an empty answer; only context
// cancellation is returned as an error.
func (e *Extractor) SuffixFallback(ctx context.Context, tokens []ingest.Token, candidates []Candidate) ([]string, error) {
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
		word := ingest.Singular(text)
		if !strings.HasSuffix(word, "y") && !strings.HasSuffix(word, "ish") {
			continue
		}
		if e.vocab.IsCosmeticNoun(word) {
			continue
		}
		if !e.lenientSuffix && (tok.POS != ingest.Adjective || e.vocab.IsModifier(text)) {
			continue
		}

		if e.vocab.IsToneOrWebColor(word) {
			out = append(out, word)
			continue
		}
		if e.simplifier == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		simpler, err := simplify.Until(ctx, e.simplifier, word, e.namesTone)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.logger.Debug("simplifier failed", zap.String("word", word), zap.Error(err))
			continue
		}
		if e.namesTone(simpler) {
			e.logger.Debug("suffix fallback accepted", zap.String("word", word), zap.Strings("simplified", simpler))
			out = append(out, word)
		}
	}
	return out, nil
}

func (e *Extractor) namesTone(phrases []string) bool {
	for _, p := range phrases {
		for _, w := range strings.Fields(strings.ToLower(p)) {
			if e.vocab.IsTone(w) {
				return true
			}
		}
	}
	return false
}
