// Package extract turns a tagged segment into normalized color phrases.
//
// Four passes read the same token sequence:
//   - compounds: "modifier tone" pairs from adjacent, split and glued tokens
//   - standalone: single modifiers or tones not consumed by a compound
//   - lone tones: tone nouns that never took part in a compound
//   - suffix fallback: "-y"/"-ish" adjectives whose meaning reduces to a tone
//
// The aggregator merges them into a sorted, duplicate-free phrase list.
package extract

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/glue"
	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/resolve"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// Extractor runs every extraction pass. All state of a call lives on the
// stack, so one Extractor can serve concurrent callers.
type Extractor struct {
	vocab      *vocab.Vocabulary
	resolver   *resolve.Resolver
	splitter   *glue.Splitter
	simplifier simplify.Simplifier
	logger     *zap.Logger

	// lenientSuffix drops the ADJ and non-modifier requirements of the
	// suffix fallback.
	lenientSuffix bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithResolver replaces the default resolver.
func WithResolver(r *resolve.Resolver) Option {
	return func(e *Extractor) { e.resolver = r }
}

// WithSplitter replaces the default cached splitter.
func WithSplitter(s *glue.Splitter) Option {
	return func(e *Extractor) { e.splitter = s }
}

// WithSimplifier enables the simplifier stage of the suffix fallback.
func WithSimplifier(s simplify.Simplifier) Option {
	return func(e *Extractor) { e.simplifier = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// WithLenientSuffix accepts suffix-fallback words of any part of speech,
// known modifiers included.
func WithLenientSuffix(lenient bool) Option {
	return func(e *Extractor) { e.lenientSuffix = lenient }
}

// New creates an extractor over v.
func New(v *vocab.Vocabulary, opts ...Option) *Extractor {
	e := &Extractor{vocab: v}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = resolve.New(v)
	}
	if e.splitter == nil {
		e.splitter = glue.NewSplitter(v)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Result is the output of one extraction.
type Result struct {
	Phrases   []string // every phrase, sorted and unique
	Compounds []string // the "modifier tone" subset, sorted and unique
}

// Extract runs all passes over tokens. injected holds extra standalone
// candidates, normally the modifiers implied by matched expressions.
// The only error is a cancelled context.
func (e *Extractor) Extract(ctx context.Context, tokens []ingest.Token, injected []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	candidates := e.Compounds(tokens)
	compounds := phrasesOf(candidates)
	standalone := e.Standalone(tokens, candidates, injected)
	lone := e.LoneTones(tokens, candidates)
	fallback, err := e.SuffixFallback(ctx, tokens, candidates)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Phrases:   Aggregate(compounds, standalone, lone, fallback),
		Compounds: Aggregate(compounds),
	}, nil
}

// surfaceOf is the lowercase surface text used for all counting.
func surfaceOf(t ingest.Token) string {
	return strings.ToLower(strings.TrimSpace(t.Text))
}
