package shade

import (
	"context"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/expression"
	"github.com/cognicore/shade/pkg/shade/extract"
	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/internalerr"
	"github.com/cognicore/shade/pkg/shade/resolve"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// Engine is the color phrase extraction facade. It is safe for concurrent
// use once built.
type Engine struct {
	vocab     *vocab.Vocabulary
	tagger    ingest.Tagger
	segmenter *ingest.Segmenter
	extractor *extract.Extractor
	matcher   *expression.Matcher
	logger    *zap.Logger

	disableExpressions bool
	disableInjection   bool
}

// Options configures an Engine. Only Vocabulary is required.
type Options struct {
	Vocabulary *vocab.Vocabulary
	Tagger     ingest.Tagger       // defaults to a RuleTagger with vocabulary hints
	Simplifier simplify.Simplifier // nil disables the simplifier stage of the suffix fallback
	Segmenter  *ingest.Segmenter   // defaults to the English sentence model
	Logger     *zap.Logger

	DisableExpressions bool // skip the expression matcher entirely
	DisableInjection   bool // match expressions but never inject their modifiers
	LenientSuffix      bool // suffix fallback accepts any part of speech
	ToneFuzzy          bool // tone slot falls back to fuzzy matching
}

// New creates an Engine with the given dependencies.
func New(opts Options) (*Engine, error) {
	if opts.Vocabulary == nil {
		return nil, fmt.Errorf("%w: vocabulary is required", internalerr.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tagger := opts.Tagger
	if tagger == nil {
		tagger = ingest.NewRuleTagger(ingest.VocabularyHints(opts.Vocabulary))
	}

	segmenter := opts.Segmenter
	if segmenter == nil {
		var err error
		if segmenter, err = ingest.NewSegmenter(); err != nil {
			return nil, fmt.Errorf("sentence model: %w", err)
		}
	}

	extractOpts := []extract.Option{
		extract.WithResolver(resolve.New(opts.Vocabulary, resolve.WithToneFuzzy(opts.ToneFuzzy))),
		extract.WithLogger(logger.Named("extract")),
		extract.WithLenientSuffix(opts.LenientSuffix),
	}
	if opts.Simplifier != nil {
		extractOpts = append(extractOpts, extract.WithSimplifier(opts.Simplifier))
	}

	return &Engine{
		vocab:              opts.Vocabulary,
		tagger:             tagger,
		segmenter:          segmenter,
		extractor:          extract.New(opts.Vocabulary, extractOpts...),
		matcher:            expression.New(opts.Vocabulary, expression.WithLogger(logger.Named("expression"))),
		logger:             logger,
		disableExpressions: opts.DisableExpressions,
		disableInjection:   opts.DisableInjection,
	}, nil
}

// Vocabulary returns the vocabulary the engine was built with.
func (e *Engine) Vocabulary() *vocab.Vocabulary {
	return e.vocab
}

// Result is the extraction output for one text segment.
type Result struct {
	ID          string   `json:"id"`          // ULID, unique per extraction
	Text        string   `json:"text"`        // the segment as given
	Phrases     []string `json:"phrases"`     // sorted unique phrases
	Compounds   []string `json:"compounds"`   // sorted "modifier tone" subset of Phrases
	Expressions []string `json:"expressions"` // sorted expression names
}

// Extract extracts color phrases and style expressions from one segment.
// Expression modifiers are injected as extra phrases unless the segment
// mentions a cosmetic product.
func (e *Engine) Extract(ctx context.Context, segment string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{
		ID:          ulid.Make().String(),
		Text:        segment,
		Phrases:     []string{},
		Compounds:   []string{},
		Expressions: []string{},
	}
	if strings.TrimSpace(segment) == "" {
		return res, nil
	}

	tokens, err := e.tagger.Tag(segment)
	if err != nil {
		return Result{}, fmt.Errorf("tag segment: %w", err)
	}

	var injected []string
	if !e.disableExpressions {
		res.Expressions = e.matcher.Match(tokens, segment)
		if !e.disableInjection && len(res.Expressions) > 0 {
			if e.matcher.HasCosmeticNoun(tokens) {
				e.logger.Debug("expression injection skipped: cosmetic noun present",
					zap.Strings("expressions", res.Expressions))
			} else {
				injected = e.matcher.Modifiers(res.Expressions)
			}
		}
	}

	out, err := e.extractor.Extract(ctx, tokens, injected)
	if err != nil {
		return Result{}, err
	}
	res.Phrases, res.Compounds = out.Phrases, out.Compounds

	e.logger.Debug("segment extracted",
		zap.String("id", res.ID),
		zap.Int("tokens", len(tokens)),
		zap.Strings("phrases", res.Phrases),
		zap.Strings("expressions", res.Expressions))
	return res, nil
}

// ExtractDocument splits text into sentences and extracts each in order.
func (e *Engine) ExtractDocument(ctx context.Context, text string) ([]Result, error) {
	segments := e.segmenter.Segment(text)
	results := make([]Result, 0, len(segments))
	for _, seg := range segments {
		res, err := e.Extract(ctx, seg)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ExtractHTML strips markup and extracts the remaining text as a document.
func (e *Engine) ExtractHTML(ctx context.Context, markup string) ([]Result, error) {
	text, err := ingest.StripHTML(markup)
	if err != nil {
		return nil, fmt.Errorf("strip html: %w", err)
	}
	return e.ExtractDocument(ctx, text)
}

// MergePhrases returns the sorted union of the phrases of results.
func MergePhrases(results []Result) []string {
	lists := make([][]string, 0, len(results))
	for _, r := range results {
		lists = append(lists, r.Phrases)
	}
	return extract.Aggregate(lists...)
}

// MergeExpressions returns the sorted union of the expressions of results.
func MergeExpressions(results []Result) []string {
	lists := make([][]string, 0, len(results))
	for _, r := range results {
		lists = append(lists, r.Expressions)
	}
	return extract.Aggregate(lists...)
}
