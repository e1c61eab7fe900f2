// Package simplify reduces descriptive words to plainer words that may name
// a tone ("peachy" -> "peach", "golden" -> "gold").
//
// The suffix-fallback extractor only accepts a "-y"/"-ish" word when its
// simplification contains a known tone. Remote simplifiers (LLM services)
// can be plugged in through the Simplifier interface; this package ships a
// local lexicon-backed implementation and an LRU cache wrapper.
package simplify

import "context"

// Simplifier maps a word to simpler words of the same meaning.
// Implementations must be safe for concurrent use.
type Simplifier interface {
	Simplify(ctx context.Context, word string) ([]string, error)
}

// Func adapts an ordinary function to the Simplifier interface.
type Func func(ctx context.Context, word string) ([]string, error)

// Simplify calls f(ctx, word).
func (f Func) Simplify(ctx context.Context, word string) ([]string, error) {
	return f(ctx, word)
}

// Chain asks each simplifier in order and returns the first non-empty
// answer. If every simplifier fails or answers empty, the first error (if
// any) is returned.
type Chain []Simplifier

// Simplify implements Simplifier.
func (c Chain) Simplify(ctx context.Context, word string) ([]string, error) {
	return c.SimplifyUntil(ctx, word, nonEmpty)
}

// SimplifyUntil asks each simplifier in order and returns the first answer
// accept reports true for. Answers that are rejected fall through to the
// next simplifier. If nothing is accepted the first error (if any) is
// returned.
func (c Chain) SimplifyUntil(ctx context.Context, word string, accept func([]string) bool) ([]string, error) {
	var firstErr error
	for _, s := range c {
		words, err := s.Simplify(ctx, word)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if accept(words) {
			return words, nil
		}
	}
	return nil, firstErr
}

// Until asks s for simpler forms of word. When s is a Chain, its members are
// tried in order until one answer is accepted; any other simplifier is asked
// once.
func Until(ctx context.Context, s Simplifier, word string, accept func([]string) bool) ([]string, error) {
	if c, ok := s.(Chain); ok {
		return c.SimplifyUntil(ctx, word, accept)
	}
	return s.Simplify(ctx, word)
}

func nonEmpty(words []string) bool {
	return len(words) > 0
}
