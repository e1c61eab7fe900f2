// Package resolve canonicalizes raw words into vocabulary modifiers and tones.
package resolve

import (
	"strings"

	"github.com/cognicore/shade/pkg/shade/fuzzy"
	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// DefaultThreshold is the minimum fuzzy score for a fallback match.
const DefaultThreshold = 80

// maxSuffixExtra bounds how much longer than a modifier a "-ish"/"-y" word may be.
const maxSuffixExtra = 3

// Resolver maps raw words onto the vocabulary. It holds no per-call state and
// is safe for concurrent use.
type Resolver struct {
	vocab          *vocab.Vocabulary
	threshold      float64
	allowToneFuzzy bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithThreshold sets the fuzzy fallback threshold (0..100).
func WithThreshold(score float64) Option {
	return func(r *Resolver) {
		r.threshold = score
	}
}

// WithToneFuzzy lets Tone fall back to fuzzy matching against known tones.
func WithToneFuzzy(allow bool) Option {
	return func(r *Resolver) {
		r.allowToneFuzzy = allow
	}
}

// New creates a resolver over v.
func New(v *vocab.Vocabulary, opts ...Option) *Resolver {
	r := &Resolver{vocab: v, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Vocabulary returns the vocabulary the resolver reads.
func (r *Resolver) Vocabulary() *vocab.Vocabulary {
	return r.vocab
}

// Resolve canonicalizes word for the modifier slot (isTone false) or the
// tone slot (isTone true). Decision order:
//  1. "<tone>y" words ("peachy") demote to their base tone in the modifier slot
//  2. the same words are rejected in the tone slot
//  3. exact vocabulary match
//  4. modifier slot only: "-ish"/"-y" extension of a modifier, longest prefix wins
//  5. fuzzy fallback, attempted when allowFuzzy is set or the slot is a modifier
func (r *Resolver) Resolve(word string, isTone, allowFuzzy bool) (string, bool) {
	w := vocab.Normalize(word)
	if w == "" {
		return "", false
	}

	if base, ok := r.demotedTone(w); ok {
		if isTone {
			return "", false
		}
		return base, true
	}

	fuzzyOK := allowFuzzy || !isTone
	if isTone {
		return r.tone(w, fuzzyOK)
	}
	return r.modifier(w, fuzzyOK)
}

// Modifier resolves word for the modifier slot with fuzzy fallback.
func (r *Resolver) Modifier(word string) (string, bool) {
	return r.Resolve(word, false, true)
}

// ModifierExact resolves word for the modifier slot without fuzzy fallback.
func (r *Resolver) ModifierExact(word string) (string, bool) {
	w := vocab.Normalize(word)
	if w == "" {
		return "", false
	}
	if base, ok := r.demotedTone(w); ok {
		return base, true
	}
	return r.modifier(w, false)
}

// Tone resolves word for the tone slot. Fuzzy fallback is used only when the
// resolver was built WithToneFuzzy(true).
func (r *Resolver) Tone(word string) (string, bool) {
	return r.Resolve(word, true, r.allowToneFuzzy)
}

// demotedTone reports whether w is a known tone plus "y".
func (r *Resolver) demotedTone(w string) (string, bool) {
	if len(w) < 2 || !strings.HasSuffix(w, "y") {
		return "", false
	}
	base := w[:len(w)-1]
	if r.vocab.IsTone(base) {
		return base, true
	}
	return "", false
}

func (r *Resolver) modifier(w string, allowFuzzy bool) (string, bool) {
	if r.vocab.IsModifier(w) {
		return w, true
	}
	if m, ok := r.suffixMatch(w); ok {
		return m, true
	}
	if !allowFuzzy {
		return "", false
	}
	m, _, ok := fuzzy.Best(w, r.vocab.Modifiers(), r.threshold)
	return m, ok
}

// suffixMatch finds the longest modifier that w extends with "-ish" or "-y".
// Modifiers are scanned in sorted order so equal lengths resolve
// lexicographically.
func (r *Resolver) suffixMatch(w string) (string, bool) {
	if !strings.HasSuffix(w, "ish") && !strings.HasSuffix(w, "y") {
		return "", false
	}
	best := ""
	for _, m := range r.vocab.Modifiers() {
		if len(m) >= len(w) || len(w) > len(m)+maxSuffixExtra {
			continue
		}
		if strings.HasPrefix(w, m) && len(m) > len(best) {
			best = m
		}
	}
	return best, best != ""
}

// tone accepts direct members of tones or web colors, singular or plural.
func (r *Resolver) tone(w string, allowFuzzy bool) (string, bool) {
	if r.vocab.IsToneOrWebColor(w) {
		return w, true
	}
	if s := ingest.Singular(w); r.vocab.IsToneOrWebColor(s) {
		return s, true
	}
	if !allowFuzzy {
		return "", false
	}
	t, _, ok := fuzzy.Best(ingest.Singular(w), r.vocab.Tones(), r.threshold)
	return t, ok
}

// ToneSet reports tone membership.
type ToneSet interface {
	IsTone(s string) bool
}

// ShouldSuppressCompound reports whether a compound candidate must be
// dropped: the raw modifier ends in "y", it collapsed onto a bare tone name
// and no distinct tone was resolved next to it.
func ShouldSuppressCompound(rawModifier, resolvedModifier, resolvedTone string, tones ToneSet) bool {
	return strings.HasSuffix(strings.ToLower(rawModifier), "y") &&
		tones.IsTone(resolvedModifier) &&
		resolvedTone == ""
}
