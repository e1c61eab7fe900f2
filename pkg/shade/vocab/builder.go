package vocab

import (
	"fmt"
	"sort"

	"github.com/cognicore/shade/pkg/shade/internalerr"
)

// Builder accumulates vocabulary entries. All input is normalized with
// Normalize; empty entries are ignored.
type Builder struct {
	tones         map[string]struct{}
	modifiers     map[string]struct{}
	webColors     map[string]struct{}
	cosmeticNouns map[string]struct{}
	blocked       map[Pair]struct{}

	expressions    map[string]Expression
	contextRules   map[string]ContextRule
	suppression    map[string][]string
	matchBlocklist map[[2]string]struct{}
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		tones:          make(map[string]struct{}),
		modifiers:      make(map[string]struct{}),
		webColors:      make(map[string]struct{}),
		cosmeticNouns:  make(map[string]struct{}),
		blocked:        make(map[Pair]struct{}),
		expressions:    make(map[string]Expression),
		contextRules:   make(map[string]ContextRule),
		suppression:    make(map[string][]string),
		matchBlocklist: make(map[[2]string]struct{}),
	}
}

// AddTones adds base color names.
func (b *Builder) AddTones(tones ...string) *Builder {
	addAll(b.tones, tones)
	return b
}

// AddModifiers adds tone qualifiers.
func (b *Builder) AddModifiers(modifiers ...string) *Builder {
	addAll(b.modifiers, modifiers)
	return b
}

// AddWebColors adds palette names. Web colors are tones as well.
func (b *Builder) AddWebColors(names ...string) *Builder {
	addAll(b.webColors, names)
	addAll(b.tones, names)
	return b
}

// AddCosmeticNouns adds product nouns that block tone extraction.
func (b *Builder) AddCosmeticNouns(nouns ...string) *Builder {
	addAll(b.cosmeticNouns, nouns)
	return b
}

// BlockPair prevents modifier+tone from ever forming a compound.
func (b *Builder) BlockPair(modifier, tone string) *Builder {
	m, t := Normalize(modifier), Normalize(tone)
	if m != "" && t != "" {
		b.blocked[Pair{Modifier: m, Tone: t}] = struct{}{}
	}
	return b
}

// AddExpression defines (or redefines) a style expression.
func (b *Builder) AddExpression(name string, aliases, modifiers []string) *Builder {
	name = Normalize(name)
	if name == "" {
		return b
	}
	b.expressions[name] = Expression{
		Name:      name,
		Aliases:   dedupe(aliases),
		Modifiers: dedupe(modifiers),
	}
	return b
}

// AddContextRule sets the promotion rule of an expression.
func (b *Builder) AddContextRule(name string, requireTokens, contextClues []string) *Builder {
	name = Normalize(name)
	if name == "" {
		return b
	}
	b.contextRules[name] = ContextRule{
		RequireTokens: dedupe(requireTokens),
		ContextClues:  dedupe(contextClues),
	}
	return b
}

// Suppress makes dominant remove each subordinate from match results.
func (b *Builder) Suppress(dominant string, subordinates ...string) *Builder {
	dominant = Normalize(dominant)
	if dominant == "" {
		return b
	}
	b.suppression[dominant] = dedupe(append(b.suppression[dominant], subordinates...))
	return b
}

// BlockMatch prevents token from ever fuzzy-matching trigger.
func (b *Builder) BlockMatch(token, trigger string) *Builder {
	tok, trig := Normalize(token), Normalize(trigger)
	if tok != "" && trig != "" {
		b.matchBlocklist[[2]string{tok, trig}] = struct{}{}
	}
	return b
}

// Build validates the accumulated entries and returns an immutable
// Vocabulary. The Vocabulary holds its own copies, so later changes to the
// builder never reach it.
func (b *Builder) Build() (*Vocabulary, error) {
	if len(b.tones) == 0 && len(b.modifiers) == 0 {
		return nil, internalerr.ErrEmptyVocabulary
	}

	for name := range b.contextRules {
		if _, ok := b.expressions[name]; !ok {
			return nil, fmt.Errorf("%w: context rule for unknown expression %q", internalerr.ErrInvalidConfig, name)
		}
	}
	for dominant, subs := range b.suppression {
		if _, ok := b.expressions[dominant]; !ok {
			return nil, fmt.Errorf("%w: suppression rule for unknown expression %q", internalerr.ErrInvalidConfig, dominant)
		}
		for _, s := range subs {
			if _, ok := b.expressions[s]; !ok {
				return nil, fmt.Errorf("%w: %q suppresses unknown expression %q", internalerr.ErrInvalidConfig, dominant, s)
			}
		}
	}

	names := make([]string, 0, len(b.expressions))
	for name := range b.expressions {
		names = append(names, name)
	}
	sort.Strings(names)

	tones := copySet(b.tones)
	modifiers := copySet(b.modifiers)
	expressions := make(map[string]Expression, len(b.expressions))
	for name, e := range b.expressions {
		expressions[name] = e
	}
	contextRules := make(map[string]ContextRule, len(b.contextRules))
	for name, r := range b.contextRules {
		contextRules[name] = r
	}
	suppression := make(map[string][]string, len(b.suppression))
	for name, subs := range b.suppression {
		suppression[name] = append([]string(nil), subs...)
	}
	blocked := make(map[Pair]struct{}, len(b.blocked))
	for p := range b.blocked {
		blocked[p] = struct{}{}
	}
	matchBlocklist := make(map[[2]string]struct{}, len(b.matchBlocklist))
	for p := range b.matchBlocklist {
		matchBlocklist[p] = struct{}{}
	}

	return &Vocabulary{
		tones:           tones,
		modifiers:       modifiers,
		webColors:       copySet(b.webColors),
		cosmeticNouns:   copySet(b.cosmeticNouns),
		blocked:         blocked,
		sortedTones:     sortedKeys(tones),
		sortedModifiers: sortedKeys(modifiers),
		expressions:     expressions,
		exprNames:       names,
		contextRules:    contextRules,
		suppression:     suppression,
		matchBlocklist:  matchBlocklist,
	}, nil
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func addAll(set map[string]struct{}, words []string) {
	for _, w := range words {
		if w = Normalize(w); w != "" {
			set[w] = struct{}{}
		}
	}
}

// dedupe normalizes words and drops empties and repeats, keeping order.
func dedupe(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = Normalize(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
