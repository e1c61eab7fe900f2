package vocab

import (
	"sort"
	"strings"
)

// Vocabulary stores the color vocabulary used by every extraction stage:
// - Tones: base color names (pink, beige, rose)
// - Modifiers: qualifiers applied to a tone (soft, dusty, light)
// - Web colors: palette names from the color dataset, a subset of tones
// - Cosmetic nouns: product words that never count as a tone (lipstick, liner)
// - Blocked pairs: modifier/tone combinations that never form a compound
// - Expressions: style categories with trigger aliases and implied modifiers
//
// A Vocabulary is built once with a Builder and never mutated afterwards, so a
// single value can be shared by concurrent extractions without locking.
type Vocabulary struct {
	tones         map[string]struct{}
	modifiers     map[string]struct{}
	webColors     map[string]struct{}
	cosmeticNouns map[string]struct{}
	blocked       map[Pair]struct{}

	// sorted views, used where iteration order must be deterministic
	sortedTones     []string
	sortedModifiers []string

	expressions    map[string]Expression
	exprNames      []string
	contextRules   map[string]ContextRule
	suppression    map[string][]string
	matchBlocklist map[[2]string]struct{}
}

// Pair is a modifier/tone combination.
type Pair struct {
	Modifier string
	Tone     string
}

// Expression is a style category such as "soft glam".
type Expression struct {
	Name      string
	Aliases   []string // trigger phrases, single or multi-word
	Modifiers []string // modifiers/tones implied by the expression
}

// ContextRule promotes an expression when the text contains at least one
// required token and at least one context clue.
type ContextRule struct {
	RequireTokens []string
	ContextClues  []string
}

// Normalize lowercases s, trims it and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// IsTone reports whether s is a known tone (web colors included).
func (v *Vocabulary) IsTone(s string) bool {
	_, ok := v.tones[s]
	return ok
}

// IsModifier reports whether s is a known modifier.
func (v *Vocabulary) IsModifier(s string) bool {
	_, ok := v.modifiers[s]
	return ok
}

// IsWebColor reports whether s is a palette name from the color dataset.
func (v *Vocabulary) IsWebColor(s string) bool {
	_, ok := v.webColors[s]
	return ok
}

// IsToneOrWebColor reports whether s can fill the tone slot of a compound.
func (v *Vocabulary) IsToneOrWebColor(s string) bool {
	return v.IsTone(s) || v.IsWebColor(s)
}

// IsCosmeticNoun reports whether s names a cosmetic product.
func (v *Vocabulary) IsCosmeticNoun(s string) bool {
	_, ok := v.cosmeticNouns[s]
	return ok
}

// IsBlockedPair reports whether modifier+tone must never form a compound.
func (v *Vocabulary) IsBlockedPair(modifier, tone string) bool {
	_, ok := v.blocked[Pair{Modifier: modifier, Tone: tone}]
	return ok
}

// InSplitVocabulary reports whether s may be a piece of a glued token:
// any modifier, tone or web color.
func (v *Vocabulary) InSplitVocabulary(s string) bool {
	return v.IsModifier(s) || v.IsToneOrWebColor(s)
}

// Modifiers returns all modifiers in sorted order. The slice is shared and
// must not be modified.
func (v *Vocabulary) Modifiers() []string {
	return v.sortedModifiers
}

// Tones returns all tones in sorted order. The slice is shared and must not
// be modified.
func (v *Vocabulary) Tones() []string {
	return v.sortedTones
}

// WebColors returns the web color names in sorted order.
func (v *Vocabulary) WebColors() []string {
	return sortedKeys(v.webColors)
}

// CosmeticNouns returns the cosmetic noun blocklist in sorted order.
func (v *Vocabulary) CosmeticNouns() []string {
	return sortedKeys(v.cosmeticNouns)
}

// BlockedPairs returns the blocked compound pairs, sorted by modifier then tone.
func (v *Vocabulary) BlockedPairs() []Pair {
	pairs := make([]Pair, 0, len(v.blocked))
	for p := range v.blocked {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Modifier != pairs[j].Modifier {
			return pairs[i].Modifier < pairs[j].Modifier
		}
		return pairs[i].Tone < pairs[j].Tone
	})
	return pairs
}

// Expressions returns every expression definition ordered by name.
func (v *Vocabulary) Expressions() []Expression {
	out := make([]Expression, 0, len(v.exprNames))
	for _, name := range v.exprNames {
		out = append(out, v.expressions[name])
	}
	return out
}

// Expression looks up an expression definition by name.
func (v *Vocabulary) Expression(name string) (Expression, bool) {
	e, ok := v.expressions[name]
	return e, ok
}

// ContextRule returns the promotion rule for an expression, if any.
func (v *Vocabulary) ContextRule(name string) (ContextRule, bool) {
	r, ok := v.contextRules[name]
	return r, ok
}

// Subordinates returns the expressions suppressed when dominant matches.
func (v *Vocabulary) Subordinates(dominant string) []string {
	return v.suppression[dominant]
}

// Dominants returns every expression that suppresses others, sorted.
func (v *Vocabulary) Dominants() []string {
	names := make([]string, 0, len(v.suppression))
	for name := range v.suppression {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMatchBlocked reports whether token must never match trigger.
func (v *Vocabulary) IsMatchBlocked(token, trigger string) bool {
	_, ok := v.matchBlocklist[[2]string{token, trigger}]
	return ok
}

// MatchBlocklist returns the blocked token/trigger pairs, sorted.
func (v *Vocabulary) MatchBlocklist() [][2]string {
	out := make([][2]string, 0, len(v.matchBlocklist))
	for p := range v.matchBlocklist {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Stats returns statistics about the vocabulary contents.
func (v *Vocabulary) Stats() Stats {
	return Stats{
		Tones:         len(v.tones),
		Modifiers:     len(v.modifiers),
		WebColors:     len(v.webColors),
		CosmeticNouns: len(v.cosmeticNouns),
		BlockedPairs:  len(v.blocked),
		Expressions:   len(v.expressions),
	}
}

// Stats holds statistics about vocabulary contents.
type Stats struct {
	Tones         int
	Modifiers     int
	WebColors     int
	CosmeticNouns int
	BlockedPairs  int
	Expressions   int
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
