package vocab

import (
	_ "embed"
	"fmt"
	"os"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/shade/pkg/shade/internalerr"
)

//go:embed default.yaml
var defaultYAML []byte

// File is the on-disk vocabulary format.
//
// Expected format:
//
//	include_web_colors: true
//	tones: [pink, rose, beige]
//	modifiers: [soft, dusty, light]
//	web_colors: [dustyrose]
//	cosmetic_nouns: [lipstick, liner]
//	blocked_pairs:
//	  - [light, night]
//	expressions:
//	  soft glam:
//	    aliases: [soft glam, subtle glam]
//	    modifiers: [soft, rosy]
//	expression_context_rules:
//	  romantic:
//	    require_tokens: [date]
//	    context_clues: [dinner, night]
//	expression_suppression:
//	  soft glam: [glam]
//	expression_blocklist:
//	  - [bold, gold]
//
// When include_web_colors is set, the SVG color names from
// golang.org/x/image/colornames are added as web colors.
type File struct {
	IncludeWebColors bool                      `yaml:"include_web_colors"`
	Tones            []string                  `yaml:"tones"`
	Modifiers        []string                  `yaml:"modifiers"`
	WebColors        []string                  `yaml:"web_colors"`
	CosmeticNouns    []string                  `yaml:"cosmetic_nouns"`
	BlockedPairs     [][]string                `yaml:"blocked_pairs"`
	Expressions      map[string]ExpressionFile `yaml:"expressions"`
	ContextRules     map[string]ContextFile    `yaml:"expression_context_rules"`
	Suppression      map[string][]string       `yaml:"expression_suppression"`
	MatchBlocklist   [][]string                `yaml:"expression_blocklist"`
}

// ExpressionFile is the YAML form of an Expression.
type ExpressionFile struct {
	Aliases   []string `yaml:"aliases"`
	Modifiers []string `yaml:"modifiers"`
}

// ContextFile is the YAML form of a ContextRule.
type ContextFile struct {
	RequireTokens []string `yaml:"require_tokens"`
	ContextClues  []string `yaml:"context_clues"`
}

// LoadFromYAML reads and builds a vocabulary from a YAML file.
func LoadFromYAML(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML builds a vocabulary from YAML bytes.
func FromYAML(data []byte) (*Vocabulary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	b, err := f.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// Builder converts the file into a Builder so callers can layer extra
// entries on top before building.
func (f *File) Builder() (*Builder, error) {
	b := NewBuilder().
		AddTones(f.Tones...).
		AddModifiers(f.Modifiers...).
		AddWebColors(f.WebColors...).
		AddCosmeticNouns(f.CosmeticNouns...)

	if f.IncludeWebColors {
		b.AddWebColors(colornames.Names...)
	}

	for _, p := range f.BlockedPairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: blocked pair %v must have two entries", internalerr.ErrInvalidConfig, p)
		}
		b.BlockPair(p[0], p[1])
	}
	for name, e := range f.Expressions {
		b.AddExpression(name, e.Aliases, e.Modifiers)
	}
	for name, r := range f.ContextRules {
		b.AddContextRule(name, r.RequireTokens, r.ContextClues)
	}
	for dominant, subs := range f.Suppression {
		b.Suppress(dominant, subs...)
	}
	for _, p := range f.MatchBlocklist {
		if len(p) != 2 {
			return nil, fmt.Errorf("%w: blocklist entry %v must have two entries", internalerr.ErrInvalidConfig, p)
		}
		b.BlockMatch(p[0], p[1])
	}
	return b, nil
}

// Default returns the built-in vocabulary. It panics only if the embedded
// file is broken, which the package tests guard against.
func Default() *Vocabulary {
	v, err := FromYAML(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("vocab: embedded default vocabulary: %v", err))
	}
	return v
}
