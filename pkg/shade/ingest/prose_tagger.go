package ingest

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseTagger tags text with the averaged perceptron model bundled with
// github.com/jdkato/prose and maps its Penn Treebank tags to UD tags.
type ProseTagger struct{}

// NewProseTagger creates a prose-backed tagger.
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Tag implements Tagger.
func (p *ProseTagger) Tag(text string) ([]Token, error) {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	ptoks := doc.Tokens()
	tokens := make([]Token, 0, len(ptoks))
	for _, pt := range ptoks {
		lower := strings.ToLower(pt.Text)
		pos := PennToUD(pt.Tag, lower)
		lemma := lower
		if pos == Noun {
			lemma = Singular(lower)
		}
		tokens = append(tokens, Token{Text: pt.Text, Lemma: lemma, POS: pos, Index: len(tokens)})
	}
	return tokens, nil
}

// PennToUD maps a Penn Treebank tag to a Universal Dependencies tag. The
// lowercase word disambiguates auxiliaries and subordinators.
func PennToUD(tag, word string) POS {
	switch tag {
	case "NN", "NNS":
		return Noun
	case "NNP", "NNPS":
		return ProperNoun
	case "JJ", "JJR", "JJS":
		return Adjective
	case "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		if closedClass[word] == Auxiliary {
			return Auxiliary
		}
		return Verb
	case "MD":
		return Auxiliary
	case "RB", "RBR", "RBS", "WRB":
		return Adverb
	case "PRP", "WP", "WP$":
		return Pronoun
	case "PRP$", "DT", "PDT", "WDT":
		return Determiner
	case "CC":
		return Conjunction
	case "IN":
		if closedClass[word] == Subordinator {
			return Subordinator
		}
		return Adposition
	case "TO", "RP", "POS":
		return Particle
	case "UH":
		return Interjection
	case "CD":
		return Numeral
	case "SYM", "$", "#":
		return Symbol
	case ".", ",", ":", "(", ")", "``", "''", "-LRB-", "-RRB-", "HYPH", "NFP":
		return Punctuation
	}
	return Other
}
