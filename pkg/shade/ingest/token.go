package ingest

// POS is a Universal Dependencies part-of-speech tag.
type POS string

const (
	Noun         POS = "NOUN"
	ProperNoun   POS = "PROPN"
	Adjective    POS = "ADJ"
	Verb         POS = "VERB"
	Auxiliary    POS = "AUX"
	Adverb       POS = "ADV"
	Pronoun      POS = "PRON"
	Determiner   POS = "DET"
	Conjunction  POS = "CCONJ"
	Adposition   POS = "ADP"
	Interjection POS = "INTJ"
	Particle     POS = "PART"
	Subordinator POS = "SCONJ"
	Numeral      POS = "NUM"
	Punctuation  POS = "PUNCT"
	Symbol       POS = "SYM"
	Other        POS = "X"
)

// Token is one tagged word of a text segment.
type Token struct {
	Text  string // surface text as written
	Lemma string // lowercase base form
	POS   POS
	Index int // position in the segment
}

// Tagger splits a text segment into tagged tokens.
type Tagger interface {
	Tag(text string) ([]Token, error)
}

// IsWord reports whether the token can carry a color phrase.
func (t Token) IsWord() bool {
	return t.POS != Punctuation && t.POS != Symbol && t.POS != Numeral
}
