package ingest

import (
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// Segmenter splits free text into sentence segments using the punkt model
// shipped with neurosnap/sentences.
type Segmenter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// NewSegmenter loads the English sentence model.
func NewSegmenter() (*Segmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}
	return &Segmenter{tokenizer: tok}, nil
}

// Segment returns the trimmed, non-empty sentences of text. Text without any
// detectable boundary comes back as a single segment.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var segments []string
	for _, sent := range s.tokenizer.Tokenize(text) {
		if seg := strings.TrimSpace(sent.Text); seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return segments
}
