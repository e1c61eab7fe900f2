// Package glue splits glued tokens such as "softpink" or "dustyrose" into
// known vocabulary pieces.
package glue

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MaxTokenLen bounds the length in bytes of the tokens Split will search.
// Longer tokens are only checked for whole-word membership. Pieces are cut
// at byte offsets; a piece that splits a multi-byte rune is never a
// vocabulary member, so non-ASCII tokens still split correctly.
const MaxTokenLen = 32

// CacheSize is the maximum number of cached splits.
const CacheSize = 10_000

// Vocabulary reports whether a string is a valid piece.
type Vocabulary interface {
	InSplitVocabulary(s string) bool
}

// Splitter segments glued tokens against a fixed vocabulary.
type Splitter struct {
	vocab Vocabulary
	cache *lru.Cache[string, []string]
}

// NewSplitter creates a splitter with an LRU cache of CacheSize entries.
func NewSplitter(vocab Vocabulary) *Splitter {
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, []string](CacheSize)
	return &Splitter{vocab: vocab, cache: cache}
}

// NewSplitterNoCache creates a splitter that recomputes every split.
func NewSplitterNoCache(vocab Vocabulary) *Splitter {
	return &Splitter{vocab: vocab}
}

// Split returns the first cover of token by vocabulary pieces, trying the
// shortest piece first at every position. A token that only covers itself
// returns [token]; a token with no cover returns nil. The pieces always
// concatenate back to token.
//
// The returned slice is shared with the cache and must not be modified.
func (s *Splitter) Split(token string) []string {
	token = strings.ToLower(token)
	if token == "" {
		return nil
	}
	if s.cache == nil {
		return s.split(token)
	}
	if pieces, ok := s.cache.Get(token); ok {
		return pieces
	}
	pieces := s.split(token)
	s.cache.Add(token, pieces)
	return pieces
}

func (s *Splitter) split(token string) []string {
	if len(token) > MaxTokenLen {
		if s.vocab.InSplitVocabulary(token) {
			return []string{token}
		}
		return nil
	}

	// dead[i] marks offsets already known to have no cover of the remainder
	dead := make([]bool, len(token)+1)
	if pieces, ok := s.cover(token, 0, dead); ok {
		return pieces
	}
	return nil
}

// cover searches token[start:] depth-first. Offsets that fail once are
// recorded in dead and never searched again.
func (s *Splitter) cover(token string, start int, dead []bool) ([]string, bool) {
	if start == len(token) {
		return []string{}, true
	}
	if dead[start] {
		return nil, false
	}
	for end := start + 1; end <= len(token); end++ {
		piece := token[start:end]
		if !s.vocab.InSplitVocabulary(piece) {
			continue
		}
		if rest, ok := s.cover(token, end, dead); ok {
			return append([]string{piece}, rest...), true
		}
	}
	dead[start] = true
	return nil, false
}
