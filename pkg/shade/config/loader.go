// Package config loads the vocabulary and simplifier lexicon from files and
// wires them into ready-to-use components.
package config

import (
	"context"
	"fmt"

	"github.com/cognicore/shade/pkg/shade/internalerr"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
	"github.com/cognicore/shade/pkg/shade/vocab/sqlite"
)

// Loader loads all configuration files and constructs components. Empty
// paths fall back to the built-in defaults.
type Loader struct {
	VocabularyPath string // YAML vocabulary
	VocabularyDB   string // SQLite vocabulary snapshot; exclusive with VocabularyPath
	LexiconPath    string // YAML simplifier lexicon
	CacheSize      int    // simplifier cache entries; 0 uses the default, negative disables caching
}

// Components holds all loaded configuration components.
type Components struct {
	Vocabulary *vocab.Vocabulary
	Lexicon    *simplify.Lexicon
	Simplifier simplify.Simplifier // the lexicon, cached unless CacheSize < 0
	SnapshotID string              // set when the vocabulary came from a snapshot
}

// LoadVocabulary loads a vocabulary YAML file.
func LoadVocabulary(path string) (*vocab.Vocabulary, error) {
	return vocab.LoadFromYAML(path)
}

// Load reads all configuration files and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	return l.LoadContext(context.Background())
}

// LoadContext is Load with a context for the snapshot database.
func (l *Loader) LoadContext(ctx context.Context) (*Components, error) {
	if l.VocabularyPath != "" && l.VocabularyDB != "" {
		return nil, fmt.Errorf("%w: vocabulary path and database are mutually exclusive", internalerr.ErrInvalidConfig)
	}

	comp := &Components{}

	switch {
	case l.VocabularyDB != "":
		st, err := sqlite.Open(ctx, l.VocabularyDB)
		if err != nil {
			return nil, fmt.Errorf("open vocabulary db: %w", err)
		}
		defer st.Close()

		v, err := st.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		id, err := st.SnapshotID(ctx)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		comp.Vocabulary, comp.SnapshotID = v, id
	case l.VocabularyPath != "":
		v, err := LoadVocabulary(l.VocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		comp.Vocabulary = v
	default:
		comp.Vocabulary = vocab.Default()
	}

	if l.LexiconPath != "" {
		lex, err := simplify.LoadLexicon(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = simplify.DefaultLexicon()
	}

	comp.Simplifier = comp.Lexicon
	if l.CacheSize >= 0 {
		size := l.CacheSize
		if size == 0 {
			size = simplify.DefaultCacheSize
		}
		cache, err := simplify.NewCache(comp.Lexicon, size)
		if err != nil {
			return nil, fmt.Errorf("simplifier cache: %w", err)
		}
		comp.Simplifier = cache
	}

	return comp, nil
}
