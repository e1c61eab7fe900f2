// Package sqlite persists vocabulary snapshots in a SQLite database so a
// curated vocabulary can be shipped as a single file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/shade/pkg/shade/internalerr"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// Word kinds stored in the words table.
const (
	kindTone         = "tone"
	kindModifier     = "modifier"
	kindWebColor     = "web_color"
	kindCosmeticNoun = "cosmetic_noun"
)

// Store holds at most one vocabulary snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a snapshot database with WAL mode enabled.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS meta (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS words (
	kind TEXT NOT NULL,
	word TEXT NOT NULL,
	PRIMARY KEY(kind, word)
);

CREATE TABLE IF NOT EXISTS blocked_pairs (
	modifier TEXT NOT NULL,
	tone TEXT NOT NULL,
	PRIMARY KEY(modifier, tone)
);

CREATE TABLE IF NOT EXISTS expressions (
	name TEXT PRIMARY KEY,
	aliases TEXT NOT NULL,
	modifiers TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS context_rules (
	name TEXT PRIMARY KEY,
	require_tokens TEXT NOT NULL,
	context_clues TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS suppression (
	dominant TEXT NOT NULL,
	subordinate TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY(dominant, subordinate)
);

CREATE TABLE IF NOT EXISTS match_blocklist (
	token TEXT NOT NULL,
	target TEXT NOT NULL,
	PRIMARY KEY(token, target)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Save replaces the stored snapshot with v in one transaction and returns
// the new snapshot ID.
func (s *Store) Save(ctx context.Context, v *vocab.Vocabulary) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: nil vocabulary", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	for _, table := range []string{"meta", "words", "blocked_pairs", "expressions", "context_rules", "suppression", "match_blocklist"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return "", fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// web colors are stored separately; tones keeps only the plain tones
	webColors := v.WebColors()
	isWeb := make(map[string]bool, len(webColors))
	for _, w := range webColors {
		isWeb[w] = true
	}
	var tones []string
	for _, t := range v.Tones() {
		if !isWeb[t] {
			tones = append(tones, t)
		}
	}

	words := map[string][]string{
		kindTone:         tones,
		kindModifier:     v.Modifiers(),
		kindWebColor:     webColors,
		kindCosmeticNoun: v.CosmeticNouns(),
	}
	if err := insertWords(ctx, tx, words); err != nil {
		return "", err
	}

	for _, p := range v.BlockedPairs() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO blocked_pairs (modifier, tone) VALUES (?, ?)`, p.Modifier, p.Tone); err != nil {
			return "", err
		}
	}

	for _, e := range v.Expressions() {
		aliases, err := json.Marshal(e.Aliases)
		if err != nil {
			return "", err
		}
		modifiers, err := json.Marshal(e.Modifiers)
		if err != nil {
			return "", err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO expressions (name, aliases, modifiers) VALUES (?, ?, ?)`,
			e.Name, string(aliases), string(modifiers)); err != nil {
			return "", err
		}

		if rule, ok := v.ContextRule(e.Name); ok {
			require, err := json.Marshal(rule.RequireTokens)
			if err != nil {
				return "", err
			}
			clues, err := json.Marshal(rule.ContextClues)
			if err != nil {
				return "", err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO context_rules (name, require_tokens, context_clues) VALUES (?, ?, ?)`,
				e.Name, string(require), string(clues)); err != nil {
				return "", err
			}
		}
	}

	for _, dominant := range v.Dominants() {
		for i, sub := range v.Subordinates(dominant) {
			if _, err := tx.ExecContext(ctx, `INSERT INTO suppression (dominant, subordinate, position) VALUES (?, ?, ?)`,
				dominant, sub, i); err != nil {
				return "", err
			}
		}
	}

	for _, p := range v.MatchBlocklist() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO match_blocklist (token, target) VALUES (?, ?)`, p[0], p[1]); err != nil {
			return "", err
		}
	}

	id := ulid.Make().String()
	meta := map[string]string{
		"snapshot_id": id,
		"saved_at":    time.Now().UTC().Format(time.RFC3339),
	}
	for k, val := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (name, value) VALUES (?, ?)`, k, val); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

func insertWords(ctx context.Context, tx *sql.Tx, words map[string][]string) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO words (kind, word) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for kind, list := range words {
		for _, w := range list {
			if _, err := stmt.ExecContext(ctx, kind, w); err != nil {
				return err
			}
		}
	}
	return nil
}

// SnapshotID returns the ID of the stored snapshot, or ErrNotFound.
func (s *Store) SnapshotID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE name = 'snapshot_id'`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: no vocabulary snapshot", internalerr.ErrNotFound)
	}
	return id, err
}

// Load rebuilds the stored vocabulary. It returns ErrNotFound when nothing
// has been saved yet.
func (s *Store) Load(ctx context.Context) (*vocab.Vocabulary, error) {
	if _, err := s.SnapshotID(ctx); err != nil {
		return nil, err
	}

	b := vocab.NewBuilder()

	rows, err := s.db.QueryContext(ctx, `SELECT kind, word FROM words ORDER BY kind, word`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var kind, word string
		if err := rows.Scan(&kind, &word); err != nil {
			rows.Close()
			return nil, err
		}
		switch kind {
		case kindTone:
			b.AddTones(word)
		case kindModifier:
			b.AddModifiers(word)
		case kindWebColor:
			b.AddWebColors(word)
		case kindCosmeticNoun:
			b.AddCosmeticNouns(word)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, `SELECT modifier, tone FROM blocked_pairs`, func(modifier, tone string) error {
		b.BlockPair(modifier, tone)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachTriple(ctx, `SELECT name, aliases, modifiers FROM expressions ORDER BY name`, func(name, aliases, modifiers string) error {
		var a, m []string
		if err := json.Unmarshal([]byte(aliases), &a); err != nil {
			return fmt.Errorf("expression %q aliases: %w", name, err)
		}
		if err := json.Unmarshal([]byte(modifiers), &m); err != nil {
			return fmt.Errorf("expression %q modifiers: %w", name, err)
		}
		b.AddExpression(name, a, m)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachTriple(ctx, `SELECT name, require_tokens, context_clues FROM context_rules ORDER BY name`, func(name, require, clues string) error {
		var r, c []string
		if err := json.Unmarshal([]byte(require), &r); err != nil {
			return fmt.Errorf("context rule %q: %w", name, err)
		}
		if err := json.Unmarshal([]byte(clues), &c); err != nil {
			return fmt.Errorf("context rule %q: %w", name, err)
		}
		b.AddContextRule(name, r, c)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, `SELECT dominant, subordinate FROM suppression ORDER BY dominant, position`, func(dominant, sub string) error {
		b.Suppress(dominant, sub)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.eachRow(ctx, `SELECT token, target FROM match_blocklist`, func(token, target string) error {
		b.BlockMatch(token, target)
		return nil
	}); err != nil {
		return nil, err
	}

	return b.Build()
}

func (s *Store) eachRow(ctx context.Context, query string, fn func(a, b string) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return err
		}
		if err := fn(a, b); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *Store) eachTriple(ctx context.Context, query string, fn func(a, b, c string) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var a, b, c string
		if err := rows.Scan(&a, &b, &c); err != nil {
			return err
		}
		if err := fn(a, b, c); err != nil {
			return err
		}
	}
	return rows.Err()
}
