package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/cognicore/shade/pkg/shade"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

// TestBuildEngine tests that buildEngine loads the built-in configuration
func TestBuildEngine(t *testing.T) {
	engine, cleanup, err := buildEngine(options{})
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}
	defer cleanup()

	if engine == nil {
		t.Fatal("Expected non-nil engine")
	}
}

func TestBuildEngineProseTagger(t *testing.T) {
	_, cleanup, err := buildEngine(options{tagger: "prose", debug: true})
	if err != nil {
		t.Fatalf("buildEngine failed: %v", err)
	}
	cleanup()
}

func TestBuildEngineErrors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		opts options
	}{
		{"unknown tagger", options{tagger: "spacy"}},
		{"missing vocabulary", options{vocabPath: filepath.Join(tmpDir, "nonexistent.yaml")}},
		{"missing lexicon", options{lexiconPath: filepath.Join(tmpDir, "nonexistent.yaml")}},
		{"empty snapshot", options{vocabDB: filepath.Join(tmpDir, "empty.db")}},
	}
	for _, tt := range tests {
		if _, _, err := buildEngine(tt.opts); err == nil {
			t.Errorf("%s: buildEngine should fail", tt.name)
		}
	}
}

func TestExportAndReload(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "vocab.db")

	engine, cleanup, err := buildEngine(options{})
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	id, err := exportVocabulary(ctx, engine.Vocabulary(), dbPath)
	if err != nil {
		t.Fatalf("exportVocabulary: %v", err)
	}
	if id == "" {
		t.Error("expected a snapshot id")
	}

	reloaded, cleanup2, err := buildEngine(options{vocabDB: dbPath})
	if err != nil {
		t.Fatalf("buildEngine from snapshot: %v", err)
	}
	defer cleanup2()

	if reloaded.Vocabulary().Stats() != engine.Vocabulary().Stats() {
		t.Errorf("reloaded stats %+v, want %+v", reloaded.Vocabulary().Stats(), engine.Vocabulary().Stats())
	}
}

func TestRunText(t *testing.T) {
	engine, cleanup, err := buildEngine(options{})
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	var buf bytes.Buffer
	if err := run(context.Background(), &buf, engine, "I love soft pink. My lipstick should be nude.", options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Segment 1", "soft pink", "Segment 2", "nude", "All phrases: nude, soft pink"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunJSONAndHTML(t *testing.T) {
	dir := t.TempDir()
	vocabPath := filepath.Join(dir, "vocab.yaml")
	if err := os.WriteFile(vocabPath, []byte("tones: [pink]\nmodifiers: [soft]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := options{vocabPath: vocabPath, html: true, asJSON: true}
	engine, cleanup, err := buildEngine(opts)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	var buf bytes.Buffer
	if err := run(context.Background(), &buf, engine, "<p>a <em>soft pink</em> shade</p>", opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	var results []shade.Result
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if len(results) != 1 || len(results[0].Phrases) != 1 || results[0].Phrases[0] != "soft pink" {
		t.Errorf("results = %+v", results)
	}
	if results[0].ID == "" {
		t.Error("JSON result is missing its id")
	}
}

func TestRemoteSimplifier(t *testing.T) {
	local := simplify.DefaultLexicon()

	got, err := remoteSimplifier(local, options{})
	if err != nil {
		t.Fatalf("remoteSimplifier: %v", err)
	}
	if got != simplify.Simplifier(local) {
		t.Fatalf("without -llm-url the local simplifier should be returned, got %T", got)
	}

	got, err = remoteSimplifier(local, options{llmURL: "https://api.test", llmModel: "m"})
	if err != nil {
		t.Fatalf("remoteSimplifier: %v", err)
	}
	if chain, ok := got.(simplify.Chain); !ok || len(chain) != 2 {
		t.Fatalf("with -llm-url expected a two-step chain, got %T", got)
	}
}

func TestRemoteSimplifierReachedForUnknownWords(t *testing.T) {
	ctx := context.Background()

	for _, cacheSize := range []int{0, -1} {
		var calls int32
		remote := simplify.Func(func(ctx context.Context, word string) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			if word == "mossy" {
				return []string{"green"}, nil
			}
			return nil, nil
		})
		simplifier, err := chainSimplifiers(simplify.DefaultLexicon(), remote, cacheSize)
		if err != nil {
			t.Fatalf("chainSimplifiers: %v", err)
		}
		engine, err := shade.New(shade.Options{Vocabulary: vocab.Default(), Simplifier: simplifier})
		if err != nil {
			t.Fatalf("shade.New: %v", err)
		}

		for i := 0; i < 2; i++ {
			res, err := engine.Extract(ctx, "a mossy shade")
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if !reflect.DeepEqual(res.Phrases, []string{"mossy"}) {
				t.Errorf("cache %d: phrases = %v, want [mossy]", cacheSize, res.Phrases)
			}
		}

		want := int32(1)
		if cacheSize < 0 {
			want = 2
		}
		if n := atomic.LoadInt32(&calls); n != want {
			t.Errorf("cache %d: remote called %d times, want %d", cacheSize, n, want)
		}
	}
}
