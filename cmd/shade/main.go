package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/shade/internal/llm"
	"github.com/cognicore/shade/pkg/shade"
	"github.com/cognicore/shade/pkg/shade/config"
	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
	"github.com/cognicore/shade/pkg/shade/vocab/sqlite"
)

type options struct {
	vocabPath   string
	vocabDB     string
	lexiconPath string
	tagger      string
	cacheSize   int
	html        bool
	asJSON      bool
	debug       bool

	// remote simplifier, consulted after the lexicon when llmURL is set
	llmURL   string
	llmModel string
	llmKey   string
}

func main() {
	var (
		opts     options
		text     = flag.String("text", "", "One-shot text (non-interactive mode)")
		exportDB = flag.String("export-db", "", "Write the loaded vocabulary to this SQLite file and exit")
	)
	flag.StringVar(&opts.vocabPath, "vocab", "", "Vocabulary YAML file (default: built-in)")
	flag.StringVar(&opts.vocabDB, "vocab-db", "", "Vocabulary SQLite snapshot (exclusive with -vocab)")
	flag.StringVar(&opts.lexiconPath, "lexicon", "", "Simplifier lexicon YAML file (default: built-in)")
	flag.StringVar(&opts.tagger, "tagger", "rule", "Part-of-speech tagger: rule or prose")
	flag.IntVar(&opts.cacheSize, "cache", 0, "Simplifier cache size (0 = default, negative disables)")
	flag.BoolVar(&opts.html, "html", false, "Treat input as HTML")
	flag.BoolVar(&opts.asJSON, "json", false, "Print results as JSON")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.StringVar(&opts.llmURL, "llm-url", os.Getenv("SHADE_LLM_URL"), "OpenAI-compatible chat completions URL for the remote simplifier (optional)")
	flag.StringVar(&opts.llmModel, "llm-model", envOr("SHADE_LLM_MODEL", "gpt-4o-mini"), "Model used by the remote simplifier")
	opts.llmKey = os.Getenv("SHADE_LLM_API_KEY")
	flag.Parse()

	ctx := context.Background()

	engine, cleanup, err := buildEngine(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	if *exportDB != "" {
		id, err := exportVocabulary(ctx, engine.Vocabulary(), *exportDB)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Vocabulary snapshot %s written to %s\n", id, *exportDB)
		return
	}

	// One-shot mode
	if *text != "" {
		if err := run(ctx, os.Stdout, engine, *text, opts); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	stats := engine.Vocabulary().Stats()
	fmt.Println("===========================================")
	fmt.Println("  Shade")
	fmt.Println("  Color phrase extraction")
	fmt.Println("===========================================")
	fmt.Printf("  %d tones, %d modifiers, %d expressions\n", stats.Tones, stats.Modifiers, stats.Expressions)
	fmt.Println()
	fmt.Println("Describe a color (Ctrl+D to exit):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := run(ctx, os.Stdout, engine, line, opts); err != nil {
			fmt.Println("Error:", err)
		}
	}

	fmt.Println("\nGoodbye!")
}

func run(ctx context.Context, w io.Writer, engine *shade.Engine, input string, opts options) error {
	var (
		results []shade.Result
		err     error
	)
	if opts.html {
		results, err = engine.ExtractHTML(ctx, input)
	} else {
		results, err = engine.ExtractDocument(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	return printResults(w, results, opts.asJSON)
}

func printResults(w io.Writer, results []shade.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No text.")
		return nil
	}
	for i, res := range results {
		fmt.Fprintf(w, "\n--- Segment %d: %s ---\n", i+1, res.Text)
		if len(res.Phrases) == 0 {
			fmt.Fprintln(w, "  (no color phrases)")
		}
		for _, p := range res.Phrases {
			fmt.Fprintln(w, "  •", p)
		}
		if len(res.Expressions) > 0 {
			fmt.Fprintf(w, "  Expressions: %s\n", strings.Join(res.Expressions, ", "))
		}
	}
	if len(results) > 1 {
		fmt.Fprintf(w, "\nAll phrases: %s\n", strings.Join(shade.MergePhrases(results), ", "))
	}
	fmt.Fprintln(w)
	return nil
}

func buildEngine(opts options) (*shade.Engine, func(), error) {
	loader := config.Loader{
		VocabularyPath: opts.vocabPath,
		VocabularyDB:   opts.vocabDB,
		LexiconPath:    opts.lexiconPath,
		CacheSize:      opts.cacheSize,
	}

	components, err := loader.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var tagger ingest.Tagger
	switch opts.tagger {
	case "", "rule":
		tagger = ingest.NewRuleTagger(ingest.VocabularyHints(components.Vocabulary))
	case "prose":
		tagger = ingest.NewProseTagger()
	default:
		return nil, nil, fmt.Errorf("unknown tagger %q (want rule or prose)", opts.tagger)
	}

	logger := zap.NewNop()
	if opts.debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, nil, fmt.Errorf("logger: %w", err)
		}
	}
	if components.SnapshotID != "" {
		logger.Debug("vocabulary snapshot loaded", zap.String("snapshot", components.SnapshotID))
	}

	simplifier, err := remoteSimplifier(components.Simplifier, opts)
	if err != nil {
		return nil, nil, err
	}

	engine, err := shade.New(shade.Options{
		Vocabulary: components.Vocabulary,
		Tagger:     tagger,
		Simplifier: simplifier,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build engine: %w", err)
	}

	cleanup := func() {
		_ = logger.Sync()
	}
	return engine, cleanup, nil
}

// remoteSimplifier appends the LLM client behind the local simplifier when
// -llm-url is set.
func remoteSimplifier(local simplify.Simplifier, opts options) (simplify.Simplifier, error) {
	if opts.llmURL == "" {
		return local, nil
	}
	return chainSimplifiers(local, &llm.Client{
		BaseURL: opts.llmURL,
		APIKey:  opts.llmKey,
		Model:   opts.llmModel,
	}, opts.cacheSize)
}

// chainSimplifiers puts remote after local, caching remote answers unless
// cacheSize is negative. The suffix fallback only reaches remote when the
// local answer names no tone.
func chainSimplifiers(local, remote simplify.Simplifier, cacheSize int) (simplify.Simplifier, error) {
	if cacheSize >= 0 {
		size := cacheSize
		if size == 0 {
			size = simplify.DefaultCacheSize
		}
		cached, err := simplify.NewCache(remote, size)
		if err != nil {
			return nil, fmt.Errorf("remote simplifier cache: %w", err)
		}
		remote = cached
	}
	return simplify.Chain{local, remote}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func exportVocabulary(ctx context.Context, v *vocab.Vocabulary, path string) (string, error) {
	st, err := sqlite.Open(ctx, path)
	if err != nil {
		return "", fmt.Errorf("open export db: %w", err)
	}
	defer st.Close()

	id, err := st.Save(ctx, v)
	if err != nil {
		return "", fmt.Errorf("export vocabulary: %w", err)
	}
	return id, nil
}
