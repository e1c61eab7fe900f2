package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/simplify"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

func tag(t *testing.T, v *vocab.Vocabulary, text string) []ingest.Token {
	t.Helper()
	tokens, err := ingest.NewRuleTagger(ingest.VocabularyHints(v)).Tag(text)
	if err != nil {
		t.Fatalf("tag %q: %v", text, err)
	}
	return tokens
}

func extract(t *testing.T, e *Extractor, v *vocab.Vocabulary, text string) Result {
	t.Helper()
	res, err := e.Extract(context.Background(), tag(t, v, text), nil)
	if err != nil {
		t.Fatalf("Extract(%q): %v", text, err)
	}
	return res
}

func TestExtractScenarios(t *testing.T) {
	v := vocab.Default()
	e := New(v, WithSimplifier(simplify.DefaultLexicon()))

	tests := []struct {
		text      string
		phrases   []string
		compounds []string
	}{
		{"soft pink", []string{"soft pink"}, []string{"soft pink"}},
		{"dustyrose", []string{"dust rose"}, []string{"dust rose"}},
		{"light night", []string{"light"}, []string{}},
		{"romantic dramatic", []string{}, []string{}},
		{"hotpink", []string{"hot pink"}, []string{"hot pink"}},
		{"soft pink or pink", []string{"pink", "soft pink"}, []string{"soft pink"}},
		{"I want a peachy pink", []string{"peach pink"}, []string{"peach pink"}},
		{"deep wine, please", []string{"deep wine"}, []string{"deep wine"}},
	}
	for _, tt := range tests {
		res := extract(t, e, v, tt.text)
		if !reflect.DeepEqual(res.Phrases, tt.phrases) {
			t.Errorf("%q: phrases = %v, want %v", tt.text, res.Phrases, tt.phrases)
		}
		if !reflect.DeepEqual(res.Compounds, tt.compounds) {
			t.Errorf("%q: compounds = %v, want %v", tt.text, res.Compounds, tt.compounds)
		}
	}
}

func TestExtractIdempotent(t *testing.T) {
	v := vocab.Default()
	e := New(v, WithSimplifier(simplify.DefaultLexicon()))
	text := "I love softpink and a pinkish light beige, maybe dusty rose roses"

	first := extract(t, e, v, text)
	for i := 0; i < 5; i++ {
		again := extract(t, e, v, text)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestCompoundsNeverBlocked(t *testing.T) {
	v, err := vocab.NewBuilder().
		AddTones("pink", "night", "beige").
		AddModifiers("light", "soft").
		BlockPair("light", "night").
		BlockPair("soft", "beige").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	e := New(v)

	for _, text := range []string{"light night", "soft beige", "lightnight", "softbeige", "light nights"} {
		for _, c := range e.Compounds(tag(t, v, text)) {
			if v.IsBlockedPair(c.Modifier, c.Tone) {
				t.Errorf("%q: blocked compound %q accepted", text, c.Phrase())
			}
		}
	}
	if got := extract(t, e, v, "light pink").Compounds; !reflect.DeepEqual(got, []string{"light pink"}) {
		t.Errorf("light pink: compounds = %v", got)
	}
}

func TestCompoundStrategies(t *testing.T) {
	v := vocab.Default()
	e := New(v)

	tests := []struct {
		text     string
		strategy Strategy
		phrase   string
	}{
		{"soft pink", Adjacent, "soft pink"},
		{"softpink", Glued, "soft pink"},
		{"dustyrose pink", Split, "dust pink"},
	}
	for _, tt := range tests {
		found := false
		for _, c := range e.Compounds(tag(t, v, tt.text)) {
			if c.Strategy == tt.strategy && c.Phrase() == tt.phrase {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: no %s candidate %q", tt.text, tt.strategy, tt.phrase)
		}
	}
}

func TestCompoundRejections(t *testing.T) {
	v := vocab.Default()
	e := New(v)

	for _, text := range []string{
		"peachy lipstick", // demoted tone without a partner
		"pink , pink",     // punctuation never pairs
		"soft lipstick",
	} {
		if got := e.Compounds(tag(t, v, text)); len(got) != 0 {
			t.Errorf("%q: compounds = %+v, want none", text, got)
		}
	}
}

func TestStandaloneUsageCounting(t *testing.T) {
	v := vocab.Default()
	e := New(v)

	tokens := tag(t, v, "soft pink")
	if got := e.Standalone(tokens, e.Compounds(tokens), nil); len(got) != 0 {
		t.Errorf("fully consumed tokens: standalone = %v, want none", got)
	}

	tokens = tag(t, v, "soft pink, soft")
	got := e.Standalone(tokens, e.Compounds(tokens), nil)
	if !reflect.DeepEqual(got, []string{"soft", "soft"}) {
		t.Errorf("reused modifier: standalone = %v, want soft twice", got)
	}
}

func TestStandaloneInjection(t *testing.T) {
	v := vocab.Default()
	e := New(v)

	res, err := e.Extract(context.Background(), tag(t, v, "I like it"), []string{"Soft", "nude", "lipstick", "xyzzy"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"nude", "soft"}; !reflect.DeepEqual(res.Phrases, want) {
		t.Errorf("phrases = %v, want %v", res.Phrases, want)
	}
}

func TestStandaloneFuzzyOnlyForAdjectives(t *testing.T) {
	v := vocab.Default()
	e := New(v)

	// "might" is an auxiliary and "matter" a noun; neither may fuzz into a modifier
	for _, text := range []string{"it might work", "does it matter"} {
		if got := extract(t, e, v, text).Phrases; len(got) != 0 {
			t.Errorf("%q: phrases = %v, want none", text, got)
		}
	}
}

func TestLoneTones(t *testing.T) {
	v, err := vocab.NewBuilder().
		AddTones("rose", "pink").
		AddModifiers("soft").
		AddCosmeticNouns("gloss").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	e := New(v)

	tokens := tag(t, v, "rose gloss and soft pink")
	got := e.LoneTones(tokens, e.Compounds(tokens))
	if !reflect.DeepEqual(got, []string{"rose"}) {
		t.Errorf("LoneTones = %v, want [rose]", got)
	}

	// rose is a noun but not a web color, so only the lone-tone pass finds it
	if got := extract(t, e, v, "roses").Phrases; !reflect.DeepEqual(got, []string{"rose"}) {
		t.Errorf("roses: phrases = %v, want [rose]", got)
	}
}

func TestSuffixFallback(t *testing.T) {
	v := vocab.Default()
	e := New(v, WithSimplifier(simplify.DefaultLexicon()))
	ctx := context.Background()

	got, err := e.SuffixFallback(ctx, tag(t, v, "something pinkish or reddish"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"pinkish", "reddish"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SuffixFallback = %v, want %v", got, want)
	}

	// known modifiers are not tone fallbacks in strict mode
	got, _ = e.SuffixFallback(ctx, tag(t, v, "glossy"), nil)
	if len(got) != 0 {
		t.Errorf("glossy: SuffixFallback = %v, want none", got)
	}

	// words that don't simplify to a tone are dropped
	got, _ = e.SuffixFallback(ctx, tag(t, v, "sleepy"), nil)
	if len(got) != 0 {
		t.Errorf("sleepy: SuffixFallback = %v, want none", got)
	}
}

func TestSuffixFallbackLenient(t *testing.T) {
	v := vocab.Default()
	e := New(v, WithSimplifier(simplify.DefaultLexicon()), WithLenientSuffix(true))

	tokens := []ingest.Token{{Text: "Ivory", POS: ingest.Noun}, {Text: "golden", POS: ingest.Noun}}
	got, err := e.SuffixFallback(context.Background(), tokens, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"ivory"}; !reflect.DeepEqual(got, want) {
		t.Errorf("SuffixFallback = %v, want %v", got, want)
	}
}

func TestSuffixFallbackSimplifierError(t *testing.T) {
	v := vocab.Default()
	failing := simplify.Func(func(ctx context.Context, word string) ([]string, error) {
		return nil, errors.New("service unavailable")
	})
	e := New(v, WithSimplifier(failing))

	res, err := e.Extract(context.Background(), tag(t, v, "pinkish"), nil)
	if err != nil {
		t.Fatalf("simplifier failure must not surface: %v", err)
	}
	if len(res.Phrases) != 0 {
		t.Errorf("phrases = %v, want none", res.Phrases)
	}
}

func TestSuffixFallbackChainFallsThrough(t *testing.T) {
	v := vocab.Default()
	var remoteWords []string
	remote := simplify.Func(func(ctx context.Context, word string) ([]string, error) {
		remoteWords = append(remoteWords, word)
		return []string{"green"}, nil
	})
	e := New(v, WithSimplifier(simplify.Chain{simplify.DefaultLexicon(), remote}))

	res := extract(t, e, v, "a mossy shade")
	if want := []string{"mossy"}; !reflect.DeepEqual(res.Phrases, want) {
		t.Errorf("phrases = %v, want %v", res.Phrases, want)
	}
	if !reflect.DeepEqual(remoteWords, []string{"mossy"}) {
		t.Errorf("remote asked for %v, want [mossy]", remoteWords)
	}

	// the lexicon names a tone for "pinkish", so the remote stays idle
	remoteWords = nil
	res = extract(t, e, v, "pinkish")
	if want := []string{"pinkish"}; !reflect.DeepEqual(res.Phrases, want) {
		t.Errorf("phrases = %v, want %v", res.Phrases, want)
	}
	if len(remoteWords) != 0 {
		t.Errorf("remote asked for %v after a lexicon hit", remoteWords)
	}
}

func TestExtractCancelled(t *testing.T) {
	v := vocab.Default()
	e := New(v)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Extract(ctx, tag(t, v, "soft pink"), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestAggregate(t *testing.T) {
	got := Aggregate([]string{"soft pink", "Pink"}, nil, []string{"pink", " soft  pink ", ""})
	if want := []string{"pink", "soft pink"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate = %v, want %v", got, want)
	}
	if got := Aggregate(); got == nil || len(got) != 0 {
		t.Errorf("Aggregate() = %#v, want empty non-nil", got)
	}
}

func TestExtractConcurrent(t *testing.T) {
	v := vocab.Default()
	e := New(v, WithSimplifier(simplify.DefaultLexicon()))
	tokens := tag(t, v, "softpink and dustyrose with a pinkish glow")
	want, err := e.Extract(context.Background(), tokens, nil)
	if err != nil {
		t.Fatal(err)
	}

	errs := make(chan string, 16)
	done := make(chan struct{})
	for i := 0; i < 16; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			got, err := e.Extract(context.Background(), tokens, nil)
			if err != nil || !reflect.DeepEqual(got, want) {
				errs <- strings.Join(got.Phrases, ",")
			}
		}()
	}
	for i := 0; i < 16; i++ {
		<-done
	}
	close(errs)
	for msg := range errs {
		t.Errorf("concurrent result differs: %s", msg)
	}
}
