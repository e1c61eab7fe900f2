package expression

import (
	"reflect"
	"testing"

	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/vocab"
)

func match(t *testing.T, m *Matcher, v *vocab.Vocabulary, text string) []string {
	t.Helper()
	tokens, err := ingest.NewRuleTagger(ingest.VocabularyHints(v)).Tag(text)
	if err != nil {
		t.Fatalf("tag %q: %v", text, err)
	}
	return m.Match(tokens, text)
}

func TestMatchDefaultVocabulary(t *testing.T) {
	v := vocab.Default()
	m := New(v)

	tests := []struct {
		text string
		want []string
	}{
		{"I like soft glam", []string{"soft glam"}},
		{"soft glamour please", []string{"soft glam"}},
		{"something edgy and natural", []string{"edgy"}},
		{"edgy fresh glam", []string{"edgy", "glam"}},
		{"a dreamy shade", []string{"romantic"}},
		{"the no makeup look", []string{"natural"}},
		{"dinner for our anniversary", []string{"romantic"}},
		{"dinner with friends", []string{}},
		{"a red lipstick", []string{}},
	}
	for _, tt := range tests {
		if got := match(t, m, v, tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMatchMultiwordConsumesWords(t *testing.T) {
	v, err := vocab.NewBuilder().
		AddTones("pink").
		AddExpression("soft glam", []string{"soft glam"}, nil).
		AddExpression("glam", []string{"glam"}, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	m := New(v)

	// the alias hit consumes "glam", so the single-word trigger never fires
	if got := match(t, m, v, "soft glam"); !reflect.DeepEqual(got, []string{"soft glam"}) {
		t.Errorf("Match = %v, want [soft glam]", got)
	}
	if got := match(t, m, v, "glam"); !reflect.DeepEqual(got, []string{"glam"}) {
		t.Errorf("Match = %v, want [glam]", got)
	}
}

func TestMatchBlocklist(t *testing.T) {
	build := func(block bool) *vocab.Vocabulary {
		b := vocab.NewBuilder().AddTones("gold").AddExpression("bold", []string{"bold"}, nil)
		if block {
			b.BlockMatch("gold", "bold")
		}
		v, err := b.Build()
		if err != nil {
			t.Fatal(err)
		}
		return v
	}

	v := build(false)
	if got := match(t, New(v), v, "gold"); !reflect.DeepEqual(got, []string{"bold"}) {
		t.Errorf("unblocked: Match(gold) = %v, want [bold]", got)
	}
	v = build(true)
	if got := match(t, New(v), v, "gold"); len(got) != 0 {
		t.Errorf("blocked: Match(gold) = %v, want none", got)
	}
}

func TestTokenMatchLayers(t *testing.T) {
	v, err := vocab.NewBuilder().
		AddTones("pink").
		AddExpression("glam", []string{"glamorous"}, nil).
		AddExpression("natural", []string{"no makeup"}, nil).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	m := New(v)
	single := trigger{expression: "glam", phrase: "glamorous", words: []string{"glamorous"}}
	multi := trigger{expression: "natural", phrase: "no makeup", words: []string{"no", "makeup"}}

	tests := []struct {
		token   string
		trigger trigger
		context map[string]bool
		want    bool
	}{
		{"glamorous", single, nil, true},  // exact
		{"glam", single, nil, true},       // safe prefix
		{"gla", single, nil, false},       // prefix too short
		{"glamorus", single, nil, true},   // fuzzy
		{"makeup", multi, map[string]bool{"no": true, "makeup": true}, true},
		{"makeup", multi, map[string]bool{"makeup": true}, false},
		{"glow", single, nil, false},
	}
	for _, tt := range tests {
		if got := m.tokenMatches(tt.token, tt.trigger, tt.context); got != tt.want {
			t.Errorf("tokenMatches(%q, %q) = %v, want %v", tt.token, tt.trigger.phrase, got, tt.want)
		}
	}
}

func TestValidTokens(t *testing.T) {
	m := New(vocab.Default())
	tokens := []ingest.Token{
		{Text: "I", POS: ingest.Pronoun},
		{Text: "loved", POS: ingest.Verb},
		{Text: "went", POS: ingest.Verb},
		{Text: "Grunge", POS: ingest.Verb},
		{Text: "dreamy", POS: ingest.Adjective},
		{Text: "the", POS: ingest.Determiner},
		{Text: "what", POS: ingest.Noun},
		{Text: "!", POS: ingest.Punctuation},
		{Text: "glam", POS: ingest.Noun},
	}
	want := []string{"loved", "grunge", "dreamy", "glam"}
	if got := m.ValidTokens(tokens); !reflect.DeepEqual(got, want) {
		t.Errorf("ValidTokens = %v, want %v", got, want)
	}
}

func TestModifiers(t *testing.T) {
	m := New(vocab.Default())
	got := m.Modifiers([]string{"soft glam", "romantic", "unknown"})
	want := []string{"muted", "pink", "rosy", "soft"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Modifiers = %v, want %v", got, want)
	}
	if got := m.Modifiers(nil); len(got) != 0 {
		t.Errorf("Modifiers(nil) = %v", got)
	}
}

func TestHasCosmeticNoun(t *testing.T) {
	v := vocab.Default()
	m := New(v)
	tagger := ingest.NewRuleTagger(ingest.VocabularyHints(v))

	for text, want := range map[string]bool{
		"my lipsticks are soft": true,
		"a pink gloss":          true,
		"soft pink":             false,
		"":                      false,
	} {
		tokens, _ := tagger.Tag(text)
		if got := m.HasCosmeticNoun(tokens); got != want {
			t.Errorf("HasCosmeticNoun(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestMatchDeterministic(t *testing.T) {
	v := vocab.Default()
	m := New(v)
	first := match(t, m, v, "edgy grunge glam for a date night dinner")
	for i := 0; i < 10; i++ {
		if got := match(t, m, v, "edgy grunge glam for a date night dinner"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v vs %v", i, got, first)
		}
	}
}
