package extract

import (
	"go.uber.org/zap"

	"github.com/cognicore/shade/pkg/shade/ingest"
	"github.com/cognicore/shade/pkg/shade/resolve"
)

// Strategy names the compound strategy that produced a candidate.
type Strategy string

const (
	Adjacent Strategy = "adjacent"
	Split    Strategy = "split"
	Glued    Strategy = "glued"
)

// Candidate is an accepted modifier/tone pair.
type Candidate struct {
	Modifier   string
	Tone       string
	RawSurface string   // the raw text the pair was read from
	Positions  []int    // token positions the pair consumed
	Strategy   Strategy // which strategy found it
}

// Phrase returns the normalized "modifier tone" phrase.
func (c Candidate) Phrase() string {
	return c.Modifier + " " + c.Tone
}

// Compounds runs the adjacent, split-candidate and glued strategies in that
// order. Every accepted candidate is returned, duplicates included.
func (e *Extractor) Compounds(tokens []ingest.Token) []Candidate {
	acc := &compoundAccumulator{consumed: make(map[int]bool)}

	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		if !a.IsWord() || !b.IsWord() {
			continue
		}
		rawMod, rawTone := surfaceOf(a), surfaceOf(b)
		e.tryPair(acc, rawMod, rawTone, rawMod+" "+rawTone, []int{i, i + 1}, Adjacent)
	}

	for i := 0; i+1 < len(tokens); i++ {
		a, b := tokens[i], tokens[i+1]
		if !a.IsWord() || !b.IsWord() {
			continue
		}
		modPieces := e.splitter.Split(surfaceOf(a))
		tonePieces := e.splitter.Split(surfaceOf(b))
		if len(modPieces) < 2 && len(tonePieces) < 2 {
			continue // nothing the adjacent strategy has not seen
		}
		surface := surfaceOf(a) + " " + surfaceOf(b)
		for _, m := range modPieces {
			for _, t := range tonePieces {
				if !e.vocab.IsToneOrWebColor(ingest.Singular(t)) {
					continue
				}
				e.tryPair(acc, m, t, surface, []int{i, i + 1}, Split)
			}
		}
	}

	// Split pieces always join back to the token, so a two-piece cover is
	// a glued pair by construction.
	for i, tok := range tokens {
		if !tok.IsWord() || acc.consumed[i] {
			continue
		}
		raw := surfaceOf(tok)
		pieces := e.splitter.Split(raw)
		if len(pieces) != 2 {
			continue
		}
		e.tryPair(acc, pieces[0], pieces[1], raw, []int{i}, Glued)
	}

	return acc.candidates
}

type compoundAccumulator struct {
	candidates []Candidate
	consumed   map[int]bool
}

// tryPair resolves both slots and accepts the pair unless a rejection rule
// applies: unresolved slot, blocked pair (raw or resolved), suppressed
// demoted tone, or a modifier equal to its tone.
func (e *Extractor) tryPair(acc *compoundAccumulator, rawMod, rawTone, surface string, positions []int, s Strategy) {
	mod, ok := e.resolver.Modifier(rawMod)
	if !ok {
		return
	}
	tone, _ := e.resolver.Tone(rawTone)
	if resolve.ShouldSuppressCompound(rawMod, mod, tone, e.vocab) {
		return
	}
	if tone == "" || !e.vocab.IsToneOrWebColor(tone) {
		return
	}
	if mod == tone ||
		e.vocab.IsBlockedPair(rawMod, rawTone) ||
		e.vocab.IsBlockedPair(rawMod, ingest.Singular(rawTone)) ||
		e.vocab.IsBlockedPair(mod, tone) {
		e.logger.Debug("compound rejected",
			zap.String("modifier", mod),
			zap.String("tone", tone),
			zap.String("strategy", string(s)))
		return
	}

	c := Candidate{
		Modifier:   mod,
		Tone:       tone,
		RawSurface: surface,
		Positions:  positions,
		Strategy:   s,
	}
	acc.candidates = append(acc.candidates, c)
	for _, p := range positions {
		acc.consumed[p] = true
	}
	e.logger.Debug("compound accepted",
		zap.String("phrase", c.Phrase()),
		zap.String("surface", surface),
		zap.String("strategy", string(s)))
}

func phrasesOf(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Phrase())
	}
	return out
}
