// Package shade extracts descriptive color preferences from free-form text.
//
// Given "I'd love a dustyrose or soft pink lipstick", an Engine returns the
// normalized phrases ["dust rose", "soft pink"]. Style expressions such as
// "soft glam" are recognized alongside and, unless a product is named,
// contribute the modifiers they imply.
//
//	eng, err := shade.New(shade.Options{Vocabulary: vocab.Default()})
//	res, err := eng.Extract(ctx, "soft pink please")
//
// Subpackages hold the stages: vocab (vocabulary store), ingest (taggers,
// segmentation), glue (glued-token splitting), resolve (modifier and tone
// canonicalization), extract (phrase passes), expression (style matching),
// simplify (meaning simplification) and config (file loading).
package shade
