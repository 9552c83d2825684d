// Package cuephrase provides per-language cue phrase tables for text assessment.
//
// A cue phrase (also called a transition word) is a word or fixed phrase
// whose presence in a sentence signals a discourse relationship such as
// contrast, causation or sequence: "therefore", "in addition to", "לכן".
//
// # Sets
//
// Each language has one immutable Set with three views:
//
//   - SingleWords: single-token cues, in authoring order
//   - MultipleWords: multi-token cues, literal phrases with internal whitespace
//   - AllWords: SingleWords followed by MultipleWords
//
// Entries are stored exactly as authored. No de-duplication or trimming is
// performed; consumers normalise for matching on their side.
//
// # Registry
//
// A Registry maps language codes to sets. It is built once at startup and
// passed by reference to consumers:
//
//	reg, err := cuephrase.LoadEmbedded()
//	if err != nil {
//	    return err
//	}
//	set, ok := reg.Lookup("he-IL") // falls back to "he"
//	if !ok {
//	    // caller decides the fallback language
//	}
//	phrases := set.Phrases()
//
// Language codes are BCP 47 tags compared on their base language, so "he",
// "HE" and "he-IL" resolve to the same table.
//
// # Table Files
//
// Tables are YAML documents, one per language:
//
//	language: he
//	name: Hebrew
//	single_words: ["לכן", ...]
//	multiple_words: ["כתוצאה מכך", ...]
//
// The built-in tables live in the tables subpackage. Additional or overriding
// tables can be loaded from any fs.FS with LoadFS.
package cuephrase
