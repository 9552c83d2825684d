package transition

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// normalize prepares text for matching: Unicode format characters such as
// directional marks are dropped, case is folded and whitespace runs collapse
// to a single space. Authored table data is never rewritten; both phrases and
// sentences go through this function before comparison.
func normalize(s string) string {
	// Transformers keep state, so each call builds its own chain.
	t := transform.Chain(runes.Remove(runes.In(unicode.Cf)), cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// isWordRune reports whether r can be part of a word.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// countWords counts letter/digit runs, treating apostrophes and hyphens
// inside a word as part of it.
func countWords(text string) int {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r) && r != '\'' && r != '-' && r != '’'
	})
	n := 0
	for _, f := range fields {
		if strings.IndexFunc(f, isWordRune) >= 0 {
			n++
		}
	}
	return n
}
