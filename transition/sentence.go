package transition

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isTerminator reports whether r ends a sentence. '׃' is the Hebrew sof pasuq.
func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '׃', '؟', '。':
		return true
	}
	return false
}

// SplitSentences splits text into trimmed, non-empty sentences. A sentence
// ends at a terminator followed by whitespace or end of text, or at a blank
// line. Terminators directly followed by another character ("e.g.x", "3.14")
// do not split.
func SplitSentences(text string) []string {
	var sentences []string
	var sb strings.Builder

	flush := func() {
		s := strings.TrimSpace(sb.String())
		if s != "" && strings.IndexFunc(s, isWordRune) >= 0 {
			sentences = append(sentences, s)
		}
		sb.Reset()
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		sb.WriteRune(r)
		i += size

		if r == '\n' && blankLineFollows(text[i:]) {
			flush()
			continue
		}

		if !isTerminator(r) {
			continue
		}

		// Absorb runs of terminators and closing quotes ("?!", "...", ".\"").
		for i < len(text) {
			next, nsize := utf8.DecodeRuneInString(text[i:])
			if !isTerminator(next) && !isClosingQuote(next) {
				break
			}
			sb.WriteRune(next)
			i += nsize
		}

		if i >= len(text) {
			break
		}
		next, _ := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(next) {
			flush()
		}
	}
	flush()
	return sentences
}

func isClosingQuote(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', '»', ')':
		return true
	}
	return false
}

// blankLineFollows reports whether rest starts with optional horizontal
// whitespace and a newline, i.e. the previous newline opened a blank line.
func blankLineFollows(rest string) bool {
	for _, r := range rest {
		switch r {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return false
}
