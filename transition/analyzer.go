// Package transition finds cue phrases in running text and rates how well a
// document uses transition words.
package transition

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/c360studio/semcue/cuephrase"
)

// Result is the outcome of scanning one document.
type Result struct {
	ID                      string           `json:"id"`
	Language                string           `json:"language"`
	WordCount               int              `json:"word_count"`
	TotalSentences          int              `json:"total_sentences"`
	TransitionWordSentences int              `json:"transition_word_sentences"`
	Sentences               []SentenceResult `json:"sentences,omitempty"`
	PhraseCounts            map[string]int   `json:"phrase_counts,omitempty"`
}

// SentenceResult lists the distinct cue phrases found in one sentence, in
// table order.
type SentenceResult struct {
	Sentence        string   `json:"sentence"`
	TransitionWords []string `json:"transition_words"`
}

type compiledPhrase struct {
	phrase string // as authored
	norm   string
	// open phrases end in a proclitic that is written joined to the next
	// word, so they need no boundary after them.
	open bool
}

// proclitics are the Hebrew prefixes that attach to the following word.
var proclitics = map[string]bool{
	"ו": true, "ה": true, "ש": true, "מ": true,
	"ל": true, "ב": true, "כ": true, "כש": true,
}

// endsInProclitic reports whether the last token of a normalised phrase is
// a joined prefix.
func endsInProclitic(norm string) bool {
	last := norm[strings.LastIndexByte(norm, ' ')+1:]
	return proclitics[last]
}

// Analyzer matches the phrases of one cue phrase set against text. It is
// safe for concurrent use.
type Analyzer struct {
	language string
	phrases  []compiledPhrase
}

// NewAnalyzer compiles the phrases of set. Phrases that normalise to the same
// text are compiled once, so duplicated table entries are never counted twice.
func NewAnalyzer(set *cuephrase.Set) *Analyzer {
	all := set.AllWords()
	a := &Analyzer{
		language: set.Language(),
		phrases:  make([]compiledPhrase, 0, len(all)),
	}

	seen := make(map[string]bool, len(all))
	for _, p := range all {
		norm := normalize(p)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		a.phrases = append(a.phrases, compiledPhrase{
			phrase: strings.TrimSpace(p),
			norm:   norm,
			open:   endsInProclitic(norm),
		})
	}
	return a
}

// Language returns the language of the compiled set.
func (a *Analyzer) Language() string { return a.language }

// PhraseCount returns the number of distinct compiled phrases.
func (a *Analyzer) PhraseCount() int { return len(a.phrases) }

// Research scans text sentence by sentence.
func (a *Analyzer) Research(text string) Result {
	sentences := SplitSentences(text)
	res := Result{
		ID:             uuid.New().String(),
		Language:       a.language,
		WordCount:      countWords(text),
		TotalSentences: len(sentences),
		PhraseCounts:   make(map[string]int),
	}

	for _, sentence := range sentences {
		found := a.Match(sentence)
		if len(found) == 0 {
			continue
		}
		res.TransitionWordSentences++

		words := make([]string, 0, len(found))
		for _, m := range found {
			words = append(words, m.Phrase)
			res.PhraseCounts[m.Phrase] += m.Count
		}
		res.Sentences = append(res.Sentences, SentenceResult{
			Sentence:        sentence,
			TransitionWords: words,
		})
	}
	return res
}

// Match is one phrase found in a sentence.
type Match struct {
	Phrase string
	Count  int
}

// Match returns the compiled phrases occurring in sentence, in table order.
func (a *Analyzer) Match(sentence string) []Match {
	norm := normalize(sentence)
	if norm == "" {
		return nil
	}

	var found []Match
	for _, p := range a.phrases {
		if n := countBounded(norm, p.norm, p.open); n > 0 {
			found = append(found, Match{Phrase: p.phrase, Count: n})
		}
	}
	return found
}

// countBounded counts non-overlapping occurrences of phrase in s that are
// not glued to a neighbouring word character on either side. An open phrase
// only needs the boundary before it.
func countBounded(s, phrase string, open bool) int {
	n := 0
	for start := 0; start <= len(s)-len(phrase); {
		idx := strings.Index(s[start:], phrase)
		if idx < 0 {
			break
		}
		begin := start + idx
		end := begin + len(phrase)

		if boundaryBefore(s, begin) && (open || boundaryAfter(s, end)) {
			n++
			start = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[begin:])
		start = begin + size
	}
	return n
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}
