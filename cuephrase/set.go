package cuephrase

import (
	"fmt"
	"slices"
)

// Phrases is the provider output for one language.
type Phrases struct {
	SingleWords   []string `json:"single_words" yaml:"single_words"`
	MultipleWords []string `json:"multiple_words" yaml:"multiple_words"`
	AllWords      []string `json:"all_words" yaml:"all_words"`
}

// Provider returns the cue phrases of one fixed language.
type Provider func() Phrases

// View selects one of the lists held by a Set.
type View string

// ViewSingle, ViewMultiple and ViewAll name the three views of a Set.
const (
	ViewSingle   View = "single"
	ViewMultiple View = "multiple"
	ViewAll      View = "all"
)

// ParseView converts a user supplied view name. An empty name selects ViewAll.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewSingle, ViewMultiple:
		return View(s), nil
	default:
		return "", fmt.Errorf("unknown view %q (want single, multiple or all)", s)
	}
}

// Set is the immutable cue phrase table of one language.
type Set struct {
	language string
	name     string
	single   []string
	multiple []string
	all      []string
}

// NewSet builds a Set from authored lists. The language code is normalised
// with NormalizeLanguage. The lists are copied; both must be non-empty and
// contain no empty strings.
func NewSet(language, name string, single, multiple []string) (*Set, error) {
	code, err := NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	if err := checkList("single_words", single); err != nil {
		return nil, err
	}
	if err := checkList("multiple_words", multiple); err != nil {
		return nil, err
	}

	s := &Set{
		language: code,
		name:     name,
		single:   slices.Clone(single),
		multiple: slices.Clone(multiple),
	}
	s.all = make([]string, 0, len(single)+len(multiple))
	s.all = append(s.all, s.single...)
	s.all = append(s.all, s.multiple...)
	return s, nil
}

func checkList(field string, words []string) error {
	if len(words) == 0 {
		return fmt.Errorf("%s must not be empty", field)
	}
	for i, w := range words {
		if w == "" {
			return fmt.Errorf("%s[%d] is an empty string", field, i)
		}
	}
	return nil
}

// Language returns the normalised language code of the set.
func (s *Set) Language() string { return s.language }

// Name returns the display name, or the language code when none was authored.
func (s *Set) Name() string {
	if s.name == "" {
		return s.language
	}
	return s.name
}

// SingleWords returns a copy of the single-token cues in authoring order.
func (s *Set) SingleWords() []string { return slices.Clone(s.single) }

// MultipleWords returns a copy of the multi-token cues in authoring order.
func (s *Set) MultipleWords() []string { return slices.Clone(s.multiple) }

// AllWords returns a copy of SingleWords followed by MultipleWords.
func (s *Set) AllWords() []string { return slices.Clone(s.all) }

// View returns a copy of the list selected by v.
func (s *Set) View(v View) []string {
	switch v {
	case ViewSingle:
		return s.SingleWords()
	case ViewMultiple:
		return s.MultipleWords()
	default:
		return s.AllWords()
	}
}

// Phrases returns all three views. Every call returns fresh slices.
func (s *Set) Phrases() Phrases {
	return Phrases{
		SingleWords:   s.SingleWords(),
		MultipleWords: s.MultipleWords(),
		AllWords:      s.AllWords(),
	}
}

// Provider returns a Provider bound to this set.
func (s *Set) Provider() Provider {
	return s.Phrases
}
