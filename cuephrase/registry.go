package cuephrase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// ErrUnknownLanguage is returned by callers that need an error for a language
// missing from the registry.
var ErrUnknownLanguage = errors.New("unknown language")

// NormalizeLanguage reduces a BCP 47 code to its lower-case base language,
// e.g. "he-IL" and "HE" both become "he".
func NormalizeLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", fmt.Errorf("language is required")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// Registry maps language codes to cue phrase sets.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]*Set // keyed by normalised language code
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sets: make(map[string]*Set),
	}
}

// Register adds a set. It fails when the language is already registered.
func (r *Registry) Register(set *Set) error {
	if set == nil {
		return fmt.Errorf("register: nil set")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[set.Language()]; exists {
		return fmt.Errorf("register: language %q already registered", set.Language())
	}
	r.sets[set.Language()] = set
	return nil
}

// Replace adds a set, overriding any set registered for the same language.
// It reports whether an existing set was replaced.
func (r *Registry) Replace(set *Set) (bool, error) {
	if set == nil {
		return false, fmt.Errorf("replace: nil set")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.sets[set.Language()]
	r.sets[set.Language()] = set
	return existed, nil
}

// Lookup returns the set for a language. Region and script subtags are
// ignored, so "he-IL" resolves to the "he" table.
func (r *Registry) Lookup(lang string) (*Set, bool) {
	code, err := NormalizeLanguage(lang)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[code]
	return set, ok
}

// Get is Lookup returning ErrUnknownLanguage for a missing language.
func (r *Registry) Get(lang string) (*Set, error) {
	set, ok := r.Lookup(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return set, nil
}

// Provider returns the provider function of a registered language.
func (r *Registry) Provider(lang string) (Provider, bool) {
	set, ok := r.Lookup(lang)
	if !ok {
		return nil, false
	}
	return set.Provider(), true
}

// Languages returns the registered language codes in sorted order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]string, 0, len(r.sets))
	for code := range r.sets {
		langs = append(langs, code)
	}
	sort.Strings(langs)
	return langs
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}
