package cuephrase

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcue/cuephrase/tables"
)

// DefaultPattern matches table files anywhere below a directory.
const DefaultPattern = "**/*.yaml"

// Table is the on-disk form of a Set.
type Table struct {
	Language      string   `yaml:"language"`
	Name          string   `yaml:"name,omitempty"`
	SingleWords   []string `yaml:"single_words"`
	MultipleWords []string `yaml:"multiple_words"`
}

// ParseTable decodes one YAML table and builds its Set. Unknown fields are
// rejected so that misspelled list names do not silently load as empty.
func ParseTable(data []byte) (*Set, error) {
	var t Table
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty table")
		}
		return nil, fmt.Errorf("decode table: %w", err)
	}
	return NewSet(t.Language, t.Name, t.SingleWords, t.MultipleWords)
}

// LoadEmbedded builds a registry from the built-in tables.
func LoadEmbedded() (*Registry, error) {
	return LoadFS(tables.FS, "*.yaml")
}

// LoadFS builds a registry from every table in fsys matching pattern.
// Two tables for the same language are an error.
func LoadFS(fsys fs.FS, pattern string) (*Registry, error) {
	sets, err := readTables(fsys, pattern)
	if err != nil {
		return nil, err
	}

	reg := NewRegistry()
	for _, ls := range sets {
		if err := reg.Register(ls.set); err != nil {
			return nil, fmt.Errorf("load table %s: %w", ls.path, err)
		}
	}
	return reg, nil
}

// OverlayFS loads the tables in fsys matching pattern into r, replacing any
// language already present. It returns the languages that were loaded.
func (r *Registry) OverlayFS(fsys fs.FS, pattern string) ([]string, error) {
	sets, err := readTables(fsys, pattern)
	if err != nil {
		return nil, err
	}

	langs := make([]string, 0, len(sets))
	for _, ls := range sets {
		if _, err := r.Replace(ls.set); err != nil {
			return nil, fmt.Errorf("overlay table %s: %w", ls.path, err)
		}
		langs = append(langs, ls.set.Language())
	}
	return langs, nil
}

type loadedSet struct {
	path string
	set  *Set
}

func readTables(fsys fs.FS, pattern string) ([]loadedSet, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	paths, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob tables %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no tables match %q", pattern)
	}
	sort.Strings(paths)

	sets := make([]loadedSet, 0, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read table %s: %w", path, err)
		}
		set, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("load table %s: %w", path, err)
		}
		sets = append(sets, loadedSet{path: path, set: set})
	}
	return sets, nil
}
