package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// dirPattern selects the documents inside a directory argument.
const dirPattern = "**/*.{md,markdown,txt,html,htm}"

// ResolveFiles expands file, directory and glob arguments into a sorted,
// de-duplicated list of absolute file paths. Globs support ** for recursive
// matching; directories expand to every supported document below them.
//
// Examples:
//   - "README.md" → the file itself
//   - "docs" → docs/**/*.{md,markdown,txt,html,htm}
//   - "content/**/*.md" → every markdown file below content
func ResolveFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, pattern := range patterns {
		matches, err := resolveFilePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

func resolveFilePattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{abs}, nil
		}
		pattern = filepath.Join(abs, filepath.FromSlash(dirPattern))
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match")
	}
	return files, nil
}
