package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("So it goes."), 0644))
	}
}

func TestResolveFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"README.md",
		"docs/guide.md",
		"docs/api/ref.html",
		"docs/api/spec.yaml",
		"notes.txt",
	)
	abs := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }

	t.Run("single file", func(t *testing.T) {
		files, err := ResolveFiles([]string{abs("README.md")})
		require.NoError(t, err)
		assert.Equal(t, []string{abs("README.md")}, files)
	})

	t.Run("directory expands to supported documents", func(t *testing.T) {
		files, err := ResolveFiles([]string{abs("docs")})
		require.NoError(t, err)
		assert.Equal(t, []string{abs("docs/api/ref.html"), abs("docs/guide.md")}, files)
	})

	t.Run("recursive glob", func(t *testing.T) {
		files, err := ResolveFiles([]string{filepath.Join(root, "**", "*.md")})
		require.NoError(t, err)
		assert.Equal(t, []string{abs("README.md"), abs("docs/guide.md")}, files)
	})

	t.Run("overlapping patterns are de-duplicated", func(t *testing.T) {
		files, err := ResolveFiles([]string{abs("README.md"), filepath.Join(root, "*.md")})
		require.NoError(t, err)
		assert.Equal(t, []string{abs("README.md")}, files)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ResolveFiles([]string{abs("nope.md")})
		assert.Error(t, err)
	})

	t.Run("glob without matches", func(t *testing.T) {
		_, err := ResolveFiles([]string{filepath.Join(root, "*.rst")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match")
	})
}
