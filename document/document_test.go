package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeTypeFromExtension(t *testing.T) {
	tests := map[string]string{
		".md":       MimeMarkdown,
		".MARKDOWN": MimeMarkdown,
		".html":     MimeHTML,
		".htm":      MimeHTML,
		".txt":      MimePlain,
		"":          MimePlain,
		".docx":     MimePlain,
	}
	for ext, want := range tests {
		assert.Equal(t, want, MimeTypeFromExtension(ext), ext)
	}
}

func TestExtract_Plain(t *testing.T) {
	doc, err := Extract("notes.txt", "text/plain; charset=utf-8", []byte("  Hello there.  \n"))
	require.NoError(t, err)
	assert.Equal(t, MimePlain, doc.MimeType)
	assert.Equal(t, "Hello there.", doc.Text)
	assert.Equal(t, ContentHash([]byte("  Hello there.  \n")), doc.Hash)
}

func TestExtract_Markdown(t *testing.T) {
	src := "# Release notes\n\nThe build failed. However, the **tests** passed.\n"
	doc, err := Extract("notes.md", MimeMarkdown, []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "Release notes", doc.Title)
	assert.Equal(t, "Release notes\n\nThe build failed. However, the tests passed.", doc.Text)
}

func TestExtract_HTML(t *testing.T) {
	page := `<html><head><title>Guide</title><style>p{}</style></head>
<body>
<nav><a href="/">Home</a></nav>
<main><h1>Guide</h1><p>First, read this. <em>Then</em> act.</p><div class="sidebar">Ads here</div></main>
<footer>Copyright</footer>
</body></html>`

	doc, err := Extract("https://example.com/guide", "text/html; charset=utf-8", []byte(page))
	require.NoError(t, err)
	assert.Equal(t, MimeHTML, doc.MimeType)
	assert.Equal(t, "Guide", doc.Title)
	assert.Contains(t, doc.Text, "First, read this.")
	assert.Contains(t, doc.Text, "Then act.")
	assert.NotContains(t, doc.Text, "Home")
	assert.NotContains(t, doc.Text, "Ads here")
	assert.NotContains(t, doc.Text, "Copyright")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("# Post\n\nSo it goes.\n"), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)
	assert.Equal(t, MimeMarkdown, doc.MimeType)
	assert.True(t, strings.HasSuffix(doc.Text, "So it goes."))

	_, err = ReadFile(filepath.Join(dir, "missing.md"))
	assert.Error(t, err)
}
