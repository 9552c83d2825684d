// Package document turns files and web pages into plain text ready for
// transition word research.
//
// Markdown and plain text are read directly. HTML is reduced to its main
// content area, converted to markdown and then flattened to text, so
// navigation menus, scripts and footers do not skew sentence counts.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MIME types handled by Extract.
const (
	MimeMarkdown = "text/markdown"
	MimePlain    = "text/plain"
	MimeHTML     = "text/html"
)

// Document is extracted, plain text content.
type Document struct {
	// Source is the file path or URL the document came from.
	Source   string `json:"source"`
	Title    string `json:"title,omitempty"`
	MimeType string `json:"mime_type"`
	Text     string `json:"text"`
	// Hash is the SHA-256 of the raw content, used for change detection.
	Hash string `json:"hash"`
}

// MimeTypeFromExtension maps a file extension to one of the supported MIME
// types. Unknown extensions are treated as plain text.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".md", ".markdown", ".mdown":
		return MimeMarkdown
	case ".html", ".htm", ".xhtml":
		return MimeHTML
	default:
		return MimePlain
	}
}

// normalizeMimeType strips parameters such as "; charset=utf-8".
func normalizeMimeType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	switch mt {
	case MimeHTML, "application/xhtml+xml":
		return MimeHTML
	case MimeMarkdown, "text/x-markdown":
		return MimeMarkdown
	default:
		return MimePlain
	}
}

// ContentHash returns the hex SHA-256 of content.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Extract converts raw content of the given MIME type into a Document.
func Extract(source, mimeType string, content []byte) (*Document, error) {
	doc := &Document{
		Source:   source,
		MimeType: normalizeMimeType(mimeType),
		Hash:     ContentHash(content),
	}

	switch doc.MimeType {
	case MimeHTML:
		conv, err := NewConverter().Convert(content)
		if err != nil {
			return nil, fmt.Errorf("convert html %s: %w", source, err)
		}
		doc.Title = conv.Title
		doc.Text = MarkdownToText(conv.Markdown)
	case MimeMarkdown:
		md := string(content)
		doc.Title = markdownTitle(md)
		doc.Text = MarkdownToText(md)
	default:
		doc.Text = strings.TrimSpace(string(content))
	}
	return doc, nil
}

// ReadFile reads and extracts a local file, choosing the MIME type from its
// extension.
func ReadFile(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Extract(path, MimeTypeFromExtension(filepath.Ext(path)), content)
}
