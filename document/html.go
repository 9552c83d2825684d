package document

import (
	"bytes"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// Elements that never carry article prose.
var boilerplateTags = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true,
	"script": true, "style": true, "noscript": true, "iframe": true,
	"object": true, "embed": true, "form": true, "button": true,
	"svg": true, "template": true,
}

// Class names of containers that usually hold navigation or chrome.
var boilerplateClasses = map[string]bool{
	"nav": true, "navbar": true, "navigation": true, "sidebar": true,
	"menu": true, "toc": true, "footer": true, "header": true,
	"breadcrumb": true, "comments": true, "share": true, "social": true,
	"advertisement": true, "related": true,
}

// Converted is the result of converting an HTML page.
type Converted struct {
	Title    string
	Markdown string
}

// Converter converts HTML pages to markdown, keeping only the main content.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML to markdown converter.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// Convert extracts the title and main content of an HTML page as markdown.
func (c *Converter) Convert(content []byte) (*Converted, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		cleaned := styleRe.ReplaceAllString(scriptRe.ReplaceAllString(string(content), ""), "")
		markdown, convErr := c.converter.ConvertString(cleaned)
		if convErr != nil {
			return nil, convErr
		}
		return &Converted{Markdown: strings.TrimSpace(markdown)}, nil
	}

	title := findTitle(doc)

	markdown, err := c.converter.ConvertString(renderNode(mainContent(doc)))
	if err != nil {
		return nil, err
	}
	markdown = strings.TrimSpace(markdown)

	if title == "" {
		title = markdownTitle(markdown)
	}
	return &Converted{Title: title, Markdown: markdown}, nil
}

func findTitle(doc *html.Node) string {
	n := firstNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title"
	})
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

// mainContent returns the <main>, <article> or role=main element, or the
// body stripped of boilerplate when none exists.
func mainContent(doc *html.Node) *html.Node {
	for _, match := range []func(*html.Node) bool{
		isElement("main"),
		isElement("article"),
		hasAttr("role", "main"),
	} {
		if n := firstNode(doc, match); n != nil {
			stripBoilerplate(n)
			return n
		}
	}

	stripBoilerplate(doc)
	if body := firstNode(doc, isElement("body")); body != nil {
		return body
	}
	return doc
}

func isElement(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == tag
	}
}

func hasAttr(key, val string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return true
			}
		}
		return false
	}
}

// firstNode walks the tree depth first and returns the first match.
func firstNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := firstNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isBoilerplate(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if boilerplateTags[n.Data] {
		return true
	}
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(strings.ToLower(a.Val)) {
			if boilerplateClasses[class] {
				return true
			}
		}
	}
	return false
}

// stripBoilerplate removes boilerplate descendants of n in place.
func stripBoilerplate(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isBoilerplate(c) {
			n.RemoveChild(c)
		} else {
			stripBoilerplate(c)
		}
		c = next
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
