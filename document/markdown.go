package document

import (
	"regexp"
	"strings"
)

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	refLinkRe    = regexp.MustCompile(`\[([^\]]+)\]\[[^\]]*\]`)
	inlineCodeRe = regexp.MustCompile("`([^`]*)`")
	htmlTagRe    = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)
	commentRe    = regexp.MustCompile(`<!--.*?-->`)
	orderedRe    = regexp.MustCompile(`^\d+[.)]\s+`)
	ruleRe       = regexp.MustCompile(`^([-*_])(\s*([-*_]))*\s*$`)
	tableSepRe   = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)
	refDefRe     = regexp.MustCompile(`^\[[^\]]+\]:\s+\S+`)
	emphasisRe   = regexp.MustCompile(`(\*\*|__|\*|~~)`)
	underscoreRe = regexp.MustCompile(`(^|[^\p{L}\p{N}])_([^_]+)_([^\p{L}\p{N}]|$)`)
)

// MarkdownToText flattens markdown to prose. Headings, list items and table
// rows become paragraphs of their own so that sentence splitting does not run
// them together; code blocks, front matter and link targets are dropped.
func MarkdownToText(markdown string) string {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	inFence := false
	fence := ""
	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		if i == 0 && line == "---" {
			// Front matter runs until the next "---".
			inFence, fence = true, "---"
			continue
		}
		if inFence {
			if strings.HasPrefix(line, fence) {
				inFence = false
			}
			continue
		}
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			flush()
			inFence, fence = true, line[:3]
			continue
		}

		switch {
		case line == "":
			flush()
			continue
		case ruleRe.MatchString(line), tableSepRe.MatchString(line), refDefRe.MatchString(line):
			flush()
			continue
		}

		block := false
		switch {
		case strings.HasPrefix(line, "#"):
			line = strings.TrimSpace(strings.TrimRight(strings.TrimLeft(line, "#"), "#"))
			block = true
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
			line = strings.TrimSpace(line[2:])
			block = true
		case orderedRe.MatchString(line):
			line = orderedRe.ReplaceAllString(line, "")
			block = true
		case strings.HasPrefix(line, "|"):
			line = strings.Join(strings.Fields(strings.ReplaceAll(line, "|", " ")), " ")
			block = true
		}
		for strings.HasPrefix(line, ">") {
			line = strings.TrimSpace(strings.TrimPrefix(line, ">"))
		}

		line = stripInline(line)
		if line == "" {
			continue
		}
		if block {
			flush()
			paragraphs = append(paragraphs, line)
			continue
		}
		current = append(current, line)
	}
	flush()

	return strings.Join(paragraphs, "\n\n")
}

func stripInline(s string) string {
	s = commentRe.ReplaceAllString(s, "")
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = refLinkRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = emphasisRe.ReplaceAllString(s, "")
	s = underscoreRe.ReplaceAllString(s, "$1$2$3")
	return strings.TrimSpace(s)
}

// markdownTitle returns the first level-one heading.
func markdownTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
