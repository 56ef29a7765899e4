package pdfrag

import (
	"regexp"
	"strings"
)

// Section represents a markdown heading in a parsed page.
type Section struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

var (
	headingRe   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	codeBlockRe = regexp.MustCompile("(?s)```.*?```")
)

// ExtractSections returns the headings (H1-H6) of a page's markdown in
// document order. Hashes inside fenced code blocks are ignored, which
// matters for LlamaParse output that embeds code or table snippets.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	matches := headingRe.FindAllStringSubmatch(codeBlockRe.ReplaceAllString(markdown, ""), -1)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	for _, match := range matches {
		sections = append(sections, Section{
			Level: len(match[1]),
			Title: strings.TrimSpace(match[2]),
		})
	}

	return sections
}
