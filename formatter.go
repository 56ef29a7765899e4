package pdfrag

import (
	"fmt"
	"strings"
)

// FormatDocuments formats documents for display or LLM context.
// Uses the page title if available, falls back to the page number.
// Documents are separated by blank lines.
func FormatDocuments(docs []*Document) string {
	if len(docs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		header := doc.Title
		if header == "" {
			header = fmt.Sprintf("Page %d", doc.Page)
		}
		parts = append(parts, "## Document: "+header+"\n"+doc.Content)
	}

	return strings.Join(parts, "\n\n")
}

// Preview returns the first n characters of text, appending "..." when
// truncated. Truncation never splits a UTF-8 rune.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// maxDerivedTitleLen caps titles derived from page content.
const maxDerivedTitleLen = 80

// DeriveTitle derives a display title from page content: the first markdown
// heading if present, otherwise the first non-empty line. Returns an empty
// string for empty content.
func DeriveTitle(content string) string {
	if sections := ExtractSections(content); len(sections) > 0 {
		return Preview(sections[0].Title, maxDerivedTitleLen)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return Preview(line, maxDerivedTitleLen)
		}
	}

	return ""
}
