// Package fs provides file-based markdown export for parsed documents.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlipski/pdfrag"
)

// PageToPath converts a 1-based page number to a relative file path.
// Example: 3 → page-003.md
func PageToPath(page int) string {
	return fmt.Sprintf("page-%03d.md", page)
}

// FormatDocument formats a document with YAML frontmatter.
func FormatDocument(doc *pdfrag.Document) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(doc.Path)
	fmt.Fprintf(&b, "\npage: %d", doc.Page)
	b.WriteString("\nmethod: ")
	b.WriteString(doc.Method)
	if doc.Title != "" {
		b.WriteString("\ntitle: ")
		b.WriteString(doc.Title)
	}
	b.WriteString("\nparsed: ")
	b.WriteString(doc.ParsedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(doc.Content)
	return b.String()
}

// Ensure Writer implements pdfrag.DocumentWriter at compile time.
var _ pdfrag.DocumentWriter = (*Writer)(nil)

// Writer writes documents as markdown files to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// CreateDocument writes a document to disk as a markdown file.
func (w *Writer) CreateDocument(ctx context.Context, doc *pdfrag.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	fullPath := filepath.Join(w.baseDir, PageToPath(doc.Page))

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return err
	}

	content := FormatDocument(doc)
	return os.WriteFile(fullPath, []byte(content), 0644)
}
