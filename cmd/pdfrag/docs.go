package main

import (
	"fmt"

	"github.com/mlipski/pdfrag"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	source, err := findSourceByName(deps, c.Name)
	if err != nil {
		return err
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, pdfrag.DocumentFilter{
		SourceID: &source.ID,
		SortBy:   pdfrag.SortByPosition,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: source %q has no pages. To re-add, first run 'pdfrag delete %s --force', then run 'pdfrag add %s <file.pdf>'.\n", c.Name, c.Name, c.Name)
		return pdfrag.Errorf(pdfrag.ENOTFOUND, "source %q has no pages", c.Name)
	}

	if c.Full {
		// Print full formatted content (same as what ask sends to LLM)
		fmt.Fprintln(deps.Stdout, pdfrag.FormatDocuments(docs))
		return nil
	}

	// Print summary listing
	fmt.Fprintf(deps.Stdout, "Pages for %s (%d total):\n\n", c.Name, len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = fmt.Sprintf("Page %d", doc.Page)
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s (page %d, %d chars)\n", i+1, title, doc.Page, len(doc.Content))
	}

	return nil
}

// findSourceByName resolves a source name, printing a helpful error to
// stderr when it doesn't exist.
func findSourceByName(deps *Dependencies, name string) (*pdfrag.Source, error) {
	sources, err := deps.Sources.FindSources(deps.Ctx, pdfrag.SourceFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return nil, err
	}

	if len(sources) == 0 {
		fmt.Fprintf(deps.Stderr, "error: source %q not found. Use 'pdfrag list' to see available sources.\n", name)
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "source %q not found", name)
	}

	return sources[0], nil
}
