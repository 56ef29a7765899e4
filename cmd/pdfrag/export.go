package main

import (
	"fmt"
	"path/filepath"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
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
		fmt.Fprintf(deps.Stderr, "error: source %q has no pages to export.\n", c.Name)
		return pdfrag.Errorf(pdfrag.ENOTFOUND, "source %q has no pages", c.Name)
	}

	dir := filepath.Clean(c.Dir)
	store := fs.NewExportStore(filepath.Dir(dir), filepath.Base(dir))

	for _, doc := range docs {
		if err := store.Save(deps.Ctx, doc); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
			return err
		}
	}

	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d page(s) to %s\n", len(docs), dir)
	return nil
}
