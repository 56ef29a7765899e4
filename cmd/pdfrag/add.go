package main

import (
	"fmt"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/ingest"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	// Force mode: delete existing source first
	if c.Force {
		existing, err := deps.Sources.FindSources(deps.Ctx, pdfrag.SourceFilter{Name: &c.Name})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
			return err
		}
		if len(existing) > 0 {
			if err := deps.Sources.DeleteSource(deps.Ctx, existing[0].ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
				return err
			}
		}
	}

	source := &pdfrag.Source{
		Name:        c.Name,
		Path:        c.PDFPath,
		Method:      c.Method,
		Instruction: c.Instruction,
	}

	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added source %q (%s)\n", c.Name, source.ID)
	fmt.Fprintf(deps.Stdout, "Parsing %s with %s...\n", c.PDFPath, c.Method)

	progress := func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Parsed %d page(s)\n", event.Total)
		case ingest.ProgressEmbedding:
			fmt.Fprintf(deps.Stdout, "  Embedding %d chunk(s)...\n", event.Total)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip page %d: %v\n", event.Page, event.Error)
		}
	}

	result, err := deps.Ingestor.IngestSource(deps.Ctx, source, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error ingesting: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "  Saved %d page(s), %d chunk(s) (%s, %s)\n",
		result.Saved, result.Chunks, ingest.FormatBytes(result.Bytes), ingest.FormatTokens(result.Tokens))

	return nil
}
