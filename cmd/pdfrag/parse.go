package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/fs"
	"github.com/mlipski/pdfrag/ingest"
)

// Preview lengths per method, matching what each parser's output
// typically needs to show its character.
const (
	simplePreviewChars = 300
	llamaPreviewChars  = 500
	sourcePreviewChars = 200
)

// compareInstruction is used for the LlamaParse side of a comparison
// when the user didn't supply one.
const compareInstruction = "Extract all tables and preserve formatting as markdown"

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "PDF: %s\n", c.PDFPath)
	fmt.Fprintf(deps.Stdout, "Method: %s\n", c.Method)

	if c.Method == "compare" {
		return c.runCompare(deps)
	}
	if c.Query != "" {
		return c.runQuery(deps)
	}
	return c.runOnce(deps)
}

// parser returns the parser for the selected method.
func (c *ParseCmd) parser(deps *Dependencies) pdfrag.Parser {
	if c.Method == pdfrag.MethodLlamaParse {
		return deps.LlamaParser
	}
	return deps.SimpleParser
}

// previewChars returns the per-page preview length.
func (c *ParseCmd) previewChars() int {
	if c.Preview > 0 {
		return c.Preview
	}
	if c.Method == pdfrag.MethodLlamaParse {
		return llamaPreviewChars
	}
	return simplePreviewChars
}

// runOnce parses the PDF and prints previews without indexing.
func (c *ParseCmd) runOnce(deps *Dependencies) error {
	pages, err := c.parser(deps).Parse(deps.Ctx, c.PDFPath, pdfrag.ParseOptions{
		Instruction: c.Instruction,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Parsed %d page(s)\n", len(pages))
	printPagePreviews(deps, pages, c.previewChars())

	if c.Out != "" {
		if err := writePages(deps, c.PDFPath, c.Method, c.Out, pages); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "\nWrote %d page(s) to %s\n", len(pages), c.Out)
	}

	return nil
}

// runQuery parses the PDF into the in-memory index and answers the query.
func (c *ParseCmd) runQuery(deps *Dependencies) error {
	source := &pdfrag.Source{
		Name:        sourceName(c.PDFPath),
		Path:        c.PDFPath,
		Method:      c.Method,
		Instruction: c.Instruction,
	}
	if err := deps.Sources.CreateSource(deps.Ctx, source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	result, err := deps.Ingestor.IngestSource(deps.Ctx, source, func(event ingest.ProgressEvent) {
		switch event.Type {
		case ingest.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Parsed %d page(s)\n", event.Total)
		case ingest.ProgressEmbedding:
			fmt.Fprintf(deps.Stdout, "Embedding %d chunk(s)...\n", event.Total)
		case ingest.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip page %d: %v\n", event.Page, event.Error)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d chunk(s) (%s, %s)\n",
		result.Chunks, ingest.FormatBytes(result.Bytes), ingest.FormatTokens(result.Tokens))

	if c.Out != "" {
		docs, err := deps.Documents.FindDocuments(deps.Ctx, pdfrag.DocumentFilter{
			SourceID: &source.ID,
			SortBy:   pdfrag.SortByPosition,
		})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
			return err
		}
		if err := writeDocuments(deps, c.Out, docs); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Wrote %d page(s) to %s\n", len(docs), c.Out)
	}

	fmt.Fprintf(deps.Stdout, "\nQuery: %s\n", c.Query)

	answer, err := deps.Asker.Ask(deps.Ctx, source.ID, c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	printAnswer(deps, answer)
	return nil
}

// runCompare runs both parsers and prints a side-by-side summary.
func (c *ParseCmd) runCompare(deps *Dependencies) error {
	instruction := c.Instruction
	if instruction == "" {
		instruction = compareInstruction
	}

	cmp, err := ingest.CompareParsers(deps.Ctx, c.PDFPath, deps.SimpleParser, deps.LlamaParser, pdfrag.ParseOptions{
		Instruction: instruction,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	printMethodResult(deps, "1. Simple parser:", &cmp.Simple, simplePreviewChars)
	printMethodResult(deps, "2. LlamaParse:", &cmp.LlamaParse, llamaPreviewChars)

	fmt.Fprintln(deps.Stdout, "\nComparison summary:")
	fmt.Fprintf(deps.Stdout, "  Simple parser: %d page(s)\n", len(cmp.Simple.Pages))
	fmt.Fprintf(deps.Stdout, "  LlamaParse:    %d page(s)\n", len(cmp.LlamaParse.Pages))
	fmt.Fprintln(deps.Stdout, "  Simple parser: good for plain text PDFs")
	fmt.Fprintln(deps.Stdout, "  LlamaParse:    better for tables, forms, complex layouts")
	if ingest.ContentDiffers(cmp) {
		fmt.Fprintln(deps.Stdout, "  The outputs differ meaningfully; LlamaParse likely captured structure the simple parser missed.")
	}

	return nil
}

func printMethodResult(deps *Dependencies, header string, result *ingest.MethodResult, previewChars int) {
	fmt.Fprintf(deps.Stdout, "\n%s\n", header)
	if result.Err != nil {
		fmt.Fprintf(deps.Stderr, "  error: %s\n", pdfrag.ErrorMessage(result.Err))
		return
	}
	fmt.Fprintf(deps.Stdout, "  Parsed %d page(s) in %s (%s)\n",
		len(result.Pages), result.Duration.Round(time.Millisecond), ingest.FormatBytes(result.Bytes))
	printPagePreviews(deps, result.Pages, previewChars)
}

func printPagePreviews(deps *Dependencies, pages []*pdfrag.Page, previewChars int) {
	for _, page := range pages {
		fmt.Fprintf(deps.Stdout, "\n--- Page %d preview (first %d chars) ---\n", page.Number, previewChars)
		fmt.Fprintln(deps.Stdout, pdfrag.Preview(page.Text, previewChars))
	}
}

func printAnswer(deps *Dependencies, answer *pdfrag.Answer) {
	fmt.Fprintf(deps.Stdout, "\nResponse:\n%s\n", answer.Text)

	if len(answer.Sources) == 0 {
		return
	}
	fmt.Fprintln(deps.Stdout, "\nSources used:")
	for i, src := range answer.Sources {
		fmt.Fprintf(deps.Stdout, "\n  Source %d (page %d):\n", i+1, src.Chunk.Metadata.Page)
		fmt.Fprintf(deps.Stdout, "  %s\n", pdfrag.Preview(src.Chunk.Content, sourcePreviewChars))
		fmt.Fprintf(deps.Stdout, "  Score: %.3f\n", src.Score)
	}
}

// writePages exports parsed pages that were never persisted.
func writePages(deps *Dependencies, path, method, dir string, pages []*pdfrag.Page) error {
	name := sourceName(path)
	docs := make([]*pdfrag.Document, len(pages))
	for i, page := range pages {
		docs[i] = &pdfrag.Document{
			SourceID: name,
			Path:     path,
			Page:     page.Number,
			Method:   method,
			Title:    pdfrag.DeriveTitle(page.Text),
			Content:  page.Text,
			Position: i,
		}
	}
	return writeDocuments(deps, dir, docs)
}

func writeDocuments(deps *Dependencies, dir string, docs []*pdfrag.Document) error {
	writer := fs.NewWriter(dir)
	for _, doc := range docs {
		if err := writer.CreateDocument(deps.Ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// sourceName derives a source name from the PDF filename.
func sourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
