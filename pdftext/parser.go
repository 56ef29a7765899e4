// Package pdftext provides local PDF text extraction implementing
// pdfrag.Parser. It is free and fast, but limited for complex PDFs with
// tables, forms, or unusual layouts.
package pdftext

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	xtract "github.com/sassoftware/pdf-xtract"
	"github.com/sassoftware/pdf-xtract/logger"

	"github.com/mlipski/pdfrag"
)

// DefaultMaxWorkers bounds per-PDF extraction parallelism.
const DefaultMaxWorkers = 4

// Ensure Parser implements pdfrag.Parser at compile time.
var _ pdfrag.Parser = (*Parser)(nil)

// Parser extracts per-page text from PDF files locally.
type Parser struct {
	maxWorkers int
	log        *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxWorkers sets the number of extraction workers per PDF.
// Defaults to DefaultMaxWorkers.
func WithMaxWorkers(n int) Option {
	return func(p *Parser) {
		p.maxWorkers = n
	}
}

// WithLogger routes extraction diagnostics to the given logger.
// Diagnostics are discarded by default.
func WithLogger(log *slog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// NewParser creates a new local PDF Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxWorkers: DefaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts the pages of the PDF at path.
// The parsing instruction in opts is ignored; local extraction is not
// LLM-powered.
func (p *Parser) Parse(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, pdfrag.Errorf(pdfrag.EINVALID, "PDF not found: %s", path)
	}

	cfg := xtract.NewDefaultConfig()
	cfg.MaxConcurrentPDFs = 1
	cfg.MaxWorkersPerPDF = p.maxWorkers
	cfg.ParsingMode = xtract.BestEffort
	if p.log != nil {
		cfg.Logger = p.slogAdapter()
	} else {
		cfg.Logger = func(logger.LogLevel, string, ...interface{}) {}
	}

	proc := xtract.NewProcessor(cfg)

	stream, truncated, err := proc.ExtractAsStream(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var pages []*pdfrag.Page
	number := 0
	for pageText := range stream {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		number++
		if opts.MaxPages > 0 && number > opts.MaxPages {
			continue // drain the stream so the processor can finish
		}
		pages = append(pages, &pdfrag.Page{
			Number: number,
			Text:   NormalizeText(pageText),
			Metadata: map[string]string{
				"parser": "pdftext",
			},
		})
	}

	if len(pages) == 0 {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "no pages extracted from %s", path)
	}

	if truncated {
		for _, page := range pages {
			page.Metadata["truncated"] = "true"
		}
	}

	return pages, nil
}

// slogAdapter bridges the extraction library's log callback to slog.
func (p *Parser) slogAdapter() func(logger.LogLevel, string, ...interface{}) {
	return func(level logger.LogLevel, msg string, keyvals ...interface{}) {
		attrs := make([]any, 0, len(keyvals)+1)
		attrs = append(attrs, slog.String("level", string(level)))
		attrs = append(attrs, keyvals...)
		p.log.Debug(msg, attrs...)
	}
}

var multiNewlineRe = regexp.MustCompile(`\n{3,}`)

// NormalizeText cleans up extracted page text: trims trailing whitespace per
// line and collapses runs of blank lines.
func NormalizeText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	cleaned := strings.Join(lines, "\n")
	cleaned = multiNewlineRe.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
