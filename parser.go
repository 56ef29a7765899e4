package pdfrag

import "context"

// Page represents a single page of text extracted from a PDF.
type Page struct {
	Number   int               // 1-based page number
	Text     string            // plain text or markdown, depending on the parser
	Metadata map[string]string // parser-specific metadata (job ID, mode, ...)
}

// ParseOptions configures a parse operation.
type ParseOptions struct {
	// Instruction is a natural language parsing instruction. Only honored
	// by LLM-powered parsers; local extraction ignores it.
	Instruction string

	// MaxPages limits the number of pages returned. Zero means no limit.
	MaxPages int
}

// Parser extracts per-page text from a PDF file.
// Implementations hide local extraction vs cloud API selection, upload and
// polling mechanics, and output format differences.
type Parser interface {
	// Parse extracts the pages of the PDF at path.
	// Returns EINVALID if the file does not exist or is not a readable PDF.
	Parse(ctx context.Context, path string, opts ParseOptions) ([]*Page, error)
}
