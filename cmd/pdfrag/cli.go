package main

import (
	"context"
	"io"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/ingest"
	"github.com/mlipski/pdfrag/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	DB     *sqlite.DB

	Sources   pdfrag.SourceService
	Documents pdfrag.DocumentService
	Chunks    pdfrag.ChunkService
	Search    pdfrag.SearchService

	SimpleParser pdfrag.Parser
	LlamaParser  pdfrag.Parser
	Ingestor     *ingest.Ingestor
	Asker        pdfrag.Asker
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Parse  ParseCmd  `cmd:"" help:"Parse a PDF and print per-page previews"`
	Add    AddCmd    `cmd:"" help:"Parse a PDF and index it under a name"`
	List   ListCmd   `cmd:"" help:"List all indexed sources"`
	Docs   DocsCmd   `cmd:"" help:"List parsed pages for a source"`
	Ask    AskCmd    `cmd:"" help:"Ask a question about an indexed source"`
	Delete DeleteCmd `cmd:"" help:"Delete a source and its pages"`
	Export ExportCmd `cmd:"" help:"Export a source's pages as markdown files"`
}

// ParseCmd is the "parse" subcommand: a one-shot parse that doesn't
// touch the persistent database.
type ParseCmd struct {
	PDFPath     string `arg:"" help:"Path to PDF file"`
	Method      string `enum:"simple,llamaparse,compare" default:"simple" help:"Parsing method"`
	Instruction string `help:"Custom parsing instruction for LlamaParse"`
	Query       string `help:"Query to run after parsing"`
	Provider    string `enum:"openai,gemini" default:"openai" help:"LLM provider for --query"`
	Out         string `help:"Write parsed pages as markdown files to this directory"`
	Preview     int    `help:"Preview length in characters (default 300 simple, 500 llamaparse)"`
}

// AddCmd is the "add" subcommand.
type AddCmd struct {
	Name        string `arg:"" help:"Source name"`
	PDFPath     string `arg:"" help:"Path to PDF file"`
	Method      string `enum:"simple,llamaparse" default:"simple" help:"Parsing method"`
	Instruction string `help:"Custom parsing instruction for LlamaParse"`
	Force       bool   `short:"f" help:"Delete existing source first"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent embedding batches"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Name string `arg:"" help:"Source name"`
	Full bool   `help:"Show full page content"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"Source name"`
	Question string `arg:"" help:"Question to ask about the document"`
	TopK     int    `default:"5" help:"Number of chunks retrieved for context"`
	Provider string `enum:"openai,gemini" default:"openai" help:"LLM provider"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Source name"`
	Force bool   `help:"Confirm deletion"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Name string `arg:"" help:"Source name"`
	Dir  string `arg:"" help:"Output directory"`
}
