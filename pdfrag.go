// Package pdfrag provides a local, CLI-based PDF question answering tool.
// It parses PDF files with either a local text extractor or the LlamaParse
// cloud API, indexes the parsed pages for semantic search, and answers
// natural language questions about them with a hosted LLM.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, pdftext/, llamaparse/,
// openai/).
package pdfrag
