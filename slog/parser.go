// Package slog provides logging decorators for pdfrag services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mlipski/pdfrag"
)

// Ensure LoggingParser implements pdfrag.Parser.
var _ pdfrag.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with debug logging.
type LoggingParser struct {
	next   pdfrag.Parser
	method string
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser. The method name is
// included in every log line to distinguish parsers.
func NewLoggingParser(next pdfrag.Parser, method string, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, method: method, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(ctx context.Context, path string, opts pdfrag.ParseOptions) (pages []*pdfrag.Page, err error) {
	defer func(begin time.Time) {
		p.logger.Info("parse",
			"method", p.method,
			"path", path,
			"pages", len(pages),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(ctx, path, opts)
}
