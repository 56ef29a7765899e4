package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mlipski/pdfrag"
)

// Ensure LoggingEmbedder implements pdfrag.Embedder.
var _ pdfrag.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder with debug logging.
type LoggingEmbedder struct {
	next   pdfrag.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next pdfrag.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// EmbedDocuments delegates to the wrapped embedder and logs the batch.
func (e *LoggingEmbedder) EmbedDocuments(ctx context.Context, texts []string) (embeddings [][]float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed documents",
			"count", len(texts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedDocuments(ctx, texts)
}

// EmbedQuery delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) EmbedQuery(ctx context.Context, text string) (embedding []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Info("embed query",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.EmbedQuery(ctx, text)
}
