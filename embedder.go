package pdfrag

import "context"

// Embedder computes vector embeddings for text.
type Embedder interface {
	// EmbedDocuments embeds a batch of texts for indexing.
	// The returned slice is parallel to texts.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
