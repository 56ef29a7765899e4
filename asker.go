package pdfrag

import "context"

// Answer is the result of a question answering call, including the retrieved
// chunks the model was shown so the caller can cite them.
type Answer struct {
	Text    string         `json:"text"`
	Sources []SearchResult `json:"sources,omitempty"`
}

// Asker provides natural language question answering over parsed documents.
type Asker interface {
	// Ask answers a natural language question about a source's documents.
	// Returns ENOTFOUND if the source has no indexed chunks.
	Ask(ctx context.Context, sourceID string, question string) (*Answer, error)
}
