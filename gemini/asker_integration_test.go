//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/gemini"
	"github.com/mlipski/pdfrag/mock"
)

func TestAsker_Integration_ReturnsAnswer(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	search := &mock.SearchService{
		SearchFn: func(context.Context, string, pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
			return []pdfrag.SearchResult{
				{
					Chunk: &pdfrag.Chunk{
						Content:  "HTMX is a library that allows you to access modern browser features directly from HTML.",
						Metadata: pdfrag.ChunkMetadata{Page: 1},
					},
					Score: 0.95,
				},
			}, nil
		},
	}

	asker := gemini.NewAsker(client, search)

	answer, err := asker.Ask(ctx, "src-1", "What is HTMX?")

	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Contains(t, answer.Text, "HTMX")
	assert.Len(t, answer.Sources, 1)
}
