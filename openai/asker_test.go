package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/mock"
	"github.com/mlipski/pdfrag/openai"
)

func testResults() []pdfrag.SearchResult {
	return []pdfrag.SearchResult{
		{
			Chunk: &pdfrag.Chunk{
				ID:       "chunk-1",
				Content:  "Revenue grew 12% year over year.",
				Metadata: pdfrag.ChunkMetadata{Page: 3, Headers: map[string]string{"h1": "Financials", "h2": "Revenue"}},
			},
			Score: 0.91,
		},
		{
			Chunk: &pdfrag.Chunk{
				ID:      "chunk-2",
				Content: "Operating costs were flat.",
			},
			Score: 0.72,
		},
	}
}

func TestAsker_Ask(t *testing.T) {
	t.Parallel()

	t.Run("answers with sources", func(t *testing.T) {
		t.Parallel()

		var gotReq struct {
			Model    string  `json:"model"`
			Temp     float64 `json:"temperature"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/chat/completions", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"role": "assistant", "content": "Revenue grew 12%."}},
				},
			})
		}))
		t.Cleanup(srv.Close)

		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
				assert.Equal(t, "How did revenue change?", query)
				assert.Equal(t, []string{"src-1"}, opts.SourceIDs)
				assert.Equal(t, 5, opts.Limit)
				return testResults(), nil
			},
		}

		client := openai.NewClient("test-key", option.WithBaseURL(srv.URL))
		asker := openai.NewAsker(client, search)

		answer, err := asker.Ask(context.Background(), "src-1", "How did revenue change?")
		require.NoError(t, err)
		assert.Equal(t, "Revenue grew 12%.", answer.Text)
		assert.Len(t, answer.Sources, 2)

		require.Len(t, gotReq.Messages, 2)
		assert.Equal(t, "system", gotReq.Messages[0].Role)
		assert.Equal(t, "user", gotReq.Messages[1].Role)
		assert.Contains(t, gotReq.Messages[1].Content, "Revenue grew 12% year over year.")
		assert.Equal(t, "gpt-4o", gotReq.Model)
		assert.InDelta(t, 0.4, gotReq.Temp, 0.001)
	})

	t.Run("requires source ID", func(t *testing.T) {
		t.Parallel()

		asker := openai.NewAsker(openai.NewClient("test-key"), &mock.SearchService{})
		_, err := asker.Ask(context.Background(), "", "question")
		require.Error(t, err)
		assert.Equal(t, pdfrag.EINVALID, pdfrag.ErrorCode(err))
	})

	t.Run("requires question", func(t *testing.T) {
		t.Parallel()

		asker := openai.NewAsker(openai.NewClient("test-key"), &mock.SearchService{})
		_, err := asker.Ask(context.Background(), "src-1", "")
		require.Error(t, err)
		assert.Equal(t, pdfrag.EINVALID, pdfrag.ErrorCode(err))
	})

	t.Run("no chunks returns not found", func(t *testing.T) {
		t.Parallel()

		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
				return nil, nil
			},
		}

		asker := openai.NewAsker(openai.NewClient("test-key"), search)
		_, err := asker.Ask(context.Background(), "src-1", "question")
		require.Error(t, err)
		assert.Equal(t, pdfrag.ENOTFOUND, pdfrag.ErrorCode(err))
	})

	t.Run("custom model and top-k", func(t *testing.T) {
		t.Parallel()

		var gotModel string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Model string `json:"model"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotModel = req.Model
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"role": "assistant", "content": "ok"}},
				},
			})
		}))
		t.Cleanup(srv.Close)

		var gotLimit int
		search := &mock.SearchService{
			SearchFn: func(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
				gotLimit = opts.Limit
				return testResults(), nil
			},
		}

		client := openai.NewClient("test-key", option.WithBaseURL(srv.URL))
		asker := openai.NewAsker(client, search, openai.WithChatModel("gpt-4"), openai.WithTopK(3))

		_, err := asker.Ask(context.Background(), "src-1", "question")
		require.NoError(t, err)
		assert.Equal(t, "gpt-4", gotModel)
		assert.Equal(t, 3, gotLimit)
	})
}

func TestBuildUserPrompt(t *testing.T) {
	t.Parallel()

	prompt := openai.BuildUserPrompt(testResults(), "How did revenue change?")

	assert.Contains(t, prompt, "<documents>")
	assert.Contains(t, prompt, "<index>1</index>")
	assert.Contains(t, prompt, "<page>3</page>")
	assert.Contains(t, prompt, "<section>Revenue</section>")
	assert.Contains(t, prompt, "<content>Revenue grew 12% year over year.</content>")
	assert.Contains(t, prompt, "<index>2</index>")
	assert.Contains(t, prompt, "Question: How did revenue change?")

	// The second chunk has no page or headers.
	assert.Equal(t, 1, countOccurrences(prompt, "<page>"))
	assert.Equal(t, 1, countOccurrences(prompt, "<section>"))
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
		}
	}
	return count
}
