package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/mock"
	pdfragslog "github.com/mlipski/pdfrag/slog"
)

func TestLoggingParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("logs parse with pages and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
				return []*pdfrag.Page{{Number: 1, Text: "content"}}, nil
			},
		}

		parser := pdfragslog.NewLoggingParser(inner, pdfrag.MethodSimple, logger)
		pages, err := parser.Parse(context.Background(), "/tmp/report.pdf", pdfrag.ParseOptions{})

		require.NoError(t, err)
		assert.Len(t, pages, 1)
		output := buf.String()
		assert.Contains(t, output, "parse")
		assert.Contains(t, output, "method=simple")
		assert.Contains(t, output, "path=/tmp/report.pdf")
		assert.Contains(t, output, "pages=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Parser{
			ParseFn: func(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
				return nil, errors.New("corrupt file")
			},
		}

		parser := pdfragslog.NewLoggingParser(inner, pdfrag.MethodLlamaParse, logger)
		_, err := parser.Parse(context.Background(), "/tmp/report.pdf", pdfrag.ParseOptions{})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "err=\"corrupt file\"")
	})
}

func TestLoggingEmbedder(t *testing.T) {
	t.Parallel()

	t.Run("logs document batch size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedDocumentsFn: func(ctx context.Context, texts []string) ([][]float32, error) {
				return [][]float32{{1}, {2}}, nil
			},
		}

		embedder := pdfragslog.NewLoggingEmbedder(inner, logger)
		embeddings, err := embedder.EmbedDocuments(context.Background(), []string{"a", "b"})

		require.NoError(t, err)
		assert.Len(t, embeddings, 2)
		output := buf.String()
		assert.Contains(t, output, "embed documents")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs query embedding", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Embedder{
			EmbedQueryFn: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{1}, nil
			},
		}

		embedder := pdfragslog.NewLoggingEmbedder(inner, logger)
		_, err := embedder.EmbedQuery(context.Background(), "question")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "embed query")
		assert.Contains(t, output, "duration=")
	})
}
