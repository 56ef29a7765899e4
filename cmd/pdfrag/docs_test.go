package main_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	main "github.com/mlipski/pdfrag/cmd/pdfrag"
	"github.com/mlipski/pdfrag/mock"
)

func singleSourceService() *mock.SourceService {
	return &mock.SourceService{
		FindSourcesFn: func(ctx context.Context, filter pdfrag.SourceFilter) ([]*pdfrag.Source, error) {
			return []*pdfrag.Source{{ID: "src-1", Name: "report", Path: "/tmp/report.pdf"}}, nil
		},
	}
}

func TestCmdDocs(t *testing.T) {
	t.Parallel()

	t.Run("lists pages", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Sources = singleSourceService()
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error) {
				require.NotNil(t, filter.SourceID)
				assert.Equal(t, "src-1", *filter.SourceID)
				assert.Equal(t, pdfrag.SortByPosition, filter.SortBy)
				return []*pdfrag.Document{
					{ID: "d1", Page: 1, Title: "Introduction", Content: "intro text"},
					{ID: "d2", Page: 2, Title: "", Content: "body text"},
				}, nil
			},
		}

		cmd := &main.DocsCmd{Name: "report"}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "Pages for report (2 total):")
		assert.Contains(t, out, "1. Introduction (page 1")
		assert.Contains(t, out, "2. Page 2 (page 2")
	})

	t.Run("full prints formatted content", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newTestDeps()
		deps.Sources = singleSourceService()
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error) {
				return []*pdfrag.Document{
					{ID: "d1", Page: 1, Title: "Introduction", Content: "Full intro text."},
				}, nil
			},
		}

		cmd := &main.DocsCmd{Name: "report", Full: true}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Full intro text.")
	})

	t.Run("missing source", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Sources = &mock.SourceService{
			FindSourcesFn: func(ctx context.Context, filter pdfrag.SourceFilter) ([]*pdfrag.Source, error) {
				return nil, nil
			},
		}

		cmd := &main.DocsCmd{Name: "nothere"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, pdfrag.ENOTFOUND, pdfrag.ErrorCode(err))
		assert.Contains(t, stderr.String(), `source "nothere" not found`)
	})

	t.Run("source with no pages", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newTestDeps()
		deps.Sources = singleSourceService()
		deps.Documents = &mock.DocumentService{
			FindDocumentsFn: func(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error) {
				return nil, nil
			},
		}

		cmd := &main.DocsCmd{Name: "report"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, pdfrag.ENOTFOUND, pdfrag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "has no pages")
	})
}
