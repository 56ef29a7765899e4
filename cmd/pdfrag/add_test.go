package main_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	main "github.com/mlipski/pdfrag/cmd/pdfrag"
	"github.com/mlipski/pdfrag/ingest"
	"github.com/mlipski/pdfrag/mock"
)

// addDeps wires a working add pipeline over mocks.
func addDeps(sources *mock.SourceService) *main.Dependencies {
	docCount := 0
	documents := &mock.DocumentService{
		CreateDocumentFn: func(ctx context.Context, doc *pdfrag.Document) error {
			docCount++
			doc.ID = fmt.Sprintf("doc-%d", docCount)
			return nil
		},
	}
	chunks := &mock.ChunkService{
		CreateChunksFn: func(ctx context.Context, c []*pdfrag.Chunk) error {
			return nil
		},
	}

	deps := &main.Dependencies{
		Ctx:       context.Background(),
		Sources:   sources,
		Documents: documents,
		Chunks:    chunks,
		Ingestor: &ingest.Ingestor{
			Parser: &mock.Parser{
				ParseFn: func(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
					return []*pdfrag.Page{
						{Number: 1, Text: "# Intro\n\nfirst page"},
						{Number: 2, Text: "# Body\n\nsecond page"},
					}, nil
				},
			},
			Sources:   sources,
			Documents: documents,
			Chunks:    chunks,
			Embedder: &mock.Embedder{
				EmbedDocumentsFn: func(ctx context.Context, texts []string) ([][]float32, error) {
					out := make([][]float32, len(texts))
					for i := range texts {
						out[i] = []float32{1}
					}
					return out, nil
				},
			},
		},
	}
	return deps
}

func TestCmdAdd(t *testing.T) {
	t.Parallel()

	t.Run("creates and ingests source", func(t *testing.T) {
		t.Parallel()

		var created *pdfrag.Source
		sources := &mock.SourceService{
			CreateSourceFn: func(ctx context.Context, source *pdfrag.Source) error {
				source.ID = "src-1"
				created = source
				return nil
			},
			UpdateSourceFn: func(ctx context.Context, id string, upd pdfrag.SourceUpdate) (*pdfrag.Source, error) {
				return &pdfrag.Source{ID: id, PageCount: *upd.PageCount}, nil
			},
		}

		deps := addDeps(sources)
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps.Stdout = stdout
		deps.Stderr = stderr

		cmd := &main.AddCmd{Name: "report", PDFPath: "/tmp/report.pdf", Method: "simple"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, created)
		assert.Equal(t, "report", created.Name)
		assert.Equal(t, "/tmp/report.pdf", created.Path)
		assert.Equal(t, pdfrag.MethodSimple, created.Method)

		out := stdout.String()
		assert.Contains(t, out, `Added source "report" (src-1)`)
		assert.Contains(t, out, "Parsed 2 page(s)")
		assert.Contains(t, out, "Saved 2 page(s), 2 chunk(s)")
	})

	t.Run("force deletes existing source", func(t *testing.T) {
		t.Parallel()

		deleted := ""
		sources := &mock.SourceService{
			FindSourcesFn: func(ctx context.Context, filter pdfrag.SourceFilter) ([]*pdfrag.Source, error) {
				return []*pdfrag.Source{{ID: "old-id", Name: "report"}}, nil
			},
			DeleteSourceFn: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
			CreateSourceFn: func(ctx context.Context, source *pdfrag.Source) error {
				source.ID = "src-2"
				return nil
			},
			UpdateSourceFn: func(ctx context.Context, id string, upd pdfrag.SourceUpdate) (*pdfrag.Source, error) {
				return &pdfrag.Source{ID: id}, nil
			},
		}

		deps := addDeps(sources)
		deps.Stdout = &bytes.Buffer{}
		deps.Stderr = &bytes.Buffer{}

		cmd := &main.AddCmd{Name: "report", PDFPath: "/tmp/report.pdf", Method: "simple", Force: true}
		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "old-id", deleted)
	})

	t.Run("conflict without force", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			CreateSourceFn: func(ctx context.Context, source *pdfrag.Source) error {
				return pdfrag.Errorf(pdfrag.ECONFLICT, "source already exists")
			},
		}

		deps := addDeps(sources)
		stderr := &bytes.Buffer{}
		deps.Stdout = &bytes.Buffer{}
		deps.Stderr = stderr

		cmd := &main.AddCmd{Name: "report", PDFPath: "/tmp/report.pdf", Method: "simple"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, pdfrag.ECONFLICT, pdfrag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "already exists")
	})

	t.Run("reports page failures", func(t *testing.T) {
		t.Parallel()

		sources := &mock.SourceService{
			CreateSourceFn: func(ctx context.Context, source *pdfrag.Source) error {
				source.ID = "src-1"
				return nil
			},
			UpdateSourceFn: func(ctx context.Context, id string, upd pdfrag.SourceUpdate) (*pdfrag.Source, error) {
				return &pdfrag.Source{ID: id}, nil
			},
		}

		deps := addDeps(sources)
		calls := 0
		deps.Ingestor.Documents = &mock.DocumentService{
			CreateDocumentFn: func(ctx context.Context, doc *pdfrag.Document) error {
				calls++
				if calls == 1 {
					return pdfrag.Errorf(pdfrag.EINTERNAL, "disk full")
				}
				doc.ID = "doc-ok"
				return nil
			},
		}
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps.Stdout = stdout
		deps.Stderr = stderr

		cmd := &main.AddCmd{Name: "report", PDFPath: "/tmp/report.pdf", Method: "simple"}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stderr.String(), "skip page 1")
		assert.Contains(t, stdout.String(), "Saved 1 page(s)")
	})
}
