// Package ingest provides PDF ingestion orchestration. It coordinates
// parsing, per-page document storage, chunking, embedding, and indexing.
package ingest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mlipski/pdfrag"
)

// embedBatchSize is the number of chunks embedded per request batch.
const embedBatchSize = 64

// Ingestor orchestrates parsing a source PDF into indexed chunks.
type Ingestor struct {
	Parser       pdfrag.Parser
	Sources      pdfrag.SourceService
	Documents    pdfrag.DocumentService
	Chunks       pdfrag.ChunkService
	Embedder     pdfrag.Embedder
	TokenCounter pdfrag.TokenCounter
	ChunkSize    int
	ChunkOverlap int
	Concurrency  int
	RetryDelays  []time.Duration
}

// Result holds the outcome of an ingest operation.
type Result struct {
	Pages  int
	Saved  int
	Chunks int
	Failed int
	Bytes  int
	Tokens int
}

// ProgressEvent reports progress during an ingest operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Page      int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressEmbedding
	ProgressFinished
)

// ProgressFunc is a callback for reporting ingest progress.
type ProgressFunc func(event ProgressEvent)

// IngestSource parses the source's PDF and saves each page as a document
// with embedded chunks. The progress callback, if provided, receives
// events as ingestion proceeds.
func (g *Ingestor) IngestSource(ctx context.Context, source *pdfrag.Source, progress ProgressFunc) (*Result, error) {
	delays := g.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	pages, err := ParseWithRetryDelays(ctx, func(ctx context.Context) ([]*pdfrag.Page, error) {
		return g.Parser.Parse(ctx, source.Path, pdfrag.ParseOptions{
			Instruction: source.Instruction,
		})
	}, nil, delays)
	if err != nil {
		return nil, err
	}

	total := len(pages)
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	result := &Result{Pages: total}

	var chunks []*pdfrag.Chunk
	for i, page := range pages {
		doc := &pdfrag.Document{
			SourceID: source.ID,
			Path:     source.Path,
			Page:     page.Number,
			Method:   source.Method,
			Title:    pdfrag.DeriveTitle(page.Text),
			Content:  page.Text,
			Position: i,
		}

		if err := g.Documents.CreateDocument(ctx, doc); err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: i + 1,
					Total:     total,
					Page:      page.Number,
					Error:     err,
				})
			}
			continue
		}

		result.Saved++
		result.Bytes += len(page.Text)
		if g.TokenCounter != nil {
			if tokens, err := g.TokenCounter.CountTokens(ctx, page.Text); err == nil {
				result.Tokens += tokens
			}
		}

		for _, tc := range pdfrag.SplitMarkdown(page.Text, pdfrag.ChunkOptions{
			MaxChars: g.ChunkSize,
			Overlap:  g.ChunkOverlap,
		}) {
			chunks = append(chunks, &pdfrag.Chunk{
				DocumentID: doc.ID,
				SourceID:   source.ID,
				Content:    tc.Content,
				Metadata: pdfrag.ChunkMetadata{
					Headers:   tc.Headers,
					StartLine: tc.StartLine,
					EndLine:   tc.EndLine,
					Page:      page.Number,
				},
			})
		}

		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: i + 1,
				Total:     total,
				Page:      page.Number,
			})
		}
	}

	if len(chunks) > 0 {
		if g.Embedder != nil {
			if progress != nil {
				progress(ProgressEvent{
					Type:  ProgressEmbedding,
					Total: len(chunks),
				})
			}
			if err := g.embedChunks(ctx, chunks); err != nil {
				return nil, err
			}
		}

		if err := g.Chunks.CreateChunks(ctx, chunks); err != nil {
			return nil, err
		}
		result.Chunks = len(chunks)
	}

	pageCount := total
	if _, err := g.Sources.UpdateSource(ctx, source.ID, pdfrag.SourceUpdate{PageCount: &pageCount}); err != nil {
		return nil, err
	}
	source.PageCount = pageCount

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return result, nil
}

// embedChunks computes embeddings for all chunks in concurrent batches.
func (g *Ingestor) embedChunks(ctx context.Context, chunks []*pdfrag.Chunk) error {
	concurrency := g.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	gr, gctx := errgroup.WithContext(ctx)
	gr.SetLimit(concurrency)

	var mu sync.Mutex
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		gr.Go(func() error {
			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Content
			}

			embeddings, err := g.Embedder.EmbedDocuments(gctx, texts)
			if err != nil {
				return err
			}
			if len(embeddings) != len(batch) {
				return pdfrag.Errorf(pdfrag.EINTERNAL, "embedder returned %d embeddings for %d chunks", len(embeddings), len(batch))
			}

			mu.Lock()
			for i, chunk := range batch {
				chunk.Embedding = embeddings[i]
			}
			mu.Unlock()
			return nil
		})
	}

	return gr.Wait()
}
