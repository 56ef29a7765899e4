package mock

import (
	"context"

	"github.com/mlipski/pdfrag"
)

var _ pdfrag.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of pdfrag.ChunkService.
type ChunkService struct {
	CreateChunkFn            func(ctx context.Context, chunk *pdfrag.Chunk) error
	CreateChunksFn           func(ctx context.Context, chunks []*pdfrag.Chunk) error
	FindChunkByIDFn          func(ctx context.Context, id string) (*pdfrag.Chunk, error)
	FindChunksFn             func(ctx context.Context, filter pdfrag.ChunkFilter) ([]*pdfrag.Chunk, error)
	DeleteChunkFn            func(ctx context.Context, id string) error
	DeleteChunksByDocumentFn func(ctx context.Context, documentID string) error
	DeleteChunksBySourceFn   func(ctx context.Context, sourceID string) error
}

func (s *ChunkService) CreateChunk(ctx context.Context, chunk *pdfrag.Chunk) error {
	return s.CreateChunkFn(ctx, chunk)
}

func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*pdfrag.Chunk) error {
	return s.CreateChunksFn(ctx, chunks)
}

func (s *ChunkService) FindChunkByID(ctx context.Context, id string) (*pdfrag.Chunk, error) {
	return s.FindChunkByIDFn(ctx, id)
}

func (s *ChunkService) FindChunks(ctx context.Context, filter pdfrag.ChunkFilter) ([]*pdfrag.Chunk, error) {
	return s.FindChunksFn(ctx, filter)
}

func (s *ChunkService) DeleteChunk(ctx context.Context, id string) error {
	return s.DeleteChunkFn(ctx, id)
}

func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	return s.DeleteChunksByDocumentFn(ctx, documentID)
}

func (s *ChunkService) DeleteChunksBySource(ctx context.Context, sourceID string) error {
	return s.DeleteChunksBySourceFn(ctx, sourceID)
}
