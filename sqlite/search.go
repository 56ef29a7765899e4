package sqlite

import (
	"context"
	"sort"

	"github.com/mlipski/pdfrag"
)

// DefaultSearchLimit is the number of results returned when the caller
// doesn't specify a limit.
const DefaultSearchLimit = 5

// Compile-time interface verification.
var _ pdfrag.SearchService = (*SearchService)(nil)

// SearchService implements pdfrag.SearchService by ranking stored chunk
// embeddings against the embedded query with cosine similarity. Ranking is
// brute force in memory, which is fine at the scale of individual PDFs.
type SearchService struct {
	chunks   pdfrag.ChunkService
	embedder pdfrag.Embedder
}

// NewSearchService creates a new SearchService.
func NewSearchService(chunks pdfrag.ChunkService, embedder pdfrag.Embedder) *SearchService {
	return &SearchService{chunks: chunks, embedder: embedder}
}

// Search performs semantic search over chunks.
func (s *SearchService) Search(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
	if query == "" {
		return nil, pdfrag.Errorf(pdfrag.EINVALID, "search query required")
	}

	queryVec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	candidates, err := s.loadCandidates(ctx, opts)
	if err != nil {
		return nil, err
	}

	results := make([]pdfrag.SearchResult, 0, len(candidates))
	for _, chunk := range candidates {
		if len(chunk.Embedding) == 0 {
			continue
		}
		score := pdfrag.CosineSimilarity(queryVec, chunk.Embedding)
		if score < opts.MinScore {
			continue
		}
		results = append(results, pdfrag.SearchResult{Chunk: chunk, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// loadCandidates loads all chunks matching the source filter.
func (s *SearchService) loadCandidates(ctx context.Context, opts pdfrag.SearchOptions) ([]*pdfrag.Chunk, error) {
	if len(opts.SourceIDs) == 0 {
		return s.chunks.FindChunks(ctx, pdfrag.ChunkFilter{})
	}

	var candidates []*pdfrag.Chunk
	for _, sourceID := range opts.SourceIDs {
		sourceID := sourceID
		chunks, err := s.chunks.FindChunks(ctx, pdfrag.ChunkFilter{SourceID: &sourceID})
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, chunks...)
	}
	return candidates, nil
}
