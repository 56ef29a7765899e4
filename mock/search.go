package mock

import (
	"context"

	"github.com/mlipski/pdfrag"
)

var _ pdfrag.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of pdfrag.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, opts pdfrag.SearchOptions) ([]pdfrag.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
