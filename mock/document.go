package mock

import (
	"context"

	"github.com/mlipski/pdfrag"
)

var _ pdfrag.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of pdfrag.DocumentService.
type DocumentService struct {
	CreateDocumentFn          func(ctx context.Context, doc *pdfrag.Document) error
	FindDocumentByIDFn        func(ctx context.Context, id string) (*pdfrag.Document, error)
	FindDocumentsFn           func(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error)
	UpdateDocumentFn          func(ctx context.Context, id string, upd pdfrag.DocumentUpdate) (*pdfrag.Document, error)
	DeleteDocumentFn          func(ctx context.Context, id string) error
	DeleteDocumentsBySourceFn func(ctx context.Context, sourceID string) error
}

func (s *DocumentService) CreateDocument(ctx context.Context, doc *pdfrag.Document) error {
	return s.CreateDocumentFn(ctx, doc)
}

func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*pdfrag.Document, error) {
	return s.FindDocumentByIDFn(ctx, id)
}

func (s *DocumentService) FindDocuments(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error) {
	return s.FindDocumentsFn(ctx, filter)
}

func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd pdfrag.DocumentUpdate) (*pdfrag.Document, error) {
	return s.UpdateDocumentFn(ctx, id, upd)
}

func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	return s.DeleteDocumentFn(ctx, id)
}

func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	return s.DeleteDocumentsBySourceFn(ctx, sourceID)
}

var _ pdfrag.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of pdfrag.DocumentWriter.
type DocumentWriter struct {
	CreateDocumentFn func(ctx context.Context, doc *pdfrag.Document) error
}

func (w *DocumentWriter) CreateDocument(ctx context.Context, doc *pdfrag.Document) error {
	return w.CreateDocumentFn(ctx, doc)
}
