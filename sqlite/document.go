package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/mlipski/pdfrag"
)

// Compile-time interface verification.
var _ pdfrag.DocumentService = (*DocumentService)(nil)

// DocumentService implements pdfrag.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *pdfrag.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.ParsedAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, source_id, path, page, method, title, content, content_hash, position, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.SourceID, doc.Path, doc.Page, doc.Method, doc.Title, doc.Content, doc.ContentHash,
		doc.Position, doc.ParsedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*pdfrag.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source_id, path, page, method, title, content, content_hash, position, parsed_at
		FROM documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// FindDocuments retrieves documents matching the filter.
func (s *DocumentService) FindDocuments(ctx context.Context, filter pdfrag.DocumentFilter) ([]*pdfrag.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source_id, path, page, method, title, content, content_hash, position, parsed_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}
	if filter.Page != nil {
		query.WriteString(" AND page = ?")
		args = append(args, *filter.Page)
	}

	switch filter.SortBy {
	case pdfrag.SortByPosition:
		query.WriteString(" ORDER BY position ASC")
	default:
		query.WriteString(" ORDER BY parsed_at DESC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*pdfrag.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// UpdateDocument updates an existing document.
func (s *DocumentService) UpdateDocument(ctx context.Context, id string, upd pdfrag.DocumentUpdate) (*pdfrag.Document, error) {
	// First check if document exists
	doc, err := s.FindDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Title != nil {
		doc.Title = *upd.Title
	}
	if upd.Content != nil {
		doc.Content = *upd.Content
		doc.ContentHash = hashContent(doc.Content)
	} else if upd.ContentHash != nil {
		// Only allow explicit hash override if content wasn't updated
		doc.ContentHash = *upd.ContentHash
	}
	if upd.Position != nil {
		doc.Position = *upd.Position
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE documents
		SET title = ?, content = ?, content_hash = ?, position = ?
		WHERE id = ?
	`, doc.Title, doc.Content, doc.ContentHash, doc.Position, id)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument permanently removes a document.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrag.Errorf(pdfrag.ENOTFOUND, "document not found")
	}

	return nil
}

// DeleteDocumentsBySource removes all documents for a source.
func (s *DocumentService) DeleteDocumentsBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source_id = ?", sourceID)
	return err
}

// scanDocument scans a document row using the provided scan function.
func scanDocument(scan func(dest ...any) error) (*pdfrag.Document, error) {
	var doc pdfrag.Document
	var parsedAt string

	if err := scan(&doc.ID, &doc.SourceID, &doc.Path, &doc.Page, &doc.Method, &doc.Title,
		&doc.Content, &doc.ContentHash, &doc.Position, &parsedAt); err != nil {
		return nil, err
	}

	var err error
	if doc.ParsedAt, err = parseRFC3339(parsedAt, "parsed_at"); err != nil {
		return nil, err
	}

	return &doc, nil
}
