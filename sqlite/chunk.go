package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mlipski/pdfrag"
)

// Compile-time interface verification.
var _ pdfrag.ChunkService = (*ChunkService)(nil)

// ChunkService implements pdfrag.ChunkService using SQLite.
// Embeddings are stored as little-endian float32 blobs; chunk metadata is
// stored as a JSON column.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// CreateChunk creates a new chunk.
func (s *ChunkService) CreateChunk(ctx context.Context, chunk *pdfrag.Chunk) error {
	return insertChunk(ctx, s.db, chunk)
}

// CreateChunks creates multiple chunks in a single transaction, so a
// mid-batch failure never leaves a partially indexed source.
func (s *ChunkService) CreateChunks(ctx context.Context, chunks []*pdfrag.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, chunk := range chunks {
		if err := insertChunk(ctx, tx, chunk); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// execer is satisfied by both *DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertChunk(ctx context.Context, db execer, chunk *pdfrag.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return err
	}

	chunk.ID = uuid.New().String()

	metadata, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk metadata: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO chunks (id, document_id, source_id, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.DocumentID, chunk.SourceID, chunk.Content,
		encodeEmbedding(chunk.Embedding), string(metadata))

	return err
}

// FindChunkByID retrieves a chunk by ID.
func (s *ChunkService) FindChunkByID(ctx context.Context, id string) (*pdfrag.Chunk, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, document_id, source_id, content, embedding, metadata
		FROM chunks
		WHERE id = ?
	`, id)

	chunk, err := scanChunk(row.Scan)
	if err == sql.ErrNoRows {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "chunk not found")
	}
	if err != nil {
		return nil, err
	}

	return chunk, nil
}

// FindChunks retrieves chunks matching the filter.
func (s *ChunkService) FindChunks(ctx context.Context, filter pdfrag.ChunkFilter) ([]*pdfrag.Chunk, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, document_id, source_id, content, embedding, metadata FROM chunks WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.DocumentID != nil {
		query.WriteString(" AND document_id = ?")
		args = append(args, *filter.DocumentID)
	}
	if filter.SourceID != nil {
		query.WriteString(" AND source_id = ?")
		args = append(args, *filter.SourceID)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*pdfrag.Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// DeleteChunk permanently removes a chunk.
func (s *ChunkService) DeleteChunk(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrag.Errorf(pdfrag.ENOTFOUND, "chunk not found")
	}

	return nil
}

// DeleteChunksByDocument removes all chunks for a document.
func (s *ChunkService) DeleteChunksByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID)
	return err
}

// DeleteChunksBySource removes all chunks for a source.
func (s *ChunkService) DeleteChunksBySource(ctx context.Context, sourceID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID)
	return err
}

// scanChunk scans a chunk row using the provided scan function.
func scanChunk(scan func(dest ...any) error) (*pdfrag.Chunk, error) {
	var chunk pdfrag.Chunk
	var embedding []byte
	var metadata string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.SourceID, &chunk.Content,
		&embedding, &metadata); err != nil {
		return nil, err
	}

	chunk.Embedding = decodeEmbedding(embedding)

	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &chunk.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse chunk metadata: %w", err)
		}
	}

	return &chunk, nil
}
