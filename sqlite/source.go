package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlipski/pdfrag"
)

// Compile-time interface verification.
var _ pdfrag.SourceService = (*SourceService)(nil)

// SourceService implements pdfrag.SourceService using SQLite.
type SourceService struct {
	db *DB
}

// NewSourceService creates a new SourceService.
func NewSourceService(db *DB) *SourceService {
	return &SourceService{db: db}
}

// CreateSource creates a new source.
func (s *SourceService) CreateSource(ctx context.Context, source *pdfrag.Source) error {
	if err := source.Validate(); err != nil {
		return err
	}
	if source.Method == "" {
		source.Method = pdfrag.MethodSimple
	}

	source.ID = uuid.New().String()
	now := time.Now().UTC()
	source.CreatedAt = now
	source.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sources (id, name, path, method, instruction, page_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, source.ID, source.Name, source.Path, source.Method, source.Instruction, source.PageCount,
		source.CreatedAt.Format(time.RFC3339), source.UpdatedAt.Format(time.RFC3339))

	return err
}

// FindSourceByID retrieves a source by ID.
func (s *SourceService) FindSourceByID(ctx context.Context, id string) (*pdfrag.Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, path, method, instruction, page_count, created_at, updated_at
		FROM sources
		WHERE id = ?
	`, id)

	source, err := scanSource(row.Scan)
	if err == sql.ErrNoRows {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "source not found")
	}
	if err != nil {
		return nil, err
	}

	return source, nil
}

// FindSources retrieves sources matching the filter.
func (s *SourceService) FindSources(ctx context.Context, filter pdfrag.SourceFilter) ([]*pdfrag.Source, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, path, method, instruction, page_count, created_at, updated_at FROM sources WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*pdfrag.Source
	for rows.Next() {
		source, err := scanSource(rows.Scan)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// UpdateSource updates an existing source.
func (s *SourceService) UpdateSource(ctx context.Context, id string, upd pdfrag.SourceUpdate) (*pdfrag.Source, error) {
	source, err := s.FindSourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		source.Name = *upd.Name
	}
	if upd.Path != nil {
		source.Path = *upd.Path
	}
	if upd.Method != nil {
		source.Method = *upd.Method
	}
	if upd.Instruction != nil {
		source.Instruction = *upd.Instruction
	}
	if upd.PageCount != nil {
		source.PageCount = *upd.PageCount
	}
	source.UpdatedAt = time.Now().UTC()

	if err := source.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE sources
		SET name = ?, path = ?, method = ?, instruction = ?, page_count = ?, updated_at = ?
		WHERE id = ?
	`, source.Name, source.Path, source.Method, source.Instruction, source.PageCount,
		source.UpdatedAt.Format(time.RFC3339), id)

	if err != nil {
		return nil, err
	}

	return source, nil
}

// DeleteSource permanently removes a source and all associated documents and chunks.
func (s *SourceService) DeleteSource(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return pdfrag.Errorf(pdfrag.ENOTFOUND, "source not found")
	}

	return nil
}

// scanSource scans a source row using the provided scan function.
func scanSource(scan func(dest ...any) error) (*pdfrag.Source, error) {
	var source pdfrag.Source
	var createdAt, updatedAt string

	if err := scan(&source.ID, &source.Name, &source.Path, &source.Method, &source.Instruction,
		&source.PageCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if source.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if source.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &source, nil
}
