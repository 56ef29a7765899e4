package pdfrag

import (
	"context"
	"time"
)

// Parse method names. Method selects how a PDF is turned into text.
const (
	MethodSimple     = "simple"     // local text extraction, free and fast
	MethodLlamaParse = "llamaparse" // LlamaParse cloud API, LLM-powered
)

// Source represents a PDF file registered for parsing and indexing.
type Source struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	Method      string    `json:"method"`
	Instruction string    `json:"instruction,omitempty"`
	PageCount   int       `json:"pageCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.Path == "" {
		return Errorf(EINVALID, "source path required")
	}
	switch s.Method {
	case "", MethodSimple, MethodLlamaParse:
	default:
		return Errorf(EINVALID, "unknown parse method %q", s.Method)
	}
	return nil
}

// SourceService represents a service for managing sources.
type SourceService interface {
	// CreateSource creates a new source.
	CreateSource(ctx context.Context, source *Source) error

	// FindSourceByID retrieves a source by ID.
	// Returns ENOTFOUND if source does not exist.
	FindSourceByID(ctx context.Context, id string) (*Source, error)

	// FindSources retrieves sources matching the filter.
	FindSources(ctx context.Context, filter SourceFilter) ([]*Source, error)

	// UpdateSource updates an existing source.
	// Returns ENOTFOUND if source does not exist.
	UpdateSource(ctx context.Context, id string, upd SourceUpdate) (*Source, error)

	// DeleteSource permanently removes a source and all associated
	// documents and chunks.
	// Returns ENOTFOUND if source does not exist.
	DeleteSource(ctx context.Context, id string) error
}

// SourceFilter represents a filter for FindSources.
type SourceFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SourceUpdate represents fields that can be updated on a source.
type SourceUpdate struct {
	Name        *string `json:"name"`
	Path        *string `json:"path"`
	Method      *string `json:"method"`
	Instruction *string `json:"instruction"`
	PageCount   *int    `json:"pageCount"`
}
