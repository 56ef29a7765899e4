package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mlipski/pdfrag"
)

// ExportStore writes documents with atomic update semantics. Documents
// are saved to a temporary directory, then moved atomically on Commit,
// so a partially written export never replaces a previous one.
type ExportStore struct {
	baseDir string
	name    string
}

// NewExportStore creates a new ExportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewExportStore(baseDir, name string) *ExportStore {
	return &ExportStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ExportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ExportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes a document to the temporary directory.
func (s *ExportStore) Save(ctx context.Context, doc *pdfrag.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), PageToPath(doc.Page))

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	content := FormatDocument(doc)
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit atomically replaces the final directory with the temporary one.
func (s *ExportStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

// Abort discards the temporary directory.
func (s *ExportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
