package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/fs"
)

func testDocument() *pdfrag.Document {
	return &pdfrag.Document{
		SourceID: "src-1",
		Path:     "/tmp/report.pdf",
		Page:     3,
		Method:   pdfrag.MethodSimple,
		Title:    "Results",
		Content:  "# Results\n\nRevenue grew 12%.",
		ParsedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
}

func TestPageToPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "page-001.md", fs.PageToPath(1))
	assert.Equal(t, "page-042.md", fs.PageToPath(42))
	assert.Equal(t, "page-1234.md", fs.PageToPath(1234))
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	content := fs.FormatDocument(testDocument())

	assert.Contains(t, content, "---\n")
	assert.Contains(t, content, "source: /tmp/report.pdf")
	assert.Contains(t, content, "page: 3")
	assert.Contains(t, content, "method: simple")
	assert.Contains(t, content, "title: Results")
	assert.Contains(t, content, "parsed: 2026-08-20")
	assert.Contains(t, content, "# Results\n\nRevenue grew 12%.")
}

func TestFormatDocument_OmitsEmptyTitle(t *testing.T) {
	t.Parallel()

	doc := testDocument()
	doc.Title = ""

	content := fs.FormatDocument(doc)
	assert.NotContains(t, content, "title:")
}

func TestWriter_CreateDocument(t *testing.T) {
	t.Parallel()

	t.Run("writes page file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writer := fs.NewWriter(dir)

		err := writer.CreateDocument(context.Background(), testDocument())
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "page-003.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "Revenue grew 12%.")
	})

	t.Run("creates missing directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "out")
		writer := fs.NewWriter(dir)

		err := writer.CreateDocument(context.Background(), testDocument())
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(dir, "page-003.md"))
		require.NoError(t, err)
	})

	t.Run("rejects invalid document", func(t *testing.T) {
		t.Parallel()

		writer := fs.NewWriter(t.TempDir())

		err := writer.CreateDocument(context.Background(), &pdfrag.Document{})
		require.Error(t, err)
		assert.Equal(t, pdfrag.EINVALID, pdfrag.ErrorCode(err))
	})
}
