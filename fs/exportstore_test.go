package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag/fs"
)

// Story: Atomic Export
// The store uses a temp directory so a failed export never clobbers a
// previous one.

func TestExportStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewExportStore(base, "output")

	// When I save a document
	err := store.Save(context.Background(), testDocument())

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the temp directory (not final)
	tempPath := filepath.Join(base, "output.tmp", "page-003.md")
	_, err = os.Stat(tempPath)
	require.NoError(t, err, "file should exist in temp directory")

	// And final directory does not exist yet
	finalPath := filepath.Join(base, "output", "page-003.md")
	_, err = os.Stat(finalPath)
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestExportStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	// Given a store with saved documents
	base := t.TempDir()
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.Save(context.Background(), testDocument()))

	// When I commit
	err := store.Commit()

	// Then no error occurs
	require.NoError(t, err)

	// And the file exists in the final directory
	finalPath := filepath.Join(base, "output", "page-003.md")
	_, err = os.Stat(finalPath)
	require.NoError(t, err)

	// And the temp directory is gone
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportStore_CommitReplacesExistingExport(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	// Given a previous export containing a stale page
	stale := filepath.Join(base, "output")
	require.NoError(t, os.MkdirAll(stale, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "page-099.md"), []byte("stale"), 0644))

	// When I commit a new export
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.Save(context.Background(), testDocument()))
	require.NoError(t, store.Commit())

	// Then the stale page is gone and the new one exists
	_, err := os.Stat(filepath.Join(base, "output", "page-099.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "output", "page-003.md"))
	require.NoError(t, err)
}

func TestExportStore_AbortDiscardsTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewExportStore(base, "output")
	require.NoError(t, store.Save(context.Background(), testDocument()))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
}
