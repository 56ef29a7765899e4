package pdfrag_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mlipski/pdfrag"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("returns code for application error", func(t *testing.T) {
		t.Parallel()

		err := pdfrag.Errorf(pdfrag.ENOTFOUND, "source not found")
		assert.Equal(t, pdfrag.ENOTFOUND, pdfrag.ErrorCode(err))
	})

	t.Run("unwraps wrapped application errors", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("loading source: %w", pdfrag.Errorf(pdfrag.EINVALID, "bad path"))
		assert.Equal(t, pdfrag.EINVALID, pdfrag.ErrorCode(err))
	})

	t.Run("returns EINTERNAL for non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, pdfrag.EINTERNAL, pdfrag.ErrorCode(errors.New("boom")))
	})

	t.Run("returns empty string for nil", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, pdfrag.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("returns message for application error", func(t *testing.T) {
		t.Parallel()

		err := pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "LLAMA_CLOUD_API_KEY not set")
		assert.Equal(t, "LLAMA_CLOUD_API_KEY not set", pdfrag.ErrorMessage(err))
	})

	t.Run("masks non-application errors", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", pdfrag.ErrorMessage(errors.New("boom")))
	})
}
