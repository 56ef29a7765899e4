package ingest_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/ingest"
)

// fastDelays keeps retry tests quick.
func fastDelays() []time.Duration {
	return []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
}

func TestParseWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("succeeds first attempt", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		pages, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			return []*pdfrag.Page{{Number: 1, Text: "ok"}}, nil
		}, nil, fastDelays())

		require.NoError(t, err)
		assert.Len(t, pages, 1)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries transient failure", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		pages, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			if attempts < 3 {
				return nil, pdfrag.Errorf(pdfrag.EUNAVAILABLE, "service busy")
			}
			return []*pdfrag.Page{{Number: 1, Text: "ok"}}, nil
		}, nil, fastDelays())

		require.NoError(t, err)
		assert.Len(t, pages, 1)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after all attempts", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			return nil, pdfrag.Errorf(pdfrag.EUNAVAILABLE, "service busy")
		}, nil, fastDelays())

		require.Error(t, err)
		assert.Equal(t, 4, attempts) // 1 initial + 3 retries
	})

	t.Run("does not retry invalid input", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			return nil, pdfrag.Errorf(pdfrag.EINVALID, "PDF not found")
		}, nil, fastDelays())

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("does not retry bad credentials", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		_, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			return nil, pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "bad key")
		}, nil, fastDelays())

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		attempts := 0
		_, err := ingest.ParseWithRetryDelays(ctx, func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			cancel()
			return nil, pdfrag.Errorf(pdfrag.EUNAVAILABLE, "service busy")
		}, nil, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	})

	t.Run("logs retries", func(t *testing.T) {
		t.Parallel()

		var logs []string
		attempts := 0
		_, err := ingest.ParseWithRetryDelays(context.Background(), func(ctx context.Context) ([]*pdfrag.Page, error) {
			attempts++
			if attempts < 2 {
				return nil, pdfrag.Errorf(pdfrag.EUNAVAILABLE, "service busy")
			}
			return []*pdfrag.Page{{Number: 1}}, nil
		}, func(format string, args ...any) {
			logs = append(logs, format)
		}, fastDelays())

		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})
}
