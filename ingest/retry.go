package ingest

import (
	"context"
	"time"

	"github.com/mlipski/pdfrag"
)

// ParseFunc is the signature for a parse attempt.
type ParseFunc func(ctx context.Context) ([]*pdfrag.Page, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for parse retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// ParseWithRetry attempts a parse with exponential backoff retry logic.
// It retries up to 3 times (4 total attempts) with delays of 1s, 2s, 4s.
// The logger function, if provided, is called for each retry attempt.
func ParseWithRetry(ctx context.Context, parse ParseFunc, logger LogFunc) ([]*pdfrag.Page, error) {
	return ParseWithRetryDelays(ctx, parse, logger, DefaultRetryDelays())
}

// ParseWithRetryDelays is like ParseWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func ParseWithRetryDelays(ctx context.Context, parse ParseFunc, logger LogFunc, delays []time.Duration) ([]*pdfrag.Page, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		pages, err := parse(ctx)
		if err == nil {
			return pages, nil
		}
		lastErr = err

		// Invalid input and bad credentials won't improve on retry.
		switch pdfrag.ErrorCode(err) {
		case pdfrag.EINVALID, pdfrag.EUNAUTHORIZED, pdfrag.ENOTFOUND:
			return nil, err
		}

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// Log retry
		if logger != nil {
			logger("  retry (attempt %d): %v", attempt+2, err)
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
