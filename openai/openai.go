// Package openai provides OpenAI-backed implementations of pdfrag.Asker
// and pdfrag.Embedder.
package openai

import (
	"errors"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mlipski/pdfrag"
)

// NewClient creates an OpenAI API client. Extra request options (base
// URL overrides, middleware) are passed through to the SDK.
func NewClient(apiKey string, opts ...option.RequestOption) openaisdk.Client {
	all := append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return openaisdk.NewClient(all...)
}

// mapError converts SDK errors to domain error codes so callers can
// distinguish bad credentials from transient service failures.
func mapError(err error) error {
	var apierr *openaisdk.Error
	if errors.As(err, &apierr) {
		switch {
		case apierr.StatusCode == 401 || apierr.StatusCode == 403:
			return pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "OpenAI rejected the API key (HTTP %d)", apierr.StatusCode)
		case apierr.StatusCode == 429 || apierr.StatusCode >= 500:
			return pdfrag.Errorf(pdfrag.EUNAVAILABLE, "OpenAI service error (HTTP %d)", apierr.StatusCode)
		}
	}
	return err
}
