// Package tiktoken provides a pdfrag.TokenCounter backed by OpenAI's
// tiktoken BPE encodings.
package tiktoken

import (
	"context"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mlipski/pdfrag"
)

// fallbackEncoding is used for models the library doesn't know about.
const fallbackEncoding = "cl100k_base"

var _ pdfrag.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens using the encoding for an OpenAI model.
type TokenCounter struct {
	tkm *tiktoken.Tiktoken
}

// NewTokenCounter creates a TokenCounter for the given model, falling
// back to the cl100k_base encoding for unrecognized models.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tkm, err := tiktoken.EncodingForModel(model)
	if err != nil {
		tkm, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			return nil, err
		}
	}
	return &TokenCounter{tkm: tkm}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	return len(tc.tkm.Encode(text, nil, nil)), nil
}
