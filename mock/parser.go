package mock

import (
	"context"

	"github.com/mlipski/pdfrag"
)

var _ pdfrag.Parser = (*Parser)(nil)

// Parser is a mock implementation of pdfrag.Parser.
type Parser struct {
	ParseFn func(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error)
}

func (p *Parser) Parse(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
	return p.ParseFn(ctx, path, opts)
}
