package mock

import (
	"context"

	"github.com/mlipski/pdfrag"
)

var _ pdfrag.Asker = (*Asker)(nil)

// Asker is a mock implementation of pdfrag.Asker.
type Asker struct {
	AskFn func(ctx context.Context, sourceID, question string) (*pdfrag.Answer, error)
}

func (a *Asker) Ask(ctx context.Context, sourceID, question string) (*pdfrag.Answer, error) {
	return a.AskFn(ctx, sourceID, question)
}
