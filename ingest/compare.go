package ingest

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mlipski/pdfrag"
)

// MethodResult holds one parser's outcome in a comparison run.
type MethodResult struct {
	Method   string
	Pages    []*pdfrag.Page
	Bytes    int
	Duration time.Duration
	Err      error
}

// Comparison holds the side-by-side outcome of running both parsers
// over the same PDF.
type Comparison struct {
	Simple     MethodResult
	LlamaParse MethodResult
}

// CompareParsers runs both parsers over the same PDF concurrently.
// Individual parser failures are recorded in the result rather than
// aborting the comparison, so one method failing still lets the other
// report its output.
func CompareParsers(ctx context.Context, path string, simple, llama pdfrag.Parser, opts pdfrag.ParseOptions) (*Comparison, error) {
	cmp := &Comparison{
		Simple:     MethodResult{Method: pdfrag.MethodSimple},
		LlamaParse: MethodResult{Method: pdfrag.MethodLlamaParse},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		runParser(gctx, path, simple, pdfrag.ParseOptions{MaxPages: opts.MaxPages}, &cmp.Simple)
		return nil
	})
	g.Go(func() error {
		runParser(gctx, path, llama, opts, &cmp.LlamaParse)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cmp.Simple.Err != nil && cmp.LlamaParse.Err != nil {
		return nil, pdfrag.Errorf(pdfrag.EINTERNAL, "both parsers failed: simple: %v; llamaparse: %v", cmp.Simple.Err, cmp.LlamaParse.Err)
	}

	return cmp, nil
}

func runParser(ctx context.Context, path string, parser pdfrag.Parser, opts pdfrag.ParseOptions, out *MethodResult) {
	start := time.Now()
	pages, err := parser.Parse(ctx, path, opts)
	out.Duration = time.Since(start)
	if err != nil {
		out.Err = err
		return
	}

	out.Pages = pages
	for _, page := range pages {
		out.Bytes += len(page.Text)
	}
}

// ContentDiffers reports whether the LlamaParse output is meaningfully
// richer than the simple extraction: significantly longer output (>50%)
// or table markup the simple extractor cannot produce.
func ContentDiffers(cmp *Comparison) bool {
	if cmp.Simple.Err != nil || cmp.LlamaParse.Err != nil {
		return true
	}

	simpleLen := cmp.Simple.Bytes
	llamaLen := cmp.LlamaParse.Bytes

	if simpleLen == 0 && llamaLen > 0 {
		return true
	}

	for _, page := range cmp.LlamaParse.Pages {
		if strings.Contains(page.Text, "|") && !pagesContainPipe(cmp.Simple.Pages) {
			return true
		}
	}

	threshold := float64(simpleLen) * 1.5
	return float64(llamaLen) > threshold
}

func pagesContainPipe(pages []*pdfrag.Page) bool {
	for _, page := range pages {
		if strings.Contains(page.Text, "|") {
			return true
		}
	}
	return false
}
