// Package gemini provides a Google Gemini implementation of pdfrag.Asker,
// available as an alternative to the default OpenAI provider.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mlipski/pdfrag"
)

// DefaultModel is the Gemini model used for question answering.
const DefaultModel = "gemini-2.5-flash"

// DefaultTopK is the number of retrieved chunks shown to the model.
const DefaultTopK = 5

// Ensure Asker implements pdfrag.Asker at compile time.
var _ pdfrag.Asker = (*Asker)(nil)

// Asker answers questions about indexed documents using Gemini over
// retrieved chunks.
type Asker struct {
	client *genai.Client
	search pdfrag.SearchService
	model  string
	topK   int
}

// Option configures an Asker.
type Option func(*Asker)

// WithModel overrides the Gemini model.
func WithModel(model string) Option {
	return func(a *Asker) {
		a.model = model
	}
}

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) Option {
	return func(a *Asker) {
		a.topK = k
	}
}

// NewAsker creates a new Asker.
func NewAsker(client *genai.Client, search pdfrag.SearchService, opts ...Option) *Asker {
	a := &Asker{
		client: client,
		search: search,
		model:  DefaultModel,
		topK:   DefaultTopK,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ask answers a natural language question about a source's documents.
func (a *Asker) Ask(ctx context.Context, sourceID, question string) (*pdfrag.Answer, error) {
	if sourceID == "" {
		return nil, pdfrag.Errorf(pdfrag.EINVALID, "source ID required")
	}
	if question == "" {
		return nil, pdfrag.Errorf(pdfrag.EINVALID, "question required")
	}

	results, err := a.search.Search(ctx, question, pdfrag.SearchOptions{
		SourceIDs: []string{sourceID},
		Limit:     a.topK,
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "no indexed content found for source %q", sourceID)
	}

	prompt := BuildUserPrompt(results, question)
	config := BuildConfig()

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, pdfrag.Errorf(pdfrag.EINTERNAL, "gemini returned nil result")
	}

	return &pdfrag.Answer{
		Text:    result.Text(),
		Sources: results,
	}, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful assistant answering questions about a parsed PDF document. Answer based only on the excerpts provided. If the answer is not in the excerpts, say so.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildUserPrompt builds the user prompt containing retrieved excerpts
// and the question.
func BuildUserPrompt(results []pdfrag.SearchResult, question string) string {
	var sb strings.Builder
	sb.WriteString("<documents>\n")
	for i, result := range results {
		sb.WriteString("<document>\n")
		fmt.Fprintf(&sb, "<index>%d</index>\n", i+1)
		if result.Chunk.Metadata.Page > 0 {
			fmt.Fprintf(&sb, "<page>%d</page>\n", result.Chunk.Metadata.Page)
		}
		fmt.Fprintf(&sb, "<content>%s</content>\n", result.Chunk.Content)
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}
