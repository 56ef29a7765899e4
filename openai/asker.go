package openai

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"

	"github.com/mlipski/pdfrag"
)

// DefaultChatModel is the model used for question answering.
const DefaultChatModel = "gpt-4o"

// DefaultTopK is the number of retrieved chunks shown to the model.
const DefaultTopK = 5

const systemPrompt = "You are a helpful assistant answering questions about a parsed PDF document. Answer based only on the excerpts provided. If the answer is not in the excerpts, say so."

// Ensure Asker implements pdfrag.Asker at compile time.
var _ pdfrag.Asker = (*Asker)(nil)

// Asker answers questions about indexed documents using OpenAI chat
// completions over retrieved chunks.
type Asker struct {
	client openaisdk.Client
	search pdfrag.SearchService
	model  string
	topK   int
}

// AskerOption configures an Asker.
type AskerOption func(*Asker)

// WithChatModel overrides the chat model.
func WithChatModel(model string) AskerOption {
	return func(a *Asker) {
		a.model = model
	}
}

// WithTopK sets how many chunks are retrieved per question.
func WithTopK(k int) AskerOption {
	return func(a *Asker) {
		a.topK = k
	}
}

// NewAsker creates a new Asker.
func NewAsker(client openaisdk.Client, search pdfrag.SearchService, opts ...AskerOption) *Asker {
	a := &Asker{
		client: client,
		search: search,
		model:  DefaultChatModel,
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

	resp, err := a.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(a.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(BuildUserPrompt(results, question)),
		},
		Temperature: openaisdk.Float(0.4),
	})
	if err != nil {
		return nil, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, pdfrag.Errorf(pdfrag.EINTERNAL, "OpenAI returned no choices")
	}

	return &pdfrag.Answer{
		Text:    resp.Choices[0].Message.Content,
		Sources: results,
	}, nil
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
		if heading := deepestHeader(result.Chunk.Metadata.Headers); heading != "" {
			fmt.Fprintf(&sb, "<section>%s</section>\n", heading)
		}
		fmt.Fprintf(&sb, "<content>%s</content>\n", result.Chunk.Content)
		sb.WriteString("</document>\n")
	}
	sb.WriteString("</documents>\n\n")
	fmt.Fprintf(&sb, "Question: %s", question)
	return sb.String()
}

// deepestHeader returns the most specific heading in the hierarchy,
// preferring h6 over h1.
func deepestHeader(headers map[string]string) string {
	for level := 6; level >= 1; level-- {
		if h, ok := headers[fmt.Sprintf("h%d", level)]; ok && h != "" {
			return h
		}
	}
	return ""
}
