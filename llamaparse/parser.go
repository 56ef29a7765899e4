// Package llamaparse provides a LlamaParse cloud API implementation of
// pdfrag.Parser. Documents are uploaded to the parsing service, which
// converts them to markdown asynchronously; the client polls the job
// until it completes and fetches the markdown result.
package llamaparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mlipski/pdfrag"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the LlamaParse cloud API endpoint.
const DefaultBaseURL = "https://api.cloud.llamaindex.ai"

// DefaultPollInterval is how often the client checks job status.
const DefaultPollInterval = 2 * time.Second

// DefaultMaxPolls bounds how long the client waits for a job to finish.
// With the default interval this allows roughly five minutes per document.
const DefaultMaxPolls = 150

// pageSeparator is the marker LlamaParse emits between pages when
// splitting by page is enabled.
const pageSeparator = "\n---\n"

// Ensure Parser implements pdfrag.Parser at compile time.
var _ pdfrag.Parser = (*Parser)(nil)

// Parser parses PDFs via the LlamaParse cloud API.
type Parser struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
	maxPolls     int
	limiter      *rate.Limiter
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL overrides the API endpoint. Used in tests to point the
// client at a local server.
func WithBaseURL(url string) Option {
	return func(p *Parser) {
		p.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for all requests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Parser) {
		p.client = client
	}
}

// WithPollInterval sets how often job status is checked.
func WithPollInterval(d time.Duration) Option {
	return func(p *Parser) {
		p.pollInterval = d
		p.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithMaxPolls sets the maximum number of status checks per job.
func WithMaxPolls(n int) Option {
	return func(p *Parser) {
		p.maxPolls = n
	}
}

// NewParser creates a LlamaParse API client. The API key is required;
// obtain one at https://cloud.llamaindex.ai/.
func NewParser(apiKey string, opts ...Option) *Parser {
	p := &Parser{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		pollInterval: DefaultPollInterval,
		maxPolls:     DefaultMaxPolls,
		limiter:      rate.NewLimiter(rate.Every(DefaultPollInterval), 1),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = &http.Client{Timeout: 60 * time.Second}
	}

	return p
}

type uploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type jobResponse struct {
	Status string `json:"status"`
	Error  string `json:"error_message"`
}

type resultResponse struct {
	Markdown string `json:"markdown"`
}

// Parse uploads the PDF, waits for the parsing job to complete and
// returns the resulting markdown split into pages.
func (p *Parser) Parse(ctx context.Context, path string, opts pdfrag.ParseOptions) ([]*pdfrag.Page, error) {
	if p.apiKey == "" {
		return nil, pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "LlamaParse API key is required")
	}

	jobID, err := p.upload(ctx, path, opts.Instruction)
	if err != nil {
		return nil, err
	}

	if err := p.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	markdown, err := p.fetchMarkdown(ctx, jobID)
	if err != nil {
		return nil, err
	}

	pages := splitPages(markdown, jobID)
	if len(pages) == 0 {
		return nil, pdfrag.Errorf(pdfrag.ENOTFOUND, "no content extracted from %s", path)
	}
	if opts.MaxPages > 0 && len(pages) > opts.MaxPages {
		pages = pages[:opts.MaxPages]
	}

	return pages, nil
}

// upload sends the PDF as a multipart form and returns the job ID.
func (p *Parser) upload(ctx context.Context, path string, instruction string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", pdfrag.Errorf(pdfrag.EINVALID, "PDF not found: %s", path)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if instruction != "" {
		if err := w.WriteField("parsing_instruction", instruction); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/parsing/upload", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var upload uploadResponse
	if err := p.do(req, &upload); err != nil {
		return "", err
	}
	if upload.ID == "" {
		return "", pdfrag.Errorf(pdfrag.EINTERNAL, "upload response missing job id")
	}

	return upload.ID, nil
}

// waitForJob polls job status until it succeeds, fails or the poll
// budget is exhausted.
func (p *Parser) waitForJob(ctx context.Context, jobID string) error {
	lastStatus := "UNKNOWN"
	for i := 0; i < p.maxPolls; i++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/parsing/job/"+jobID, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+p.apiKey)

		var job jobResponse
		if err := p.do(req, &job); err != nil {
			return err
		}

		lastStatus = strings.ToUpper(job.Status)

		switch lastStatus {
		case "SUCCESS", "COMPLETED":
			return nil
		case "ERROR", "FAILED":
			msg := job.Error
			if msg == "" {
				msg = "parsing job failed"
			}
			return pdfrag.Errorf(pdfrag.EUNAVAILABLE, "LlamaParse job %s (status %s): %s", jobID, lastStatus, msg)
		}
	}

	return pdfrag.Errorf(pdfrag.EUNAVAILABLE, "LlamaParse job %s (status %s): did not complete in time", jobID, lastStatus)
}

// fetchMarkdown retrieves the markdown result of a completed job.
func (p *Parser) fetchMarkdown(ctx context.Context, jobID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/parsing/job/"+jobID+"/result/markdown", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	var result resultResponse
	if err := p.do(req, &result); err != nil {
		return "", err
	}

	return result.Markdown, nil
}

// do executes the request and decodes the JSON response into out,
// mapping HTTP error statuses to domain error codes.
func (p *Parser) do(req *http.Request, out any) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return pdfrag.Errorf(pdfrag.EUNAVAILABLE, "LlamaParse request failed: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "LlamaParse rejected the API key (HTTP %d)", resp.StatusCode)
	case resp.StatusCode >= 500:
		return pdfrag.Errorf(pdfrag.EUNAVAILABLE, "LlamaParse service error (HTTP %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return pdfrag.Errorf(pdfrag.EINTERNAL, "LlamaParse HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding LlamaParse response: %w", err)
	}

	return nil
}

// splitPages breaks the job markdown into per-page results. LlamaParse
// separates pages with a horizontal rule on its own line.
func splitPages(markdown string, jobID string) []*pdfrag.Page {
	parts := strings.Split(markdown, pageSeparator)
	pages := make([]*pdfrag.Page, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		pages = append(pages, &pdfrag.Page{
			Number: len(pages) + 1,
			Text:   text,
			Metadata: map[string]string{
				"parser": "llamaparse",
				"job_id": jobID,
			},
		})
	}
	return pages
}
