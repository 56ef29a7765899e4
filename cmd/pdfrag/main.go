package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"google.golang.org/genai"

	"github.com/mlipski/pdfrag"
	"github.com/mlipski/pdfrag/gemini"
	"github.com/mlipski/pdfrag/ingest"
	"github.com/mlipski/pdfrag/llamaparse"
	"github.com/mlipski/pdfrag/openai"
	"github.com/mlipski/pdfrag/pdftext"
	pdfragslog "github.com/mlipski/pdfrag/slog"
	"github.com/mlipski/pdfrag/sqlite"
	"github.com/mlipski/pdfrag/tiktoken"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	SourceService   pdfrag.SourceService
	DocumentService pdfrag.DocumentService
	ChunkService    pdfrag.ChunkService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Load .env if present so API keys can live next to the project.
	_ = godotenv.Load()

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pdfrag"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pdfrag --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Global flags may precede the command, so resolve the selected
	// command from the parse result rather than args[0].
	cmd := kongCtx.Selected().Name

	logger := newLogger(stderr, cli.Verbose)

	// The parse command is one-shot: it indexes into an in-memory
	// database and leaves the persistent one untouched.
	dbPath := m.DBPath
	if cmd == "parse" {
		dbPath = ":memory:"
	}

	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PDFRAG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.SourceService = sqlite.NewSourceService(m.DB)
	m.DocumentService = sqlite.NewDocumentService(m.DB)
	m.ChunkService = sqlite.NewChunkService(m.DB)
	deps.DB = m.DB
	deps.Sources = m.SourceService
	deps.Documents = m.DocumentService
	deps.Chunks = m.ChunkService

	// Wire command-specific dependencies based on command
	switch cmd {
	case "parse":
		if err := m.wireParse(ctx, cli, deps, logger, stderr); err != nil {
			return err
		}
	case "add":
		if err := m.wireAdd(cli, deps, logger, stderr); err != nil {
			return err
		}
	case "ask":
		if err := m.wireAsk(ctx, cli.Ask.Provider, cli.Ask.TopK, deps, logger, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireParse sets up parsers and, when --query is given, the retrieval
// pipeline for the one-shot parse command.
func (m *Main) wireParse(ctx context.Context, cli *CLI, deps *Dependencies, logger *slog.Logger, stderr io.Writer) error {
	method := cli.Parse.Method

	if method == pdfrag.MethodSimple || method == "compare" {
		deps.SimpleParser = pdfragslog.NewLoggingParser(pdftext.NewParser(pdftext.WithLogger(logger)), pdfrag.MethodSimple, logger)
	}

	if method == pdfrag.MethodLlamaParse || method == "compare" {
		parser, err := newLlamaParser(stderr)
		if err != nil {
			return err
		}
		deps.LlamaParser = pdfragslog.NewLoggingParser(parser, pdfrag.MethodLlamaParse, logger)
	}

	if cli.Parse.Query == "" {
		return nil
	}
	if method == "compare" {
		return pdfrag.Errorf(pdfrag.EINVALID, "--query cannot be combined with --method compare")
	}

	embedder, asker, tokens, err := m.wireProvider(ctx, cli.Parse.Provider, openai.DefaultTopK, deps, logger, stderr)
	if err != nil {
		return err
	}

	parser := deps.SimpleParser
	if method == pdfrag.MethodLlamaParse {
		parser = deps.LlamaParser
	}

	deps.Asker = asker
	deps.Ingestor = &ingest.Ingestor{
		Parser:       parser,
		Sources:      deps.Sources,
		Documents:    deps.Documents,
		Chunks:       deps.Chunks,
		Embedder:     embedder,
		TokenCounter: tokens,
	}

	return nil
}

// wireAdd sets up the persistent ingest pipeline.
func (m *Main) wireAdd(cli *CLI, deps *Dependencies, logger *slog.Logger, stderr io.Writer) error {
	var parser pdfrag.Parser
	switch cli.Add.Method {
	case pdfrag.MethodLlamaParse:
		p, err := newLlamaParser(stderr)
		if err != nil {
			return err
		}
		parser = p
	default:
		parser = pdftext.NewParser(pdftext.WithLogger(logger))
	}
	parser = pdfragslog.NewLoggingParser(parser, cli.Add.Method, logger)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return missingOpenAIKey(stderr)
	}
	client := openai.NewClient(apiKey)

	var embedder pdfrag.Embedder = openai.NewEmbedder(client)
	embedder = pdfragslog.NewLoggingEmbedder(embedder, logger)

	tokens, err := tiktoken.NewTokenCounter(openai.DefaultChatModel)
	if err != nil {
		return fmt.Errorf("failed to create token counter: %w", err)
	}

	deps.Ingestor = &ingest.Ingestor{
		Parser:       parser,
		Sources:      deps.Sources,
		Documents:    deps.Documents,
		Chunks:       deps.Chunks,
		Embedder:     embedder,
		TokenCounter: tokens,
		Concurrency:  cli.Add.Concurrency,
	}

	return nil
}

// wireAsk sets up retrieval and the answering provider.
func (m *Main) wireAsk(ctx context.Context, provider string, topK int, deps *Dependencies, logger *slog.Logger, stderr io.Writer) error {
	_, asker, _, err := m.wireProvider(ctx, provider, topK, deps, logger, stderr)
	if err != nil {
		return err
	}
	deps.Asker = asker
	return nil
}

// wireProvider builds the embedder, asker, and token counter for the
// chosen LLM provider. Embeddings always go through OpenAI; Gemini is
// an alternative for answering only.
func (m *Main) wireProvider(ctx context.Context, provider string, topK int, deps *Dependencies, logger *slog.Logger, stderr io.Writer) (pdfrag.Embedder, pdfrag.Asker, pdfrag.TokenCounter, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, nil, nil, missingOpenAIKey(stderr)
	}
	client := openai.NewClient(apiKey)

	var embedder pdfrag.Embedder = openai.NewEmbedder(client)
	embedder = pdfragslog.NewLoggingEmbedder(embedder, logger)
	deps.Search = sqlite.NewSearchService(deps.Chunks, embedder)

	switch provider {
	case "gemini":
		geminiKey := os.Getenv("GEMINI_API_KEY")
		if geminiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, nil, nil, pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "GEMINI_API_KEY not set")
		}

		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  geminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		tokens, err := gemini.NewTokenCounter(geminiTokenizerModel)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create token counter: %w", err)
		}

		return embedder, gemini.NewAsker(geminiClient, deps.Search, gemini.WithTopK(topK)), tokens, nil

	default:
		tokens, err := tiktoken.NewTokenCounter(openai.DefaultChatModel)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to create token counter: %w", err)
		}

		return embedder, openai.NewAsker(client, deps.Search, openai.WithTopK(topK)), tokens, nil
	}
}

// newLlamaParser builds the LlamaParse client, checking for the API key
// and printing setup instructions when it is missing.
func newLlamaParser(stderr io.Writer) (*llamaparse.Parser, error) {
	apiKey := os.Getenv("LLAMA_CLOUD_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(stderr, "LLAMA_CLOUD_API_KEY not set. To use LlamaParse:")
		fmt.Fprintln(stderr, "  1. Sign up at https://cloud.llamaindex.ai/")
		fmt.Fprintln(stderr, "  2. Get your API key")
		fmt.Fprintln(stderr, "  3. Set: export LLAMA_CLOUD_API_KEY=llx-your-key")
		return nil, pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "LLAMA_CLOUD_API_KEY not set")
	}
	return llamaparse.NewParser(apiKey), nil
}

func missingOpenAIKey(stderr io.Writer) error {
	fmt.Fprintln(stderr, "OPENAI_API_KEY not set. Set: export OPENAI_API_KEY=sk-your-key")
	return pdfrag.Errorf(pdfrag.EUNAUTHORIZED, "OPENAI_API_KEY not set")
}

// newLogger builds the CLI logger: info-level text on stderr when
// verbose, discarded otherwise.
func newLogger(stderr io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// geminiTokenizerModel is used for token counting with the Gemini
// provider. The tokenizer doesn't support every generation model.
const geminiTokenizerModel = "gemini-2.5-flash"

func defaultDBPath() string {
	if path := os.Getenv("PDFRAG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pdfrag.db"
	}
	dir := filepath.Join(home, ".pdfrag")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pdfrag.db")
}
