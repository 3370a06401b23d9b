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
	"github.com/regsync/fedreg"
	"github.com/regsync/fedreg/chat"
	"github.com/regsync/fedreg/fs"
	fedhttp "github.com/regsync/fedreg/http"
	"github.com/regsync/fedreg/pipeline"
	fedslog "github.com/regsync/fedreg/slog"
	"github.com/regsync/fedreg/sqlite"
	"golang.org/x/time/rate"
)

// detailRatePerSecond throttles detail fetches across the worker pool.
const detailRatePerSecond = 4

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

	// BaseURL of the Federal Register API.
	BaseURL string

	// DataDir is the parent directory for raw payload archives.
	DataDir string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	DocumentService fedreg.DocumentService
	MetadataCache   *fedreg.MetadataCache
}

// NewMain returns a new instance of Main with defaults. A .env file in the
// working directory, if present, supplies environment variables.
func NewMain() *Main {
	_ = godotenv.Load()
	return &Main{
		DBPath:  defaultDBPath(),
		BaseURL: envOr("FEDREG_BASE_URL", fedhttp.DefaultBaseURL),
		DataDir: envOr("FEDREG_DATA_DIR", "data"),
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
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("fedreg"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'fedreg --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// A store that cannot be opened is fatal: nothing works without the
	// system of record.
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set FEDREG_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	documents := sqlite.NewDocumentService(m.DB)
	documents.Logger = logger
	m.DocumentService = fedslog.NewLoggingDocumentService(documents, logger)
	m.MetadataCache = fedreg.NewMetadataCache(sqlite.NewMetadataService(m.DB))

	deps.DB = m.DB
	deps.Documents = m.DocumentService
	deps.Metadata = m.MetadataCache
	deps.Router = &chat.Router{
		Documents: m.DocumentService,
		Metadata:  m.MetadataCache,
	}

	if cmd == "sync" {
		client := fedhttp.NewClient(fedhttp.WithBaseURL(m.BaseURL))
		deps.Pipeline = &pipeline.Pipeline{
			Lister:      fedslog.NewLoggingLister(client, logger),
			Details:     fedslog.NewLoggingDetailFetcher(client, logger),
			Documents:   m.DocumentService,
			Archive:     fs.NewArchive(filepath.Join(m.DataDir, "raw"), filepath.Join(m.DataDir, "processed")),
			Limiter:     rate.NewLimiter(rate.Limit(detailRatePerSecond), 1),
			Concurrency: cli.Sync.Concurrency,
			Logger:      logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("FEDREG_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "fedreg.db"
	}
	dir := filepath.Join(home, ".fedreg")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "fedreg.db")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logLevel() slog.Level {
	switch os.Getenv("FEDREG_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
