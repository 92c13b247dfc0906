package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/docdex/docdex"
	"github.com/docdex/docdex/clean"
	"github.com/docdex/docdex/detect"
	"github.com/docdex/docdex/github"
	"github.com/docdex/docdex/httpx"
	"github.com/docdex/docdex/indexer"
	"github.com/docdex/docdex/scrape"
	docslog "github.com/docdex/docdex/slog"
	"github.com/docdex/docdex/sqlite"
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

	// SQLite database used by the cache store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Store   docdex.CacheStore
	Indexer *indexer.Service
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docdex --help' to see available commands")
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

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCDEX_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.Store = sqlite.NewCacheStore(m.DB)

	client := httpx.NewClient()
	trees := github.NewClient(
		github.WithToken(os.Getenv("GITHUB_TOKEN")),
		github.WithLogger(logger),
	)
	detector := docslog.NewLoggingDetector(&detect.Detector{
		Fetcher: docslog.NewLoggingFetcher(client, logger),
		Logger:  logger,
	}, logger)

	m.Indexer = &indexer.Service{
		Store:    m.Store,
		Trees:    trees,
		Crawler:  &scrape.Crawler{Client: client, Logger: logger},
		Cleaner:  clean.NewCleaner(),
		Detector: detector,
		Logger:   logger,
	}

	deps.Store = m.Store
	deps.Indexer = m.Indexer
	deps.Detector = detector
	deps.Logger = logger

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("DOCDEX_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docdex.db"
	}
	dir := filepath.Join(home, ".docdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docdex.db")
}
