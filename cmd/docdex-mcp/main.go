// Command docdex-mcp exposes the documentation index over the Model Context
// Protocol on stdio.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docdex/docdex/clean"
	"github.com/docdex/docdex/detect"
	"github.com/docdex/docdex/github"
	"github.com/docdex/docdex/httpx"
	"github.com/docdex/docdex/indexer"
	"github.com/docdex/docdex/scrape"
	"github.com/docdex/docdex/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	version    = "1.0.0"
	serverName = "docdex-mcp"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("%s version %s\n", serverName, version)
		os.Exit(0)
	}

	// MCP uses stdout for protocol traffic; all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db := sqlite.NewDB(defaultDBPath())
	if err := db.Open(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	store := sqlite.NewCacheStore(db)
	client := httpx.NewClient()

	svc := &indexer.Service{
		Store: store,
		Trees: github.NewClient(
			github.WithToken(os.Getenv("GITHUB_TOKEN")),
			github.WithLogger(logger),
		),
		Crawler:  &scrape.Crawler{Client: client, Logger: logger},
		Cleaner:  clean.NewCleaner(),
		Detector: &detect.Detector{Fetcher: client, Logger: logger},
		Logger:   logger,
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil,
	)
	registerTools(server, svc, store)

	ctx := context.Background()
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
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
