package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/indexer"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Store    docdex.CacheStore
	Indexer  *indexer.Service
	Detector docdex.Detector
	Logger   *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Index  IndexCmd  `cmd:"" help:"Index a documentation source (repo or site URL)"`
	Tree   TreeCmd   `cmd:"" help:"Show the cached documentation tree for a source"`
	Get    GetCmd    `cmd:"" help:"Print one cached document"`
	Search SearchCmd `cmd:"" help:"Search a cached documentation set"`
	Detect DetectCmd `cmd:"" help:"Detect the GitHub repository behind a docs site"`
	List   ListCmd   `cmd:"" help:"List cached documentation sets"`
	Clear  ClearCmd  `cmd:"" help:"Remove cached documentation"`
	Export ExportCmd `cmd:"" help:"Export a cached set to a directory of markdown files"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Source   string   `arg:"" help:"owner/repo, github.com URL, or docs-site URL"`
	Strategy string   `short:"s" default:"auto" enum:"auto,github,web" help:"Acquisition strategy"`
	Force    bool     `short:"f" help:"Re-index even when a fresh cache entry exists"`
	Branch   string   `help:"Branch to index (GitHub sources)"`
	Path     string   `help:"Restrict to a repository subpath"`
	Ext      []string `name:"ext" help:"File extensions to include (default .md,.mdx,.markdown)"`
	Depth    int      `short:"d" help:"Crawl depth limit (web sources)"`
	Pages    int      `short:"p" help:"Crawl page limit (web sources)"`
	NoRobots bool     `help:"Ignore robots.txt (web sources)"`
}

// TreeCmd is the "tree" subcommand.
type TreeCmd struct {
	Source   string `arg:"" help:"owner/repo or docs-site URL"`
	MaxDepth int    `short:"d" help:"Clip the tree below this depth"`
	JSON     bool   `help:"Emit JSON instead of a rendered tree"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	Source string `arg:"" help:"owner/repo or docs-site URL"`
	Path   string `arg:"" help:"Document path within the set"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Source string `arg:"" help:"owner/repo or docs-site URL"`
	Query  string `arg:"" help:"Search query"`
	Limit  int    `short:"n" default:"10" help:"Maximum number of results"`
}

// DetectCmd is the "detect" subcommand.
type DetectCmd struct {
	URL string `arg:"" help:"Documentation site URL"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Source string `arg:"" optional:"" help:"Source to remove; omit with --all to remove everything"`
	All    bool   `help:"Remove every cached set"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Source string `arg:"" help:"owner/repo or docs-site URL"`
	Dir    string `short:"o" default:"." help:"Parent directory for the exported tree"`
	Name   string `help:"Output directory name (default: the cache entry id)"`
}
