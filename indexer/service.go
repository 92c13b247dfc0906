// Package indexer implements the top-level indexing orchestrator: it picks
// a source strategy, drives the tree fetcher or the crawler plus normalizer,
// builds the search index, and persists the result through the cache store.
package indexer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/urlutil"
)

// Strategy selects the acquisition method for one indexing run.
type Strategy string

// Strategies. Auto resolves to GitHub when the source parses as a repository
// reference or the detector finds one with sufficient confidence, and falls
// back to crawling otherwise.
const (
	StrategyAuto   Strategy = "auto"
	StrategyGitHub Strategy = "github"
	StrategyWeb    Strategy = "web"
)

// Outcome tags describing how the source was ultimately acquired.
const (
	TagDirectGitHub      = "direct_github_url"
	TagExplicitGitHub    = "explicit_github"
	TagExplicitCrawl     = "explicit_crawl"
	TagScrapingFallback  = "scraping_fallback"
	tagAutoGitHubPrefix  = "auto_github_"
	minNormalizedBodyLen = 100
)

// Request is one indexing request.
type Request struct {
	Source   string   // owner/repo, github.com URL, or docs-site URL
	Strategy Strategy // StrategyAuto if empty
	Force    bool     // bypass the cache check

	// GitHub path options.
	Branch     string
	Path       string
	Extensions []string
	MaxDepth   int

	// Crawl path options.
	Crawl docdex.CrawlOptions
}

// Result reports one completed indexing run.
type Result struct {
	Meta      *docdex.CacheEntryMeta `json:"meta"`
	Cached    bool                   `json:"cached"`
	Tag       string                 `json:"tag"`
	Truncated bool                   `json:"truncated,omitempty"`
	Failed    int                    `json:"failed,omitempty"`
	Skipped   int                    `json:"skipped,omitempty"`
}

// Service orchestrates indexing runs and read operations over the cache.
type Service struct {
	Store    docdex.CacheStore
	Trees    docdex.TreeFetcher
	Crawler  docdex.Crawler
	Cleaner  docdex.Cleaner
	Detector docdex.Detector
	Logger   *slog.Logger

	// Now is the clock, overridable in tests. time.Now if nil.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Index runs one indexing request through the state machine: cache check,
// strategy selection, fetch, index build, persist.
func (s *Service) Index(ctx context.Context, req Request) (*Result, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "source required; expected owner/repo or a URL")
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyAuto
	}

	switch strategy {
	case StrategyGitHub:
		ref, err := docdex.ParseGitHubURL(source)
		if err != nil {
			return nil, err
		}
		return s.runGitHub(ctx, ref, req, TagExplicitGitHub)

	case StrategyWeb:
		return s.runCrawl(ctx, source, req, TagExplicitCrawl)

	case StrategyAuto:
		return s.runAuto(ctx, source, req)

	default:
		return nil, docdex.Errorf(docdex.EINVALID, "unknown strategy %q; expected auto, github, or web", strategy)
	}
}

// runAuto resolves the acquisition method for an unqualified source. A
// GitHub attempt born from detection falls back to crawling the original
// URL on any failure instead of propagating the GitHub error.
func (s *Service) runAuto(ctx context.Context, source string, req Request) (*Result, error) {
	if ref, err := docdex.ParseGitHubURL(source); err == nil {
		return s.runGitHub(ctx, ref, req, TagDirectGitHub)
	}

	// Return a fresh cached entry for the URL before spending any network
	// activity on detection.
	if !req.Force {
		if id := urlutil.ScrapedID(source); id != "" {
			if res, ok := s.cached(ctx, docdex.SourceScraped, id); ok {
				return res, nil
			}
		}
	}

	if s.Detector != nil {
		det, err := s.Detector.Detect(ctx, source)
		if err == nil && det.Found && det.Confidence != docdex.ConfidenceLow {
			if ref, perr := docdex.ParseGitHubURL(det.Repo); perr == nil {
				if det.DocsPath != "" && req.Path == "" {
					req.Path = det.DocsPath
				}
				res, gerr := s.runGitHub(ctx, ref, req, tagAutoGitHubPrefix+det.Method)
				if gerr == nil {
					return res, nil
				}
				s.logger().Warn("github path failed, falling back to crawl",
					"source", source,
					"repo", det.Repo,
					"err", gerr.Error())
			}
		}
	}

	return s.runCrawl(ctx, source, req, TagScrapingFallback)
}

// cached returns a Result for an existing unexpired entry.
func (s *Service) cached(ctx context.Context, kind docdex.SourceKind, id string) (*Result, bool) {
	meta, err := s.Store.ReadMeta(ctx, kind, id)
	if err != nil || meta.Expired(s.now()) {
		return nil, false
	}
	return &Result{Meta: meta, Cached: true}, true
}

// persist stamps timestamps and writes the entry as one logical unit.
func (s *Service) persist(ctx context.Context, entry *docdex.CacheEntry) error {
	now := s.now().UTC()
	entry.Meta.IndexedAt = now
	entry.Meta.ExpiresAt = now.Add(docdex.TTLFor(entry.Meta.SourceKind))
	return s.Store.WriteEntry(ctx, entry)
}

// headingsText flattens a heading outline into one searchable string.
func headingsText(headings []docdex.Heading) string {
	parts := make([]string, 0, len(headings))
	for _, h := range headings {
		parts = append(parts, h.Text)
	}
	return strings.Join(parts, " ")
}
