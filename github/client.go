// Package github resolves repository documentation trees through the GitHub
// REST API and downloads file content through the raw content channel.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/docdex/docdex"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Ensure Client implements docdex.TreeFetcher at compile time.
var _ docdex.TreeFetcher = (*Client)(nil)

const (
	defaultAPIBase = "https://api.github.com"
	defaultRawBase = "https://raw.githubusercontent.com"

	// rawRequestsPerSecond paces the unthrottled raw channel. It carries no
	// API quota but still deserves politeness on large batches.
	rawRequestsPerSecond = 20

	defaultConcurrency = 8

	requestTimeout = 10 * time.Second
)

// Client is a minimal wrapper around the two GitHub endpoints docdex needs:
// recursive tree listing and raw file content. A token is optional; without
// one the API quota is very small, which the tracker surfaces.
type Client struct {
	hc          *http.Client
	token       string
	apiBase     string
	rawBase     string
	rate        *RateTracker
	rawLimiter  *rate.Limiter
	logger      *slog.Logger
	concurrency int
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer credential used for API calls.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithBaseURLs overrides the API and raw-content endpoints (tests).
func WithBaseURLs(apiBase, rawBase string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(apiBase, "/")
		c.rawBase = strings.TrimRight(rawBase, "/")
	}
}

// WithRateTracker injects a shared quota tracker.
func WithRateTracker(t *RateTracker) Option {
	return func(c *Client) { c.rate = t }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithConcurrency bounds concurrent raw-content downloads in FetchManyFiles.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewClient creates a ready-to-use client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		hc:          &http.Client{Timeout: requestTimeout},
		apiBase:     defaultAPIBase,
		rawBase:     defaultRawBase,
		rate:        NewRateTracker(),
		rawLimiter:  rate.NewLimiter(rate.Limit(rawRequestsPerSecond), defaultConcurrency),
		logger:      slog.Default(),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate exposes the injected quota tracker.
func (c *Client) Rate() *RateTracker {
	return c.rate
}

// treeResponse mirrors the git/trees API payload.
type treeResponse struct {
	SHA       string      `json:"sha"`
	Truncated bool        `json:"truncated"`
	Tree      []treeEntry `json:"tree"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"` // "blob" or "tree"
	Size int64  `json:"size"`
}

// ResolveTree resolves the branch and retrieves the entire recursive tree in
// a single call, then filters by extension and depth and synthesizes the
// folder hierarchy. One bulk call instead of one call per directory is what
// keeps large repositories inside a small quota.
func (c *Client) ResolveTree(ctx context.Context, repoID string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
	ref, err := docdex.ParseGitHubURL(repoID)
	if err != nil {
		return nil, err
	}

	if c.rate.Exhausted() {
		snap := c.rate.Snapshot()
		return nil, docdex.Errorf(docdex.ERATELIMIT,
			"GitHub API rate limit exhausted; resets at %s. Wait for the reset, set GITHUB_TOKEN, or index with source=web.",
			snap.Reset.Format(time.RFC3339))
	}
	if c.rate.Low() {
		c.logger.Warn("github api quota low",
			slog.Int("remaining", c.rate.Snapshot().Remaining),
			slog.String("repo", ref.Repo()))
	}

	branches := []string{"main", "master"}
	if opts.Branch != "" {
		branches = []string{opts.Branch}
	} else if ref.Branch != "" {
		branches = []string{ref.Branch}
	}

	var resp *treeResponse
	var branch string
	for _, b := range branches {
		resp, err = c.fetchTree(ctx, ref, b)
		if err == nil {
			branch = b
			break
		}
		if docdex.ErrorCode(err) != docdex.ENOTFOUND {
			return nil, err
		}
	}
	if resp == nil {
		return nil, docdex.Errorf(docdex.ENOTFOUND,
			"repository %s not found on branch %s; check the repository name or pass an explicit branch",
			ref.Repo(), strings.Join(branches, " or "))
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = docdex.DefaultExtensions
	}

	prefix := strings.Trim(opts.Path, "/")
	if prefix == "" && ref.Path != "" {
		prefix = strings.Trim(ref.Path, "/")
	}

	var files []docdex.FlatFile
	var totalBytes int64
	for _, e := range resp.Tree {
		if e.Type != "blob" {
			continue
		}
		if !matchExtension(e.Path, extensions) {
			continue
		}
		rel, ok := relativeTo(e.Path, prefix)
		if !ok {
			continue
		}
		if opts.MaxDepth > 0 && strings.Count(rel, "/")+1 > opts.MaxDepth {
			continue
		}
		// Tree paths are relative to the prefix so callers can use them as
		// cache keys directly.
		files = append(files, docdex.FlatFile{Path: rel, Size: e.Size})
		totalBytes += e.Size
	}

	return &docdex.TreeResult{
		Repo:           ref.Repo(),
		Branch:         branch,
		Tree:           docdex.BuildTree(files),
		FileCount:      len(files),
		TotalSizeBytes: totalBytes,
		Truncated:      resp.Truncated,
	}, nil
}

func (c *Client) fetchTree(ctx context.Context, ref *docdex.RepoRef, branch string) (*treeResponse, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		c.apiBase, url.PathEscape(ref.Owner), url.PathEscape(ref.Name), url.PathEscape(branch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.addHeaders(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Every API response refreshes the shared quota view.
	c.rate.Update(resp.Header)

	switch {
	case resp.StatusCode == http.StatusOK:
		var tr treeResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return nil, fmt.Errorf("decode tree response: %w", err)
		}
		return &tr, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, docdex.Errorf(docdex.ENOTFOUND, "branch %s not found", branch)
	case resp.StatusCode == http.StatusForbidden && c.rate.Exhausted():
		snap := c.rate.Snapshot()
		return nil, docdex.Errorf(docdex.ERATELIMIT,
			"GitHub API rate limit exhausted; resets at %s. Wait for the reset, set GITHUB_TOKEN, or index with source=web.",
			snap.Reset.Format(time.RFC3339))
	default:
		return nil, docdex.Errorf(docdex.EINTERNAL, "github: unexpected status %s for %s", resp.Status, u)
	}
}

// FetchFileContent downloads one file through the raw channel, which does
// not share the API's rate limit. A missing file is ENOTFOUND, which bulk
// callers treat as skippable rather than fatal.
func (c *Client) FetchFileContent(ctx context.Context, repoID, branch, path string) (string, error) {
	ref, err := docdex.ParseGitHubURL(repoID)
	if err != nil {
		return "", err
	}
	if err := c.rawLimiter.Wait(ctx); err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/%s/%s/%s/%s",
		c.rawBase, url.PathEscape(ref.Owner), url.PathEscape(ref.Name),
		url.PathEscape(branch), escapePath(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", docdex.Errorf(docdex.ENOTFOUND, "file %s not found on %s@%s", path, ref.Repo(), branch)
	}
	if resp.StatusCode != http.StatusOK {
		return "", docdex.Errorf(docdex.EINTERNAL, "github raw: unexpected status %s for %s", resp.Status, u)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchManyFiles downloads paths concurrently. Partial success is the normal
// case: missing files land in NotFound, other per-file failures are logged
// and skipped, and the batch never aborts.
func (c *Client) FetchManyFiles(ctx context.Context, repoID, branch string, paths []string) (*docdex.BulkFetchResult, error) {
	var mu sync.Mutex
	result := &docdex.BulkFetchResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for _, path := range paths {
		g.Go(func() error {
			content, err := c.FetchFileContent(gctx, repoID, branch, path)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Files = append(result.Files, docdex.FetchedFile{Path: path, Content: content})
			case docdex.ErrorCode(err) == docdex.ENOTFOUND:
				result.NotFound = append(result.NotFound, path)
			default:
				c.logger.Warn("file download failed",
					slog.String("path", path), slog.String("err", err.Error()))
				result.NotFound = append(result.NotFound, path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const userAgent = "docdex/1.0 (+https://github.com/docdex/docdex)"

func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func matchExtension(path string, extensions []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// relativeTo returns path relative to prefix, or ok=false when path is
// outside the prefix. An empty prefix keeps the path as-is.
func relativeTo(path, prefix string) (string, bool) {
	if prefix == "" {
		return path, true
	}
	if path == prefix {
		return "", false // the prefix itself is a file, not inside it
	}
	if !strings.HasPrefix(path, prefix+"/") {
		return "", false
	}
	return path[len(prefix)+1:], true
}

// escapePath escapes each segment while preserving separators.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
