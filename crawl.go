package docdex

import (
	"context"
	"time"
)

// Crawl limits and defaults.
const (
	DefaultCrawlDepth   = 2
	MaxCrawlDepth       = 5
	DefaultCrawlPages   = 100
	DefaultCrawlDelay   = 500 * time.Millisecond
	DefaultCrawlTimeout = 10 * time.Second
)

// CrawlOptions configures a crawl run.
type CrawlOptions struct {
	MaxDepth      int           // capped at MaxCrawlDepth; DefaultCrawlDepth if zero
	MaxPages      int           // DefaultCrawlPages if zero
	Delay         time.Duration // politeness floor between successful fetches
	RespectRobots *bool         // nil means true
	UserAgent     string
}

// Normalize applies defaults and caps in place.
func (o *CrawlOptions) Normalize() {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultCrawlDepth
	}
	if o.MaxDepth > MaxCrawlDepth {
		o.MaxDepth = MaxCrawlDepth
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultCrawlPages
	}
	if o.Delay <= 0 {
		o.Delay = DefaultCrawlDelay
	}
}

// Robots reports whether robots.txt should be honored (default true).
func (o *CrawlOptions) Robots() bool {
	return o.RespectRobots == nil || *o.RespectRobots
}

// ScrapedPage is one successfully crawled page.
type ScrapedPage struct {
	URL           string   // as fetched
	NormalizedURL string   // deduplication form
	Filename      string   // derived cache filename
	HTML          string   // raw response body
	StatusCode    int
	ContentType   string
	Depth         int
	Links         []string // outbound, post-admission-policy
}

// CrawlFailure records a URL that failed or was skipped, with the reason.
type CrawlFailure struct {
	URL    string
	Reason string
}

// CrawlStats aggregates counters for one crawl run.
type CrawlStats struct {
	Discovered int // frontier insertions
	Crawled    int // successful fetches
	Failed     int
	Skipped    int
	MaxDepth   int // deepest page actually fetched
	Duration   time.Duration
}

// CrawlResult is the transient outcome of a single crawl run. It is consumed
// immediately by the orchestrator and never cached.
type CrawlResult struct {
	BaseURL string
	Pages   []*ScrapedPage
	Failed  []CrawlFailure
	Skipped []CrawlFailure
	Stats   CrawlStats
}

// Crawler performs a breadth-first, depth- and count-bounded crawl of
// same-domain HTML pages, honoring robots.txt.
type Crawler interface {
	Crawl(ctx context.Context, seedURL string, opts CrawlOptions) (*CrawlResult, error)
}
