// Package scrape implements the breadth-first, depth- and count-bounded
// web crawler over same-domain HTML pages.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/bloom"
	"github.com/docdex/docdex/httpx"
	"github.com/docdex/docdex/urlutil"
)

// Ensure Crawler implements docdex.Crawler at compile time.
var _ docdex.Crawler = (*Crawler)(nil)

// Frontier sizing for the Bloom filter deduplicating visited URLs.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// Skip reasons recorded in CrawlResult. The orchestrator matches on the
// robots reason to tell a blocked crawl from an empty one.
const (
	ReasonRobots   = "robots_disallowed"
	ReasonExternal = "external_domain"
	ReasonNonHTML  = "non_html_content"
)

// Crawler fetches same-domain HTML pages breadth-first from a seed URL.
// Frontier processing is sequential because of the mandatory inter-request
// delay; page parsing is pure and adds no waiting.
type Crawler struct {
	Client *httpx.Client
	Logger *slog.Logger

	// SkipSitemap disables best-effort sitemap seeding of the frontier.
	SkipSitemap bool
}

type frontierItem struct {
	url   string // normalized
	depth int
}

// Crawl runs one bounded crawl. It returns an error only for invalid input;
// a crawl that finds nothing returns an empty result for the caller to
// classify.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, opts docdex.CrawlOptions) (*docdex.CrawlResult, error) {
	opts.Normalize()
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	seed, err := urlutil.Normalize(seedURL)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid seed URL %q; expected an absolute http(s) URL", seedURL)
	}
	seedParsed, err := url.Parse(seed)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid seed URL %q; expected an absolute http(s) URL", seedURL)
	}
	origin := seedParsed.Scheme + "://" + seedParsed.Host

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = httpx.DefaultUserAgent
	}

	var robots *Robots
	if opts.Robots() {
		robots = FetchRobots(ctx, c.Client, origin, userAgent)
	}

	delay := opts.Delay
	if robots != nil && robots.CrawlDelay > delay {
		// Politeness floor: a crawl-delay directive can lengthen the gap
		// between requests, never shorten it.
		delay = robots.CrawlDelay
	}
	pace := newPacer(delay)

	result := &docdex.CrawlResult{BaseURL: seed}
	start := time.Now()

	seen := bloom.NewFilter(frontierExpectedURLs, frontierFalsePositiveRate)
	var frontier []frontierItem

	push := func(rawURL string, depth int) {
		normalized, err := urlutil.Normalize(rawURL)
		if err != nil || seen.Test(normalized) {
			return
		}
		seen.Add(normalized)
		frontier = append(frontier, frontierItem{url: normalized, depth: depth})
		result.Stats.Discovered++
	}

	push(seed, 0)

	if !c.SkipSitemap {
		var hints []string
		if robots != nil {
			hints = robots.Sitemaps
		}
		for _, loc := range fetchSitemapURLs(ctx, c.Client, origin, hints, opts.MaxPages) {
			if urlutil.SameDomain(loc, seed) && !urlutil.IsSkippablePath(loc) {
				push(loc, 1)
			}
		}
	}

	for len(frontier) > 0 && result.Stats.Crawled < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := frontier[0]
		frontier = frontier[1:]

		skip := func(reason string) {
			result.Skipped = append(result.Skipped, docdex.CrawlFailure{URL: item.url, Reason: reason})
			result.Stats.Skipped++
		}

		if !urlutil.SameDomain(item.url, seed) {
			skip(ReasonExternal)
			continue
		}
		if itemParsed, err := url.Parse(item.url); err != nil || !robots.Allowed(itemParsed.Path) {
			skip(ReasonRobots)
			continue
		}

		if err := pace.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.Client.Get(ctx, item.url)
		if err != nil {
			result.Failed = append(result.Failed, docdex.CrawlFailure{URL: item.url, Reason: err.Error()})
			result.Stats.Failed++
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			result.Failed = append(result.Failed, docdex.CrawlFailure{
				URL:    item.url,
				Reason: fmt.Sprintf("HTTP %d", resp.StatusCode),
			})
			result.Stats.Failed++
			continue
		}
		if !resp.IsHTML() {
			// Out-of-scope content, not an error condition.
			skip(ReasonNonHTML)
			continue
		}

		pace.Mark()

		page := &docdex.ScrapedPage{
			URL:           item.url,
			NormalizedURL: item.url,
			Filename:      urlutil.PageFilename(item.url),
			HTML:          resp.Body,
			StatusCode:    resp.StatusCode,
			ContentType:   resp.ContentType,
			Depth:         item.depth,
		}

		// Pages at the maximum depth keep their content but contribute no
		// further links.
		if item.depth < opts.MaxDepth {
			pageURL, err := url.Parse(item.url)
			if err == nil {
				for _, link := range urlutil.ExtractLinks(resp.Body, pageURL) {
					if !urlutil.SameDomain(link, seed) || urlutil.IsSkippablePath(link) {
						continue
					}
					page.Links = append(page.Links, link)
					push(link, item.depth+1)
				}
			}
		}

		result.Pages = append(result.Pages, page)
		result.Stats.Crawled++
		if item.depth > result.Stats.MaxDepth {
			result.Stats.MaxDepth = item.depth
		}

		logger.Debug("crawled page",
			slog.String("url", item.url),
			slog.Int("depth", item.depth),
			slog.Int("links", len(page.Links)))
	}

	result.Stats.Duration = time.Since(start)
	return result, nil
}
