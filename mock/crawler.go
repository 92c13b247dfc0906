package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of docdex.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, seedURL string, opts docdex.CrawlOptions) (*docdex.CrawlResult, error)
}

func (c *Crawler) Crawl(ctx context.Context, seedURL string, opts docdex.CrawlOptions) (*docdex.CrawlResult, error) {
	return c.CrawlFn(ctx, seedURL, opts)
}
