package scrape

import (
	"context"
	"net/http"
	"strings"

	"github.com/beevik/etree"
	"github.com/docdex/docdex/httpx"
)

// maxNestedSitemaps bounds how many child sitemaps of a sitemap index are
// fetched during seeding.
const maxNestedSitemaps = 10

// fetchSitemapURLs collects page URLs from the origin's sitemaps: the hints
// from robots.txt plus the conventional /sitemap.xml. Seeding is
// best-effort; every failure is silent and at most `limit` URLs are
// returned.
func fetchSitemapURLs(ctx context.Context, client *httpx.Client, origin string, hints []string, limit int) []string {
	candidates := append([]string{}, hints...)
	if len(candidates) == 0 {
		candidates = []string{strings.TrimRight(origin, "/") + "/sitemap.xml"}
	}

	var urls []string
	seen := make(map[string]bool)
	for _, sitemapURL := range candidates {
		for _, loc := range readSitemap(ctx, client, sitemapURL, true) {
			if len(urls) >= limit {
				return urls
			}
			if !seen[loc] {
				seen[loc] = true
				urls = append(urls, loc)
			}
		}
	}
	return urls
}

// readSitemap parses one sitemap document. A sitemap index is followed one
// level deep when recurse is set.
func readSitemap(ctx context.Context, client *httpx.Client, sitemapURL string, recurse bool) []string {
	resp, err := client.Get(ctx, sitemapURL)
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(resp.Body); err != nil {
		return nil
	}
	root := doc.Root()
	if root == nil {
		return nil
	}

	switch root.Tag {
	case "urlset":
		var locs []string
		for _, el := range root.SelectElements("url") {
			if loc := el.SelectElement("loc"); loc != nil {
				if text := strings.TrimSpace(loc.Text()); text != "" {
					locs = append(locs, text)
				}
			}
		}
		return locs
	case "sitemapindex":
		if !recurse {
			return nil
		}
		var locs []string
		children := root.SelectElements("sitemap")
		for i, el := range children {
			if i >= maxNestedSitemaps {
				break
			}
			if loc := el.SelectElement("loc"); loc != nil {
				if text := strings.TrimSpace(loc.Text()); text != "" {
					locs = append(locs, readSitemap(ctx, client, text, false)...)
				}
			}
		}
		return locs
	default:
		return nil
	}
}
