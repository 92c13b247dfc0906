package scrape_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/httpx"
	"github.com/docdex/docdex/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSite maps paths to HTML pages for an httptest server.
func testSite(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newCrawler() *scrape.Crawler {
	return &scrape.Crawler{Client: httpx.NewClient(), SkipSitemap: true}
}

func fastOpts() docdex.CrawlOptions {
	return docdex.CrawlOptions{Delay: time.Millisecond}
}

func pageURLs(result *docdex.CrawlResult) []string {
	var urls []string
	for _, p := range result.Pages {
		urls = append(urls, p.URL)
	}
	return urls
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("follows same-domain links breadth-first", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":      `<a href="/guide">Guide</a> <a href="/api">API</a>`,
			"/guide": `<a href="/guide/install">Install</a>`,
			"/api":   `<p>API reference</p>`,
			"/guide/install": `<p>Install steps</p>`,
		})

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Len(t, result.Pages, 4)
		assert.Equal(t, 4, result.Stats.Crawled)
		assert.Equal(t, 2, result.Stats.MaxDepth)

		// Breadth-first: both depth-1 pages come before the depth-2 page.
		urls := pageURLs(result)
		assert.Equal(t, srv.URL, urls[0])
		assert.Equal(t, srv.URL+"/guide/install", urls[3])
	})

	t.Run("max pages bounds the crawl", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":  `<a href="/p1">1</a><a href="/p2">2</a><a href="/p3">3</a>`,
			"/p1": `<p>one</p>`,
			"/p2": `<p>two</p>`,
			"/p3": `<p>three</p>`,
		})

		opts := fastOpts()
		opts.MaxPages = 2
		result, err := newCrawler().Crawl(context.Background(), srv.URL, opts)
		require.NoError(t, err)
		assert.Len(t, result.Pages, 2)
	})

	t.Run("pages at max depth contribute no links", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":     `<a href="/deep">deep</a>`,
			"/deep": `<a href="/deeper">deeper</a>`,
		})

		opts := fastOpts()
		opts.MaxDepth = 1
		result, err := newCrawler().Crawl(context.Background(), srv.URL, opts)
		require.NoError(t, err)

		assert.Len(t, result.Pages, 2)
		assert.Empty(t, result.Pages[1].Links)
	})

	t.Run("external and asset links are never enqueued", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/": `<a href="https://other.example/page">out</a>
			      <a href="/logo.png">asset</a>
			      <a href="/docs">docs</a>`,
			"/docs": `<p>docs</p>`,
		})

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Len(t, result.Pages, 2)
		assert.Equal(t, []string{srv.URL + "/docs"}, result.Pages[0].Links)
	})

	t.Run("robots disallow is a skip with its own reason", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
			case "/":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, `<a href="/private/secret">s</a><a href="/open">o</a>`)
			case "/open", "/private/secret":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<p>page</p>")
			default:
				http.NotFound(w, r)
			}
		}))
		t.Cleanup(srv.Close)

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Len(t, result.Pages, 2)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, scrape.ReasonRobots, result.Skipped[0].Reason)
	})

	t.Run("robots can be ignored on request", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
				return
			}
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<p>page</p>")
		}))
		t.Cleanup(srv.Close)

		no := false
		opts := fastOpts()
		opts.RespectRobots = &no
		result, err := newCrawler().Crawl(context.Background(), srv.URL, opts)
		require.NoError(t, err)
		assert.Len(t, result.Pages, 1)
	})

	t.Run("non-HTML responses are skipped, not failed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, `<a href="/data">data</a>`)
			case "/data":
				w.Header().Set("Content-Type", "application/octet-stream")
				fmt.Fprint(w, "binary")
			default:
				http.NotFound(w, r)
			}
		}))
		t.Cleanup(srv.Close)

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Len(t, result.Pages, 1)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, scrape.ReasonNonHTML, result.Skipped[0].Reason)
	})

	t.Run("HTTP errors land in Failed with the status", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusForbidden)
		}))
		t.Cleanup(srv.Close)

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Empty(t, result.Pages)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "HTTP 403", result.Failed[0].Reason)
	})

	t.Run("duplicate URLs crawled once", func(t *testing.T) {
		t.Parallel()

		srv := testSite(t, map[string]string{
			"/":     `<a href="/page">a</a><a href="/page/">b</a><a href="/page#frag">c</a>`,
			"/page": `<a href="/">home</a>`,
		})

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)
		assert.Len(t, result.Pages, 2)
	})

	t.Run("a link back to the root does not refetch the seed", func(t *testing.T) {
		t.Parallel()

		rootHits := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/":
				rootHits++
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, `<a href="/">Home</a><a href="/page">p</a>`)
			case "/page":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, `<a href="/">Home</a>`)
			default:
				http.NotFound(w, r)
			}
		}))
		t.Cleanup(srv.Close)

		result, err := newCrawler().Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)

		assert.Equal(t, 1, rootHits)
		assert.Len(t, result.Pages, 2)
		assert.Equal(t, 2, result.Stats.Discovered)
	})

	t.Run("invalid seed is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := newCrawler().Crawl(context.Background(), "not-a-url", fastOpts())
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("sitemap seeds the frontier", func(t *testing.T) {
		t.Parallel()

		var srv *httptest.Server
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/robots.txt":
				http.NotFound(w, r)
			case "/sitemap.xml":
				w.Header().Set("Content-Type", "application/xml")
				fmt.Fprintf(w, `<?xml version="1.0"?>
<urlset><url><loc>%s/orphan</loc></url></urlset>`, srv.URL)
			case "/":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<p>home, no links</p>")
			case "/orphan":
				w.Header().Set("Content-Type", "text/html")
				fmt.Fprint(w, "<p>unlinked page</p>")
			default:
				http.NotFound(w, r)
			}
		}))
		t.Cleanup(srv.Close)

		crawler := &scrape.Crawler{Client: httpx.NewClient()}
		result, err := crawler.Crawl(context.Background(), srv.URL, fastOpts())
		require.NoError(t, err)
		assert.Len(t, result.Pages, 2)
	})
}
