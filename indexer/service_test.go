package indexer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/indexer"
	"github.com/docdex/docdex/mock"
	"github.com/docdex/docdex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed clock all service tests run on.
var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

// newService wires a Service against a fresh in-memory store. The returned
// clock pointer can be advanced to cross TTL boundaries.
func newService(t *testing.T) (*indexer.Service, *time.Time) {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	now := testNow
	svc := &indexer.Service{
		Store: sqlite.NewCacheStore(db),
		Now:   func() time.Time { return now },
	}
	return svc, &now
}

// repoFetcher serves a two-file repository and counts tree resolutions.
func repoFetcher(resolves *int) *mock.TreeFetcher {
	contents := map[string]string{
		"README.md":     "# Widgets\n\nA library for widget management.\n",
		"docs/guide.md": "# Guide\n\n## Setup\n\nInstall the widgets package first.\n",
	}
	return &mock.TreeFetcher{
		ResolveTreeFn: func(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
			if resolves != nil {
				*resolves++
			}
			branch := opts.Branch
			if branch == "" {
				branch = "main"
			}
			return &docdex.TreeResult{
				Repo:   repo,
				Branch: branch,
				Tree: docdex.BuildTree([]docdex.FlatFile{
					{Path: "README.md", Size: 40},
					{Path: "docs/guide.md", Size: 55},
				}),
				FileCount: 2,
			}, nil
		},
		FetchManyFilesFn: func(ctx context.Context, repo, branch string, paths []string) (*docdex.BulkFetchResult, error) {
			result := &docdex.BulkFetchResult{}
			for _, p := range paths {
				if content, ok := contents[p]; ok {
					result.Files = append(result.Files, docdex.FetchedFile{Path: p, Content: content})
				} else {
					result.NotFound = append(result.NotFound, p)
				}
			}
			return result, nil
		},
	}
}

// docBody is long enough to pass the minimum-content gate.
var docBody = strings.Repeat("Documentation sentences about widget usage. ", 5)

// siteCrawler serves a fixed crawl result.
func siteCrawler(pages ...*docdex.ScrapedPage) *mock.Crawler {
	return &mock.Crawler{
		CrawlFn: func(ctx context.Context, seedURL string, opts docdex.CrawlOptions) (*docdex.CrawlResult, error) {
			return &docdex.CrawlResult{
				BaseURL: seedURL,
				Pages:   pages,
				Stats:   docdex.CrawlStats{Crawled: len(pages)},
			}, nil
		},
	}
}

// passthroughCleaner returns the page HTML as the body, with a fixed title.
func passthroughCleaner() *mock.Cleaner {
	return &mock.Cleaner{
		CleanFn: func(rawHTML string, opts docdex.CleanOptions) (*docdex.CleanResult, error) {
			return &docdex.CleanResult{
				Body:  rawHTML,
				Title: "Page Title",
			}, nil
		},
	}
}

func TestService_Index_Auto(t *testing.T) {
	t.Parallel()

	t.Run("repo reference goes straight to github", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		svc.Trees = repoFetcher(nil)

		res, err := svc.Index(context.Background(), indexer.Request{Source: "acme/widgets"})
		require.NoError(t, err)
		assert.Equal(t, indexer.TagDirectGitHub, res.Tag)
		assert.Equal(t, "acme_widgets", res.Meta.ID)
	})

	t.Run("detection drives a github run and adopts the docs path", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		var treePath string
		svc.Trees = &mock.TreeFetcher{
			ResolveTreeFn: func(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
				treePath = opts.Path
				return &docdex.TreeResult{
					Repo:   repo,
					Branch: "main",
					Tree:   docdex.BuildTree([]docdex.FlatFile{{Path: "guide.md", Size: 10}}),
				}, nil
			},
			FetchManyFilesFn: func(ctx context.Context, repo, branch string, paths []string) (*docdex.BulkFetchResult, error) {
				assert.Equal(t, []string{"docs/guide.md"}, paths)
				return &docdex.BulkFetchResult{
					Files: []docdex.FetchedFile{{Path: "docs/guide.md", Content: "# Guide\n\n" + docBody}},
				}, nil
			},
		}
		svc.Detector = &mock.Detector{
			DetectFn: func(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
				return &docdex.GitHubDetectionResult{
					Found:      true,
					Repo:       "acme/widgets",
					DocsPath:   "docs",
					Confidence: docdex.ConfidenceHigh,
					Method:     "edit_link",
				}, nil
			},
		}

		res, err := svc.Index(context.Background(), indexer.Request{Source: "https://docs.acme.com/widgets"})
		require.NoError(t, err)
		assert.Equal(t, "auto_github_edit_link", res.Tag)
		assert.Equal(t, "docs", treePath)
	})

	t.Run("low-confidence detection falls back to crawling", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		svc.Trees = &mock.TreeFetcher{
			ResolveTreeFn: func(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
				t.Fatal("github path must not run on low confidence")
				return nil, nil
			},
		}
		svc.Detector = &mock.Detector{
			DetectFn: func(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
				return &docdex.GitHubDetectionResult{
					Found: true, Repo: "acme/widgets",
					Confidence: docdex.ConfidenceLow, Method: "link_census",
				}, nil
			},
		}
		svc.Crawler = siteCrawler(&docdex.ScrapedPage{
			URL: "https://docs.acme.com", Filename: "index.md", HTML: docBody,
		})
		svc.Cleaner = passthroughCleaner()

		res, err := svc.Index(context.Background(), indexer.Request{Source: "https://docs.acme.com"})
		require.NoError(t, err)
		assert.Equal(t, indexer.TagScrapingFallback, res.Tag)
		assert.Equal(t, docdex.SourceScraped, res.Meta.SourceKind)
	})

	t.Run("github failure after detection falls back to crawling the URL", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		svc.Trees = &mock.TreeFetcher{
			ResolveTreeFn: func(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
				return nil, docdex.Errorf(docdex.ERATELIMIT, "rate limit exhausted")
			},
		}
		svc.Detector = &mock.Detector{
			DetectFn: func(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
				return &docdex.GitHubDetectionResult{
					Found: true, Repo: "acme/widgets",
					Confidence: docdex.ConfidenceHigh, Method: "meta_tag",
				}, nil
			},
		}
		var crawledSeed string
		svc.Crawler = &mock.Crawler{
			CrawlFn: func(ctx context.Context, seedURL string, opts docdex.CrawlOptions) (*docdex.CrawlResult, error) {
				crawledSeed = seedURL
				return &docdex.CrawlResult{
					BaseURL: seedURL,
					Pages: []*docdex.ScrapedPage{
						{URL: seedURL, Filename: "index.md", HTML: docBody},
					},
				}, nil
			},
		}
		svc.Cleaner = passthroughCleaner()

		res, err := svc.Index(context.Background(), indexer.Request{Source: "https://docs.acme.com"})
		require.NoError(t, err)
		assert.Equal(t, indexer.TagScrapingFallback, res.Tag)
		assert.Equal(t, "https://docs.acme.com", crawledSeed)
	})

	t.Run("fresh scraped cache answers before any detection", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		svc.Crawler = siteCrawler(&docdex.ScrapedPage{
			URL: "https://docs.acme.com", Filename: "index.md", HTML: docBody,
		})
		svc.Cleaner = passthroughCleaner()

		_, err := svc.Index(context.Background(), indexer.Request{
			Source: "https://docs.acme.com", Strategy: indexer.StrategyWeb,
		})
		require.NoError(t, err)

		svc.Detector = &mock.Detector{
			DetectFn: func(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
				t.Fatal("detection must not run when the cache is fresh")
				return nil, nil
			},
		}

		res, err := svc.Index(context.Background(), indexer.Request{Source: "https://docs.acme.com"})
		require.NoError(t, err)
		assert.True(t, res.Cached)
	})

	t.Run("empty source is invalid", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.Index(context.Background(), indexer.Request{Source: "   "})
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})

	t.Run("unknown strategy is invalid", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.Index(context.Background(), indexer.Request{
			Source: "acme/widgets", Strategy: indexer.Strategy("yolo"),
		})
		assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
	})
}
