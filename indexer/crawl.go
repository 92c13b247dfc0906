package indexer

import (
	"context"
	"strings"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/index"
	"github.com/docdex/docdex/scrape"
	"github.com/docdex/docdex/urlutil"
)

// runCrawl acquires a documentation set by crawling, normalizing each page
// to markdown, then building and persisting the index.
func (s *Service) runCrawl(ctx context.Context, seedURL string, req Request, tag string) (*Result, error) {
	id := urlutil.ScrapedID(seedURL)
	if id == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid URL %q; expected an absolute http(s) URL", seedURL)
	}

	if !req.Force {
		if res, ok := s.cached(ctx, docdex.SourceScraped, id); ok {
			res.Tag = tag
			return res, nil
		}
	}

	crawl, err := s.Crawler.Crawl(ctx, seedURL, req.Crawl)
	if err != nil {
		return nil, err
	}
	if len(crawl.Pages) == 0 {
		if crawlBlocked(crawl) {
			return nil, docdex.Errorf(docdex.EBLOCKED, "crawl of %s was blocked (robots.txt or access denied); try a different entry URL", seedURL)
		}
		return nil, docdex.Errorf(docdex.ENOCONTENT, "crawl of %s found no pages in scope", seedURL)
	}

	ix, err := index.NewIndex()
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(crawl.Pages))
	var flat []docdex.FlatFile
	var totalSize int64

	for _, page := range crawl.Pages {
		cleaned, err := s.Cleaner.Clean(page.HTML, docdex.CleanOptions{BaseURL: page.URL})
		if err != nil {
			s.logger().Warn("page dropped, normalization failed", "url", page.URL, "err", err.Error())
			continue
		}

		body := cleaned.Body
		// Trivially short bodies are navigation shells or error pages, not
		// documentation.
		if len(strings.TrimSpace(body)) < minNormalizedBodyLen {
			continue
		}

		if cleaned.Title != "" && !strings.HasPrefix(strings.TrimSpace(body), "# ") {
			body = "# " + cleaned.Title + "\n\n" + body
		}

		if _, exists := files[page.Filename]; exists {
			continue
		}
		files[page.Filename] = body
		flat = append(flat, docdex.FlatFile{Path: page.Filename, Size: int64(len(body))})
		totalSize += int64(len(body))

		if err := ix.Add(docdex.IndexableDocument{
			ID:       page.Filename,
			Title:    cleaned.Title,
			Headings: headingsText(cleaned.Headings),
			Body:     body,
		}); err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, docdex.Errorf(docdex.ENOCONTENT, "crawl of %s produced no usable documentation content", seedURL)
	}

	blob, err := ix.Serialize()
	if err != nil {
		return nil, err
	}

	entry := &docdex.CacheEntry{
		Meta: &docdex.CacheEntryMeta{
			ID:             id,
			SourceKind:     docdex.SourceScraped,
			BaseURL:        crawl.BaseURL,
			PageCount:      len(files),
			TotalSizeBytes: totalSize,
			// Crawled docs are flat; filenames carry no hierarchy.
			Tree: docdex.BuildTree(flat),
		},
		Files: files,
		Index: blob,
	}
	if err := s.persist(ctx, entry); err != nil {
		return nil, err
	}

	return &Result{
		Meta:    entry.Meta,
		Tag:     tag,
		Failed:  crawl.Stats.Failed,
		Skipped: crawl.Stats.Skipped,
	}, nil
}

// crawlBlocked distinguishes a blocked crawl from an empty one: robots
// disallows or 403-class failures signal blocking.
func crawlBlocked(crawl *docdex.CrawlResult) bool {
	for _, skip := range crawl.Skipped {
		if skip.Reason == scrape.ReasonRobots {
			return true
		}
	}
	for _, fail := range crawl.Failed {
		if strings.Contains(fail.Reason, "403") {
			return true
		}
	}
	return false
}
