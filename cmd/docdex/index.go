package main

import (
	"fmt"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/indexer"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	req := indexer.Request{
		Source:     c.Source,
		Strategy:   indexer.Strategy(c.Strategy),
		Force:      c.Force,
		Branch:     c.Branch,
		Path:       c.Path,
		Extensions: c.Ext,
	}
	req.Crawl.MaxDepth = c.Depth
	req.Crawl.MaxPages = c.Pages
	if c.NoRobots {
		f := false
		req.Crawl.RespectRobots = &f
	}

	res, err := deps.Indexer.Index(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	meta := res.Meta
	if res.Cached {
		fmt.Fprintf(deps.Stdout, "Already indexed %s (%d pages, expires %s)\n",
			sourceLabel(meta), meta.PageCount, meta.ExpiresAt.Format("2006-01-02 15:04"))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Indexed %s via %s: %d pages, %s\n",
		sourceLabel(meta), res.Tag, meta.PageCount, formatBytes(meta.TotalSizeBytes))
	if res.Truncated {
		fmt.Fprintln(deps.Stderr, "warning: the repository listing was truncated; some files may be missing")
	}
	if res.Failed > 0 {
		fmt.Fprintf(deps.Stderr, "warning: %d items could not be fetched and were omitted\n", res.Failed)
	}
	return nil
}

func sourceLabel(meta *docdex.CacheEntryMeta) string {
	if meta.SourceKind == docdex.SourceGitHub {
		return meta.Repo
	}
	return meta.BaseURL
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
