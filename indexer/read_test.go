package indexer_test

import (
	"context"
	"testing"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/indexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexRepo seeds the service's store with the standard two-file repository.
func indexRepo(t *testing.T, svc *indexer.Service) {
	t.Helper()
	svc.Trees = repoFetcher(nil)
	_, err := svc.Index(context.Background(), indexer.Request{
		Source: "acme/widgets", Strategy: indexer.StrategyGitHub,
	})
	require.NoError(t, err)
}

func TestService_Tree(t *testing.T) {
	t.Parallel()

	t.Run("returns the cached tree", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		indexRepo(t, svc)

		meta, err := svc.Tree(context.Background(), "acme/widgets", 0)
		require.NoError(t, err)
		assert.Equal(t, "acme/widgets", meta.Repo)

		var paths []string
		docdex.WalkTree(meta.Tree, func(n *docdex.DocTreeNode) {
			if n.Kind == docdex.NodeFile {
				paths = append(paths, n.Path)
			}
		})
		assert.ElementsMatch(t, []string{"README.md", "docs/guide.md"}, paths)
	})

	t.Run("clips to max depth", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		indexRepo(t, svc)

		meta, err := svc.Tree(context.Background(), "acme/widgets", 1)
		require.NoError(t, err)

		docdex.WalkTree(meta.Tree, func(n *docdex.DocTreeNode) {
			assert.Empty(t, n.Children, "depth-1 view must not expand folders")
		})
	})

	t.Run("github URL resolves to the same entry", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		indexRepo(t, svc)

		meta, err := svc.Tree(context.Background(), "https://github.com/acme/widgets", 0)
		require.NoError(t, err)
		assert.Equal(t, "acme_widgets", meta.ID)
	})

	t.Run("unindexed source is ENOTFOUND with guidance", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.Tree(context.Background(), "acme/unknown", 0)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
		assert.Contains(t, docdex.ErrorMessage(err), "not indexed")
	})
}

func TestService_ReadMeta_CrossKind(t *testing.T) {
	t.Parallel()

	// An entry cached under the scraped kind stays addressable even when the
	// source string happens to parse as a repository reference.
	svc, _ := newService(t)
	svc.Crawler = siteCrawler(&docdex.ScrapedPage{
		URL: "https://acme.widgets.dev", Filename: "index.md", HTML: docBody,
	})
	svc.Cleaner = passthroughCleaner()
	ctx := context.Background()

	res, err := svc.Index(ctx, indexer.Request{
		Source: "https://acme.widgets.dev", Strategy: indexer.StrategyWeb,
	})
	require.NoError(t, err)
	require.Equal(t, "acme_widgets_dev", res.Meta.ID)

	meta, err := svc.Tree(ctx, "acme/widgets_dev", 0)
	require.NoError(t, err)
	assert.Equal(t, docdex.SourceScraped, meta.SourceKind)
	assert.Equal(t, "https://acme.widgets.dev", meta.BaseURL)
}

func TestService_Content(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	indexRepo(t, svc)
	ctx := context.Background()

	content, err := svc.Content(ctx, "acme/widgets", "README.md")
	require.NoError(t, err)
	assert.Contains(t, content, "widget management")

	_, err = svc.Content(ctx, "acme/widgets", "docs/missing.md")
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}

func TestService_Search_Reads(t *testing.T) {
	t.Parallel()

	t.Run("empty query returns no results", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		indexRepo(t, svc)

		results, err := svc.Search(context.Background(), "acme/widgets", "  ", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("results carry snippets", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		indexRepo(t, svc)

		results, err := svc.Search(context.Background(), "acme/widgets", "install", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Contains(t, results[0].Snippet, "Install")
	})

	t.Run("unindexed source is ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		svc, _ := newService(t)
		_, err := svc.Search(context.Background(), "acme/unknown", "query", 10)
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})
}

func TestService_ListAndClear(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	indexRepo(t, svc)
	ctx := context.Background()

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "acme_widgets", entries[0].ID)

	require.NoError(t, svc.Clear(ctx, "acme/widgets"))

	entries, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = svc.Clear(ctx, "acme/widgets")
	assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
}

func TestService_ClearAll(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	indexRepo(t, svc)
	ctx := context.Background()

	svc.Crawler = siteCrawler(&docdex.ScrapedPage{
		URL: "https://docs.acme.com", Filename: "index.md", HTML: docBody,
	})
	svc.Cleaner = passthroughCleaner()
	_, err := svc.Index(ctx, indexer.Request{Source: "https://docs.acme.com", Strategy: indexer.StrategyWeb})
	require.NoError(t, err)

	n, err := svc.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
