package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/fs"
	"github.com/docdex/docdex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportStore(files map[string]string) *mock.CacheStore {
	meta := &docdex.CacheEntryMeta{
		ID:         "acme_widgets",
		SourceKind: docdex.SourceGitHub,
		Repo:       "acme/widgets",
		Branch:     "main",
		IndexedAt:  time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}
	var flat []docdex.FlatFile
	for path := range files {
		flat = append(flat, docdex.FlatFile{Path: path})
	}
	meta.Tree = docdex.BuildTree(flat)

	return &mock.CacheStore{
		ReadMetaFn: func(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error) {
			return meta, nil
		},
		ReadFileFn: func(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error) {
			content, ok := files[path]
			if !ok {
				return "", docdex.Errorf(docdex.ENOTFOUND, "file not found")
			}
			return content, nil
		},
	}
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes the tree with frontmatter", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := exportStore(map[string]string{
			"README.md":     "# Widgets\n",
			"docs/guide.md": "# Guide\n",
		})

		exporter := fs.NewExporter(store, dir, "widgets")
		n, err := exporter.Export(context.Background(), docdex.SourceGitHub, "acme_widgets")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		data, err := os.ReadFile(filepath.Join(dir, "widgets", "docs", "guide.md"))
		require.NoError(t, err)
		assert.Equal(t, "---\nsource: acme/widgets\npath: docs/guide.md\nindexed: 2026-02-01\n---\n\n# Guide\n", string(data))

		// No staging directory left behind.
		_, err = os.Stat(filepath.Join(dir, "widgets.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("replaces a previous export atomically", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		stale := filepath.Join(dir, "widgets", "old.md")
		require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
		require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644))

		store := exportStore(map[string]string{"README.md": "# Fresh\n"})
		_, err := fs.NewExporter(store, dir, "widgets").Export(context.Background(), docdex.SourceGitHub, "acme_widgets")
		require.NoError(t, err)

		_, err = os.Stat(stale)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dir, "widgets", "README.md"))
		assert.NoError(t, err)
	})

	t.Run("read failure aborts and keeps the destination untouched", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := exportStore(map[string]string{"README.md": "# Widgets\n", "docs/guide.md": "# Guide\n"})
		store.ReadFileFn = func(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error) {
			if path == "docs/guide.md" {
				return "", docdex.Errorf(docdex.EINTERNAL, "backend unavailable")
			}
			return "# Widgets\n", nil
		}

		_, err := fs.NewExporter(store, dir, "widgets").Export(context.Background(), docdex.SourceGitHub, "acme_widgets")
		require.Error(t, err)

		_, err = os.Stat(filepath.Join(dir, "widgets"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dir, "widgets.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("missing entry propagates ENOTFOUND", func(t *testing.T) {
		t.Parallel()

		store := &mock.CacheStore{
			ReadMetaFn: func(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error) {
				return nil, docdex.Errorf(docdex.ENOTFOUND, "cache entry not found")
			},
		}
		_, err := fs.NewExporter(store, t.TempDir(), "x").Export(context.Background(), docdex.SourceGitHub, "ghost")
		assert.Equal(t, docdex.ENOTFOUND, docdex.ErrorCode(err))
	})

	t.Run("scraped entries record the base URL as source", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		store := &mock.CacheStore{
			ReadMetaFn: func(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error) {
				return &docdex.CacheEntryMeta{
					ID:         "docs_example_com",
					SourceKind: docdex.SourceScraped,
					BaseURL:    "https://docs.example.com",
					IndexedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
					Tree:       docdex.BuildTree([]docdex.FlatFile{{Path: "index.md"}}),
				}, nil
			},
			ReadFileFn: func(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error) {
				return "# Home", nil
			},
		}

		_, err := fs.NewExporter(store, dir, "site").Export(context.Background(), docdex.SourceScraped, "docs_example_com")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(dir, "site", "index.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "source: https://docs.example.com\n")
		// A missing trailing newline is added.
		assert.Contains(t, string(data), "# Home\n")
	})
}
