package indexer

import (
	"context"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/index"
	"github.com/docdex/docdex/urlutil"
)

// resolveIdentity maps a source string to its cache key. A source that
// parses as a repository reference is a GitHub entry; anything else is
// treated as a scraped-site URL.
func resolveIdentity(source string) (docdex.SourceKind, string, error) {
	if ref, err := docdex.ParseGitHubURL(source); err == nil {
		return docdex.SourceGitHub, urlutil.GitHubID(ref.Owner, ref.Name), nil
	}
	if id := urlutil.ScrapedID(source); id != "" {
		return docdex.SourceScraped, id, nil
	}
	return "", "", docdex.Errorf(docdex.EINVALID, "invalid source %q; expected owner/repo or a URL", source)
}

// readMeta looks an entry up by source, falling back to the other source
// kind so a caller can address a set by either its repo or its site URL.
func (s *Service) readMeta(ctx context.Context, source string) (*docdex.CacheEntryMeta, error) {
	kind, id, err := resolveIdentity(source)
	if err != nil {
		return nil, err
	}

	meta, err := s.Store.ReadMeta(ctx, kind, id)
	if docdex.ErrorCode(err) == docdex.ENOTFOUND {
		other := docdex.SourceScraped
		if kind == docdex.SourceScraped {
			other = docdex.SourceGitHub
		}
		if m, oerr := s.Store.ReadMeta(ctx, other, id); oerr == nil {
			return m, nil
		}
		return nil, docdex.Errorf(docdex.ENOTFOUND, "%s is not indexed; run the index operation first", source)
	}
	return meta, err
}

// Tree returns the cached documentation tree for a source, clipped to
// maxDepth levels when maxDepth > 0.
func (s *Service) Tree(ctx context.Context, source string, maxDepth int) (*docdex.CacheEntryMeta, error) {
	meta, err := s.readMeta(ctx, source)
	if err != nil {
		return nil, err
	}
	meta.Tree = docdex.ClipTree(meta.Tree, maxDepth)
	return meta, nil
}

// Content returns one cached file's content.
func (s *Service) Content(ctx context.Context, source, path string) (string, error) {
	meta, err := s.readMeta(ctx, source)
	if err != nil {
		return "", err
	}
	return s.Store.ReadFile(ctx, meta.SourceKind, meta.ID, path)
}

// Search runs a query against a source's cached search index.
func (s *Service) Search(ctx context.Context, source, query string, limit int) ([]docdex.SearchResult, error) {
	meta, err := s.readMeta(ctx, source)
	if err != nil {
		return nil, err
	}

	blob, err := s.Store.ReadIndex(ctx, meta.SourceKind, meta.ID)
	if err != nil {
		return nil, err
	}
	ix, err := index.Deserialize(blob)
	if err != nil {
		return nil, err
	}
	return ix.Search(query, limit)
}

// List enumerates all cached documentation sets, newest first.
func (s *Service) List(ctx context.Context) ([]*docdex.CacheEntryMeta, error) {
	return s.Store.ListEntries(ctx)
}

// Clear removes one cached set by source.
func (s *Service) Clear(ctx context.Context, source string) error {
	meta, err := s.readMeta(ctx, source)
	if err != nil {
		return err
	}
	return s.Store.DeleteEntry(ctx, meta.SourceKind, meta.ID)
}

// ClearAll removes every cached set and returns the number removed.
func (s *Service) ClearAll(ctx context.Context) (int, error) {
	return s.Store.DeleteAll(ctx)
}
