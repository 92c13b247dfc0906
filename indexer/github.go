package indexer

import (
	"context"
	"path"
	"strings"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/clean"
	"github.com/docdex/docdex/index"
	"github.com/docdex/docdex/urlutil"
)

// runGitHub acquires a documentation set from a repository: one bulk tree
// resolution, a best-effort concurrent download of every listed file, index
// build, persist.
func (s *Service) runGitHub(ctx context.Context, ref *docdex.RepoRef, req Request, tag string) (*Result, error) {
	id := urlutil.GitHubID(ref.Owner, ref.Name)

	if !req.Force {
		if res, ok := s.cached(ctx, docdex.SourceGitHub, id); ok {
			res.Tag = tag
			return res, nil
		}
	}

	if req.Branch != "" {
		ref.Branch = req.Branch
	}
	if req.Path == "" && ref.Path != "" {
		// A tree URL's embedded path scopes the run the same way --path does.
		req.Path = ref.Path
	}
	tree, err := s.Trees.ResolveTree(ctx, ref.Repo(), docdex.TreeOptions{
		Path:       req.Path,
		Branch:     ref.Branch,
		Extensions: req.Extensions,
		MaxDepth:   req.MaxDepth,
	})
	if err != nil {
		return nil, err
	}

	var paths []string
	docdex.WalkTree(tree.Tree, func(n *docdex.DocTreeNode) {
		if n.Kind == docdex.NodeFile {
			paths = append(paths, n.Path)
		}
	})
	if len(paths) == 0 {
		return nil, docdex.Errorf(docdex.ENOCONTENT, "no documentation files found in %s", ref.Repo())
	}

	// Tree paths are relative to req.Path; raw downloads need the full
	// repository path.
	fetchPaths := make([]string, len(paths))
	for i, p := range paths {
		fetchPaths[i] = joinRepoPath(req.Path, p)
	}

	bulk, err := s.Trees.FetchManyFiles(ctx, ref.Repo(), tree.Branch, fetchPaths)
	if err != nil {
		return nil, err
	}
	if len(bulk.Files) == 0 {
		return nil, docdex.Errorf(docdex.ENOCONTENT, "no file content could be fetched from %s", ref.Repo())
	}
	for _, missing := range bulk.NotFound {
		s.logger().Warn("file omitted from index", "repo", ref.Repo(), "path", missing)
	}

	ix, err := index.NewIndex()
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(bulk.Files))
	var totalSize int64
	for _, f := range bulk.Files {
		rel := relativeRepoPath(req.Path, f.Path)
		files[rel] = f.Content
		totalSize += int64(len(f.Content))

		doc := docdex.IndexableDocument{
			ID:       rel,
			Title:    markdownTitle(rel, f.Content),
			Headings: headingsText(clean.Headings(f.Content)),
			Body:     f.Content,
		}
		if err := ix.Add(doc); err != nil {
			return nil, err
		}
	}

	blob, err := ix.Serialize()
	if err != nil {
		return nil, err
	}

	entry := &docdex.CacheEntry{
		Meta: &docdex.CacheEntryMeta{
			ID:             id,
			SourceKind:     docdex.SourceGitHub,
			Repo:           ref.Repo(),
			Branch:         tree.Branch,
			PageCount:      len(bulk.Files),
			TotalSizeBytes: totalSize,
			Tree:           tree.Tree,
		},
		Files: files,
		Index: blob,
	}
	if err := s.persist(ctx, entry); err != nil {
		return nil, err
	}

	return &Result{
		Meta:      entry.Meta,
		Tag:       tag,
		Truncated: tree.Truncated,
		Failed:    len(bulk.NotFound),
	}, nil
}

// markdownTitle is the first top-level heading, or a name derived from the
// filename when the document has none.
func markdownTitle(relPath, content string) string {
	if t := clean.Title(content); t != "" {
		return t
	}
	base := path.Base(relPath)
	base = strings.TrimSuffix(base, path.Ext(base))
	return strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
}

func joinRepoPath(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return strings.TrimSuffix(prefix, "/") + "/" + rel
}

func relativeRepoPath(prefix, full string) string {
	if prefix == "" {
		return full
	}
	return strings.TrimPrefix(full, strings.TrimSuffix(prefix, "/")+"/")
}
