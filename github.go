package docdex

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// DefaultExtensions is the markdown-family filter applied to repository
// trees when the caller does not supply one.
var DefaultExtensions = []string{".md", ".mdx", ".markdown"}

// RepoRef identifies a GitHub repository, optionally pinned to a branch and
// a subpath.
type RepoRef struct {
	Owner  string
	Name   string
	Branch string
	Path   string
}

// Repo returns the "owner/name" form.
func (r RepoRef) Repo() string {
	return r.Owner + "/" + r.Name
}

// Owner names allow only alphanumerics and hyphens; repository names also
// allow dots and underscores. Keeping the owner part strict stops schemeless
// host/path strings like "docs.python.org/3" from parsing as a repository.
var repoIDRe = regexp.MustCompile(`^[A-Za-z0-9-]+/[A-Za-z0-9_.-]+$`)

// ParseGitHubURL parses a GitHub repository reference. Accepted forms:
//
//	owner/repo
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/branch[/path]
//	https://github.com/owner/repo/blob/branch/path
//
// Returns EINVALID with the expected format when the input does not parse.
func ParseGitHubURL(raw string) (*RepoRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALID, "repository required; expected owner/repo or a github.com URL")
	}

	if repoIDRe.MatchString(raw) {
		parts := strings.SplitN(raw, "/", 2)
		return &RepoRef{Owner: parts[0], Name: strings.TrimSuffix(parts[1], ".git")}, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, Errorf(EINVALID, "invalid repository %q; expected owner/repo or a github.com URL", raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	if host != "github.com" {
		return nil, Errorf(EINVALID, "invalid repository URL %q; host must be github.com", raw)
	}

	segs := splitPath(u.Path)
	if len(segs) < 2 {
		return nil, Errorf(EINVALID, "invalid repository URL %q; expected github.com/owner/repo", raw)
	}

	ref := &RepoRef{
		Owner: segs[0],
		Name:  strings.TrimSuffix(segs[1], ".git"),
	}
	if len(segs) >= 4 && (segs[2] == "tree" || segs[2] == "blob") {
		ref.Branch = segs[3]
		if len(segs) > 4 {
			ref.Path = strings.Join(segs[4:], "/")
		}
	}
	return ref, nil
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// TreeOptions configures a repository tree resolution.
type TreeOptions struct {
	Path       string   // restrict to this subtree
	Branch     string   // bypass main/master detection
	Extensions []string // DefaultExtensions if empty
	MaxDepth   int      // path segments relative to Path; 0 means unlimited
}

// TreeResult is a resolved repository documentation tree.
// Truncated means the remote reported an incomplete listing; the partial
// result is usable but callers should surface the completeness warning.
type TreeResult struct {
	Repo           string
	Branch         string
	Tree           []*DocTreeNode
	FileCount      int
	TotalSizeBytes int64
	Truncated      bool
}

// FetchedFile is one successfully downloaded repository file.
type FetchedFile struct {
	Path    string
	Content string
}

// BulkFetchResult reports a best-effort batch download. Individual missing
// files land in NotFound; they never fail the batch.
type BulkFetchResult struct {
	Files    []FetchedFile
	NotFound []string
}

// RateSnapshot is a point-in-time view of the remote API quota.
type RateSnapshot struct {
	Limit     int
	Remaining int
	Reset     time.Time
	Known     bool // false until a response has been observed
}

// TreeFetcher resolves GitHub repository trees and downloads file content.
// Tree resolution consumes the shared API quota; file content goes through
// an unthrottled raw channel.
type TreeFetcher interface {
	ResolveTree(ctx context.Context, repoID string, opts TreeOptions) (*TreeResult, error)
	FetchFileContent(ctx context.Context, repoID, branch, path string) (string, error)
	FetchManyFiles(ctx context.Context, repoID, branch string, paths []string) (*BulkFetchResult, error)
}
