package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.TreeFetcher = (*TreeFetcher)(nil)

// TreeFetcher is a mock implementation of docdex.TreeFetcher.
type TreeFetcher struct {
	ResolveTreeFn      func(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error)
	FetchFileContentFn func(ctx context.Context, repo, branch, path string) (string, error)
	FetchManyFilesFn   func(ctx context.Context, repo, branch string, paths []string) (*docdex.BulkFetchResult, error)
}

func (f *TreeFetcher) ResolveTree(ctx context.Context, repo string, opts docdex.TreeOptions) (*docdex.TreeResult, error) {
	return f.ResolveTreeFn(ctx, repo, opts)
}

func (f *TreeFetcher) FetchFileContent(ctx context.Context, repo, branch, path string) (string, error) {
	return f.FetchFileContentFn(ctx, repo, branch, path)
}

func (f *TreeFetcher) FetchManyFiles(ctx context.Context, repo, branch string, paths []string) (*docdex.BulkFetchResult, error) {
	return f.FetchManyFilesFn(ctx, repo, branch, paths)
}
