package main

import (
	"context"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/indexer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// IndexDocumentationInput defines input for the index_documentation tool.
type IndexDocumentationInput struct {
	Source   string `json:"source" jsonschema:"owner/repo, github.com URL, or docs-site URL"`
	Strategy string `json:"strategy,omitempty" jsonschema:"Acquisition strategy: auto, github, or web (default auto)"`
	Force    bool   `json:"force,omitempty" jsonschema:"Re-index even when a fresh cache entry exists"`
	Branch   string `json:"branch,omitempty" jsonschema:"Branch to index (GitHub sources)"`
	Path     string `json:"path,omitempty" jsonschema:"Restrict to a repository subpath"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Crawl depth limit (web sources)"`
	MaxPages int    `json:"max_pages,omitempty" jsonschema:"Crawl page limit (web sources)"`
}

// IndexDocumentationOutput defines output for the index_documentation tool.
type IndexDocumentationOutput struct {
	ID             string `json:"id"`
	SourceKind     string `json:"source_kind"`
	Cached         bool   `json:"cached"`
	Tag            string `json:"tag,omitempty"`
	PageCount      int    `json:"page_count"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	Truncated      bool   `json:"truncated,omitempty"`
	ExpiresAt      string `json:"expires_at"`
}

// GetDocsTreeInput defines input for the get_docs_tree tool.
type GetDocsTreeInput struct {
	Source   string `json:"source" jsonschema:"owner/repo or docs-site URL"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"Clip the tree below this depth"`
}

// GetDocsTreeOutput defines output for the get_docs_tree tool.
type GetDocsTreeOutput struct {
	Source    string                `json:"source"`
	PageCount int                   `json:"page_count"`
	Tree      []*docdex.DocTreeNode `json:"tree"`
}

// GetDocContentInput defines input for the get_doc_content tool.
type GetDocContentInput struct {
	Source string `json:"source" jsonschema:"owner/repo or docs-site URL"`
	Path   string `json:"path" jsonschema:"Document path within the set"`
}

// GetDocContentOutput defines output for the get_doc_content tool.
type GetDocContentOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// SearchDocsInput defines input for the search_docs tool.
type SearchDocsInput struct {
	Source string `json:"source" jsonschema:"owner/repo or docs-site URL"`
	Query  string `json:"query" jsonschema:"Search query"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

// SearchDocsOutput defines output for the search_docs tool.
type SearchDocsOutput struct {
	Query   string                `json:"query"`
	Results []docdex.SearchResult `json:"results"`
}

// DetectGitHubRepoInput defines input for the detect_github_repo tool.
type DetectGitHubRepoInput struct {
	URL string `json:"url" jsonschema:"Documentation site URL"`
}

// ListCachedDocsInput defines input for the list_cached_docs tool.
type ListCachedDocsInput struct{}

// ListCachedDocsOutput defines output for the list_cached_docs tool.
type ListCachedDocsOutput struct {
	Entries []*docdex.CacheEntryMeta `json:"entries"`
}

// ClearDocCacheInput defines input for the clear_doc_cache tool.
type ClearDocCacheInput struct {
	Source string `json:"source,omitempty" jsonschema:"Source to remove; omit with all=true to remove everything"`
	All    bool   `json:"all,omitempty" jsonschema:"Remove every cached set"`
}

// ClearDocCacheOutput defines output for the clear_doc_cache tool.
type ClearDocCacheOutput struct {
	Removed int `json:"removed"`
}

func registerTools(server *mcp.Server, svc *indexer.Service, store docdex.CacheStore) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "index_documentation",
			Description: "Index a documentation source (GitHub repository or docs website) into the local cache for tree, content, and search access.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input IndexDocumentationInput) (*mcp.CallToolResult, IndexDocumentationOutput, error) {
			r := indexer.Request{
				Source:   input.Source,
				Strategy: indexer.Strategy(input.Strategy),
				Force:    input.Force,
				Branch:   input.Branch,
				Path:     input.Path,
			}
			r.Crawl.MaxDepth = input.MaxDepth
			r.Crawl.MaxPages = input.MaxPages

			res, err := svc.Index(ctx, r)
			if err != nil {
				return nil, IndexDocumentationOutput{}, err
			}
			return nil, IndexDocumentationOutput{
				ID:             res.Meta.ID,
				SourceKind:     string(res.Meta.SourceKind),
				Cached:         res.Cached,
				Tag:            res.Tag,
				PageCount:      res.Meta.PageCount,
				TotalSizeBytes: res.Meta.TotalSizeBytes,
				Truncated:      res.Truncated,
				ExpiresAt:      res.Meta.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
			}, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_docs_tree",
			Description: "Return the file/folder tree of an indexed documentation set.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input GetDocsTreeInput) (*mcp.CallToolResult, GetDocsTreeOutput, error) {
			meta, err := svc.Tree(ctx, input.Source, input.MaxDepth)
			if err != nil {
				return nil, GetDocsTreeOutput{}, err
			}
			source := meta.Repo
			if meta.SourceKind == docdex.SourceScraped {
				source = meta.BaseURL
			}
			return nil, GetDocsTreeOutput{
				Source:    source,
				PageCount: meta.PageCount,
				Tree:      meta.Tree,
			}, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_doc_content",
			Description: "Return one document's markdown content from an indexed documentation set.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input GetDocContentInput) (*mcp.CallToolResult, GetDocContentOutput, error) {
			content, err := svc.Content(ctx, input.Source, input.Path)
			if err != nil {
				return nil, GetDocContentOutput{}, err
			}
			return nil, GetDocContentOutput{Path: input.Path, Content: content}, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "search_docs",
			Description: "Full-text search over an indexed documentation set. Returns ranked results with context snippets.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, SearchDocsOutput, error) {
			results, err := svc.Search(ctx, input.Source, input.Query, input.Limit)
			if err != nil {
				return nil, SearchDocsOutput{}, err
			}
			return nil, SearchDocsOutput{Query: input.Query, Results: results}, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "detect_github_repo",
			Description: "Heuristically determine which GitHub repository backs a documentation website.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input DetectGitHubRepoInput) (*mcp.CallToolResult, docdex.GitHubDetectionResult, error) {
			res, err := svc.Detector.Detect(ctx, input.URL)
			if err != nil {
				return nil, docdex.GitHubDetectionResult{}, err
			}
			return nil, *res, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "list_cached_docs",
			Description: "List all indexed documentation sets with their metadata.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input ListCachedDocsInput) (*mcp.CallToolResult, ListCachedDocsOutput, error) {
			entries, err := store.ListEntries(ctx)
			if err != nil {
				return nil, ListCachedDocsOutput{}, err
			}
			return nil, ListCachedDocsOutput{Entries: entries}, nil
		},
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "clear_doc_cache",
			Description: "Remove one indexed documentation set, or all of them.",
		},
		func(ctx context.Context, req *mcp.CallToolRequest, input ClearDocCacheInput) (*mcp.CallToolResult, ClearDocCacheOutput, error) {
			if input.All {
				n, err := svc.ClearAll(ctx)
				if err != nil {
					return nil, ClearDocCacheOutput{}, err
				}
				return nil, ClearDocCacheOutput{Removed: n}, nil
			}
			if input.Source == "" {
				return nil, ClearDocCacheOutput{}, docdex.Errorf(docdex.EINVALID, "source or all=true required")
			}
			if err := svc.Clear(ctx, input.Source); err != nil {
				return nil, ClearDocCacheOutput{}, err
			}
			return nil, ClearDocCacheOutput{Removed: 1}, nil
		},
	)
}
