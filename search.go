package docdex

// IndexableDocument is one file's contribution to the search index.
// ID is the file path, unique within an index. The body is retained by the
// index so snippets can be generated without re-reading the cached file.
type IndexableDocument struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Headings string `json:"headings"`
	Body     string `json:"body"`
}

// SearchResult is one ranked hit with a context snippet.
type SearchResult struct {
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// SearchIndex is a ranked full-text index over indexable documents.
// Title matches rank above heading matches, which rank above body matches.
// Queries tolerate small misspellings and match word prefixes.
type SearchIndex interface {
	// Add indexes one document. Adding an existing ID replaces it.
	Add(doc IndexableDocument) error

	// Search returns up to limit ranked results. An empty or
	// whitespace-only query yields an empty result set without error.
	Search(query string, limit int) ([]SearchResult, error)

	// Serialize renders the index to a versioned portable form that can
	// answer future searches and regenerate snippets on its own.
	Serialize() ([]byte, error)
}
