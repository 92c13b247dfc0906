package docdex

// Heading is one (level, text) pair from a cleaned document body, in
// document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// CleanOptions configures HTML normalization.
type CleanOptions struct {
	// BaseURL resolves relative links and image sources to absolute URLs.
	// Anchor-only links are left untouched. Empty disables rewriting.
	BaseURL string

	// ExtractMain selects the main content container before conversion
	// (nil means true). When false the whole body is converted.
	ExtractMain *bool
}

// Main reports whether main-content selection is enabled (default true).
func (o *CleanOptions) Main() bool {
	return o.ExtractMain == nil || *o.ExtractMain
}

// CleanResult is a normalized document: clean markdown body, title, and the
// heading outline extracted from that same body.
type CleanResult struct {
	Body     string
	Title    string
	Headings []Heading
}

// Cleaner converts a raw HTML document into a structured document, stripping
// navigation chrome and converting the main content to markdown.
type Cleaner interface {
	Clean(html string, opts CleanOptions) (*CleanResult, error)
}
