// Package index implements the ranked full-text search index over
// normalized documentation files, backed by bleve.
package index

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/docdex/docdex"
)

// Ensure Index implements docdex.SearchIndex at compile time.
var _ docdex.SearchIndex = (*Index)(nil)

// Field boosts. Title matches outrank heading matches, which outrank body
// matches for the same terms.
const (
	titleBoost   = 3.0
	headingBoost = 2.0
	bodyBoost    = 1.0

	// prefixBoostFactor discounts prefix matches relative to full-term
	// matches on the same field.
	prefixBoostFactor = 0.8

	// fuzzyMinTermLength is the shortest query term that gets fuzzy
	// matching. Very short terms produce too many one-edit neighbors.
	fuzzyMinTermLength = 4
)

// Index is an in-memory bleve index over indexable documents. The documents
// themselves are retained alongside the structural index so snippets can be
// generated and the whole thing serialized without re-reading source files.
type Index struct {
	idx  bleve.Index
	docs map[string]docdex.IndexableDocument
	ids  []string // insertion order, for stable serialization
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "failed to create search index: %v", err)
	}
	return &Index{
		idx:  idx,
		docs: make(map[string]docdex.IndexableDocument),
	}, nil
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("headings", text)
	doc.AddFieldMappingsAt("body", text)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Add indexes one document. Adding an existing ID replaces it.
func (ix *Index) Add(doc docdex.IndexableDocument) error {
	if doc.ID == "" {
		return docdex.Errorf(docdex.EINVALID, "document ID required")
	}
	if err := ix.idx.Index(doc.ID, doc); err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "failed to index %q: %v", doc.ID, err)
	}
	if _, exists := ix.docs[doc.ID]; !exists {
		ix.ids = append(ix.ids, doc.ID)
	}
	ix.docs[doc.ID] = doc
	return nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Search returns up to limit ranked results with context snippets.
func (ix *Index) Search(rawQuery string, limit int) ([]docdex.SearchResult, error) {
	terms := strings.Fields(strings.ToLower(rawQuery))
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	req := bleve.NewSearchRequest(buildQuery(terms))
	req.Size = limit

	res, err := ix.idx.Search(req)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "search failed: %v", err)
	}

	results := make([]docdex.SearchResult, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := ix.docs[hit.ID]
		if !ok {
			continue
		}
		results = append(results, docdex.SearchResult{
			Path:    doc.ID,
			Title:   doc.Title,
			Score:   hit.Score,
			Snippet: Snippet(doc.Body, terms),
		})
	}
	return results, nil
}

// buildQuery composes the disjunction of per-term, per-field match and
// prefix queries with field boosts.
func buildQuery(terms []string) query.Query {
	fields := []struct {
		name  string
		boost float64
	}{
		{"title", titleBoost},
		{"headings", headingBoost},
		{"body", bodyBoost},
	}

	var parts []query.Query
	for _, term := range terms {
		for _, f := range fields {
			mq := bleve.NewMatchQuery(term)
			mq.SetField(f.name)
			mq.SetBoost(f.boost)
			if len(term) >= fuzzyMinTermLength {
				mq.SetFuzziness(1)
			}
			parts = append(parts, mq)

			pq := bleve.NewPrefixQuery(term)
			pq.SetField(f.name)
			pq.SetBoost(f.boost * prefixBoostFactor)
			parts = append(parts, pq)
		}
	}
	return bleve.NewDisjunctionQuery(parts...)
}
