package index

import (
	"encoding/json"

	"github.com/docdex/docdex"
)

// serialVersion tags the portable index format. Bump on any change to the
// document schema or to how the index is rebuilt from it.
const serialVersion = 1

// The portable form is the versioned document set, not bleve's on-disk
// representation. Rebuilding the structural index from documents on load
// keeps the blob engine-independent and trivially versionable.
type serialIndex struct {
	Version int                        `json:"version"`
	Docs    []docdex.IndexableDocument `json:"docs"`
}

// Serialize renders the index as a versioned blob from which searches and
// snippets can be answered without re-reading source files.
func (ix *Index) Serialize() ([]byte, error) {
	s := serialIndex{
		Version: serialVersion,
		Docs:    make([]docdex.IndexableDocument, 0, len(ix.ids)),
	}
	for _, id := range ix.ids {
		s.Docs = append(s.Docs, ix.docs[id])
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "failed to serialize index: %v", err)
	}
	return data, nil
}

// Deserialize rebuilds a searchable index from a serialized blob. A version
// mismatch is a hard failure; the caller must re-index from source rather
// than attempt a partial migration.
func Deserialize(data []byte) (*Index, error) {
	var s serialIndex
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "corrupt index data: %v", err)
	}
	if s.Version != serialVersion {
		return nil, docdex.Errorf(docdex.EINVALID, "index version %d not supported (want %d); re-index required", s.Version, serialVersion)
	}

	ix, err := NewIndex()
	if err != nil {
		return nil, err
	}
	for _, doc := range s.Docs {
		if err := ix.Add(doc); err != nil {
			return nil, err
		}
	}
	return ix, nil
}
