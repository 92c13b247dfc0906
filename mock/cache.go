package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.CacheStore = (*CacheStore)(nil)

// CacheStore is a mock implementation of docdex.CacheStore.
type CacheStore struct {
	WriteEntryFn  func(ctx context.Context, entry *docdex.CacheEntry) error
	ReadMetaFn    func(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error)
	ReadFileFn    func(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error)
	ReadIndexFn   func(ctx context.Context, kind docdex.SourceKind, id string) ([]byte, error)
	ExistsFn      func(ctx context.Context, kind docdex.SourceKind, id string) (bool, error)
	ListEntriesFn func(ctx context.Context) ([]*docdex.CacheEntryMeta, error)
	DeleteEntryFn func(ctx context.Context, kind docdex.SourceKind, id string) error
	DeleteAllFn   func(ctx context.Context) (int, error)
}

func (s *CacheStore) WriteEntry(ctx context.Context, entry *docdex.CacheEntry) error {
	return s.WriteEntryFn(ctx, entry)
}

func (s *CacheStore) ReadMeta(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error) {
	return s.ReadMetaFn(ctx, kind, id)
}

func (s *CacheStore) ReadFile(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error) {
	return s.ReadFileFn(ctx, kind, id, path)
}

func (s *CacheStore) ReadIndex(ctx context.Context, kind docdex.SourceKind, id string) ([]byte, error) {
	return s.ReadIndexFn(ctx, kind, id)
}

func (s *CacheStore) Exists(ctx context.Context, kind docdex.SourceKind, id string) (bool, error) {
	return s.ExistsFn(ctx, kind, id)
}

func (s *CacheStore) ListEntries(ctx context.Context) ([]*docdex.CacheEntryMeta, error) {
	return s.ListEntriesFn(ctx)
}

func (s *CacheStore) DeleteEntry(ctx context.Context, kind docdex.SourceKind, id string) error {
	return s.DeleteEntryFn(ctx, kind, id)
}

func (s *CacheStore) DeleteAll(ctx context.Context) (int, error) {
	return s.DeleteAllFn(ctx)
}
