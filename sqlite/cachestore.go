package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/docdex/docdex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docdex.CacheStore = (*CacheStore)(nil)

// CacheStore implements docdex.CacheStore using SQLite.
type CacheStore struct {
	db *DB
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(db *DB) *CacheStore {
	return &CacheStore{db: db}
}

// WriteEntry persists one indexed documentation set in a single transaction.
// An existing entry under the same key is replaced wholesale; the cascade
// on cache_entries removes its old files and index in the same transaction,
// so a reader never observes a half-written entry.
func (s *CacheStore) WriteEntry(ctx context.Context, entry *docdex.CacheEntry) error {
	if entry == nil || entry.Meta == nil {
		return docdex.Errorf(docdex.EINVALID, "cache entry required")
	}
	if err := entry.Meta.Validate(); err != nil {
		return err
	}

	tree, err := json.Marshal(entry.Meta.Tree)
	if err != nil {
		return docdex.Errorf(docdex.EINTERNAL, "failed to encode tree: %v", err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	meta := entry.Meta
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE source_kind = ? AND id = ?
	`, string(meta.SourceKind), meta.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cache_entries (source_kind, id, run_id, repo, branch, base_url,
			indexed_at, expires_at, page_count, total_size_bytes, tree)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, string(meta.SourceKind), meta.ID, uuid.New().String(), meta.Repo, meta.Branch, meta.BaseURL,
		meta.IndexedAt.UTC().Format(time.RFC3339), meta.ExpiresAt.UTC().Format(time.RFC3339),
		meta.PageCount, meta.TotalSizeBytes, string(tree)); err != nil {
		return err
	}

	for path, content := range entry.Files {
		hash := fmt.Sprintf("%016x", xxhash.Sum64String(content))
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cache_files (source_kind, entry_id, path, content, content_hash)
			VALUES (?, ?, ?, ?, ?)
		`, string(meta.SourceKind), meta.ID, path, content, hash); err != nil {
			return err
		}
	}

	if len(entry.Index) > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cache_indexes (source_kind, entry_id, data)
			VALUES (?, ?, ?)
		`, string(meta.SourceKind), meta.ID, entry.Index); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReadMeta retrieves entry metadata.
func (s *CacheStore) ReadMeta(ctx context.Context, kind docdex.SourceKind, id string) (*docdex.CacheEntryMeta, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT source_kind, id, repo, branch, base_url, indexed_at, expires_at,
			page_count, total_size_bytes, tree
		FROM cache_entries
		WHERE source_kind = ? AND id = ?
	`, string(kind), id)

	meta, err := scanMeta(row.Scan)
	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "cache entry not found")
	}
	return meta, err
}

// ReadFile retrieves one cached file's content.
func (s *CacheStore) ReadFile(ctx context.Context, kind docdex.SourceKind, id, path string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM cache_files
		WHERE source_kind = ? AND entry_id = ? AND path = ?
	`, string(kind), id, path).Scan(&content)

	if err == sql.ErrNoRows {
		return "", docdex.Errorf(docdex.ENOTFOUND, "file not found")
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// ReadIndex retrieves the serialized search index blob for an entry.
func (s *CacheStore) ReadIndex(ctx context.Context, kind docdex.SourceKind, id string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM cache_indexes
		WHERE source_kind = ? AND entry_id = ?
	`, string(kind), id).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "search index not found")
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Exists reports whether an entry is present, expired or not.
func (s *CacheStore) Exists(ctx context.Context, kind docdex.SourceKind, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM cache_entries WHERE source_kind = ? AND id = ?
	`, string(kind), id).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListEntries enumerates all cached sets, most recently indexed first.
func (s *CacheStore) ListEntries(ctx context.Context) ([]*docdex.CacheEntryMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_kind, id, repo, branch, base_url, indexed_at, expires_at,
			page_count, total_size_bytes, tree
		FROM cache_entries
		ORDER BY indexed_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*docdex.CacheEntryMeta
	for rows.Next() {
		meta, err := scanMeta(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, meta)
	}
	return entries, rows.Err()
}

// DeleteEntry removes one entry and its content.
func (s *CacheStore) DeleteEntry(ctx context.Context, kind docdex.SourceKind, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE source_kind = ? AND id = ?
	`, string(kind), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "cache entry not found")
	}
	return nil
}

// DeleteAll removes every entry and returns the number removed.
func (s *CacheStore) DeleteAll(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// scanMeta reads one cache_entries row through the given scan function.
func scanMeta(scan func(dest ...any) error) (*docdex.CacheEntryMeta, error) {
	var meta docdex.CacheEntryMeta
	var kind, indexedAt, expiresAt, tree string

	if err := scan(&kind, &meta.ID, &meta.Repo, &meta.Branch, &meta.BaseURL,
		&indexedAt, &expiresAt, &meta.PageCount, &meta.TotalSizeBytes, &tree); err != nil {
		return nil, err
	}

	meta.SourceKind = docdex.SourceKind(kind)

	var parseErr error
	meta.IndexedAt, parseErr = parseRFC3339(indexedAt, "indexed_at")
	if parseErr != nil {
		return nil, parseErr
	}
	meta.ExpiresAt, parseErr = parseRFC3339(expiresAt, "expires_at")
	if parseErr != nil {
		return nil, parseErr
	}

	if err := json.Unmarshal([]byte(tree), &meta.Tree); err != nil {
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	return &meta, nil
}
