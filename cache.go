package docdex

import (
	"context"
	"time"
)

// SourceKind identifies how a documentation set was acquired.
type SourceKind string

// Source kinds.
const (
	SourceGitHub  SourceKind = "github"
	SourceScraped SourceKind = "scraped"
)

// Cache TTLs. Scraped content is presumed to drift faster and carries lower
// fetch confidence, so it expires much sooner than repository content.
const (
	GitHubTTL  = 7 * 24 * time.Hour
	ScrapedTTL = 24 * time.Hour
)

// TTLFor returns the cache TTL for a source kind.
func TTLFor(kind SourceKind) time.Duration {
	if kind == SourceScraped {
		return ScrapedTTL
	}
	return GitHubTTL
}

// CacheEntryMeta describes one indexed documentation set.
// Exactly one of Repo and BaseURL is populated, governed by SourceKind.
type CacheEntryMeta struct {
	ID             string         `json:"id"`
	SourceKind     SourceKind     `json:"sourceKind"`
	Repo           string         `json:"repo,omitempty"`
	Branch         string         `json:"branch,omitempty"`
	BaseURL        string         `json:"baseUrl,omitempty"`
	IndexedAt      time.Time      `json:"indexedAt"`
	ExpiresAt      time.Time      `json:"expiresAt"`
	PageCount      int            `json:"pageCount"`
	TotalSizeBytes int64          `json:"totalSizeBytes"`
	Tree           []*DocTreeNode `json:"tree"`
}

// Validate returns an error if the metadata is internally inconsistent.
func (m *CacheEntryMeta) Validate() error {
	if m.ID == "" {
		return Errorf(EINVALID, "cache entry ID required")
	}
	switch m.SourceKind {
	case SourceGitHub:
		if m.Repo == "" || m.BaseURL != "" {
			return Errorf(EINVALID, "github entry must set repo and not baseUrl")
		}
	case SourceScraped:
		if m.BaseURL == "" || m.Repo != "" {
			return Errorf(EINVALID, "scraped entry must set baseUrl and not repo")
		}
	default:
		return Errorf(EINVALID, "unknown source kind %q", m.SourceKind)
	}
	return nil
}

// Expired reports whether the entry is past its TTL at the given instant.
func (m *CacheEntryMeta) Expired(now time.Time) bool {
	return now.After(m.ExpiresAt)
}

// CacheEntry is a fully materialized indexing result handed to the cache
// store as one logical unit.
type CacheEntry struct {
	Meta  *CacheEntryMeta
	Files map[string]string // relative path -> content
	Index []byte            // serialized search index
}

// CacheStore persists indexed documentation sets keyed by (sourceKind, id).
//
// WriteEntry must be atomic: a reader never observes new metadata pointing
// at missing content or a stale index. Writing an existing key replaces the
// old entry wholesale; old and new content are never merged.
type CacheStore interface {
	WriteEntry(ctx context.Context, entry *CacheEntry) error

	// ReadMeta returns ENOTFOUND if the entry does not exist.
	ReadMeta(ctx context.Context, kind SourceKind, id string) (*CacheEntryMeta, error)

	// ReadFile returns ENOTFOUND if the entry or the file does not exist.
	ReadFile(ctx context.Context, kind SourceKind, id, path string) (string, error)

	// ReadIndex returns the serialized search index blob for an entry.
	ReadIndex(ctx context.Context, kind SourceKind, id string) ([]byte, error)

	Exists(ctx context.Context, kind SourceKind, id string) (bool, error)

	// ListEntries enumerates all cached sets, most recently indexed first.
	ListEntries(ctx context.Context) ([]*CacheEntryMeta, error)

	// DeleteEntry removes one entry. Returns ENOTFOUND if absent.
	DeleteEntry(ctx context.Context, kind SourceKind, id string) error

	// DeleteAll removes every entry and returns the number removed.
	DeleteAll(ctx context.Context) (int, error)
}
