// Package fs exports cached documentation sets to the local filesystem.
package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docdex/docdex"
)

// Exporter writes a cached documentation set out as a markdown directory
// tree with atomic update semantics. Files land in a temporary directory
// first and move into place on Commit, so an interrupted export never
// leaves a half-written destination.
type Exporter struct {
	store docdex.CacheStore

	baseDir string
	name    string
}

// NewExporter creates an Exporter writing to baseDir/name. Files are staged
// under baseDir/name.tmp until Commit.
func NewExporter(store docdex.CacheStore, baseDir, name string) *Exporter {
	return &Exporter{store: store, baseDir: baseDir, name: name}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Export writes every cached file of one entry into the staging directory
// and commits. It returns the number of files written.
func (e *Exporter) Export(ctx context.Context, kind docdex.SourceKind, id string) (int, error) {
	meta, err := e.store.ReadMeta(ctx, kind, id)
	if err != nil {
		return 0, err
	}

	written := 0
	var walkErr error
	docdex.WalkTree(meta.Tree, func(node *docdex.DocTreeNode) {
		if walkErr != nil || node.Kind != docdex.NodeFile {
			return
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return
		}

		content, err := e.store.ReadFile(ctx, kind, id, node.Path)
		if err != nil {
			walkErr = err
			return
		}
		if err := e.save(node.Path, formatExport(meta, node.Path, content)); err != nil {
			walkErr = err
			return
		}
		written++
	})
	if walkErr != nil {
		e.Abort()
		return 0, walkErr
	}

	if err := e.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

func (e *Exporter) save(relPath, content string) error {
	fullPath := filepath.Join(e.tempDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// Commit atomically replaces the destination directory with the staged one.
func (e *Exporter) Commit() error {
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort discards the staging directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// formatExport prefixes exported content with YAML frontmatter recording
// where it came from.
func formatExport(meta *docdex.CacheEntryMeta, path, content string) string {
	source := meta.Repo
	if meta.SourceKind == docdex.SourceScraped {
		source = meta.BaseURL
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(source)
	b.WriteString("\npath: ")
	b.WriteString(path)
	b.WriteString("\nindexed: ")
	b.WriteString(meta.IndexedAt.Format(time.DateOnly))
	b.WriteString("\n---\n\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
