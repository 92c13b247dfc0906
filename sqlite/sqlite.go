// Package sqlite provides SQLite-based storage implementations for docdex
// services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set busy timeout to wait 5 seconds before failing on lock contention.
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Enable WAL mode for file-based databases for better write performance.
	// Not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
//
// An entry is the unit of replacement: cache_files and cache_indexes hang
// off cache_entries via cascading foreign keys, so deleting an entry row
// removes its content atomically within the surrounding transaction.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			source_kind TEXT NOT NULL,
			id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			repo TEXT NOT NULL DEFAULT '',
			branch TEXT NOT NULL DEFAULT '',
			base_url TEXT NOT NULL DEFAULT '',
			indexed_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			page_count INTEGER NOT NULL DEFAULT 0,
			total_size_bytes INTEGER NOT NULL DEFAULT 0,
			tree TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (source_kind, id)
		);

		CREATE TABLE IF NOT EXISTS cache_files (
			source_kind TEXT NOT NULL,
			entry_id TEXT NOT NULL,
			path TEXT NOT NULL,
			content TEXT NOT NULL,
			content_hash TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (source_kind, entry_id, path),
			FOREIGN KEY (source_kind, entry_id)
				REFERENCES cache_entries(source_kind, id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS cache_indexes (
			source_kind TEXT NOT NULL,
			entry_id TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (source_kind, entry_id),
			FOREIGN KEY (source_kind, entry_id)
				REFERENCES cache_entries(source_kind, id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_cache_entries_indexed_at ON cache_entries(indexed_at);
	`

	_, err := db.db.Exec(schema)
	return err
}
