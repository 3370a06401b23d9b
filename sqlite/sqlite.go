// Package sqlite provides the SQLite system of record for fedreg services.
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

	// Verify connection. A store that cannot be reached at startup is fatal
	// for pipeline construction.
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

	// Enable foreign key constraints so agency rows cascade with their
	// owning document.
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

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			document_number TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			abstract TEXT NOT NULL DEFAULT '',
			document_type TEXT NOT NULL DEFAULT '',
			publication_date TEXT NOT NULL DEFAULT '',
			start_page INTEGER NOT NULL DEFAULT 0,
			end_page INTEGER NOT NULL DEFAULT 0,
			page_length INTEGER NOT NULL DEFAULT 0,
			pdf_url TEXT NOT NULL DEFAULT '',
			html_url TEXT NOT NULL DEFAULT '',
			agencies TEXT NOT NULL DEFAULT '[]',
			excerpt TEXT NOT NULL DEFAULT '',
			full_text TEXT NOT NULL DEFAULT '',
			docket_ids TEXT NOT NULL DEFAULT '[]',
			cfr_references TEXT NOT NULL DEFAULT '[]',
			comments_close_on TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			raw_json TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_documents_publication_date ON documents(publication_date);
		CREATE INDEX IF NOT EXISTS idx_documents_document_type ON documents(document_type);

		CREATE TABLE IF NOT EXISTS agencies (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			raw_json TEXT NOT NULL DEFAULT '',
			UNIQUE(document_id, name)
		);

		CREATE INDEX IF NOT EXISTS idx_agencies_name ON agencies(name);
	`

	_, err := db.db.Exec(schema)
	return err
}

// ftsColumns are the searchable columns mirrored into the fulltext index.
const ftsColumns = "title, abstract, excerpt, full_text, raw_json"

// CreateFulltextIndex creates the FTS5 index over the searchable columns and
// the triggers that keep it synchronized with the documents table. Callers
// treat failure as best-effort: without the index, search falls back to
// substring matching.
func (db *DB) CreateFulltextIndex() error {
	stmts := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
			title, abstract, excerpt, full_text, raw_json,
			content='documents', content_rowid='rowid'
		)`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, ` + ftsColumns + `)
			VALUES (new.rowid, new.title, new.abstract, new.excerpt, new.full_text, new.raw_json);
		END`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_ad AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, ` + ftsColumns + `)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.excerpt, old.full_text, old.raw_json);
		END`,
		`CREATE TRIGGER IF NOT EXISTS documents_fts_au AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, ` + ftsColumns + `)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.excerpt, old.full_text, old.raw_json);
			INSERT INTO documents_fts(rowid, ` + ftsColumns + `)
			VALUES (new.rowid, new.title, new.abstract, new.excerpt, new.full_text, new.raw_json);
		END`,
		// Backfill rows written before the index existed.
		`INSERT INTO documents_fts(rowid, ` + ftsColumns + `)
			SELECT rowid, title, abstract, excerpt, full_text, raw_json FROM documents
			WHERE rowid NOT IN (SELECT rowid FROM documents_fts)`,
	}
	for _, stmt := range stmts {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create fulltext index: %w", err)
		}
	}
	return nil
}

// HasFulltextIndex reports whether the fulltext index exists. A probe
// failure reads as absent, which sends search down the substring path.
func (db *DB) HasFulltextIndex(ctx context.Context) bool {
	var name string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'documents_fts'",
	).Scan(&name)
	return err == nil && name == "documents_fts"
}
