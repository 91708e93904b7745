// Package index provides SQLite-backed song indexing with optional FTS5
// full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS songs (
	path       TEXT PRIMARY KEY,
	title      TEXT NOT NULL DEFAULT '',
	sort_title TEXT NOT NULL DEFAULT '',
	key        TEXT NOT NULL DEFAULT '',
	time       TEXT NOT NULL DEFAULT '',
	feel       TEXT NOT NULL DEFAULT '',
	checksum   TEXT NOT NULL DEFAULT '',
	lyrics     TEXT NOT NULL DEFAULT '',
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_songs_sort_title ON songs(sort_title);
CREATE INDEX IF NOT EXISTS idx_songs_key ON songs(key);
`

// SongIndex defines the interface for song indexing operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type SongIndex interface {
	UpsertSong(s SongRow, lyrics string) error
	DeleteSong(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	ListSongs(limit, offset int, key, sort string) ([]SongRow, int, error)
	KeyCounts() ([]KeyCount, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies SongIndex at compile time.
var _ SongIndex = (*DB)(nil)

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
