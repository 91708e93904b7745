package index

import (
	"fmt"
	"time"
)

// SongRow represents a row in the songs table.
type SongRow struct {
	Path      string
	Title     string
	SortTitle string
	Key       string
	Time      string
	Feel      string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Path    string
	Title   string
	Snippet string
}

// KeyCount is the number of indexed songs in one key.
type KeyCount struct {
	Key   string
	Count int
}

// UpsertSong inserts or replaces a song and its FTS entry within a
// transaction. lyrics is the assembled lyric stream, stored for search.
func (db *DB) UpsertSong(s SongRow, lyrics string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO songs (path, title, sort_title, key, time, feel, checksum, lyrics, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title      = excluded.title,
			sort_title = excluded.sort_title,
			key        = excluded.key,
			time       = excluded.time,
			feel       = excluded.feel,
			checksum   = excluded.checksum,
			lyrics     = excluded.lyrics,
			updated_at = excluded.updated_at
	`, s.Path, s.Title, s.SortTitle, s.Key, s.Time, s.Feel, s.Checksum, lyrics, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert song: %w", err)
	}

	// FTS upsert (no-op when FTS5 tag is absent).
	if err := ftsUpsert(tx, s.Path, s.Title, lyrics); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSong removes a song and its FTS entry.
func (db *DB) DeleteSong(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM songs WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a song, or empty string if
// not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM songs WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed song.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM songs`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

var sortColumns = map[string]string{
	"":           "sort_title COLLATE NOCASE",
	"title":      "sort_title COLLATE NOCASE",
	"path":       "path",
	"updated_at": "updated_at DESC",
	"key":        "key, sort_title COLLATE NOCASE",
}

// ListSongs returns songs ordered by sort, optionally filtered by key,
// with the unfiltered-by-page total.
func (db *DB) ListSongs(limit, offset int, key, sort string) ([]SongRow, int, error) {
	order, ok := sortColumns[sort]
	if !ok {
		return nil, 0, fmt.Errorf("index: invalid sort field %q", sort)
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}

	where := ""
	args := []any{}
	if key != "" {
		where = "WHERE key = ?"
		args = append(args, key)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM songs `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count songs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT path, title, sort_title, key, time, feel, checksum, updated_at
		FROM songs %s ORDER BY %s LIMIT ? OFFSET ?`, where, order)
	args = append(args, limit, offset)

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list songs: %w", err)
	}
	defer rows.Close()

	var out []SongRow
	for rows.Next() {
		var s SongRow
		if err := rows.Scan(&s.Path, &s.Title, &s.SortTitle, &s.Key, &s.Time, &s.Feel, &s.Checksum, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// KeyCounts returns the number of songs per key, most common first.
func (db *DB) KeyCounts() ([]KeyCount, error) {
	rows, err := db.conn.Query(`
		SELECT key, COUNT(*) FROM songs
		WHERE key != ''
		GROUP BY key
		ORDER BY COUNT(*) DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("index: key counts: %w", err)
	}
	defer rows.Close()

	var out []KeyCount
	for rows.Next() {
		var kc KeyCount
		if err := rows.Scan(&kc.Key, &kc.Count); err != nil {
			return nil, err
		}
		out = append(out, kc)
	}
	return out, rows.Err()
}
