// Package store provides a SQLite-backed cache of parsed usage events,
// keyed by transcript file identity so unchanged files need no re-parse.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jdhollis/cquota/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed event caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a transcript file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveFileEvents replaces the cached events for one file and updates its
// tracking info. The whole file is rewritten in one transaction so a reader
// never observes a partially updated file.
func (c *Cache) SaveFileEvents(path string, mtimeNs, sizeBytes int64, events []model.UsageEvent) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, path, mtimeNs, sizeBytes); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM events WHERE file_path = ?", path); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO events
		(file_path, ts_unix_ns, input_tokens, output_tokens, cache_write_tokens, cache_read_tokens, model)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range events {
		var tsNs int64
		if e.HasTimestamp() {
			tsNs = e.Timestamp.UnixNano()
		}
		if _, err := stmt.Exec(path, tsNs, e.InputTokens, e.OutputTokens,
			e.CacheWriteTokens, e.CacheReadTokens, e.Model); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadEvents reads all cached events, keyed by source file path.
func (c *Cache) LoadEvents() (map[string][]model.UsageEvent, error) {
	rows, err := c.db.Query(`SELECT
		file_path, ts_unix_ns, input_tokens, output_tokens, cache_write_tokens, cache_read_tokens, model
		FROM events`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string][]model.UsageEvent)
	for rows.Next() {
		var path string
		var tsNs int64
		var e model.UsageEvent
		if err := rows.Scan(&path, &tsNs, &e.InputTokens, &e.OutputTokens,
			&e.CacheWriteTokens, &e.CacheReadTokens, &e.Model); err != nil {
			return nil, err
		}
		if tsNs != 0 {
			e.Timestamp = time.Unix(0, tsNs).Local()
		}
		result[path] = append(result[path], e)
	}
	return result, rows.Err()
}

// DeleteFile removes a file's tracking entry and its cached events.
func (c *Cache) DeleteFile(path string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", path)
	return err
}

// EventCount returns the number of cached events.
func (c *Cache) EventCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	return count, err
}
