// Package store is the SQLite-backed persistence layer for tracks, lyrics,
// missing-track lookups and flags.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// maxOpenConns bounds the connection pool; SQLite under WAL tolerates one
// writer and many readers, so this mainly caps reader concurrency.
const maxOpenConns = 30

// Store wraps a SQLite connection pool configured for concurrent read-heavy
// access (WAL journal, NORMAL sync, in-memory temp store, mmap).
type Store struct {
	db *sql.DB
}

// New opens path (or creates it) and ensures the schema exists. path may be
// ":memory:" or a unique name for a "file:<name>?mode=memory&cache=shared"
// DSN in tests.
func New(path string) (*Store, error) {
	pragmas := "_journal_mode=WAL&_synchronous=NORMAL&_temp_store=MEMORY&_foreign_keys=on"
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := fmt.Sprintf("file:%s%s%s", path, sep, pragmas)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	if _, err := db.Exec(`PRAGMA mmap_size = 268435456;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable mmap: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			name_lower TEXT NOT NULL,
			artist_name TEXT NOT NULL,
			artist_lower TEXT NOT NULL,
			album_name TEXT NOT NULL DEFAULT '',
			album_lower TEXT NOT NULL DEFAULT '',
			duration REAL NOT NULL,
			last_lyrics_id INTEGER,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_metadata
			ON tracks(name_lower, artist_lower, album_lower, duration);

		CREATE TABLE IF NOT EXISTS lyrics (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_id INTEGER NOT NULL REFERENCES tracks(id),
			plain_lyrics TEXT,
			synced_lyrics TEXT,
			has_plain_lyrics BOOLEAN NOT NULL DEFAULT 0,
			has_synced_lyrics BOOLEAN NOT NULL DEFAULT 0,
			instrumental BOOLEAN NOT NULL DEFAULT 0,
			source TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_lyrics_source_created
			ON lyrics(source, created_at);

		CREATE TABLE IF NOT EXISTS missing_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			name_lower TEXT NOT NULL,
			artist_name TEXT NOT NULL,
			artist_lower TEXT NOT NULL,
			album_name TEXT NOT NULL DEFAULT '',
			album_lower TEXT NOT NULL DEFAULT '',
			duration REAL NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_missing_tracks_metadata
			ON missing_tracks(name_lower, artist_lower, album_lower, duration);

		CREATE TABLE IF NOT EXISTS flags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			lyrics_id INTEGER NOT NULL REFERENCES lyrics(id),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS tracks_fts USING fts5(
			name_lower, artist_name_lower, album_name_lower,
			content='tracks', content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS tracks_fts_ai AFTER INSERT ON tracks BEGIN
			INSERT INTO tracks_fts(rowid, name_lower, artist_name_lower, album_name_lower)
			VALUES (new.id, new.name_lower, new.artist_lower, new.album_lower);
		END;

		CREATE TRIGGER IF NOT EXISTS tracks_fts_ad AFTER DELETE ON tracks BEGIN
			INSERT INTO tracks_fts(tracks_fts, rowid, name_lower, artist_name_lower, album_name_lower)
			VALUES ('delete', old.id, old.name_lower, old.artist_lower, old.album_lower);
		END;

		CREATE TRIGGER IF NOT EXISTS tracks_fts_au AFTER UPDATE ON tracks BEGIN
			INSERT INTO tracks_fts(tracks_fts, rowid, name_lower, artist_name_lower, album_name_lower)
			VALUES ('delete', old.id, old.name_lower, old.artist_lower, old.album_lower);
			INSERT INTO tracks_fts(rowid, name_lower, artist_name_lower, album_name_lower)
			VALUES (new.id, new.name_lower, new.artist_lower, new.album_lower);
		END;
	`)
	return err
}

// withTx runs fn inside a transaction, rolling back on error or panic and
// committing otherwise.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
