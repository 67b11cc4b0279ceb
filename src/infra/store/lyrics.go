package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lrclib/lrclib-go/src/catalog"
)

// AddLyrics inserts a lyrics row derived from l (already normalized via
// catalog.NewLyrics) and returns its id. tx is optional.
func (s *Store) AddLyrics(ctx context.Context, tx *sql.Tx, l *catalog.Lyrics) (int64, error) {
	now := time.Now().UTC()
	const insert = `
		INSERT INTO lyrics (track_id, plain_lyrics, synced_lyrics, has_plain_lyrics, has_synced_lyrics, instrumental, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{l.TrackID, l.PlainLyrics, l.SyncedLyrics, l.HasPlainLyrics, l.HasSyncedLyrics, l.Instrumental, l.Source, now, now}

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, insert, args...)
	} else {
		res, err = s.db.ExecContext(ctx, insert, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("add lyrics: %w", err)
	}
	return res.LastInsertId()
}

// FlagTrackLastLyrics inserts a Flag keyed to trackID's current
// last_lyrics_id. It is a no-op (not an error) if the track has no current
// lyrics.
func (s *Store) FlagTrackLastLyrics(ctx context.Context, trackID int64, content string) error {
	const insert = `
		INSERT INTO flags (lyrics_id, content, created_at)
		SELECT last_lyrics_id, ?, ?
		FROM tracks
		WHERE id = ? AND last_lyrics_id IS NOT NULL
	`
	_, err := s.db.ExecContext(ctx, insert, content, time.Now().UTC(), trackID)
	if err != nil {
		return fmt.Errorf("flag track last lyrics: %w", err)
	}
	return nil
}

// RecentLrclibLyricsCount implements challenge.RecentPublishCounter: the
// number of lyrics rows sourced from this service in the last 10 minutes.
func (s *Store) RecentLrclibLyricsCount(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM lyrics WHERE source = ? AND created_at > ?`
	cutoff := time.Now().UTC().Add(-10 * time.Minute)

	var count int64
	if err := s.db.QueryRowContext(ctx, query, catalog.SourceLrclib, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("recent lrclib lyrics count: %w", err)
	}
	return count, nil
}
