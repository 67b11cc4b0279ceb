package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lrclib/lrclib-go/src/catalog"
)

// maxCleanOldBatch bounds how many missing_tracks rows a single clean_old
// sweep deletes, per spec.md §3.
const maxCleanOldBatch = 10_000

const missingRetention = 14 * 24 * time.Hour

// GetMissingTrackIDByMetadata looks up a durable missing_tracks row by the
// same normalized-equality rule as GetTrackByMetadata, with album always
// compared and duration matched within +/-2.0 seconds (not rounded).
func (s *Store) GetMissingTrackIDByMetadata(ctx context.Context, nameN, artistN, albumN string, duration float64) (int64, bool, error) {
	const query = `
		SELECT id FROM missing_tracks
		WHERE name_lower = ? AND artist_lower = ? AND album_lower = ? AND duration BETWEEN ? AND ?
		ORDER BY id ASC LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, nameN, artistN, albumN, duration-2.0, duration+2.0)

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get missing track id by metadata: %w", err)
	}
	return id, true, nil
}

// AddMissingTrack inserts a durable record of a lookup miss and returns its
// id.
func (s *Store) AddMissingTrack(ctx context.Context, m *catalog.MissingTrack) (int64, error) {
	const insert = `
		INSERT INTO missing_tracks (name, name_lower, artist_name, artist_lower, album_name, album_lower, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, insert,
		m.Name, m.NameLower, m.ArtistName, m.ArtistLower, m.AlbumName, m.AlbumLower, m.Duration, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("add missing track: %w", err)
	}
	return res.LastInsertId()
}

// CleanOldMissingTracks deletes missing_tracks rows older than 14 days, at
// most maxCleanOldBatch per call, and reports how many were removed.
func (s *Store) CleanOldMissingTracks(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-missingRetention)
	const del = `
		DELETE FROM missing_tracks WHERE id IN (
			SELECT id FROM missing_tracks WHERE created_at < ? LIMIT ?
		)
	`
	res, err := s.db.ExecContext(ctx, del, cutoff, maxCleanOldBatch)
	if err != nil {
		return 0, fmt.Errorf("clean old missing tracks: %w", err)
	}
	return res.RowsAffected()
}
