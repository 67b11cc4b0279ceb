package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lrclib/lrclib-go/src/catalog"
)

const trackWithLyricsColumns = `
	t.id, t.name, t.name_lower, t.artist_name, t.artist_lower, t.album_name, t.album_lower,
	t.duration, t.last_lyrics_id, t.created_at, t.updated_at,
	l.id, l.plain_lyrics, l.synced_lyrics, l.has_plain_lyrics, l.has_synced_lyrics, l.instrumental
`

const trackWithLyricsFrom = `FROM tracks t LEFT JOIN lyrics l ON l.id = t.last_lyrics_id`

func scanTrackWithLyrics(row rowScanner) (*catalog.TrackWithLyrics, error) {
	var t catalog.TrackWithLyrics
	var lastLyricsID sql.NullInt64
	var lyricsID sql.NullInt64
	var plain, synced sql.NullString
	var hasPlain, hasSynced, instrumental sql.NullBool

	err := row.Scan(
		&t.ID, &t.Name, &t.NameLower, &t.ArtistName, &t.ArtistLower, &t.AlbumName, &t.AlbumLower,
		&t.Duration, &lastLyricsID, &t.CreatedAt, &t.UpdatedAt,
		&lyricsID, &plain, &synced, &hasPlain, &hasSynced, &instrumental,
	)
	if err != nil {
		return nil, err
	}

	if lastLyricsID.Valid {
		id := lastLyricsID.Int64
		t.LastLyricsID = &id
	}
	if lyricsID.Valid {
		t.Lyrics = &catalog.SimpleLyrics{
			ID:              lyricsID.Int64,
			HasPlainLyrics:  hasPlain.Bool,
			HasSyncedLyrics: hasSynced.Bool,
			Instrumental:    instrumental.Bool,
		}
		if plain.Valid {
			v := plain.String
			t.Lyrics.PlainLyrics = &v
		}
		if synced.Valid {
			v := synced.String
			t.Lyrics.SyncedLyrics = &v
		}
	}
	return &t, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// GetTrackByID returns the track joined with its current lyrics, or
// (nil, nil) if no track has that id.
func (s *Store) GetTrackByID(ctx context.Context, id int64) (*catalog.TrackWithLyrics, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.id = ?`, trackWithLyricsColumns, trackWithLyricsFrom)
	row := s.db.QueryRowContext(ctx, query, id)
	track, err := scanTrackWithLyrics(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track by id: %w", err)
	}
	return track, nil
}

// metadataMatch is shared by GetTrackByMetadata and GetTrackIDByMetadata:
// normalized name and artist are required equality matches, album (when
// non-empty) is a normalized equality match, and duration (when hasDuration
// is true) must be within +/-2.0 seconds.
func metadataMatch(nameN, artistN, albumN string, duration float64, hasDuration bool) (string, []any) {
	clause := `name_lower = ? AND artist_lower = ?`
	args := []any{nameN, artistN}
	if albumN != "" {
		clause += ` AND album_lower = ?`
		args = append(args, albumN)
	}
	if hasDuration {
		clause += ` AND duration BETWEEN ? AND ?`
		args = append(args, duration-2.0, duration+2.0)
	}
	return clause, args
}

// GetTrackByMetadata matches on normalized name/artist (required) plus
// optional album and duration-tolerance filters, returning the
// lowest-id match or (nil, nil).
func (s *Store) GetTrackByMetadata(ctx context.Context, nameN, artistN, albumN string, duration float64, hasDuration bool) (*catalog.TrackWithLyrics, error) {
	clause, args := metadataMatch(nameN, artistN, albumN, duration, hasDuration)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY t.id ASC LIMIT 1`, trackWithLyricsColumns, trackWithLyricsFrom, clause)
	row := s.db.QueryRowContext(ctx, query, args...)
	track, err := scanTrackWithLyrics(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track by metadata: %w", err)
	}
	return track, nil
}

// GetTrackIDByMetadata is GetTrackByMetadata without the join, returning
// just the id. tx is optional; pass nil to run outside a transaction.
func (s *Store) GetTrackIDByMetadata(ctx context.Context, tx *sql.Tx, nameN, artistN, albumN string, duration float64, hasDuration bool) (int64, bool, error) {
	clause, args := metadataMatch(nameN, artistN, albumN, duration, hasDuration)
	query := fmt.Sprintf(`SELECT id FROM tracks WHERE %s ORDER BY id ASC LIMIT 1`, clause)

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, args...)
	} else {
		row = s.db.QueryRowContext(ctx, query, args...)
	}

	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get track id by metadata: %w", err)
	}
	return id, true, nil
}

// AddTrack inserts a new track, storing both raw and normalized forms, and
// returns its id. tx is optional; pass nil to run outside a transaction.
func (s *Store) AddTrack(ctx context.Context, tx *sql.Tx, t *catalog.Track) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("add track: %w", err)
	}

	now := time.Now().UTC()
	const insert = `
		INSERT INTO tracks (name, name_lower, artist_name, artist_lower, album_name, album_lower, duration, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{t.Name, t.NameLower, t.ArtistName, t.ArtistLower, t.AlbumName, t.AlbumLower, t.Duration, now, now}

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, insert, args...)
	} else {
		res, err = s.db.ExecContext(ctx, insert, args...)
	}
	if err != nil {
		return 0, fmt.Errorf("add track: %w", err)
	}
	return res.LastInsertId()
}

// SetLastLyricsID points track_id's last_lyrics_id at lyricsID within tx.
func (s *Store) SetLastLyricsID(ctx context.Context, tx *sql.Tx, trackID, lyricsID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE tracks SET last_lyrics_id = ?, updated_at = ? WHERE id = ?`, lyricsID, time.Now().UTC(), trackID)
	if err != nil {
		return fmt.Errorf("set last lyrics id: %w", err)
	}
	return nil
}

// WithTx exposes the transaction helper to callers that need to sequence
// multiple store writes atomically (e.g. add_track + add_lyrics + set
// last_lyrics_id during publish).
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.withTx(ctx, fn)
}
