package store

import (
	"context"
	"fmt"

	"github.com/lrclib/lrclib-go/src/catalog"
)

const searchLimit = 20

// SearchTracks executes an FTS MATCH expression already constructed by the
// search planner, always ordering by rank (per the resolved always-rank
// behavior) and capping results at 20, joining matches to their current
// lyrics.
func (s *Store) SearchTracks(ctx context.Context, ftsExpr string) ([]catalog.TrackWithLyrics, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		JOIN tracks_fts f ON f.rowid = t.id
		WHERE tracks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, trackWithLyricsColumns, trackWithLyricsFrom)

	rows, err := s.db.QueryContext(ctx, query, ftsExpr, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	defer rows.Close()

	var results []catalog.TrackWithLyrics
	for rows.Next() {
		t, err := scanTrackWithLyrics(rows)
		if err != nil {
			return nil, fmt.Errorf("search tracks: scan: %w", err)
		}
		results = append(results, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search tracks: %w", err)
	}
	return results, nil
}
