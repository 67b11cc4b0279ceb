package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lrclib/lrclib-go/src/catalog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := t.Name() + "?mode=memory&cache=shared"
	s, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedTrack(t *testing.T, s *Store) int64 {
	t.Helper()
	id, err := s.AddTrack(context.Background(), nil, &catalog.Track{
		Name: "Yesterday", NameLower: "yesterday",
		ArtistName: "The Beatles", ArtistLower: "the beatles",
		AlbumName: "Help!", AlbumLower: "help",
		Duration: 125.0,
	})
	if err != nil {
		t.Fatalf("AddTrack: %v", err)
	}
	return id
}

func TestAddAndGetTrackByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedTrack(t, s)

	got, err := s.GetTrackByID(ctx, id)
	if err != nil {
		t.Fatalf("GetTrackByID: %v", err)
	}
	if got == nil {
		t.Fatal("expected a track, got nil")
	}
	if got.Name != "Yesterday" || got.Lyrics != nil {
		t.Fatalf("unexpected track: %+v", got)
	}
}

func TestGetTrackByIDMissingReturnsNil(t *testing.T) {
	s := newTestStore(t)
	got, err := s.GetTrackByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetTrackByID: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing track, got %+v", got)
	}
}

func TestGetTrackByMetadataAlbumFallback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedTrack(t, s)

	// Exact album match.
	got, err := s.GetTrackByMetadata(ctx, "yesterday", "the beatles", "help", 125.0, true)
	if err != nil {
		t.Fatalf("GetTrackByMetadata: %v", err)
	}
	if got == nil {
		t.Fatal("expected exact-album match")
	}

	// Wrong album: no match.
	got, err = s.GetTrackByMetadata(ctx, "yesterday", "the beatles", "wrong", 125.0, true)
	if err != nil {
		t.Fatalf("GetTrackByMetadata: %v", err)
	}
	if got != nil {
		t.Fatal("expected no match for wrong album")
	}

	// No album filter: matches.
	got, err = s.GetTrackByMetadata(ctx, "yesterday", "the beatles", "", 125.0, true)
	if err != nil {
		t.Fatalf("GetTrackByMetadata: %v", err)
	}
	if got == nil {
		t.Fatal("expected match when album filter is dropped")
	}
}

func TestAddLyricsAndSetLastLyricsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trackID := seedTrack(t, s)

	plain := "Yesterday, all my troubles..."
	lyrics := catalog.NewLyrics(&plain, nil, trackID, false, strPtr(catalog.SourceLrclib))

	lyricsID, err := s.AddLyrics(ctx, nil, lyrics)
	if err != nil {
		t.Fatalf("AddLyrics: %v", err)
	}

	got, err := s.GetTrackByID(ctx, trackID)
	if err != nil {
		t.Fatalf("GetTrackByID: %v", err)
	}
	if got.Lyrics != nil {
		t.Fatal("expected last_lyrics_id unset before SetLastLyricsID runs")
	}

	err = s.WithTx(ctx, func(tx *sql.Tx) error {
		return s.SetLastLyricsID(ctx, tx, trackID, lyricsID)
	})
	if err != nil {
		t.Fatalf("set last lyrics id: %v", err)
	}

	got, err = s.GetTrackByID(ctx, trackID)
	if err != nil {
		t.Fatalf("GetTrackByID: %v", err)
	}
	if got.Lyrics == nil || got.Lyrics.PlainLyrics == nil || *got.Lyrics.PlainLyrics != plain {
		t.Fatalf("expected joined lyrics after set, got %+v", got.Lyrics)
	}
}

func strPtr(s string) *string { return &s }

func TestMissingTrackDedup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.AddMissingTrack(ctx, &catalog.MissingTrack{
		Name: "Ghost Song", NameLower: "ghost song",
		ArtistName: "Unknown", ArtistLower: "unknown",
		Duration: 200,
	})
	if err != nil {
		t.Fatalf("AddMissingTrack: %v", err)
	}

	gotID, ok, err := s.GetMissingTrackIDByMetadata(ctx, "ghost song", "unknown", "", 200)
	if err != nil {
		t.Fatalf("GetMissingTrackIDByMetadata: %v", err)
	}
	if !ok || gotID != id {
		t.Fatalf("expected dedup hit id=%d, got ok=%v id=%d", id, ok, gotID)
	}
}

func TestCleanOldMissingTracks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO missing_tracks (name, name_lower, artist_name, artist_lower, album_name, album_lower, duration, created_at)
		VALUES ('old', 'old', 'old', 'old', '', '', 100, ?)
	`, time.Now().UTC().Add(-15*24*time.Hour))
	if err != nil {
		t.Fatalf("seed old row: %v", err)
	}

	n, err := s.CleanOldMissingTracks(ctx)
	if err != nil {
		t.Fatalf("CleanOldMissingTracks: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted %d rows, want 1", n)
	}
}

func TestRecentLrclibLyricsCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	trackID := seedTrack(t, s)

	plain := "la la la"
	lyrics := catalog.NewLyrics(&plain, nil, trackID, false, strPtr(catalog.SourceLrclib))
	if _, err := s.AddLyrics(ctx, nil, lyrics); err != nil {
		t.Fatalf("AddLyrics: %v", err)
	}

	count, err := s.RecentLrclibLyricsCount(ctx)
	if err != nil {
		t.Fatalf("RecentLrclibLyricsCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}
