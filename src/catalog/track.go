// Package catalog holds the domain types shared by the store, search and
// worker packages: tracks, their lyrics, missing-track lookups and flags.
package catalog

import (
	"fmt"
	"time"
)

// Track is a unique logical recording identified by normalized
// (name, artist, album, duration) within a tolerance of +/-2 seconds.
type Track struct {
	ID             int64
	Name           string
	NameLower      string
	ArtistName     string
	ArtistLower    string
	AlbumName      string
	AlbumLower     string
	Duration       float64
	LastLyricsID   *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the fields a caller must have populated before the track
// reaches the store; normalization is applied separately by the caller.
func (t *Track) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("track name cannot be empty")
	}
	if t.ArtistName == "" {
		return fmt.Errorf("track artist cannot be empty")
	}
	if t.Duration < 0 {
		return fmt.Errorf("track duration cannot be negative, got %f", t.Duration)
	}
	return nil
}

// SimpleLyrics is the subset of a Lyrics row embedded in a Track response.
type SimpleLyrics struct {
	ID               int64
	PlainLyrics      *string
	SyncedLyrics     *string
	HasPlainLyrics   bool
	HasSyncedLyrics  bool
	Instrumental     bool
}

// TrackWithLyrics is a Track joined with its currently-canonical Lyrics row,
// the shape returned by get-by-id, get-by-metadata and search.
type TrackWithLyrics struct {
	Track
	Lyrics *SimpleLyrics
}
