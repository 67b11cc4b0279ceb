package catalog

import (
	"math"
	"strconv"
	"time"
)

// MissingTrack is a lookup that found no matching Track, recorded so a
// background worker can try to source lyrics for it later. Equality and
// hashing for dedup purposes are on (NameLower, ArtistLower, AlbumLower,
// round(Duration)).
type MissingTrack struct {
	ID          int64
	Name        string
	NameLower   string
	ArtistName  string
	ArtistLower string
	AlbumName   string
	AlbumLower  string
	Duration    float64
	CreatedAt   time.Time
}

// Key is the dedup key for the "get" cache consulted before the durable
// missing_tracks lookup; that lookup itself matches duration within +/-2s.
func (m MissingTrack) Key() string {
	return m.NameLower + "\x00" + m.ArtistLower + "\x00" + m.AlbumLower + "\x00" + roundedDuration(m.Duration)
}

func roundedDuration(d float64) string {
	return strconv.FormatInt(int64(math.Round(d)), 10)
}
