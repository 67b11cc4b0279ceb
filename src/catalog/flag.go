package catalog

import "time"

// Flag is an append-only user-submitted concern against the current Lyrics
// of a Track.
type Flag struct {
	ID        int64
	LyricsID  int64
	Content   string
	CreatedAt time.Time
}
