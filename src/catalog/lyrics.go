package catalog

import "time"

// Lyrics is one published version of a Track's lyrics. Either or both of
// PlainLyrics/SyncedLyrics may be set unless Instrumental is true, in which
// case both are nil.
type Lyrics struct {
	ID              int64
	PlainLyrics     *string
	SyncedLyrics    *string
	HasPlainLyrics  bool
	HasSyncedLyrics bool
	Instrumental    bool
	TrackID         int64
	Source          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewLyrics derives the has-lyrics flags from the content, coercing empty
// strings to nil the way the store is required to.
func NewLyrics(plain, synced *string, trackID int64, instrumental bool, source *string) *Lyrics {
	plain = nonEmpty(plain)
	synced = nonEmpty(synced)
	if instrumental {
		plain, synced = nil, nil
	}
	return &Lyrics{
		PlainLyrics:     plain,
		SyncedLyrics:    synced,
		HasPlainLyrics:  plain != nil,
		HasSyncedLyrics: synced != nil,
		Instrumental:    instrumental,
		TrackID:         trackID,
		Source:          source,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// SourceLrclib marks a Lyrics row as user-published through this service.
const SourceLrclib = "lrclib"
