// Package api holds the fiber handlers for the public HTTP surface: track
// lookup, search, challenge issuance, publishing and flagging.
package api

// PublishRequest is the POST /api/publish body.
type PublishRequest struct {
	TrackName    string  `json:"track_name" validate:"required"`
	ArtistName   string  `json:"artist_name" validate:"required"`
	AlbumName    string  `json:"album_name"`
	Duration     float64 `json:"duration" validate:"required,min=1,max=3600"`
	PlainLyrics  *string `json:"plain_lyrics"`
	SyncedLyrics *string `json:"synced_lyrics"`
}

// FlagRequest is the POST /api/flag body.
type FlagRequest struct {
	TrackID int64  `json:"track_id" validate:"required"`
	Content string `json:"content"`
}

// TrackResponse is the camelCase JSON shape returned by the get/search
// endpoints.
type TrackResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  *string `json:"plainLyrics"`
	SyncedLyrics *string `json:"syncedLyrics"`
}

// ChallengeResponse is the POST /api/request-challenge body.
type ChallengeResponse struct {
	Prefix string `json:"prefix"`
	Target string `json:"target"`
}
