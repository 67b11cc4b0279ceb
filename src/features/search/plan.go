// Package search translates free-form search parameters into the FTS MATCH
// expression the store executes.
package search

import (
	"fmt"
	"strings"

	"github.com/lrclib/lrclib-go/src/features/normalize"
)

// Params are the raw, un-normalized query parameters GET /api/search
// accepts.
type Params struct {
	Q          string
	TrackName  string
	ArtistName string
	AlbumName  string
}

// Plan is the normalized form of Params plus the derived FTS expression;
// Empty reports whether the query should short-circuit to an empty result
// without touching the store.
type Plan struct {
	Q          string
	TrackName  string
	ArtistName string
	AlbumName  string
	FTSExpr    string
	Empty      bool
}

// Build normalizes p and constructs the FTS MATCH expression per spec.md
// §4.6. ORDER BY rank is always applied by the store regardless of word
// count (see SPEC_FULL.md §9's resolved open questions), so Plan carries no
// ordering flag.
func Build(p Params) Plan {
	q, _ := normalize.ProcessParam(p.Q)
	trackName, _ := normalize.ProcessParam(p.TrackName)
	artistName, _ := normalize.ProcessParam(p.ArtistName)
	albumName, _ := normalize.ProcessParam(p.AlbumName)

	plan := Plan{Q: q, TrackName: trackName, ArtistName: artistName, AlbumName: albumName}

	if q == "" && trackName == "" {
		plan.Empty = true
		return plan
	}

	if q != "" {
		plan.FTSExpr = q
		return plan
	}

	var b strings.Builder
	fmt.Fprintf(&b, `(name_lower : "%s")`, trackName)
	if artistName != "" {
		fmt.Fprintf(&b, ` AND (artist_name_lower : %s)`, artistName)
	}
	if albumName != "" {
		fmt.Fprintf(&b, ` AND (album_name_lower : "%s")`, albumName)
	}
	plan.FTSExpr = b.String()
	return plan
}

// CacheKey is the normalized cache key spec.md §4.6 names:
// "<q>:<track>:<artist>:<album>" with empties rendered as "".
func (p Plan) CacheKey() string {
	return strings.Join([]string{p.Q, p.TrackName, p.ArtistName, p.AlbumName}, ":")
}
