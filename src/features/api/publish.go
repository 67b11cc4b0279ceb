package api

import (
	"database/sql"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lrclib/lrclib-go/src/catalog"
	"github.com/lrclib/lrclib-go/src/features/normalize"
	"github.com/lrclib/lrclib-go/src/infra/apperr"
)

var (
	timestampPrefix    = regexp.MustCompile(`^\[([^\]]*)\] *`)
	instrumentalMarker = regexp.MustCompile(`(?i)\[au:\s*instrumental\]`)
)

const publishTokenHeader = "X-Publish-Token"

// RequestChallenge handles POST /api/request-challenge.
func (h *Handler) RequestChallenge(c *fiber.Ctx) error {
	ch, err := h.challenge.Issue(c.Context())
	if err != nil {
		return apperr.Wrap(err)
	}
	return c.JSON(ChallengeResponse{Prefix: ch.Prefix, Target: ch.Target})
}

func (h *Handler) verifyPublishToken(c *fiber.Ctx) error {
	token := c.Get(publishTokenHeader)
	if token == "" || !h.challenge.Verify(token) {
		return apperr.IncorrectPublishToken()
	}
	return nil
}

// Publish handles POST /api/publish: verifies the proof-of-work token, then
// in one transaction looks up or creates the Track and inserts the Lyrics
// row, deriving plain lyrics from synced lyrics and detecting the
// instrumental marker when needed.
func (h *Handler) Publish(c *fiber.Ctx) error {
	if err := h.verifyPublishToken(c); err != nil {
		return err
	}

	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("ValidationError", "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validationf("ValidationError", "%s", err.Error())
	}

	plain := coerceEmpty(req.PlainLyrics)
	synced := coerceEmpty(req.SyncedLyrics)
	if plain == nil && synced != nil {
		derived := stripTimestamps(*synced)
		plain = &derived
	}

	instrumental := synced != nil && instrumentalMarker.MatchString(*synced)
	if instrumental {
		plain, synced = nil, nil
	}

	nameN, _ := normalize.ProcessParam(req.TrackName)
	artistN, _ := normalize.ProcessParam(req.ArtistName)
	albumN, _ := normalize.ProcessParam(req.AlbumName)

	ctx := c.Context()
	err := h.store.WithTx(ctx, func(tx *sql.Tx) error {
		trackID, found, err := h.store.GetTrackIDByMetadata(ctx, tx, nameN, artistN, albumN, req.Duration, true)
		if err != nil {
			return err
		}
		if !found {
			trackID, err = h.store.AddTrack(ctx, tx, &catalog.Track{
				Name: req.TrackName, NameLower: nameN,
				ArtistName: req.ArtistName, ArtistLower: artistN,
				AlbumName: req.AlbumName, AlbumLower: albumN,
				Duration: req.Duration,
			})
			if err != nil {
				return err
			}
		}

		source := catalog.SourceLrclib
		lyrics := catalog.NewLyrics(plain, synced, trackID, instrumental, &source)
		lyricsID, err := h.store.AddLyrics(ctx, tx, lyrics)
		if err != nil {
			return err
		}
		return h.store.SetLastLyricsID(ctx, tx, trackID, lyricsID)
	})
	if err != nil {
		return apperr.Wrap(err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

// Flag handles POST /api/flag.
func (h *Handler) Flag(c *fiber.Ctx) error {
	if err := h.verifyPublishToken(c); err != nil {
		return err
	}

	var req FlagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validationf("ValidationError", "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return apperr.Validationf("ValidationError", "%s", err.Error())
	}

	if err := h.store.FlagTrackLastLyrics(c.Context(), req.TrackID, req.Content); err != nil {
		return apperr.Wrap(err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func coerceEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// stripTimestamps removes a leading "[mm:ss.xx] " style timestamp from
// every line of synced lyrics, deriving a plain-text fallback.
func stripTimestamps(synced string) string {
	lines := strings.Split(synced, "\n")
	for i, line := range lines {
		lines[i] = timestampPrefix.ReplaceAllString(line, "")
	}
	return strings.Join(lines, "\n")
}
