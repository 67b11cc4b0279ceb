package api

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lrclib/lrclib-go/src/catalog"
	"github.com/lrclib/lrclib-go/src/features/normalize"
	"github.com/lrclib/lrclib-go/src/infra/apperr"
)

func toTrackResponse(t *catalog.TrackWithLyrics) TrackResponse {
	resp := TrackResponse{
		ID:         t.ID,
		Name:       t.Name,
		ArtistName: t.ArtistName,
		AlbumName:  t.AlbumName,
		Duration:   t.Duration,
	}
	if t.Lyrics != nil {
		resp.Instrumental = t.Lyrics.Instrumental
		resp.PlainLyrics = t.Lyrics.PlainLyrics
		resp.SyncedLyrics = t.Lyrics.SyncedLyrics
	}
	return resp
}

// GetByMetadata handles GET /api/get: validated name/artist, optional
// album/duration, with an album-dropped retry and a fire-and-forget
// missing-track enqueue on a full miss.
func (h *Handler) GetByMetadata(c *fiber.Ctx) error {
	trackName := c.Query("track_name")
	artistName := c.Query("artist_name")
	albumName := c.Query("album_name")

	if strings.TrimSpace(trackName) == "" {
		return apperr.Validationf("ValidationError", "track_name is required")
	}
	if strings.TrimSpace(artistName) == "" {
		return apperr.Validationf("ValidationError", "artist_name is required")
	}

	duration, hasDuration, err := parseDuration(c.Query("duration"))
	if err != nil {
		return err
	}

	nameN, _ := normalize.ProcessParam(trackName)
	artistN, _ := normalize.ProcessParam(artistName)
	albumN, _ := normalize.ProcessParam(albumName)

	ctx := c.Context()

	track, err2 := h.store.GetTrackByMetadata(ctx, nameN, artistN, albumN, duration, hasDuration)
	if err2 != nil {
		return apperr.Wrap(err2)
	}
	if track != nil {
		return c.JSON(toTrackResponse(track))
	}

	if albumN != "" {
		track, err2 = h.store.GetTrackByMetadata(ctx, nameN, artistN, "", duration, hasDuration)
		if err2 != nil {
			return apperr.Wrap(err2)
		}
		if track != nil {
			return c.JSON(toTrackResponse(track))
		}
	}

	go h.handleMissingTrack(context.Background(), catalog.MissingTrack{
		Name: trackName, NameLower: nameN,
		ArtistName: artistName, ArtistLower: artistN,
		AlbumName: albumName, AlbumLower: albumN,
		Duration: duration,
	}, hasDuration)

	return apperr.NotFoundErr("TrackNotFound", "track not found")
}

// GetByID handles GET /api/get/:id.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperr.Validationf("ValidationError", "id must be an integer")
	}

	track, err := h.store.GetTrackByID(c.Context(), id)
	if err != nil {
		return apperr.Wrap(err)
	}
	if track == nil {
		return apperr.NotFoundErr("TrackNotFound", "track not found")
	}
	return c.JSON(toTrackResponse(track))
}

// parseDuration validates the optional duration query parameter against
// spec.md §4.8's [1, 3600] range.
func parseDuration(raw string) (value float64, present bool, err error) {
	if raw == "" {
		return 0, false, nil
	}
	value, parseErr := strconv.ParseFloat(raw, 64)
	if parseErr != nil || value < 1 || value > 3600 {
		return 0, false, apperr.Validationf("ValidationError", "duration must be a number between 1 and 3600")
	}
	return value, true, nil
}

// handleMissingTrack requires album and duration both present; it dedups
// against the "get" cache before consulting the durable missing_tracks
// table, so a burst of identical misses only touches the store once per
// dedup-cache TTL.
func (h *Handler) handleMissingTrack(ctx context.Context, m catalog.MissingTrack, hasDuration bool) {
	if m.AlbumLower == "" || !hasDuration {
		return
	}

	key := m.Key()
	if _, ok := h.caches.Get.Get(key); ok {
		return
	}

	_, found, err := h.store.GetMissingTrackIDByMetadata(ctx, m.NameLower, m.ArtistLower, m.AlbumLower, m.Duration)
	if err != nil {
		slog.Error("check missing track", "error", err, "track", m.Name, "artist", m.ArtistName)
		return
	}
	if !found {
		if _, err := h.store.AddMissingTrack(ctx, &m); err != nil {
			slog.Error("add missing track", "error", err, "track", m.Name, "artist", m.ArtistName)
			return
		}
		if !h.queue.Push(m) {
			slog.Warn("missing track queue full, dropping", "track", m.Name, "artist", m.ArtistName)
		}
	}

	h.caches.Get.Set(key, "1")
}
