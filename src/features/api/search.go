package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lrclib/lrclib-go/src/features/search"
	"github.com/lrclib/lrclib-go/src/infra/apperr"
)

// searchStaleAfter is how old a cached search result may get before a hit
// triggers a background refresh rather than being treated as a plain miss.
const searchStaleAfter = 20 * time.Hour

// cachedSearch is the value encoded into the search cache: the serialized
// response body plus the time it was computed.
type cachedSearch struct {
	Body      json.RawMessage `json:"body"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Search handles GET /api/search with stale-while-revalidate caching: a hit
// younger than searchStaleAfter is returned as-is; an older hit is returned
// immediately while a background task recomputes and overwrites it; a full
// miss is computed synchronously.
func (h *Handler) Search(c *fiber.Ctx) error {
	plan := search.Build(search.Params{
		Q:          c.Query("q"),
		TrackName:  c.Query("track_name"),
		ArtistName: c.Query("artist_name"),
		AlbumName:  c.Query("album_name"),
	})

	if plan.Empty {
		return c.JSON([]TrackResponse{})
	}

	key := plan.CacheKey()
	if raw, ok := h.caches.Search.Get(key); ok {
		var cached cachedSearch
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			if time.Since(cached.CreatedAt) >= searchStaleAfter {
				go h.refreshSearch(context.Background(), key, plan)
			}
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(cached.Body)
		}
	}

	body, err := h.computeSearch(c.Context(), plan)
	if err != nil {
		return err
	}
	h.storeSearchCache(key, body)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *Handler) computeSearch(ctx context.Context, plan search.Plan) ([]byte, error) {
	tracks, err := h.store.SearchTracks(ctx, plan.FTSExpr)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	responses := make([]TrackResponse, len(tracks))
	for i := range tracks {
		responses[i] = toTrackResponse(&tracks[i])
	}
	body, err := json.Marshal(responses)
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return body, nil
}

func (h *Handler) storeSearchCache(key string, body []byte) {
	encoded, err := json.Marshal(cachedSearch{Body: body, CreatedAt: time.Now().UTC()})
	if err != nil {
		slog.Error("marshal search cache entry", "error", err)
		return
	}
	h.caches.Search.Set(key, string(encoded))
}

func (h *Handler) refreshSearch(ctx context.Context, key string, plan search.Plan) {
	body, err := h.computeSearch(ctx, plan)
	if err != nil {
		slog.Error("refresh search cache", "error", err, "key", key)
		return
	}
	h.storeSearchCache(key, body)
}
