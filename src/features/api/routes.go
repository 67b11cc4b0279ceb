package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lrclib/lrclib-go/src/features/cache"
	"github.com/lrclib/lrclib-go/src/features/challenge"
	"github.com/lrclib/lrclib-go/src/features/observability"
	"github.com/lrclib/lrclib-go/src/infra/queue"
	"github.com/lrclib/lrclib-go/src/infra/store"
)

// RegisterRoutes wires the /api routes onto app.
func RegisterRoutes(app *fiber.App, s *store.Store, caches *cache.Set, ch *challenge.Engine, q *queue.InMemoryQueue, m *observability.Metrics) {
	handler := NewHandler(s, caches, ch, q, m)

	api := app.Group("/api")
	api.Get("/get", handler.GetByMetadata)
	api.Get("/get/:id", handler.GetByID)
	api.Get("/search", handler.Search)
	api.Post("/request-challenge", handler.RequestChallenge)
	api.Post("/publish", handler.Publish)
	api.Post("/flag", handler.Flag)
}
