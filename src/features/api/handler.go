package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/lrclib/lrclib-go/src/features/cache"
	"github.com/lrclib/lrclib-go/src/features/challenge"
	"github.com/lrclib/lrclib-go/src/features/observability"
	"github.com/lrclib/lrclib-go/src/infra/queue"
	"github.com/lrclib/lrclib-go/src/infra/store"
)

// Handler holds the shared state every request handler needs: the store,
// the three TTL caches, the challenge engine and the missing-track queue.
type Handler struct {
	store     *store.Store
	caches    *cache.Set
	challenge *challenge.Engine
	queue     *queue.InMemoryQueue
	metrics   *observability.Metrics
	validate  *validator.Validate
}

// NewHandler constructs a Handler over the application's shared state.
func NewHandler(s *store.Store, caches *cache.Set, ch *challenge.Engine, q *queue.InMemoryQueue, m *observability.Metrics) *Handler {
	return &Handler{
		store:     s,
		caches:    caches,
		challenge: ch,
		queue:     q,
		metrics:   m,
		validate:  validator.New(),
	}
}
