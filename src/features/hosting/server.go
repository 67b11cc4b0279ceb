package hosting

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lrclib/lrclib-go/src/features/api"
	"github.com/lrclib/lrclib-go/src/features/cache"
	"github.com/lrclib/lrclib-go/src/features/challenge"
	"github.com/lrclib/lrclib-go/src/features/config"
	"github.com/lrclib/lrclib-go/src/features/observability"
	"github.com/lrclib/lrclib-go/src/infra/apperr"
	"github.com/lrclib/lrclib-go/src/infra/queue"
	"github.com/lrclib/lrclib-go/src/infra/store"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint16
}

// NewServer wires the fiber app: recovery, CORS, request logging, the /api
// routes and the observability endpoints.
func NewServer(cfg *config.Manager, s *store.Store, caches *cache.Set, ch *challenge.Engine, q *queue.InMemoryQueue, metrics *observability.Metrics) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Framework errors (unknown route, method not allowed) keep
			// their own status code.
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).SendString(fe.Message)
			}
			env := apperr.ToEnvelope(err)
			slog.Error("request error", "path", c.Path(), "status", env.StatusCode, "error", err)
			return c.Status(env.StatusCode).JSON(env)
		},
		AppName:               "lrclib",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,X-User-Agent,Lrclib-Client",
	}))
	app.Use(RequestLoggingMiddleware(metrics))

	observability.RegisterRoutes(app, metrics)
	api.RegisterRoutes(app, s, caches, ch, q, metrics)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
