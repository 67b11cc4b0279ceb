package hosting

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lrclib/lrclib-go/src/features/observability"
)

// RequestLoggingMiddleware logs every request and records it into metrics.
func RequestLoggingMiddleware(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)
		status := c.Response().StatusCode()
		metrics.Observe()

		if status >= 400 {
			slog.Error("http request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
				"client", clientID(c),
				"error", err,
			)
		} else {
			slog.Debug("http request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
				"client", clientID(c),
			)
		}
		return err
	}
}

// clientID resolves the client-identifying header per spec.md §6's
// preference order: Lrclib-Client, X-User-Agent, User-Agent.
func clientID(c *fiber.Ctx) string {
	if v := c.Get("Lrclib-Client"); v != "" {
		return v
	}
	if v := c.Get("X-User-Agent"); v != "" {
		return v
	}
	return c.Get("User-Agent")
}
