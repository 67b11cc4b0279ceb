// Package observability exposes the process's Prometheus metrics and
// liveness endpoint.
package observability

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks a cumulative request counter plus a per-minute rate gauge,
// the gauge reset by a periodic background task.
type Metrics struct {
	registry      *prometheus.Registry
	requestsTotal prometheus.Counter
	requestsRate  prometheus.Gauge
	minuteCount   int64
}

// New registers a fresh counter/gauge pair into their own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lrclib_http_requests_total",
		Help: "Total HTTP requests served since process start.",
	})
	requestsRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lrclib_http_requests_per_minute",
		Help: "HTTP requests served during the last completed minute.",
	})
	registry.MustRegister(requestsTotal, requestsRate)
	return &Metrics{registry: registry, requestsTotal: requestsTotal, requestsRate: requestsRate}
}

// Observe records one served request.
func (m *Metrics) Observe() {
	m.requestsTotal.Inc()
	atomic.AddInt64(&m.minuteCount, 1)
}

// RunMinuteReset swaps the accumulated per-minute count into the gauge and
// zeroes that count, once a minute, until ctx is cancelled; the cumulative
// request counter is never reset.
func (m *Metrics) RunMinuteReset(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := atomic.SwapInt64(&m.minuteCount, 0)
			m.requestsRate.Set(float64(n))
			slog.Info("requests in last minute", "count", n)
		}
	}
}

// RegisterRoutes wires /health (liveness) and /metrics (Prometheus
// exposition) into app.
func RegisterRoutes(app *fiber.App, m *Metrics) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))
}
