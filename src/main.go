package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lrclib/lrclib-go/src/features/cache"
	"github.com/lrclib/lrclib-go/src/features/challenge"
	"github.com/lrclib/lrclib-go/src/features/config"
	"github.com/lrclib/lrclib-go/src/features/hosting"
	"github.com/lrclib/lrclib-go/src/features/logging"
	"github.com/lrclib/lrclib-go/src/features/observability"
	"github.com/lrclib/lrclib-go/src/features/worker"
	"github.com/lrclib/lrclib-go/src/infra/queue"
	"github.com/lrclib/lrclib-go/src/infra/store"
	"github.com/lrclib/lrclib-go/src/providers"
)

// missingTrackCleanupInterval is how often cleanMissingTracksLoop sweeps rows
// past the 14-day missing-track retention window.
const missingTrackCleanupInterval = 24 * time.Hour

func main() {
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	s, err := store.New(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	cacheCfg := cfgManager.Get().Cache
	caches := cache.NewSet(cacheCfg.ChallengeSize, cacheCfg.GetSize, cacheCfg.SearchSize)
	challengeEngine := challenge.NewEngine(caches.Challenge, s, cfgManager.Get().Challenge.BaseRate)
	q := queue.NewInMemoryQueue(queue.DefaultCapacity)
	metrics := observability.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go metrics.RunMinuteReset(ctx)
	go cleanMissingTracksLoop(ctx, s)

	pool := worker.New(int(cfgManager.Get().Workers.Count), q, s, providers.NoopProvider{})
	pool.Start(ctx)

	srv := hosting.NewServer(cfgManager, s, caches, challengeEngine, q, metrics)

	go func() {
		slog.Info("starting server", "port", cfgManager.Get().Server.Port)
		if err := srv.Start(); err != nil {
			slog.Error("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	cancel()
	pool.Stop()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("server gracefully shut down")
}

// cleanMissingTracksLoop runs store.CleanOldMissingTracks on a daily tick
// until ctx is cancelled.
func cleanMissingTracksLoop(ctx context.Context, s *store.Store) {
	ticker := time.NewTicker(missingTrackCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.CleanOldMissingTracks(ctx)
			if err != nil {
				slog.Error("missing-track cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("missing-track cleanup", "removed", n)
			}
		}
	}
}
