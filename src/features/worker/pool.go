// Package worker runs the fixed-size pool of goroutines that drain the
// missing-track queue and resolve lyrics through a Provider.
package worker

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lrclib/lrclib-go/src/catalog"
	"github.com/lrclib/lrclib-go/src/infra/store"
	"github.com/lrclib/lrclib-go/src/providers"
)

// pollInterval is how long an idle worker sleeps before retrying an empty
// queue pop.
const pollInterval = 50 * time.Millisecond

// retryBackoff is how long a worker pauses after a failed provider lookup,
// before picking up its next item, so a persistently failing item cannot
// spin the pool against the provider at full throughput.
const retryBackoff = 2 * time.Second

// Queue is the subset of queue.InMemoryQueue a worker needs.
type Queue interface {
	Pop() (catalog.MissingTrack, bool)
	Push(catalog.MissingTrack) bool
}

// Pool is a fixed set of N long-lived goroutines draining queue and
// resolving lookups through provider.
type Pool struct {
	n        int
	queue    Queue
	store    *store.Store
	provider providers.Provider

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs a Pool of n workers. n == 0 is valid: Start becomes a
// no-op and the queue simply grows bounded by its own capacity.
func New(n int, q Queue, s *store.Store, p providers.Provider) *Pool {
	return &Pool{n: n, queue: q, store: s, provider: p}
}

// Start spawns the pool's goroutines. Calling Start twice is not supported.
func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.n; i++ {
		id := uuid.NewString()
		p.wg.Add(1)
		go p.run(ctx, id)
	}
}

// Stop signals all workers to exit and waits for them to drain their
// current item.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Pool) run(ctx context.Context, workerID string) {
	defer p.wg.Done()
	logger := slog.With("worker_id", workerID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, ok := p.queue.Pop()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}

		p.process(ctx, logger, item)
	}
}

func (p *Pool) process(ctx context.Context, logger *slog.Logger, item catalog.MissingTrack) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("worker task panicked", "recovered", r, "track", item.Name, "artist", item.ArtistName)
		}
	}()

	data, err := p.provider.RetrieveLyrics(ctx, item.Name, item.ArtistName, item.AlbumName, item.Duration)
	if err != nil {
		logger.Error("provider lookup failed",
			"track", item.Name, "artist", item.ArtistName, "album", item.AlbumName, "duration", item.Duration,
			"error", err)
		p.queue.Push(item)
		select {
		case <-ctx.Done():
		case <-time.After(retryBackoff):
		}
		return
	}
	if data == nil {
		logger.Info("no lyrics found", "track", item.Name, "artist", item.ArtistName)
		return
	}

	if err := p.commit(ctx, item, data); err != nil {
		logger.Error("failed to persist resolved lyrics", "error", err, "track", item.Name, "artist", item.ArtistName)
	}
}

func (p *Pool) commit(ctx context.Context, item catalog.MissingTrack, data *providers.ScrapedData) error {
	return p.store.WithTx(ctx, func(tx *sql.Tx) error {
		trackID, err := p.store.AddTrack(ctx, tx, &catalog.Track{
			Name: item.Name, NameLower: item.NameLower,
			ArtistName: item.ArtistName, ArtistLower: item.ArtistLower,
			AlbumName: item.AlbumName, AlbumLower: item.AlbumLower,
			Duration: item.Duration,
		})
		if err != nil {
			return err
		}

		lyrics := catalog.NewLyrics(data.PlainLyrics, data.SyncedLyrics, trackID, data.Instrumental, nil)
		lyricsID, err := p.store.AddLyrics(ctx, tx, lyrics)
		if err != nil {
			return err
		}

		return p.store.SetLastLyricsID(ctx, tx, trackID, lyricsID)
	})
}
