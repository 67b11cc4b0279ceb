// Package providers defines the pluggable lyrics-sourcing contract workers
// invoke for tracks the store has no lyrics for.
package providers

import "context"

// ScrapedData is what a Provider returns on a successful lookup.
type ScrapedData struct {
	PlainLyrics  *string
	SyncedLyrics *string
	Instrumental bool
}

// Provider resolves lyrics for a piece of track metadata. A nil ScrapedData
// with a nil error means "no lyrics found", distinct from a lookup error.
type Provider interface {
	RetrieveLyrics(ctx context.Context, name, artist, album string, duration float64) (*ScrapedData, error)
}

// NoopProvider always reports no lyrics found; it is the default provider
// shipped with the core, per spec.md §1's explicit non-goal of real
// provider implementations.
type NoopProvider struct{}

// RetrieveLyrics always returns (nil, nil).
func (NoopProvider) RetrieveLyrics(ctx context.Context, name, artist, album string, duration float64) (*ScrapedData, error) {
	return nil, nil
}
