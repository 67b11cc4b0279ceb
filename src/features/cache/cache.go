// Package cache provides the three TTL- and capacity-bounded string caches
// shared by the challenge engine, the missing-track dedup path and the
// search planner.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is a single string-to-string cache with per-entry TTL and an
// LRU-style capacity bound. Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
	// GetAndDelete atomically looks up and removes key, returning whether it
	// was present. At most one caller observes ok=true for a given key.
	GetAndDelete(key string) (string, bool)
}

type lruStore struct {
	lru *expirable.LRU[string, string]
}

func newLRUStore(size int, ttl time.Duration) *lruStore {
	return &lruStore{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (s *lruStore) Get(key string) (string, bool) {
	return s.lru.Get(key)
}

func (s *lruStore) Set(key, value string) {
	s.lru.Add(key, value)
}

func (s *lruStore) Delete(key string) {
	s.lru.Remove(key)
}

func (s *lruStore) GetAndDelete(key string) (string, bool) {
	v, ok := s.lru.Get(key)
	if !ok {
		return "", false
	}
	if !s.lru.Remove(key) {
		return "", false
	}
	return v, true
}

// Set bundles the three caches spec.md §4.3 names: challenge tokens, the
// missing-track dedup cache, and search result caching.
type Set struct {
	Challenge Store
	Get       Store
	Search    Store
}

const (
	challengeTTL = 5 * time.Minute
	getTTL       = 72 * time.Hour

	// searchTTL is the 24h absolute bound spec.md §4.3 names; the entry must
	// outlive the 20h stale-while-revalidate threshold (see
	// api.searchStaleAfter) so a hit old enough to need refreshing is still
	// present to be served and refreshed, rather than evicted outright.
	// expirable.LRU exposes only one TTL knob, so the 4h idle-eviction bound
	// spec.md §4.3 also names is not separately enforced.
	searchTTL = 24 * time.Hour
)

// NewSet constructs the three caches at the TTLs spec.md §4.3 names and the
// capacities the caller (config.Cache, in production) supplies.
func NewSet(challengeSize, getSize, searchSize int) *Set {
	return &Set{
		Challenge: newLRUStore(challengeSize, challengeTTL),
		Get:       newLRUStore(getSize, getTTL),
		Search:    newLRUStore(searchSize, searchTTL),
	}
}
