// Package challenge implements the proof-of-work issue/verify pair that
// gates publishing: a client must find a nonce whose SHA-256 digest (when
// concatenated with a server-issued prefix) is numerically at or below a
// target that tightens as recent publish volume rises.
package challenge

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/lrclib/lrclib-go/src/features/cache"
)

const (
	prefixLength   = 32
	prefixAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	cacheKeyPrefix = "challenge:"
)

// baseTarget is 0x000000FF followed by 28 zero bytes, rendered as a 256-bit
// unsigned integer.
var baseTarget = func() *big.Int {
	b := make([]byte, 32)
	b[3] = 0xFF
	return new(big.Int).SetBytes(b)
}()

// Challenge is the prefix/target pair returned to a client by Issue.
type Challenge struct {
	Prefix string
	Target string // 64-character uppercase hex
}

// RecentPublishCounter reports how many lyrics rows with source "lrclib"
// were created in the last 10 minutes, used to adapt the target.
type RecentPublishCounter interface {
	RecentLrclibLyricsCount(ctx context.Context) (int64, error)
}

// Engine issues and verifies proof-of-work challenges, storing in-flight
// challenges in a Store with the TTL and capacity the caller configures.
type Engine struct {
	cache    cache.Store
	counter  RecentPublishCounter
	baseRate int64
}

// NewEngine constructs an Engine over the given challenge cache and publish
// counter, adapting its target once recent publish volume exceeds baseRate.
func NewEngine(challengeCache cache.Store, counter RecentPublishCounter, baseRate int64) *Engine {
	return &Engine{cache: challengeCache, counter: counter, baseRate: baseRate}
}

// Issue generates a random prefix, computes the current adaptive target,
// stores the pair under "challenge:<prefix>" and returns it.
func (e *Engine) Issue(ctx context.Context) (Challenge, error) {
	prefix, err := randomAlphanumeric(prefixLength)
	if err != nil {
		return Challenge{}, fmt.Errorf("generate challenge prefix: %w", err)
	}

	target, err := e.currentTarget(ctx)
	if err != nil {
		return Challenge{}, fmt.Errorf("compute challenge target: %w", err)
	}

	e.cache.Set(cacheKeyPrefix+prefix, target)
	return Challenge{Prefix: prefix, Target: target}, nil
}

// Verify parses token as "<prefix>:<nonce>", and reports whether
// SHA-256(prefix∥nonce) is at or below the stored target for that prefix.
// A true result is single-shot: the stored challenge is removed atomically
// so at most one of two racing verifications for the same token succeeds.
func (e *Engine) Verify(token string) bool {
	prefix, nonce, ok := splitToken(token)
	if !ok {
		return false
	}

	key := cacheKeyPrefix + prefix
	targetHex, ok := e.cache.Get(key)
	if !ok {
		return false
	}

	target, err := hex.DecodeString(targetHex)
	if err != nil {
		return false
	}

	sum := sha256.Sum256([]byte(prefix + nonce))
	if len(sum) != len(target) {
		return false
	}
	if !lessOrEqual(sum[:], target) {
		return false
	}

	_, deleted := e.cache.GetAndDelete(key)
	return deleted
}

func (e *Engine) currentTarget(ctx context.Context) (string, error) {
	target := new(big.Int).Set(baseTarget)

	if e.counter != nil {
		r, err := e.counter.RecentLrclibLyricsCount(ctx)
		if err != nil {
			return "", err
		}
		if r > e.baseRate {
			target.Mul(target, big.NewInt(e.baseRate))
			target.Div(target, big.NewInt(r))
		}
	}

	return fmt.Sprintf("%064X", target), nil
}

func splitToken(token string) (prefix, nonce string, ok bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// lessOrEqual compares two equal-length byte slices as big-endian unsigned
// integers.
func lessOrEqual(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return true
}

func randomAlphanumeric(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = prefixAlphabet[int(b)%len(prefixAlphabet)]
	}
	return string(out), nil
}
