package challenge

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/lrclib/lrclib-go/src/features/cache"
)

type fixedCounter int64

func (f fixedCounter) RecentLrclibLyricsCount(ctx context.Context) (int64, error) {
	return int64(f), nil
}

func newTestCache() cache.Store {
	return cache.NewSet(100, 100, 100).Challenge
}

func TestIssueProducesFullWidthHexTarget(t *testing.T) {
	e := NewEngine(newTestCache(), fixedCounter(0), 100)
	ch, err := e.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if len(ch.Prefix) != prefixLength {
		t.Fatalf("prefix length = %d, want %d", len(ch.Prefix), prefixLength)
	}
	if len(ch.Target) != 64 {
		t.Fatalf("target length = %d, want 64", len(ch.Target))
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	e := NewEngine(newTestCache(), fixedCounter(0), 100)

	// An all-0xFF target accepts any digest, so the round trip exercises
	// Verify's parsing and single-use deletion without a proof-of-work search.
	prefix := "roundtripprefix"
	e.cache.Set(cacheKeyPrefix+prefix, strings.Repeat("f", 64))
	token := prefix + ":0"

	if !e.Verify(token) {
		t.Fatal("expected first verify to succeed")
	}
	if e.Verify(token) {
		t.Fatal("expected second verify of the same token to fail (single-use)")
	}
}

func TestVerifyRejectsAboveTarget(t *testing.T) {
	e := NewEngine(newTestCache(), fixedCounter(0), 100)

	// An all-0x00 target accepts nothing but the zero digest.
	prefix := "impossibleprefix"
	e.cache.Set(cacheKeyPrefix+prefix, strings.Repeat("0", 64))

	if e.Verify(prefix + ":0") {
		t.Fatal("expected verify against an unsatisfiable target to fail")
	}
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	e := NewEngine(newTestCache(), fixedCounter(0), 100)
	for _, tok := range []string{"", "noseparator", "a:b:c", "a:", ":b"} {
		if e.Verify(tok) {
			t.Fatalf("Verify(%q) = true, want false", tok)
		}
	}
}

func TestVerifyRejectsUnknownPrefix(t *testing.T) {
	e := NewEngine(newTestCache(), fixedCounter(0), 100)
	if e.Verify("neverissued:0") {
		t.Fatal("expected verify against an unissued prefix to fail")
	}
}

func TestAdaptiveTargetShrinksAboveBaseRate(t *testing.T) {
	low := NewEngine(newTestCache(), fixedCounter(10), 100)
	high := NewEngine(newTestCache(), fixedCounter(10_000), 100)

	lowCh, err := low.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	highCh, err := high.Issue(context.Background())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	lowTarget, _ := hex.DecodeString(lowCh.Target)
	highTarget, _ := hex.DecodeString(highCh.Target)

	if !lessOrEqual(highTarget, lowTarget) {
		t.Fatalf("target under high publish volume (%s) should be <= target under low volume (%s)", highCh.Target, lowCh.Target)
	}
}
