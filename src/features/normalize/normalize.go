// Package normalize canonicalizes free-form track metadata strings so that
// lookups and full-text search can match on normalized equality regardless
// of accents, punctuation or casing.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation is replaced by a single space before collapsing whitespace.
const punctuation = "`~!@#$%^&*()_|+-=?;:\",.<>{}[]\\/"

// mojibakeApostrophe is the UTF-8 "right single quotation mark" as seen
// after a Latin-1-as-UTF-8 mis-decode of an apostrophe.
const mojibakeApostrophe = "â€™"

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes s per the five steps: ASCII transliteration,
// punctuation-to-space, apostrophe removal, lowercasing, and whitespace
// collapsing. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	// The mojibake apostrophe is made of non-ASCII runes, so it must be
	// replaced before transliteration strips or rewrites them.
	s = strings.ReplaceAll(s, "'", " ")
	s = strings.ReplaceAll(s, mojibakeApostrophe, " ")

	ascii, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		ascii = s
	}
	ascii = dropNonASCII(ascii)

	var b strings.Builder
	b.Grow(len(ascii))
	for _, r := range ascii {
		if strings.ContainsRune(punctuation, r) {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}

	lowered := strings.ToLower(b.String())
	return collapseWhitespace(lowered)
}

func dropNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ProcessParam normalizes opt and returns (value, false) if the normalized
// result is empty, signalling the caller should treat it as absent.
func ProcessParam(opt string) (string, bool) {
	n := Normalize(opt)
	if n == "" {
		return "", false
	}
	return n, true
}
