package normalize

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "HELLO WORLD", "hello world"},
		{"strips accents", "Café del Mar", "cafe del mar"},
		{"punctuation becomes space", "Rock & Roll!", "rock roll"},
		{"apostrophe removed", "Don't Stop", "don t stop"},
		{"mojibake apostrophe removed", "Don" + mojibakeApostrophe + "t Stop", "don t stop"},
		{"collapses whitespace", "  too   many   spaces  ", "too many spaces"},
		{"idempotent", "Björk - Army Of Me", "bjork army of me"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Normalize(c.in)
			if got != c.want {
				t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
			}
			if again := Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: Normalize(%q) = %q", got, again)
			}
		})
	}
}

func TestProcessParam(t *testing.T) {
	if v, ok := ProcessParam("   "); ok {
		t.Fatalf("expected ok=false for blank input, got %q", v)
	}
	v, ok := ProcessParam("Daft Punk")
	if !ok || v != "daft punk" {
		t.Fatalf("ProcessParam(%q) = (%q, %v)", "Daft Punk", v, ok)
	}
}
