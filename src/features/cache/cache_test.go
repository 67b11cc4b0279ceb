package cache

import "testing"

func TestSetAndGet(t *testing.T) {
	s := newLRUStore(10, challengeTTL)
	s.Set("k", "v")
	got, ok := s.Get("k")
	if !ok || got != "v" {
		t.Fatalf("Get(k) = (%q, %v), want (v, true)", got, ok)
	}
}

func TestGetAndDeleteIsSingleUse(t *testing.T) {
	s := newLRUStore(10, challengeTTL)
	s.Set("k", "v")

	v1, ok1 := s.GetAndDelete("k")
	if !ok1 || v1 != "v" {
		t.Fatalf("first GetAndDelete = (%q, %v), want (v, true)", v1, ok1)
	}

	v2, ok2 := s.GetAndDelete("k")
	if ok2 {
		t.Fatalf("second GetAndDelete = (%q, %v), want ok=false", v2, ok2)
	}
}

func TestSetReplacesValue(t *testing.T) {
	s := newLRUStore(10, challengeTTL)
	s.Set("k", "v1")
	s.Set("k", "v2")
	got, ok := s.Get("k")
	if !ok || got != "v2" {
		t.Fatalf("Get(k) = (%q, %v), want (v2, true)", got, ok)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	s := newLRUStore(10, challengeTTL)
	s.Delete("nope")
	if _, ok := s.Get("nope"); ok {
		t.Fatal("expected miss after deleting absent key")
	}
}

func TestNewSetCaches(t *testing.T) {
	set := NewSet(100, 100, 100)
	set.Challenge.Set("challenge:abc", "target")
	set.Get.Set("get:abc", "1")
	set.Search.Set("search:abc", "[]")

	if v, ok := set.Challenge.Get("challenge:abc"); !ok || v != "target" {
		t.Fatalf("challenge cache miss: %q %v", v, ok)
	}
	if v, ok := set.Get.Get("get:abc"); !ok || v != "1" {
		t.Fatalf("get cache miss: %q %v", v, ok)
	}
	if v, ok := set.Search.Get("search:abc"); !ok || v != "[]" {
		t.Fatalf("search cache miss: %q %v", v, ok)
	}
}
