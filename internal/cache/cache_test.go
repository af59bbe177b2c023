package cache

import (
	"testing"
	"time"
)

func TestTTLGetSet(t *testing.T) {
	c := NewTTL[[]string](time.Minute)

	if _, ok := c.Get("companies"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("companies", []string{"Personal", "Cronet"})
	got, ok := c.Get("companies")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 || got[0] != "Personal" {
		t.Fatalf("got %v", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[int](time.Minute)
	now := time.Now()
	c.nowFn = func() time.Time { return now }

	c.Set("k", 42)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after expiry")
	}
}

func TestTTLDisabled(t *testing.T) {
	c := NewTTL[int](0)
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatal("zero TTL must disable caching")
	}
	if c.Size() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Size())
	}
}

func TestTTLDelete(t *testing.T) {
	c := NewTTL[int](time.Minute)
	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewTTL[int](time.Minute)
	now := time.Now()
	c.nowFn = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	now = now.Add(2 * time.Minute)
	c.Set("c", 3)

	if removed := c.CleanExpired(); removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if c.Size() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Size())
	}
}
