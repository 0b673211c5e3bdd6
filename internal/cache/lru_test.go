// internal/cache/lru_test.go

package cache

import "testing"

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	c.Add("home/home", "set-a")
	c.Add("groups/list", "set-b")

	// Touch the first entry so the second becomes the eviction candidate.
	if _, ok := c.Get("home/home"); !ok {
		t.Fatal("home/home missing")
	}
	c.Add("groups/detail", "set-c")

	if _, ok := c.Get("groups/list"); ok {
		t.Error("groups/list should have been evicted")
	}
	if _, ok := c.Get("home/home"); !ok {
		t.Error("recently used entry evicted")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d", c.Len())
	}
}

func TestAddReplacesExistingKey(t *testing.T) {
	c := New(2)
	c.Add("auth/signin", "stale")
	c.Add("auth/signin", "fresh")

	v, ok := c.Get("auth/signin")
	if !ok || v != "fresh" {
		t.Fatalf("got %v, %v", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d", c.Len())
	}
}
