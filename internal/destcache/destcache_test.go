package destcache

import (
	"fmt"
	"testing"
	"time"
)

func TestPutThenHas(t *testing.T) {
	c := New(time.Minute, 8)

	if c.Has("example.com:443") {
		t.Error("unexpected hit on empty cache")
	}

	c.Put("example.com:443")
	if !c.Has("example.com:443") {
		t.Error("expected hit immediately after Put")
	}
	if c.Has("example.com:80") {
		t.Error("unexpected hit for different port")
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New(20*time.Millisecond, 8)

	c.Put("example.com:443")
	if !c.Has("example.com:443") {
		t.Fatal("expected hit before TTL")
	}

	time.Sleep(50 * time.Millisecond)
	if c.Has("example.com:443") {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	c := New(time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("host%d:443", i))
		// Distinct insertion times so expirations order deterministically.
		time.Sleep(2 * time.Millisecond)
	}
	if got := c.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}

	c.Put("host3:443")

	if got := c.Len(); got != 3 {
		t.Errorf("Len = %d, want 3 after eviction", got)
	}
	if c.Has("host0:443") {
		t.Error("oldest entry survived eviction")
	}
	for i := 1; i <= 3; i++ {
		if !c.Has(fmt.Sprintf("host%d:443", i)) {
			t.Errorf("host%d:443 missing", i)
		}
	}
}

func TestPutExistingDoesNotEvict(t *testing.T) {
	c := New(time.Minute, 2)

	c.Put("a:1")
	c.Put("b:1")
	c.Put("a:1") // refresh, not a new entry

	if !c.Has("a:1") || !c.Has("b:1") {
		t.Error("refresh of existing key evicted a live entry")
	}
}
