package fetch

import (
	"fmt"
	"testing"
)

func TestLRUCache_PutGet(t *testing.T) {
	c := newLRUCache(4)

	c.put("a", []byte("one"))
	data, ok := c.get("a")
	if !ok || string(data) != "one" {
		t.Fatalf("get: got (%q, %v), want (one, true)", data, ok)
	}

	if _, ok := c.get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", []byte("1"))
	c.put("b", []byte("2"))
	c.put("c", []byte("3"))

	// Touch "a" so "b" becomes the least recently used.
	c.get("a")

	c.put("d", []byte("4"))

	if _, ok := c.get("b"); ok {
		t.Error("expected b evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.get(key); !ok {
			t.Errorf("expected %q retained", key)
		}
	}
	if c.len() != 3 {
		t.Errorf("len: got %d, want 3", c.len())
	}
}

func TestLRUCache_UpdateExistingKey(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", []byte("old"))
	c.put("a", []byte("new"))

	data, ok := c.get("a")
	if !ok || string(data) != "new" {
		t.Fatalf("get: got (%q, %v), want (new, true)", data, ok)
	}
	if c.len() != 1 {
		t.Errorf("len: got %d, want 1", c.len())
	}
}

func TestLRUCache_ManyInsertsStayBounded(t *testing.T) {
	c := newLRUCache(8)

	for i := 0; i < 100; i++ {
		c.put(fmt.Sprintf("key-%d", i), []byte("x"))
	}
	if c.len() != 8 {
		t.Errorf("len: got %d, want 8", c.len())
	}

	// The most recent eight survive.
	for i := 92; i < 100; i++ {
		if _, ok := c.get(fmt.Sprintf("key-%d", i)); !ok {
			t.Errorf("expected key-%d retained", i)
		}
	}
}
