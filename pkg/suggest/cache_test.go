package suggest

import (
	"testing"

	"github.com/bastiangx/wordtrie/pkg/trie"
)

func result(prefix string, words ...string) trie.Result {
	return trie.Result{Prefix: prefix, Outcome: trie.HasExtensions, Words: words}
}

func TestHotCacheGetPut(t *testing.T) {
	hc := NewHotCache(4)
	if _, ok := hc.Get("ca"); ok {
		t.Fatal("empty cache returned a hit")
	}

	hc.Put(result("ca", "car", "cat"))
	got, ok := hc.Get("ca")
	if !ok || len(got.Words) != 2 {
		t.Fatalf("Get(ca) = %+v, %v", got, ok)
	}

	// callers may not mutate the cached slice
	got.Words[0] = "xxx"
	again, _ := hc.Get("ca")
	if again.Words[0] != "car" {
		t.Errorf("cached words mutated through a returned result: %v", again.Words)
	}
}

func TestHotCacheSkipsEmptyPrefix(t *testing.T) {
	hc := NewHotCache(4)
	hc.Put(result("", "a"))
	if hc.Len() != 0 {
		t.Errorf("empty prefix was cached")
	}
}

func TestHotCacheInvalidate(t *testing.T) {
	hc := NewHotCache(8)
	for _, p := range []string{"c", "ca", "cat", "cats", "co", "d"} {
		hc.Put(result(p))
	}

	// prefixes of "cat": c, ca, cat
	if n := hc.Invalidate("cat"); n != 3 {
		t.Errorf("Invalidate(cat) removed %d, want 3", n)
	}
	for _, p := range []string{"c", "ca", "cat"} {
		if _, ok := hc.Get(p); ok {
			t.Errorf("%q still cached", p)
		}
	}
	for _, p := range []string{"cats", "co", "d"} {
		if _, ok := hc.Get(p); !ok {
			t.Errorf("%q was dropped", p)
		}
	}
}

func TestHotCacheEvictsLRU(t *testing.T) {
	hc := NewHotCache(2)
	hc.Put(result("a"))
	hc.Put(result("b"))
	hc.Get("a")
	hc.Put(result("c"))

	if _, ok := hc.Get("b"); ok {
		t.Error("least recently used entry 'b' should be evicted")
	}
	if _, ok := hc.Get("a"); !ok {
		t.Error("'a' should still be cached")
	}
	if hc.Len() != 2 {
		t.Errorf("Len = %d, want 2", hc.Len())
	}
	if hc.Stats()["hotCacheEvictions"] != 1 {
		t.Errorf("stats = %v", hc.Stats())
	}
}
