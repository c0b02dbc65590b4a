package suggest

import (
	"math"
	"slices"
	"sync"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps recent query results keyed by prefix. Keys live in a
// patricia trie so that inserting a word can drop every cached prefix of it.
type HotCache struct {
	hotTrie     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int
	misses      int
	evictions   int
	maxEntries  int
	mu          sync.Mutex
}

// NewHotCache returns a cache holding at most maxEntries results.
func NewHotCache(maxEntries int) *HotCache {
	return &HotCache{
		hotTrie:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the cached result for prefix.
func (hc *HotCache) Get(prefix string) (trie.Result, bool) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.hotTrie.Get(patricia.Prefix(prefix))
	if item == nil {
		hc.misses++
		return trie.Result{}, false
	}
	res, ok := item.(trie.Result)
	if !ok {
		log.Errorf("Unknown item type: %T for prefix %s", item, prefix)
		hc.misses++
		return trie.Result{}, false
	}

	hc.hits++
	hc.markAccessed(prefix)
	res.Words = slices.Clone(res.Words)
	return res, true
}

// Put stores res under res.Prefix, evicting the least recently used entry
// when full. The empty prefix is never cached.
func (hc *HotCache) Put(res trie.Result) {
	if res.Prefix == "" || hc.maxEntries <= 0 {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	key := res.Prefix
	if _, exists := hc.accessTime[key]; !exists && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	res.Words = slices.Clone(res.Words)
	hc.hotTrie.Set(patricia.Prefix(key), res)
	hc.markAccessed(key)
}

// Invalidate drops every cached prefix of word, including word itself, and
// returns how many entries were removed.
func (hc *HotCache) Invalidate(word string) int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var stale []patricia.Prefix
	err := hc.hotTrie.VisitPrefixes(patricia.Prefix(word), func(p patricia.Prefix, _ patricia.Item) error {
		stale = append(stale, slices.Clone(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting cached prefixes of %s: %v", word, err)
	}

	for _, p := range stale {
		hc.hotTrie.Delete(p)
		delete(hc.accessTime, string(p))
	}
	if len(stale) > 0 {
		log.Debugf("Invalidated %d cached prefixes of '%s'", len(stale), word)
	}
	return len(stale)
}

// Len returns the number of cached results.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries":   len(hc.accessTime),
		"maxHotEntries":     hc.maxEntries,
		"hotCacheHits":      hc.hits,
		"hotCacheMisses":    hc.misses,
		"hotCacheEvictions": hc.evictions,
	}
}

func (hc *HotCache) markAccessed(prefix string) {
	hc.accessCount++
	hc.accessTime[prefix] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	oldestTime := int64(math.MaxInt64)

	for prefix, t := range hc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = prefix
		}
	}

	if oldest != "" {
		hc.hotTrie.Delete(patricia.Prefix(oldest))
		delete(hc.accessTime, oldest)
		hc.evictions++
		log.Debugf("Evicted prefix '%s' from hot cache", oldest)
	}
}
