package suggest

import (
	"sync"
	"sync/atomic"

	"github.com/bastiangx/wordtrie/pkg/trie"
	"github.com/charmbracelet/log"
)

// DefaultCacheSize is the number of query results the cached completer keeps.
const DefaultCacheSize = 4096

type Suggestion struct {
	Word string
	// Exact is set when Word equals the queried prefix.
	Exact bool
}

// Completer serializes writers against readers over a single trie.
// Queries run concurrently with each other, never with AddWord.
type Completer struct {
	trie     *trie.Trie
	hotCache *HotCache
	mu       sync.RWMutex
	queries  atomic.Int64
	rejected atomic.Int64
}

func NewCompleter() *Completer {
	return &Completer{
		trie: trie.New(),
	}
}

// NewCachedCompleter returns a completer that memoizes up to cacheSize query results.
func NewCachedCompleter(cacheSize int) *Completer {
	c := NewCompleter()
	if cacheSize > 0 {
		c.hotCache = NewHotCache(cacheSize)
	}
	return c
}

// AddWord inserts word. Words with characters outside 'a'..'z' are rejected
// with an error matching trie.ErrInvalidCharacter.
func (c *Completer) AddWord(word string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.trie.Insert(word); err != nil {
		c.rejected.Add(1)
		return err
	}
	if c.hotCache != nil {
		c.hotCache.Invalidate(word)
	}
	return nil
}

func (c *Completer) Query(prefix string) (trie.Result, error) {
	c.queries.Add(1)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.hotCache != nil {
		if res, ok := c.hotCache.Get(prefix); ok {
			return res, nil
		}
	}

	res, err := c.trie.Query(prefix)
	if err != nil {
		return res, err
	}
	// stored under the read lock so AddWord cannot interleave and leave it stale
	if c.hotCache != nil {
		c.hotCache.Put(res)
	}
	return res, nil
}

func (c *Completer) Complete(prefix string, limit int) ([]Suggestion, error) {
	res, err := c.Query(prefix)
	if err != nil {
		return nil, err
	}
	log.Debug("query", "prefix", prefix, "outcome", res.Outcome, "words", len(res.Words))
	return ToSuggestions(res, limit), nil
}

// ToSuggestions converts res into at most limit suggestions, keeping the
// lexicographic order. limit <= 0 keeps everything.
func ToSuggestions(res trie.Result, limit int) []Suggestion {
	words := res.Words
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}

	suggestions := make([]Suggestion, 0, len(words))
	for _, w := range words {
		suggestions = append(suggestions, Suggestion{
			Word:  w,
			Exact: w == res.Prefix,
		})
	}
	return suggestions
}

func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	stats := map[string]int{
		"totalWords": c.trie.Len(),
		"nodes":      c.trie.NodeCount(),
	}
	c.mu.RUnlock()

	stats["queries"] = int(c.queries.Load())
	stats["rejectedWords"] = int(c.rejected.Load())

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}
