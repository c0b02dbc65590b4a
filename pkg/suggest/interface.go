// Package suggest wraps the trie with locking and a prefix result cache, and turns query results into suggestions.
package suggest

import "github.com/bastiangx/wordtrie/pkg/trie"

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns up to limit suggestions for prefix, limit <= 0 means all
	Complete(prefix string, limit int) ([]Suggestion, error)

	// Query returns the full three-way result for prefix
	Query(prefix string) (trie.Result, error)

	// AddWord inserts a word into the dictionary
	AddWord(word string) error

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}
