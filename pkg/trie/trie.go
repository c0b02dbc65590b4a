package trie

import (
	"iter"
	"slices"
)

// Outcome classifies the answer to a Query.
type Outcome int

const (
	// NoMatch means no inserted word starts with the prefix.
	NoMatch Outcome = iota
	// ExactWordNoExtensions means the prefix is an inserted word and nothing extends it.
	ExactWordNoExtensions
	// HasExtensions means at least one longer word starts with the prefix.
	HasExtensions
)

func (o Outcome) String() string {
	switch o {
	case NoMatch:
		return "no_match"
	case ExactWordNoExtensions:
		return "exact"
	case HasExtensions:
		return "extensions"
	}
	return "unknown"
}

// Result is the answer to a Query. Words is sorted and holds the prefix
// itself when it was inserted as a word.
type Result struct {
	Prefix  string
	Outcome Outcome
	Words   []string
}

// Trie is a prefix tree rooted at the empty prefix.
// It is not safe for concurrent use; see suggest.Completer for a locked wrapper.
type Trie struct {
	root  *Node
	words int
	nodes int
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: newNode(), nodes: 1}
}

// Root returns the node for the empty prefix.
func (t *Trie) Root() *Node {
	return t.root
}

// Len returns the number of distinct words inserted.
func (t *Trie) Len() int {
	return t.words
}

// NodeCount returns the number of allocated nodes, root included.
func (t *Trie) NodeCount() int {
	return t.nodes
}

// Insert adds word to the trie. An empty word is a no-op. A word holding any
// byte outside 'a'..'z' is rejected with an *InvalidCharacterError and the
// trie is left untouched.
func (t *Trie) Insert(word string) error {
	if word == "" {
		return nil
	}
	if err := validate(word); err != nil {
		return err
	}

	n := t.root
	for i := 0; i < len(word); i++ {
		idx := int(word[i] - 'a')
		if n.children[idx] == nil {
			n.children[idx] = newNode()
			t.nodes++
		}
		n = n.children[idx]
	}
	if !n.isEnd {
		n.isEnd = true
		t.words++
	}
	return nil
}

// Contains reports whether word was inserted as a complete word.
func (t *Trie) Contains(word string) bool {
	n, ok, err := t.Locate(word)
	return err == nil && ok && n.isEnd
}

// Locate walks from the root along prefix. ok is false when some letter of
// prefix has no child, i.e. no inserted word starts with it.
func (t *Trie) Locate(prefix string) (*Node, bool, error) {
	if err := validate(prefix); err != nil {
		return nil, false, err
	}
	n := t.root
	for i := 0; i < len(prefix); i++ {
		n = n.children[prefix[i]-'a']
		if n == nil {
			return nil, false, nil
		}
	}
	return n, true, nil
}

// Query answers which inserted words extend prefix.
func (t *Trie) Query(prefix string) (Result, error) {
	res := Result{Prefix: prefix, Outcome: NoMatch}

	n, ok, err := t.Locate(prefix)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, nil
	}

	if n.IsLeaf() {
		// A non-end leaf is only possible for the root of an empty trie.
		if n.isEnd {
			res.Outcome = ExactWordNoExtensions
			res.Words = []string{prefix}
		}
		return res, nil
	}

	res.Outcome = HasExtensions
	res.Words = slices.Collect(Enumerate(n, prefix))
	return res, nil
}

// Walk yields every word in the trie in lexicographic order.
func (t *Trie) Walk() iter.Seq[string] {
	return Enumerate(t.root, "")
}

type frame struct {
	node   *Node
	prefix string
}

// Enumerate yields prefix+suffix for every word in the subtree rooted at n, in
// lexicographic order. prefix is the path that leads to n. Traversal uses an
// explicit stack, so deep trees do not grow the goroutine stack.
func Enumerate(n *Node, prefix string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if n == nil {
			return
		}
		stack := []frame{{node: n, prefix: prefix}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.node.isEnd && !yield(f.prefix) {
				return
			}
			if f.node.IsLeaf() {
				continue
			}
			// push in reverse so 'a' is popped first
			for i := AlphabetSize - 1; i >= 0; i-- {
				if c := f.node.children[i]; c != nil {
					stack = append(stack, frame{node: c, prefix: f.prefix + string(rune('a'+i))})
				}
			}
		}
	}
}
