// Package trie is the core index: a 26-way prefix tree over lowercase ASCII
// letters with insertion, prefix lookup and lexicographic enumeration.
package trie

// AlphabetSize is the number of child slots per node ('a'..'z').
const AlphabetSize = 26

// Node is one position in the tree, reached from the root by a unique path.
// A Node exclusively owns its children.
type Node struct {
	children [AlphabetSize]*Node
	isEnd    bool
}

// newNode returns a node with no children that does not end a word.
func newNode() *Node {
	return &Node{}
}

// IsLeaf reports whether every child slot of n is empty.
func (n *Node) IsLeaf() bool {
	for _, c := range n.children {
		if c != nil {
			return false
		}
	}
	return true
}

// IsEnd reports whether the path to n spells an inserted word.
func (n *Node) IsEnd() bool {
	return n.isEnd
}

// Child returns the child reached by letter c, or nil when the slot is empty
// or c is outside the alphabet.
func (n *Node) Child(c byte) *Node {
	i, ok := index(c)
	if !ok {
		return nil
	}
	return n.children[i]
}

// index maps a letter to its child slot.
func index(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}
