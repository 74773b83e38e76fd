// Package index holds the prefix tree the solver walks.
//
// An Index is built once from already-normalized words and never changes
// afterwards, so a single *Index can be shared by any number of goroutines
// searching it at the same time.
package index

// Node is one prefix position in the tree.
type Node struct {
	children map[rune]*Node
	terminal bool
}

func newNode() *Node {
	return &Node{children: make(map[rune]*Node)}
}

// Terminal reports whether a complete word ends at this node.
func (n *Node) Terminal() bool {
	return n.terminal
}

// Child returns the node reached by following r, if any.
func (n *Node) Child(r rune) (*Node, bool) {
	c, ok := n.children[r]
	return c, ok
}

// Each calls fn for every outgoing edge. Iteration order is unspecified.
func (n *Node) Each(fn func(r rune, child *Node)) {
	for r, c := range n.children {
		fn(r, c)
	}
}

// Index is a read-only prefix tree over a word list.
type Index struct {
	root  *Node
	words int
	nodes int
}

// Root returns the root node (the empty prefix).
func (idx *Index) Root() *Node {
	return idx.root
}

// Words returns the number of distinct words in the index.
func (idx *Index) Words() int {
	return idx.words
}

// Nodes returns the number of nodes, root included.
func (idx *Index) Nodes() int {
	return idx.nodes
}

// Contains reports whether word was inserted.
func (idx *Index) Contains(word string) bool {
	node := idx.root
	for _, r := range word {
		next, ok := node.Child(r)
		if !ok {
			return false
		}
		node = next
	}
	return node.terminal
}

// Builder accumulates words into a tree. It is not safe for concurrent use.
type Builder struct {
	idx *Index
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{idx: &Index{root: newNode(), nodes: 1}}
}

// Insert adds word as a root-to-leaf path. Input is trusted: the loader is
// responsible for rejecting empty or non-alphabetic entries.
func (b *Builder) Insert(word string) {
	node := b.idx.root
	for _, r := range word {
		next, ok := node.children[r]
		if !ok {
			next = newNode()
			node.children[r] = next
			b.idx.nodes++
		}
		node = next
	}
	if !node.terminal {
		node.terminal = true
		b.idx.words++
	}
}

// Finish hands over the built index. The builder must not be used afterwards.
func (b *Builder) Finish() *Index {
	idx := b.idx
	b.idx = nil
	return idx
}

// Build inserts every word and returns the finished index.
func Build(words []string) *Index {
	b := NewBuilder()
	for _, w := range words {
		b.Insert(w)
	}
	return b.Finish()
}
