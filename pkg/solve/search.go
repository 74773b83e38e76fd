// Package solve derives search constraints from a puzzle request and walks a
// word index under them.
package solve

import (
	"slices"

	"github.com/bastiangx/wordhive/pkg/index"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// Matches is the set of words a search produced. It has no order.
type Matches map[string]struct{}

// Contains reports whether word is in the set.
func (m Matches) Contains(word string) bool {
	_, ok := m[word]
	return ok
}

// Sorted returns the words in lexicographic order.
func (m Matches) Sorted() []string {
	words := lo.Keys(m)
	slices.Sort(words)
	return words
}

// walker carries the per-call mutable state of one search. None of it is
// shared with other searches over the same index.
type walker struct {
	c       *Constraints
	counts  map[rune]int
	word    []rune
	matches Matches
}

// Search returns every word in idx that satisfies c. It never fails and is
// safe to call concurrently on the same index.
func Search(idx *index.Index, c *Constraints) Matches {
	w := &walker{
		c:       c,
		counts:  make(map[rune]int, len(c.allowed)),
		word:    make([]rune, 0, 16),
		matches: Matches{},
	}
	w.visit(idx.Root())
	return w.matches
}

// Solve derives constraints from opts and searches idx with them.
func Solve(idx *index.Index, opts Options) (Matches, error) {
	c, err := Derive(opts)
	if err != nil {
		return nil, err
	}
	matches := Search(idx, c)
	log.Debugf("solve: %d matches for letters=%q present=%q", len(matches), opts.Letters, opts.Present)
	return matches, nil
}

func (w *walker) visit(node *index.Node) {
	depth := len(w.word)
	if node.Terminal() && depth >= w.c.minLength && w.accepts() {
		w.matches[string(w.word)] = struct{}{}
	}
	if depth >= w.c.maxLength {
		return
	}
	node.Each(func(r rune, child *index.Node) {
		if !w.c.permitted(r, depth) {
			return
		}
		if w.c.maxRepeats > 0 && w.counts[r] >= w.c.maxRepeats {
			return
		}
		w.descend(r, child)
	})
}

// descend pushes r, visits child and pops r again. It has a single exit so
// siblings never observe the counts of a previous branch.
func (w *walker) descend(r rune, child *index.Node) {
	w.counts[r]++
	w.word = append(w.word, r)
	w.visit(child)
	w.word = w.word[:len(w.word)-1]
	w.counts[r]--
}

func (w *walker) accepts() bool {
	for _, r := range w.c.required {
		if w.counts[r] == 0 {
			return false
		}
	}
	if w.c.hasStart && w.word[0] != w.c.requiredStart {
		return false
	}
	return true
}

func sortedRunes(rs []rune) []rune {
	out := slices.Clone(rs)
	slices.Sort(out)
	return out
}
