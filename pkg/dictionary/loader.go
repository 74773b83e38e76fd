/*
Package dictionary loads word lists into the structures the solver and the
front ends query.

A word source is a newline-delimited text stream, optionally gzip or xz
compressed. Every line is trimmed and lowercased; lines that end up empty or
contain anything but letters are dropped before they reach the index.

	dict, err := dictionary.Load("data/dictionary.txt", dictionary.Options{})
	matches, err := solve.Solve(dict.Index(), opts)

Besides the prefix tree used by the solver, a Dictionary keeps the accepted
words in a patricia trie for exact lookups and prefix completion.
*/
package dictionary

import (
	"bufio"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/bastiangx/wordhive/pkg/index"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Options controls how a word source is read.
type Options struct {
	// Charset names a legacy encoding (WHATWG label, e.g. "latin1").
	// Empty or "utf-8" reads the source as UTF-8, CharsetAuto guesses.
	Charset string
}

// Stats describes what a load accepted and rejected.
type Stats struct {
	Lines      int `json:"lines" msgpack:"lines"`
	Words      int `json:"words" msgpack:"words"`
	Rejected   int `json:"rejected" msgpack:"rejected"`
	Duplicates int `json:"duplicates" msgpack:"duplicates"`
	Nodes      int `json:"nodes" msgpack:"nodes"`
}

// Dictionary is an immutable, loaded word list.
type Dictionary struct {
	path  string
	idx   *index.Index
	words *patricia.Trie
	stats Stats
}

// Normalize applies the word-source line policy. It reports false for
// lines that must be discarded.
func Normalize(line string) (string, bool) {
	word := strings.ToLower(strings.TrimSpace(line))
	if word == "" {
		return "", false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	return word, true
}

type builder struct {
	idx   *index.Builder
	words *patricia.Trie
	stats Stats
}

func newBuilder() *builder {
	return &builder{idx: index.NewBuilder(), words: patricia.NewTrie()}
}

func (b *builder) add(line string) {
	b.stats.Lines++
	word, ok := Normalize(line)
	if !ok {
		b.stats.Rejected++
		return
	}
	if !b.words.Insert(patricia.Prefix(word), true) {
		b.stats.Duplicates++
		return
	}
	b.idx.Insert(word)
	b.stats.Words++
}

func (b *builder) finish(path string) *Dictionary {
	idx := b.idx.Finish()
	b.stats.Nodes = idx.Nodes()
	return &Dictionary{path: path, idx: idx, words: b.words, stats: b.stats}
}

// Load reads the word source at path.
func Load(path string, opts Options) (*Dictionary, error) {
	start := time.Now()
	r, closeSource, err := openSource(path, opts.Charset)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	b := newBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		b.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &SourceError{Path: path, Hint: "the file could not be read to the end", Err: fmt.Errorf("reading: %w", err)}
	}

	dict := b.finish(path)
	log.Debugf("Loaded %d words from %s in %v (%d rejected, %d duplicates)",
		dict.stats.Words, path, time.Since(start), dict.stats.Rejected, dict.stats.Duplicates)
	if dict.stats.Words == 0 {
		log.Warnf("Word source %s contained no usable words", path)
	}
	return dict, nil
}

// FromWords builds a dictionary from in-memory lines, applying the same
// normalization as Load.
func FromWords(lines []string) *Dictionary {
	b := newBuilder()
	for _, line := range lines {
		b.add(line)
	}
	return b.finish("")
}

// Index returns the prefix tree searched by the solver.
func (d *Dictionary) Index() *index.Index {
	return d.idx
}

// Path returns the source the dictionary was loaded from, empty for FromWords.
func (d *Dictionary) Path() string {
	return d.path
}

// Stats returns load statistics.
func (d *Dictionary) Stats() Stats {
	return d.stats
}

// Contains reports whether word is in the list. The lookup is
// case-insensitive.
func (d *Dictionary) Contains(word string) bool {
	w, ok := Normalize(word)
	if !ok {
		return false
	}
	return d.words.Match(patricia.Prefix(w))
}

// Complete returns up to limit words starting with prefix, in lexicographic
// order. A limit of zero or less returns every completion.
func (d *Dictionary) Complete(prefix string, limit int) []string {
	lowerPrefix := strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	// Once limit words are kept, anything sorting after the last of them can
	// be skipped; out never grows past 2*limit.
	var bound string
	prune := func() {
		slices.Sort(out)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		if limit > 0 && len(out) == limit {
			bound = out[limit-1]
		}
	}
	err := d.words.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, _ patricia.Item) error {
		if bound != "" && string(p) >= bound {
			return nil
		}
		out = append(out, string(p))
		if limit > 0 && len(out) >= 2*limit {
			prune()
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting word trie: %v", err)
		return nil
	}
	prune()
	return out
}
