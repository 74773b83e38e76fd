package solve

import (
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/wordhive/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func solveWords(t *testing.T, words []string, opts Options) []string {
	t.Helper()
	matches, err := Solve(index.Build(words), opts)
	require.NoError(t, err)
	return matches.Sorted()
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		opts  Options
		want  []string
	}{
		{
			name:  "default bounds",
			words: []string{"bad", "fade", "faced", "zzzz", "bed"},
			opts:  Options{Letters: "abcdefg", Present: "a"},
			want:  []string{"faced", "fade"},
		},
		{
			name:  "repeat cap",
			words: []string{"aa", "ab"},
			opts:  Options{Letters: "ab", Present: "a", MinLength: 2, MaxRepeats: 1},
			want:  []string{"ab"},
		},
		{
			name:  "start-only letter",
			words: []string{"war", "raw", "ware", "area"},
			opts:  Options{Letters: "Ware", Present: "a", CaseSensitive: true, MinLength: 3},
			want:  []string{"area", "war", "ware"},
		},
		{
			name:  "required leading letter",
			words: []string{"war", "raw", "ware", "area", "era"},
			opts:  Options{Letters: "Ware", Present: "W", CaseSensitive: true, MinLength: 3},
			want:  []string{"war", "ware"},
		},
		{
			name:  "length window",
			words: []string{"ab", "abc", "abcd", "abcde"},
			opts:  Options{Letters: "abcde", Present: "a", MinLength: 3, MaxLength: 4},
			want:  []string{"abc", "abcd"},
		},
		{
			name:  "several required letters",
			words: []string{"fade", "faced", "bead", "cafe", "face"},
			opts:  Options{Letters: "abcdefg", Present: "af"},
			want:  []string{"cafe", "face", "faced", "fade"},
		},
		{
			name:  "minimum above default",
			words: []string{"abcd", "abcde", "ace", "abcdef"},
			opts:  Options{Letters: "abcde", Present: "a", MinLength: 5},
			want:  []string{"abcde"},
		},
		{
			name:  "maximum only",
			words: []string{"ab", "abc", "abcd", "abcde"},
			opts:  Options{Letters: "abcde", Present: "a", MinLength: 2, MaxLength: 4},
			want:  []string{"ab", "abc", "abcd"},
		},
		{
			name:  "uppercase input folded when case-insensitive",
			words: []string{"fade", "faced", "bad"},
			opts:  Options{Letters: "ABCDEFG", Present: "A"},
			want:  []string{"faced", "fade"},
		},
		{
			name:  "both cases of a letter",
			words: []string{"war", "raw", "ware", "awe"},
			opts:  Options{Letters: "Wware", Present: "a", CaseSensitive: true, MinLength: 3},
			want:  []string{"awe", "raw", "war", "ware"},
		},
		{
			name:  "leading and ordinary requirements",
			words: []string{"awls", "laws", "slaw", "wall", "walls", "walrus", "lure"},
			opts:  Options{Letters: "Walrus", Present: "Wl", CaseSensitive: true},
			want:  []string{"wall", "walls", "walrus"},
		},
		{
			name:  "case-sensitive with lowercase input",
			words: []string{"awls", "laws", "wall", "walrus"},
			opts:  Options{Letters: "walrus", Present: "wl", CaseSensitive: true},
			want:  []string{"awls", "laws", "wall", "walrus"},
		},
		{
			name:  "nothing matches",
			words: []string{"zzzz", "yyyy"},
			opts:  Options{Letters: "abc", Present: "a"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, solveWords(t, tt.words, tt.opts))
		})
	}
}

func TestSolveRejectsTwoLeadingLetters(t *testing.T) {
	_, err := Solve(index.Build([]string{"abcd"}), Options{
		Letters: "ABcde", Present: "AB", CaseSensitive: true,
	})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "at most one uppercase")
}

var propertyWords = []string{
	"wall", "walls", "walrus", "laws", "slaw", "awls", "lure", "rural", "sural",
	"allure", "lulls", "salsa", "ultras", "sutra", "waul", "wauls", "walla",
	"llama", "aura", "auras", "saw", "was", "law", "raw", "war", "warsaw",
	"swallow", "swarm", "lass", "lasso", "usual", "usurer",
}

func TestResultProperties(t *testing.T) {
	idx := index.Build(propertyWords)
	cases := []Options{
		{Letters: "walrus", Present: "l"},
		{Letters: "walrus", Present: "as", MinLength: 3, MaxLength: 5},
		{Letters: "walrus", Present: "a", MaxRepeats: 1},
		{Letters: "walrus", Present: "u", MaxRepeats: 2, MinLength: 3},
		{Letters: "Walrus", Present: "a", CaseSensitive: true, MinLength: 3},
		{Letters: "WaLrus", Present: "Wa", CaseSensitive: true, MinLength: 3},
	}

	for _, opts := range cases {
		c, err := Derive(opts)
		require.NoError(t, err)
		matches := Search(idx, c)
		start, hasStart := c.RequiredStart()

		for word := range matches {
			runes := []rune(word)
			assert.GreaterOrEqual(t, len(runes), c.MinLength(), word)
			assert.LessOrEqual(t, len(runes), c.MaxLength(), word)
			for _, r := range c.Required() {
				assert.Contains(t, word, string(r), word)
			}
			if hasStart {
				assert.Equal(t, start, runes[0], word)
			}
			if c.MaxRepeats() > 0 {
				for _, r := range runes {
					assert.LessOrEqual(t, strings.Count(word, string(r)), c.MaxRepeats(), word)
				}
			}
			if opts.CaseSensitive {
				for i, r := range runes[1:] {
					assert.Contains(t, c.Anywhere(), r, "%s: %q at %d", word, r, i+1)
				}
			}
		}
	}
}

func TestSearchIsIdempotent(t *testing.T) {
	idx := index.Build(propertyWords)
	c, err := Derive(Options{Letters: "walrus", Present: "a", MinLength: 3})
	require.NoError(t, err)

	first := Search(idx, c)
	second := Search(idx, c)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestConcurrentSearchesShareIndex(t *testing.T) {
	idx := index.Build(propertyWords)
	c, err := Derive(Options{Letters: "walrus", Present: "l", MinLength: 3})
	require.NoError(t, err)
	want := Search(idx, c).Sorted()

	var (
		g       errgroup.Group
		mu      sync.Mutex
		results [][]string
	)
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			got := Search(idx, c).Sorted()
			mu.Lock()
			results = append(results, got)
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestMatchesHelpers(t *testing.T) {
	m := Matches{"bee": {}, "abe": {}}
	assert.True(t, m.Contains("bee"))
	assert.False(t, m.Contains("be"))
	assert.Equal(t, []string{"abe", "bee"}, m.Sorted())
	assert.Equal(t, []string{}, Matches{}.Sorted())
}
