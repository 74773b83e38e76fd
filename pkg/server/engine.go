/*
Package server exposes a loaded dictionary to other programs.

Engine owns the dictionary, a result cache and the validator setup shared by
the two front ends:

  - an HTTP API (NewHandler) for browser and service clients
  - a request/response loop over stdin/stdout (IPCServer) for editor plugins
    and other local processes, framed as msgpack maps or JSON lines

Both accept the same request fields as a config file:

	{"letters": "Walrus", "present": "Wl", "case-sensitive": true}

and answer a solve with the sorted candidate words, or with a validation
summary when a validator is named in the request.
*/
package server

import (
	"context"
	"slices"
	"time"

	"github.com/bastiangx/wordhive/pkg/dictionary"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
)

// ValidatorFactory builds a validator for a request.
type ValidatorFactory func(ctx context.Context, kind validator.Kind, opts validator.Options) (validator.Validator, error)

// EngineOptions configures NewEngine.
type EngineOptions struct {
	// CacheSize bounds the number of cached results. Zero disables the cache,
	// a negative value picks AutoCacheSize.
	CacheSize int
	// ValidationDelay is waited between validator lookups.
	ValidationDelay time.Duration
	// Attempts is used for validator requests that do not set their own.
	Attempts uint
	// NewValidator defaults to validator.New.
	NewValidator ValidatorFactory
}

// Engine answers solve, lookup and validation requests against one
// dictionary. It is safe for concurrent use.
type Engine struct {
	dict  *dictionary.Dictionary
	cache *resultCache
	group singleflight.Group
	opts  EngineOptions
}

// NewEngine wraps a loaded dictionary.
func NewEngine(dict *dictionary.Dictionary, opts EngineOptions) *Engine {
	if opts.NewValidator == nil {
		opts.NewValidator = validator.New
	}
	if opts.CacheSize < 0 {
		opts.CacheSize = AutoCacheSize()
		log.Debugf("Result cache sized to %d entries", opts.CacheSize)
	}
	return &Engine{
		dict:  dict,
		cache: newResultCache(opts.CacheSize),
		opts:  opts,
	}
}

// Dictionary returns the served dictionary.
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Solve returns the sorted words that satisfy opts. Identical requests
// running at the same time share one search.
func (e *Engine) Solve(opts solve.Options) ([]string, error) {
	c, err := solve.Derive(opts)
	if err != nil {
		return nil, err
	}
	canonical := c.Key()
	key := cacheKey(canonical)
	if words, ok := e.cache.get(key); ok {
		log.Debugf("Cache hit for %s", canonical)
		return words, nil
	}

	v, _, shared := e.group.Do(canonical, func() (any, error) {
		start := time.Now()
		words := solve.Search(e.dict.Index(), c).Sorted()
		log.Debugf("Solved %s: %d words in %s", canonical, len(words), time.Since(start))
		e.cache.put(key, words)
		return words, nil
	})
	words := v.([]string)
	if shared {
		words = slices.Clone(words)
	}
	return words, nil
}

// Validate confirms words with the validator of the given kind.
func (e *Engine) Validate(ctx context.Context, kind validator.Kind, opts validator.Options, words []string) (validator.Summary, error) {
	if opts.Attempts == 0 {
		opts.Attempts = e.opts.Attempts
	}
	v, err := e.opts.NewValidator(ctx, kind, opts)
	if err != nil {
		return validator.Summary{}, err
	}
	summary, err := validator.ValidateWords(ctx, v, words, validator.BatchOptions{Delay: e.opts.ValidationDelay})
	if err != nil {
		return summary, err
	}
	log.Infof("Validated: %d candidates, %d confirmed by %s", summary.Candidates, summary.Validated, v.Name())
	return summary, nil
}

// Contains reports whether word is in the dictionary.
func (e *Engine) Contains(word string) bool {
	return e.dict.Contains(word)
}

// Complete returns up to limit dictionary words starting with prefix.
func (e *Engine) Complete(prefix string, limit int) []string {
	return e.dict.Complete(prefix, limit)
}

// Stats describes the dictionary and the result cache.
type Stats struct {
	Dictionary dictionary.Stats `json:"dictionary"`
	Cache      CacheStats       `json:"cache"`
}

// Stats returns current engine statistics.
func (e *Engine) Stats() Stats {
	return Stats{Dictionary: e.dict.Stats(), Cache: e.cache.stats()}
}
