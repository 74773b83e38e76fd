// Package validator confirms candidate words against third-party dictionary
// services and attaches a definition and a reference URL to each one.
package validator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind selects a lookup backend.
type Kind string

const (
	KindFreeDictionary Kind = "free-dictionary"
	KindMerriamWebster Kind = "merriam-webster"
	KindWordnik        Kind = "wordnik"
	KindCustom         Kind = "custom"
)

var kinds = []Kind{KindFreeDictionary, KindMerriamWebster, KindWordnik, KindCustom}

// ParseKind parses a backend name.
func ParseKind(s string) (Kind, error) {
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown validator %q, valid options: %s", s, strings.Join(names, ", "))
}

// UnmarshalText lets config files name a backend.
func (k *Kind) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*k = ""
		return nil
	}
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// DisplayName is the human-readable backend name.
func (k Kind) DisplayName() string {
	switch k {
	case KindFreeDictionary:
		return "Free Dictionary"
	case KindMerriamWebster:
		return "Merriam-Webster"
	case KindWordnik:
		return "Wordnik"
	case KindCustom:
		return "Custom"
	}
	return string(k)
}

// Entry is a confirmed word.
type Entry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
	URL        string `json:"url"`
}

// Validator looks up a single word. A nil entry with a nil error means the
// service does not know the word.
type Validator interface {
	Name() string
	Lookup(ctx context.Context, word string) (*Entry, error)
}

// LookupError is a failed lookup of one word.
type LookupError struct {
	Word    string
	Backend string
	Err     error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup of %q: %v", e.Backend, e.Word, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// SetupError means a validator could not be constructed.
type SetupError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s validator: %s: %v", e.Kind.DisplayName(), e.Reason, e.Err)
	}
	return fmt.Sprintf("%s validator: %s", e.Kind.DisplayName(), e.Reason)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Options configures New.
type Options struct {
	APIKey string
	// URL is the endpoint of a custom, Free Dictionary compatible service.
	URL string
	// BaseURL overrides the built-in endpoint of the selected backend.
	BaseURL string
	Client  *http.Client
	// Attempts bounds retries of transient failures (429, 5xx, network).
	Attempts uint
	// RetryDelay is the initial pause between attempts.
	RetryDelay time.Duration
}

const noDefinition = "No definition available"

// New builds the validator for kind. The custom backend is probed before it
// is returned.
func New(ctx context.Context, kind Kind, opts Options) (Validator, error) {
	f := newFetcher(opts)
	switch kind {
	case KindFreeDictionary:
		return &freeDictionary{fetcher: f, base: orDefault(opts.BaseURL, freeDictionaryURL), name: kind.DisplayName()}, nil
	case KindMerriamWebster:
		if opts.APIKey == "" {
			return nil, &SetupError{Kind: kind, Reason: "an API key is required (--api-key)"}
		}
		return &merriamWebster{fetcher: f, base: orDefault(opts.BaseURL, merriamWebsterURL), key: opts.APIKey}, nil
	case KindWordnik:
		if opts.APIKey == "" {
			return nil, &SetupError{Kind: kind, Reason: "an API key is required (--api-key)"}
		}
		return &wordnik{fetcher: f, base: orDefault(opts.BaseURL, wordnikURL), key: opts.APIKey}, nil
	case KindCustom:
		if opts.URL == "" {
			return nil, &SetupError{Kind: kind, Reason: "a URL is required (--validator-url)"}
		}
		v := &freeDictionary{fetcher: f, base: strings.TrimRight(opts.URL, "/"), name: kind.DisplayName()}
		ok, err := v.probe(ctx)
		if err != nil {
			return nil, &SetupError{Kind: kind, Reason: "probe failed", Err: err}
		}
		if !ok {
			return nil, &SetupError{
				Kind:   kind,
				Reason: fmt.Sprintf("%q does not look like a Free Dictionary compatible API", opts.URL),
			}
		}
		return v, nil
	}
	return nil, &SetupError{Kind: kind, Reason: "unknown validator"}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return strings.TrimRight(s, "/")
}
