package validator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const (
	freeDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"
	merriamWebsterURL = "https://dictionaryapi.com/api/v3/references/collegiate/json"
	wordnikURL        = "https://api.wordnik.com/v4/word.json"
)

var errTransient = errors.New("transient failure")

// fetcher issues GET requests, retrying rate limiting and server errors.
type fetcher struct {
	client     *http.Client
	attempts   uint
	retryDelay time.Duration
}

func newFetcher(opts Options) *fetcher {
	f := &fetcher{client: opts.Client, attempts: opts.Attempts, retryDelay: opts.RetryDelay}
	if f.client == nil {
		f.client = &http.Client{Timeout: 15 * time.Second}
	}
	if f.attempts == 0 {
		f.attempts = 1
	}
	if f.retryDelay == 0 {
		f.retryDelay = 500 * time.Millisecond
	}
	return f
}

// get returns the status and body of a GET to rawURL. Statuses other than
// 429 and 5xx are returned to the caller without error.
func (f *fetcher) get(ctx context.Context, rawURL string) (int, []byte, error) {
	type reply struct {
		status int
		body   []byte
	}
	r, err := retry.DoWithData(func() (reply, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return reply{}, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return reply{}, fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return reply{}, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return reply{}, fmt.Errorf("%w: unexpected status %d", errTransient, resp.StatusCode)
		}
		return reply{status: resp.StatusCode, body: body}, nil
	},
		retry.Context(ctx),
		retry.Attempts(f.attempts),
		retry.Delay(f.retryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debugf("Retrying %s (attempt %d): %v", rawURL, n+1, err)
		}),
	)
	if err != nil {
		return 0, nil, err
	}
	return r.status, r.body, nil
}

func jsonBody(status int, body []byte) (gjson.Result, error) {
	if status != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("unexpected status %d", status)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.New("malformed JSON response")
	}
	return gjson.ParseBytes(body), nil
}

func definitionOr(r gjson.Result) string {
	if s := r.String(); r.Exists() && s != "" {
		return s
	}
	return noDefinition
}

// freeDictionary also serves custom, API-compatible endpoints.
type freeDictionary struct {
	*fetcher
	base string
	name string
}

func (v *freeDictionary) Name() string { return v.name }

func (v *freeDictionary) Lookup(ctx context.Context, word string) (*Entry, error) {
	status, body, err := v.get(ctx, v.base+"/"+url.PathEscape(word))
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.name, Err: err}
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	doc, err := jsonBody(status, body)
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.name, Err: err}
	}
	if !doc.IsArray() || len(doc.Array()) == 0 {
		return nil, nil
	}
	return &Entry{
		Word:       word,
		Definition: definitionOr(doc.Get("0.meanings.0.definitions.0.definition")),
		URL:        "https://en.wiktionary.org/wiki/" + url.PathEscape(word),
	}, nil
}

// probe checks that base answers a sample lookup in Free Dictionary format.
func (v *freeDictionary) probe(ctx context.Context) (bool, error) {
	status, body, err := v.get(ctx, v.base+"/test")
	if err != nil {
		return false, err
	}
	if status < 200 || status > 299 {
		return false, nil
	}
	if !gjson.ValidBytes(body) {
		return false, errors.New("probe: invalid JSON response")
	}
	return gjson.GetBytes(body, "0.meanings").Exists(), nil
}

type merriamWebster struct {
	*fetcher
	base string
	key  string
}

func (v *merriamWebster) Name() string { return KindMerriamWebster.DisplayName() }

func (v *merriamWebster) Lookup(ctx context.Context, word string) (*Entry, error) {
	u := fmt.Sprintf("%s/%s?key=%s", v.base, url.PathEscape(word), url.QueryEscape(v.key))
	status, body, err := v.get(ctx, u)
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.Name(), Err: err}
	}
	doc, err := jsonBody(status, body)
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.Name(), Err: err}
	}
	if !doc.IsArray() {
		return nil, &LookupError{Word: word, Backend: v.Name(), Err: errors.New("unexpected response format")}
	}
	entries := doc.Array()
	// Unknown words come back as a list of spelling suggestions.
	if len(entries) == 0 || entries[0].Type == gjson.String {
		return nil, nil
	}
	return &Entry{
		Word:       word,
		Definition: definitionOr(entries[0].Get("shortdef.0")),
		URL:        "https://www.merriam-webster.com/dictionary/" + url.PathEscape(word),
	}, nil
}

type wordnik struct {
	*fetcher
	base string
	key  string
}

func (v *wordnik) Name() string { return KindWordnik.DisplayName() }

func (v *wordnik) Lookup(ctx context.Context, word string) (*Entry, error) {
	u := fmt.Sprintf("%s/%s/definitions?limit=1&api_key=%s", v.base, url.PathEscape(word), url.QueryEscape(v.key))
	status, body, err := v.get(ctx, u)
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.Name(), Err: err}
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	doc, err := jsonBody(status, body)
	if err != nil {
		return nil, &LookupError{Word: word, Backend: v.Name(), Err: err}
	}
	if !doc.IsArray() || len(doc.Array()) == 0 {
		return nil, nil
	}
	return &Entry{
		Word:       word,
		Definition: definitionOr(doc.Get("0.text")),
		URL:        "https://www.wordnik.com/words/" + url.PathEscape(word),
	}, nil
}
