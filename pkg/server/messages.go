package server

import (
	"github.com/bastiangx/wordhive/pkg/dictionary"
	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
)

// SolveRequest carries the puzzle fields of a config file.
type SolveRequest struct {
	Letters       string `json:"letters"`
	Present       string `json:"present"`
	CaseSensitive bool   `json:"case-sensitive,omitempty"`
	MinWordLength int    `json:"minimal-word-length,omitempty"`
	MaxWordLength int    `json:"maximal-word-length,omitempty"`
	Repeats       int    `json:"repeats,omitempty"`

	Validator    validator.Kind `json:"validator,omitempty"`
	APIKey       string         `json:"api-key,omitempty"`
	ValidatorURL string         `json:"validator-url,omitempty"`
}

// Options converts the request into search options.
func (r SolveRequest) Options() solve.Options {
	return solve.Options{
		Letters:       r.Letters,
		Present:       r.Present,
		CaseSensitive: r.CaseSensitive,
		MinLength:     r.MinWordLength,
		MaxLength:     r.MaxWordLength,
		MaxRepeats:    r.Repeats,
	}
}

// ValidatorOptions returns the lookup settings named in the request.
func (r SolveRequest) ValidatorOptions() validator.Options {
	return validator.Options{APIKey: r.APIKey, URL: r.ValidatorURL}
}

// Request is one IPC message. Command selects the operation; the other
// fields are read as the command needs them.
//
//	{"id": "1", "command": "solve", "letters": "walrus", "present": "w"}
//	{"id": "2", "command": "check", "word": "walrus"}
//	{"id": "3", "command": "complete", "prefix": "wa", "limit": 5}
type Request struct {
	ID      string `json:"id,omitempty"`
	Command string `json:"command"`

	Letters       string `json:"letters,omitempty"`
	Present       string `json:"present,omitempty"`
	CaseSensitive bool   `json:"case-sensitive,omitempty"`
	MinWordLength int    `json:"minimal-word-length,omitempty"`
	MaxWordLength int    `json:"maximal-word-length,omitempty"`
	Repeats       int    `json:"repeats,omitempty"`

	Validator    validator.Kind `json:"validator,omitempty"`
	APIKey       string         `json:"api-key,omitempty"`
	ValidatorURL string         `json:"validator-url,omitempty"`

	Word   string `json:"word,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// Solve extracts the puzzle part of the request.
func (r Request) Solve() SolveRequest {
	return SolveRequest{
		Letters:       r.Letters,
		Present:       r.Present,
		CaseSensitive: r.CaseSensitive,
		MinWordLength: r.MinWordLength,
		MaxWordLength: r.MaxWordLength,
		Repeats:       r.Repeats,
		Validator:     r.Validator,
		APIKey:        r.APIKey,
		ValidatorURL:  r.ValidatorURL,
	}
}

// SolveResponse answers a solve. Summary is set instead of Words when the
// request named a validator.
type SolveResponse struct {
	ID        string             `json:"id,omitempty"`
	Words     []string           `json:"words,omitempty"`
	Count     int                `json:"count"`
	Summary   *validator.Summary `json:"summary,omitempty"`
	TimeTaken int64              `json:"time_ms"`
}

// CheckResponse answers a dictionary membership check.
type CheckResponse struct {
	ID    string `json:"id,omitempty"`
	Word  string `json:"word"`
	Found bool   `json:"found"`
}

// CompleteResponse answers a prefix completion.
type CompleteResponse struct {
	ID     string   `json:"id,omitempty"`
	Prefix string   `json:"prefix"`
	Words  []string `json:"words"`
	Count  int      `json:"count"`
}

// StatsResponse carries engine statistics.
type StatsResponse struct {
	ID         string           `json:"id,omitempty"`
	Dictionary dictionary.Stats `json:"dictionary"`
	Cache      CacheStats       `json:"cache"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
	Code  int    `json:"code"`
}
