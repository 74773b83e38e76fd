package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

const (
	defaultCompleteLimit = 10
	maxCompleteLimit     = 1000
	maxPrefixLength      = 60
	maxRequestBytes      = 1 << 20
)

// HandlerOptions configures NewHandler.
type HandlerOptions struct {
	// AllowOrigin is sent as Access-Control-Allow-Origin. Empty allows any
	// origin.
	AllowOrigin string
	// Logger receives one debug line per request. Defaults to the package
	// logger.
	Logger *log.Logger
}

type handler struct {
	engine *Engine
	opts   HandlerOptions
}

// NewHandler returns the HTTP API:
//
//	GET  /health                    -> "OK"
//	POST /solve                     -> sorted words, or a validation summary
//	GET  /complete?prefix=&limit=   -> completions
//	GET  /stats                     -> dictionary and cache statistics
func NewHandler(engine *Engine, opts HandlerOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	h := &handler{engine: engine, opts: opts}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /solve", h.solve)
	mux.HandleFunc("GET /complete", h.complete)
	mux.HandleFunc("GET /stats", h.stats)
	return h.cors(logRequests(opts.Logger, mux))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("OK"))
}

func (h *handler) solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Letters == "" || req.Present == "" {
		http.Error(w, "Missing letters or present letters", http.StatusBadRequest)
		return
	}

	words, err := h.engine.Solve(req.Options())
	var cfgErr *solve.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("Solving request: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if req.Validator == "" {
		writeJSON(w, http.StatusOK, nonNil(words))
		return
	}

	summary, err := h.engine.Validate(r.Context(), req.Validator, req.ValidatorOptions(), words)
	var setupErr *validator.SetupError
	switch {
	case errors.As(err, &setupErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case err != nil:
		// The client went away; there is nobody left to answer.
		log.Debugf("Validation stopped: %v", err)
	default:
		writeJSON(w, http.StatusOK, summary)
	}
}

func (h *handler) complete(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		http.Error(w, "Missing 'prefix' parameter", http.StatusBadRequest)
		return
	}
	if len(prefix) > maxPrefixLength {
		http.Error(w, "Prefix exceeds maximum length of 60 characters", http.StatusBadRequest)
		return
	}
	limit := defaultCompleteLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid 'limit' parameter", http.StatusBadRequest)
			return
		}
		limit = min(n, maxCompleteLimit)
	}
	words := h.engine.Complete(prefix, limit)
	writeJSON(w, http.StatusOK, CompleteResponse{
		Prefix: prefix,
		Words:  nonNil(words),
		Count:  len(words),
	})
}

func (h *handler) stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Stats())
}

func (h *handler) cors(next http.Handler) http.Handler {
	origin := h.opts.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const requestIDHeader = "X-Request-ID"

// logRequests tags every request with an ID, reusing the client's when sent,
// and echoes it in the response.
func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
		logger.Debug("handled request", "id", id, "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func nonNil(words []string) []string {
	if words == nil {
		return []string{}
	}
	return words
}
