package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordhive/pkg/solve"
	"github.com/bastiangx/wordhive/pkg/validator"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec selects the IPC framing.
type Codec string

const (
	// CodecMsgpack exchanges a stream of msgpack maps.
	CodecMsgpack Codec = "msgpack"
	// CodecJSON exchanges one JSON object per line.
	CodecJSON Codec = "json"
)

// ParseCodec parses a codec name.
func ParseCodec(s string) (Codec, error) {
	switch c := Codec(strings.ToLower(s)); c {
	case CodecMsgpack, CodecJSON:
		return c, nil
	}
	return "", fmt.Errorf("unknown codec %q, use msgpack or json", s)
}

// errBadRequest marks a message that could not be decoded but left the
// stream usable.
var errBadRequest = errors.New("invalid request")

type messageReader interface {
	next(v any) error
}

type messageWriter interface {
	send(v any) error
}

// msgpack messages use the same field names as JSON.
type msgpackReader struct{ dec *msgpack.Decoder }

// next reads one whole frame before decoding it, so a frame with badly typed
// fields is rejected without losing the position in the stream.
func (r msgpackReader) next(v any) error {
	var frame msgpack.RawMessage
	if err := r.dec.Decode(&frame); err != nil {
		return err
	}
	dec := msgpack.NewDecoder(bytes.NewReader(frame))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

type msgpackWriter struct{ enc *msgpack.Encoder }

func (w msgpackWriter) send(v any) error {
	return w.enc.Encode(v)
}

type jsonReader struct{ r *bufio.Reader }

func (r jsonReader) next(v any) error {
	for {
		line, err := r.r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if err != nil {
				return err
			}
			continue
		}
		if uerr := json.Unmarshal(line, v); uerr != nil {
			return fmt.Errorf("%w: %v", errBadRequest, uerr)
		}
		return nil
	}
}

type jsonWriter struct{ enc *json.Encoder }

func (w jsonWriter) send(v any) error {
	return w.enc.Encode(v)
}

// IPCServer answers requests read from r on w until r is exhausted.
type IPCServer struct {
	engine *Engine
	reader messageReader
	writer messageWriter
}

// NewIPCServer creates a server speaking codec over r and w, typically
// stdin and stdout.
func NewIPCServer(engine *Engine, r io.Reader, w io.Writer, codec Codec) *IPCServer {
	s := &IPCServer{engine: engine}
	switch codec {
	case CodecJSON:
		s.reader = jsonReader{r: bufio.NewReader(r)}
		s.writer = jsonWriter{enc: json.NewEncoder(w)}
	default:
		dec := msgpack.NewDecoder(bufio.NewReader(r))
		dec.SetCustomStructTag("json")
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		s.reader = msgpackReader{dec: dec}
		s.writer = msgpackWriter{enc: enc}
	}
	return s
}

// Serve signals readiness and then handles requests one at a time. It
// returns nil once the input is exhausted, and the first read or write
// error otherwise. ctx bounds validator lookups and is checked between
// requests.
func (s *IPCServer) Serve(ctx context.Context) error {
	log.Debug("Starting IPC server.")
	if err := s.writer.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		err := s.reader.next(&req)
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errBadRequest):
			log.Errorf("Decoding request: %v", err)
			if err := s.sendError("", "Invalid request", 400); err != nil {
				return err
			}
			continue
		case err != nil:
			log.Errorf("Reading request: %v", err)
			return err
		}

		if err := s.handle(ctx, req); err != nil {
			return err
		}
	}
}

func (s *IPCServer) handle(ctx context.Context, req Request) error {
	switch req.Command {
	case "solve":
		return s.handleSolve(ctx, req)
	case "check":
		if req.Word == "" {
			return s.sendError(req.ID, "Missing 'word' field", 400)
		}
		return s.writer.send(CheckResponse{ID: req.ID, Word: req.Word, Found: s.engine.Contains(req.Word)})
	case "complete":
		return s.handleComplete(req)
	case "stats":
		stats := s.engine.Stats()
		return s.writer.send(StatsResponse{ID: req.ID, Dictionary: stats.Dictionary, Cache: stats.Cache})
	case "health":
		return s.writer.send(StatusResponse{ID: req.ID, Status: "ok"})
	}
	return s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Command), 400)
}

func (s *IPCServer) handleSolve(ctx context.Context, req Request) error {
	sr := req.Solve()
	if sr.Letters == "" || sr.Present == "" {
		return s.sendError(req.ID, "Missing letters or present letters", 400)
	}

	start := time.Now()
	words, err := s.engine.Solve(sr.Options())
	var cfgErr *solve.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return s.sendError(req.ID, err.Error(), 400)
	case err != nil:
		return s.sendError(req.ID, err.Error(), 500)
	}

	resp := SolveResponse{ID: req.ID, Count: len(words)}
	if sr.Validator == "" {
		resp.Words = nonNil(words)
	} else {
		summary, err := s.engine.Validate(ctx, sr.Validator, sr.ValidatorOptions(), words)
		var setupErr *validator.SetupError
		switch {
		case errors.As(err, &setupErr):
			return s.sendError(req.ID, err.Error(), 400)
		case err != nil:
			return s.sendError(req.ID, err.Error(), 500)
		}
		resp.Summary = &summary
	}
	resp.TimeTaken = time.Since(start).Milliseconds()
	return s.writer.send(resp)
}

func (s *IPCServer) handleComplete(req Request) error {
	if req.Prefix == "" {
		return s.sendError(req.ID, "Missing 'prefix' field", 400)
	}
	if len(req.Prefix) > maxPrefixLength {
		return s.sendError(req.ID, "Prefix exceeds maximum length of 60 characters", 400)
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultCompleteLimit
	}
	words := s.engine.Complete(req.Prefix, min(limit, maxCompleteLimit))
	return s.writer.send(CompleteResponse{ID: req.ID, Prefix: req.Prefix, Words: nonNil(words), Count: len(words)})
}

func (s *IPCServer) sendError(id, message string, code int) error {
	return s.writer.send(ErrorResponse{ID: id, Error: message, Code: code})
}
