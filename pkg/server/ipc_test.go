package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestParseCodec(t *testing.T) {
	c, err := ParseCodec("MsgPack")
	require.NoError(t, err)
	assert.Equal(t, CodecMsgpack, c)
	c, err = ParseCodec("json")
	require.NoError(t, err)
	assert.Equal(t, CodecJSON, c)
	_, err = ParseCodec("xml")
	assert.Error(t, err)
}

func TestIPCJSONSession(t *testing.T) {
	in := strings.Join([]string{
		`{"id":"1","command":"solve","letters":"abcdefg","present":"a"}`,
		`not json`,
		``,
		`{"id":"2","command":"check","word":"Fade"}`,
		`{"id":"3","command":"complete","prefix":"fa","limit":2}`,
		`{"id":"4","command":"nope"}`,
		`{"id":"5","command":"health"}`,
		`{"id":"6","command":"solve","letters":"abc","present":"a","minimal-word-length":5,"maximal-word-length":3}`,
		`{"id":"7","command":"check"}`,
	}, "\n")
	var out bytes.Buffer
	s := NewIPCServer(newTestEngine(EngineOptions{CacheSize: 4}), strings.NewReader(in), &out, CodecJSON)
	require.NoError(t, s.Serve(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 9)

	assert.JSONEq(t, `{"status":"ready"}`, lines[0])

	var solved SolveResponse
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &solved))
	assert.Equal(t, "1", solved.ID)
	assert.Equal(t, fadeWords, solved.Words)
	assert.Equal(t, 5, solved.Count)
	assert.Nil(t, solved.Summary)

	assert.JSONEq(t, `{"error":"Invalid request","code":400}`, lines[2])
	assert.JSONEq(t, `{"id":"2","word":"Fade","found":true}`, lines[3])
	assert.JSONEq(t, `{"id":"3","prefix":"fa","words":["face","faced"],"count":2}`, lines[4])
	assert.JSONEq(t, `{"id":"4","error":"Unknown command: nope","code":400}`, lines[5])
	assert.JSONEq(t, `{"id":"5","status":"ok"}`, lines[6])

	var failed ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(lines[7]), &failed))
	assert.Equal(t, "6", failed.ID)
	assert.Equal(t, 400, failed.Code)
	assert.Contains(t, failed.Error, "maximal-word-length")

	assert.JSONEq(t, `{"id":"7","error":"Missing 'word' field","code":400}`, lines[8])
}

func TestIPCMsgpackSession(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range []map[string]any{
		{"id": "a", "command": "solve", "letters": "abcdefg", "present": "a", "validator": "free-dictionary"},
		{"id": "b", "command": "stats"},
	} {
		require.NoError(t, enc.Encode(req))
	}

	var out bytes.Buffer
	e := newTestEngine(EngineOptions{CacheSize: 4, NewValidator: stubFactory("face")})
	require.NoError(t, NewIPCServer(e, &in, &out, CodecMsgpack).Serve(context.Background()))

	dec := msgpack.NewDecoder(&out)
	dec.SetCustomStructTag("json")

	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)

	var solved SolveResponse
	require.NoError(t, dec.Decode(&solved))
	assert.Equal(t, "a", solved.ID)
	assert.Empty(t, solved.Words)
	require.NotNil(t, solved.Summary)
	assert.Equal(t, 5, solved.Summary.Candidates)
	assert.Equal(t, 1, solved.Summary.Validated)
	assert.Equal(t, "face", solved.Summary.Entries[0].Word)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, "b", stats.ID)
	assert.Equal(t, 8, stats.Dictionary.Words)
	assert.Equal(t, 1, stats.Cache.Entries)
}

func TestIPCMsgpackBadFieldKeepsServing(t *testing.T) {
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	require.NoError(t, enc.Encode(map[string]any{"id": "x", "command": "complete", "prefix": "fa", "limit": "2"}))
	require.NoError(t, enc.Encode(map[string]any{"id": "y", "command": "health"}))

	var out bytes.Buffer
	require.NoError(t, NewIPCServer(newTestEngine(EngineOptions{}), &in, &out, CodecMsgpack).Serve(context.Background()))

	dec := msgpack.NewDecoder(&out)
	dec.SetCustomStructTag("json")

	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)

	var failed ErrorResponse
	require.NoError(t, dec.Decode(&failed))
	assert.Equal(t, 400, failed.Code)
	assert.Equal(t, "Invalid request", failed.Error)

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "y", health.ID)
	assert.Equal(t, "ok", health.Status)
}

func TestIPCStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	s := NewIPCServer(newTestEngine(EngineOptions{}), strings.NewReader(`{"command":"health"}`), &out, CodecJSON)
	assert.ErrorIs(t, s.Serve(ctx), context.Canceled)
	assert.JSONEq(t, `{"status":"ready"}`, out.String())
}
