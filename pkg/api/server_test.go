package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casdy/pkg/agent"
	"casdy/pkg/config"
	"casdy/pkg/emotion"
	"casdy/pkg/imagegen"
	"casdy/pkg/intent"
	"casdy/pkg/llm"
	"casdy/pkg/memory"
	"casdy/pkg/persona"
	"casdy/pkg/relationship"
	"casdy/pkg/store"
)

type fixedCompleter struct{ reply string }

func (c fixedCompleter) Complete(ctx context.Context, systemPrompt string, messages []llm.Message, opts llm.Options) (string, error) {
	return c.reply, nil
}

type fixedGenerator struct{ url string }

func (g fixedGenerator) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error) {
	return &imagegen.Result{URL: g.url}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := store.NewMemoryStore()
	logger := zap.NewNop()
	cfg, err := config.LoadConfig("does-not-exist.yml")
	require.NoError(t, err)

	extractor, err := intent.NewExtractor(nil, 100, logger)
	require.NoError(t, err)

	sys := agent.NewSystem(agent.Options{
		Config:       cfg,
		Store:        st,
		Completer:    fixedCompleter{reply: "Coucou !"},
		Extractor:    extractor,
		Relationship: relationship.NewEngine(st, relationship.Tuning{}, logger),
		Emotion:      emotion.NewEngine(st, logger),
		Memory:       memory.NewAgent(nil, memory.NewFactStore(st, memory.Tuning{}, logger), logger),
		Generator:    fixedGenerator{url: "https://img.example/a.jpg"},
		Logger:       logger,
	})
	require.NoError(t, sys.RegisterCharacter(&persona.Character{ID: "luna", Name: "Luna", Language: "french"}))

	srv := NewServer(":0", sys, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/chat", map[string]string{
		"character_id": "luna",
		"user_id":      "u1",
		"message":      "Salut !",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body agent.Response
	decodeBody(t, resp, &body)
	assert.Equal(t, "Coucou !", body.Reply)
	assert.NotEmpty(t, body.TraceID)
}

func TestChatValidationErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		req  map[string]string
	}{
		{"empty message", map[string]string{"character_id": "luna", "message": "  "}},
		{"unknown character", map[string]string{"character_id": "nope", "message": "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/chat", tt.req)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestChatRejectsBadJSON(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRelationshipLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/relationship/boost", map[string]any{
		"character_id": "luna", "user_id": "u1", "points": 120,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var state relationship.State
	decodeBody(t, resp, &state)
	assert.Equal(t, 5, state.Level)

	getResp, err := http.Get(ts.URL + "/relationship?character_id=luna&user_id=u1")
	require.NoError(t, err)
	decodeBody(t, getResp, &state)
	assert.Equal(t, 120, state.AffinityPoints)

	resetResp := postJSON(t, ts.URL+"/relationship/reset", map[string]string{
		"character_id": "luna", "user_id": "u1",
	})
	decodeBody(t, resetResp, &state)
	assert.Equal(t, 0, state.Level)
}

func TestBoostRequiresPoints(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/relationship/boost", map[string]string{
		"character_id": "luna", "user_id": "u1",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImageEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/image", map[string]any{
		"character_id": "luna", "user_id": "u1", "type": "selfie",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "https://img.example/a.jpg", body["url"])
}

func TestCharactersAndTraces(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/characters")
	require.NoError(t, err)
	var chars map[string][]map[string]string
	decodeBody(t, resp, &chars)
	require.Len(t, chars["characters"], 1)
	assert.Equal(t, "luna", chars["characters"][0]["id"])

	chat := postJSON(t, ts.URL+"/chat", map[string]string{
		"character_id": "luna", "user_id": "u1", "message": "Salut",
	})
	chat.Body.Close()

	tracesResp, err := http.Get(ts.URL + "/traces")
	require.NoError(t, err)
	var traces map[string][]agent.TraceEvent
	decodeBody(t, tracesResp, &traces)
	require.NotEmpty(t, traces["traces"])
	assert.Equal(t, "luna", traces["traces"][0].CharacterID)
}
