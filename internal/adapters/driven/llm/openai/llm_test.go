package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

func collect(t *testing.T, events <-chan driven.StreamEvent) []driven.StreamEvent {
	t.Helper()
	var got []driven.StreamEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return got
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("stream did not close")
			return nil
		}
	}
}

func sseServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return srv
}

func writeChunk(w http.ResponseWriter, content string) {
	payload, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"delta": map[string]any{"content": content}}},
	})
	fmt.Fprintf(w, "data: %s\n\n", payload)
	w.(http.Flusher).Flush()
}

func TestNewStreamer(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewStreamer(Config{Name: "openrouter"})
		assert.EqualError(t, err, "openrouter: API key is required")
	})

	t.Run("defaults", func(t *testing.T) {
		s, err := NewStreamer(Config{APIKey: "sk"})
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, s.baseURL)
		assert.Equal(t, DefaultModel, s.ModelName())
		assert.Equal(t, "openai", s.name)
	})
}

func TestStreamer_StreamChat(t *testing.T) {
	var got chatCompletionRequest
	srv := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "finder", r.Header.Get("X-Title"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": OPENROUTER PROCESSING\n\n")
		writeChunk(w, "The capital ")
		writeChunk(w, "")
		writeChunk(w, "is Paris [notes.md:3].")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	s, err := NewStreamer(Config{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "test-model",
		Headers: map[string]string{"X-Title": "finder"},
	})
	require.NoError(t, err)

	events, err := s.StreamChat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "ctx"},
		{Role: driven.RoleUser, Content: "capital?"},
	}, driven.ChatOptions{MaxTokens: 256})
	require.NoError(t, err)

	assert.Equal(t, []driven.StreamEvent{
		{Delta: "The capital "},
		{Delta: "is Paris [notes.md:3]."},
		{Done: true},
	}, collect(t, events))

	assert.Equal(t, "test-model", got.Model)
	assert.True(t, got.Stream)
	assert.Equal(t, 256, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
}

func TestStreamer_StreamChat_StatusError(t *testing.T) {
	srv := sseServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"No auth credentials found","code":401}}`)
	})

	s, err := NewStreamer(Config{Name: "openrouter", APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.StreamChat(context.Background(), nil, driven.ChatOptions{})

	assert.EqualError(t, err, "openrouter: API returned status 401: No auth credentials found")
}

func TestStreamer_StreamChat_MidStreamError(t *testing.T) {
	srv := sseServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeChunk(w, "partial")
		fmt.Fprint(w, "data: {\"error\":{\"message\":\"provider overloaded\"}}\n\n")
	})

	s, err := NewStreamer(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	events, err := s.StreamChat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)

	got := collect(t, events)
	require.Len(t, got, 2)
	assert.Equal(t, "partial", got[0].Delta)
	assert.EqualError(t, got[1].Err, "openai error: provider overloaded")
}

func TestStreamer_StreamChat_EndWithoutDone(t *testing.T) {
	srv := sseServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeChunk(w, "all")
	})

	s, err := NewStreamer(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	events, err := s.StreamChat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)

	assert.Equal(t, []driven.StreamEvent{{Delta: "all"}, {Done: true}}, collect(t, events))
}

func TestStreamer_StreamChat_Cancel(t *testing.T) {
	release := make(chan struct{})
	srv := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeChunk(w, "first")
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	s, err := NewStreamer(Config{APIKey: "sk", BaseURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := s.StreamChat(ctx, nil, driven.ChatOptions{})
	require.NoError(t, err)

	first := <-events
	assert.Equal(t, "first", first.Delta)
	cancel()

	for ev := range events {
		assert.Nil(t, ev.Err, "cancellation is not reported as an error")
	}
}

func TestStreamer_Ping(t *testing.T) {
	srv := sseServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "/models", r.URL.Path)
		fmt.Fprint(w, `{"data":[]}`)
	})

	good, err := NewStreamer(Config{APIKey: "good", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.NoError(t, good.Ping(context.Background()))

	bad, err := NewStreamer(Config{APIKey: "bad", BaseURL: srv.URL})
	require.NoError(t, err)
	assert.Error(t, bad.Ping(context.Background()))
	assert.NoError(t, bad.Close())
}
