package stream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

func TestSSEReader_Events(t *testing.T) {
	input := ": OPENROUTER PROCESSING\n\n" +
		"data: {\"a\":1}\n\n" +
		"event: content_block_delta\r\n" +
		"data: line one\r\n" +
		"data:line two\r\n\r\n" +
		"id: 7\n\n" +
		"data: [DONE]"

	r := NewSSEReader(strings.NewReader(input))

	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Event{Data: []byte(`{"a":1}`)}, ev)

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "content_block_delta", ev.Type)
	assert.Equal(t, "line one\nline two", string(ev.Data))

	ev, err = r.Next()
	require.NoError(t, err)
	assert.Empty(t, ev.Type)
	assert.Equal(t, "[DONE]", string(ev.Data))

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("{\"a\":1}\n\n  \n{\"b\":2}"))

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(line))

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(line))

	_, err = r.Next()
	assert.True(t, IsEOF(err))
}

func TestEmitter_DeliversInOrder(t *testing.T) {
	e := NewEmitter(context.Background())

	go func() {
		defer e.Close()
		e.Delta("a")
		e.Delta("")
		e.Delta("b")
		e.Done()
	}()

	var got []driven.StreamEvent
	for ev := range e.Events() {
		got = append(got, ev)
	}

	assert.Equal(t, []driven.StreamEvent{{Delta: "a"}, {Delta: "b"}, {Done: true}}, got)
}

func TestEmitter_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := NewEmitter(ctx)
	cancel()

	assert.False(t, e.Delta("dropped"))

	done := make(chan struct{})
	go func() {
		e.Fail(errors.New("connection reset"))
		close(done)
	}()
	<-done
}

func TestStatusError(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusUnauthorized,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"bad key"}}`)),
	}

	err := StatusError("openai", resp, func(b []byte) string {
		if strings.Contains(string(b), "bad key") {
			return "bad key"
		}
		return ""
	})

	assert.EqualError(t, err, "openai: API returned status 401: bad key")

	resp.Body = io.NopCloser(strings.NewReader(" upstream down \n"))
	err = StatusError("ollama", resp, nil)
	assert.EqualError(t, err, "ollama: API returned status 401: upstream down")
}
