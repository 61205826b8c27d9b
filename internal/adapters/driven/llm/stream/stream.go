// Package stream holds the wire readers shared by the chat streamers:
// server-sent events for OpenAI-compatible and Anthropic endpoints, and
// newline-delimited JSON for Ollama.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

// maxLineBytes bounds a single SSE or NDJSON line.
const maxLineBytes = 1 << 20

// Event is one server-sent event.
type Event struct {
	// Type is the "event:" field, empty when absent.
	Type string

	// Data is the joined "data:" lines.
	Data []byte
}

// SSEReader parses server-sent events.
type SSEReader struct {
	scanner *bufio.Scanner
}

// NewSSEReader creates a reader over r.
func NewSSEReader(r io.Reader) *SSEReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &SSEReader{scanner: scanner}
}

// Next returns the next event with data. Comment lines and events without
// data are skipped. It returns io.EOF at the end of the stream.
func (r *SSEReader) Next() (Event, error) {
	var (
		ev   Event
		data [][]byte
	)
	for r.scanner.Scan() {
		line := bytes.TrimRight(r.scanner.Bytes(), "\r")

		if len(line) == 0 {
			if len(data) > 0 {
				ev.Data = bytes.Join(data, []byte("\n"))
				return ev, nil
			}
			ev = Event{}
			continue
		}

		switch {
		case line[0] == ':':
		case bytes.HasPrefix(line, []byte("event:")):
			ev.Type = string(bytes.TrimSpace(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			data = append(data, bytes.Clone(bytes.TrimPrefix(line[len("data:"):], []byte(" "))))
		}
	}
	if err := r.scanner.Err(); err != nil {
		return Event{}, err
	}
	if len(data) > 0 {
		ev.Data = bytes.Join(data, []byte("\n"))
		return ev, nil
	}
	return Event{}, io.EOF
}

// LineReader yields the non-blank lines of a newline-delimited stream.
type LineReader struct {
	scanner *bufio.Scanner
}

// NewLineReader creates a reader over r.
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineReader{scanner: scanner}
}

// Next returns the next non-blank line, or io.EOF.
func (r *LineReader) Next() ([]byte, error) {
	for r.scanner.Scan() {
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) > 0 {
			return bytes.Clone(line), nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Emitter delivers events to a stream consumer and stops once the
// consumer's context is cancelled.
type Emitter struct {
	ctx    context.Context
	events chan driven.StreamEvent
}

// NewEmitter creates an emitter and its unbuffered channel.
func NewEmitter(ctx context.Context) *Emitter {
	return &Emitter{ctx: ctx, events: make(chan driven.StreamEvent)}
}

// Events returns the receive side.
func (e *Emitter) Events() <-chan driven.StreamEvent {
	return e.events
}

// Delta sends a text increment. Empty text is ignored. It returns false
// when the consumer has gone away.
func (e *Emitter) Delta(text string) bool {
	if text == "" {
		return true
	}
	return e.send(driven.StreamEvent{Delta: text})
}

// Done sends the terminal success event.
func (e *Emitter) Done() {
	e.send(driven.StreamEvent{Done: true})
}

// Fail sends the terminal error event unless the failure was caused by
// the consumer cancelling.
func (e *Emitter) Fail(err error) {
	if e.ctx.Err() != nil {
		return
	}
	e.send(driven.StreamEvent{Err: err})
}

// Close closes the channel. Call it exactly once, after the last event.
func (e *Emitter) Close() {
	close(e.events)
}

func (e *Emitter) send(ev driven.StreamEvent) bool {
	select {
	case e.events <- ev:
		return true
	case <-e.ctx.Done():
		return false
	}
}

// StatusError builds an error from a non-success response. The body is
// read up to a small limit; decode extracts a provider message from it
// and may return "".
func StatusError(provider string, resp *http.Response, decode func([]byte) string) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("%s: API returned status %d (failed to read body: %w)", provider, resp.StatusCode, err)
	}
	if decode != nil {
		if msg := decode(body); msg != "" {
			return fmt.Errorf("%s: API returned status %d: %s", provider, resp.StatusCode, msg)
		}
	}
	return fmt.Errorf("%s: API returned status %d: %s", provider, resp.StatusCode, bytes.TrimSpace(body))
}

// IsEOF reports a clean end of stream.
func IsEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
