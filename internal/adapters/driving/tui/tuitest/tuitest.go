// Package tuitest builds real sessions over an in-memory corpus for TUI
// tests, with a chat transport the test feeds by hand.
package tuitest

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/services"
)

// Streamer is a driven.ChatStreamer whose streams are fed by the test.
type Streamer struct {
	mu      sync.Mutex
	streams []chan driven.StreamEvent
}

// StreamChat opens a new buffered stream.
func (s *Streamer) StreamChat(
	_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan driven.StreamEvent, 64)
	s.streams = append(s.streams, ch)
	return ch, nil
}

// ModelName returns a fixed name.
func (s *Streamer) ModelName() string { return "test-model" }

// Close does nothing.
func (s *Streamer) Close() error { return nil }

// Wait returns the i-th opened stream, waiting up to a second for the
// chat service to open it. Returns nil on timeout.
func (s *Streamer) Wait(i int) chan driven.StreamEvent {
	if i < 0 {
		return nil
	}
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		if i < len(s.streams) {
			ch := s.streams[i]
			s.mu.Unlock()
			return ch
		}
		s.mu.Unlock()
		if time.Now().After(deadline) {
			return nil
		}
		time.Sleep(time.Millisecond)
	}
}

// Fixture is a session wired to real services.
type Fixture struct {
	Corpus   *services.CorpusIndex
	Chat     *services.ChatService
	Session  *services.Session
	Streamer *Streamer
}

// New builds a fixture over docs, a map of path to content. Without chat
// the session reports chat as unavailable.
func New(docs map[string]string, withChat bool) *Fixture {
	raws := make([]domain.RawDocument, 0, len(docs))
	for p, content := range docs {
		raws = append(raws, domain.RawDocument{Path: p, Content: []byte(content)})
	}
	corpus := services.NewCorpusIndex("/corpus", raws)

	f := &Fixture{Corpus: corpus}
	var streamer driven.ChatStreamer
	if withChat {
		f.Streamer = &Streamer{}
		streamer = f.Streamer
	}
	f.Chat = services.NewChatService(corpus, streamer, nil, driven.ChatOptions{})
	f.Session = services.NewSession(services.NewSearchService(corpus), corpus, f.Chat)
	return f
}

// Type sends every rune of s as character input.
func (f *Fixture) Type(s string) {
	for _, r := range s {
		f.Session.Handle(context.Background(), domain.Char(r))
	}
}

// Press sends a single key input.
func (f *Fixture) Press(kind domain.InputKind) domain.Effect {
	return f.Session.Handle(context.Background(), domain.Key(kind))
}

// Finish feeds text to the open stream, closes it and pumps until the
// answer is final. Returns false if it did not finish within a second.
func (f *Fixture) Finish(text string) bool {
	ch := f.Streamer.Wait(f.answers() - 1)
	if ch == nil {
		return false
	}
	ch <- driven.StreamEvent{Delta: text}
	ch <- driven.StreamEvent{Done: true}
	close(ch)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		f.Session.Pump()
		if !f.Session.Streaming() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func (f *Fixture) answers() int {
	n := 0
	for _, t := range f.Chat.Turns() {
		if t.Role == domain.RoleAssistant {
			n++
		}
	}
	return n
}
