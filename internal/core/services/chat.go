package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/core/ports/driving"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// fallbackSystemPrompt is used when no prompt store is configured.
const fallbackSystemPrompt = `Answer questions using the documents below. ` +
	`Cite lines with [path:line] references copied from the line prefixes.

DOCUMENTS:
%s`

// queued is a stream event tagged with the request it belongs to.
type queued struct {
	generation uint64
	event      driven.StreamEvent
	closed     bool
}

// ChatService manages the conversation with the assistant.
//
// A background goroutine per request forwards transport events into a
// queue; the main loop applies them with Pump. Events from a request
// that was cancelled or superseded are discarded by generation.
type ChatService struct {
	corpus    *CorpusIndex
	streamer  driven.ChatStreamer
	prompts   driven.PromptStore
	extractor *CitationExtractor
	opts      driven.ChatOptions

	// Main-loop state.
	turns     []domain.Turn
	streaming bool
	cancel    context.CancelFunc

	mu         sync.Mutex
	generation uint64
	pending    []queued
	notify     chan struct{}
}

// NewChatService creates a chat service. streamer may be nil, in which
// case chat is unavailable.
func NewChatService(
	corpus *CorpusIndex,
	streamer driven.ChatStreamer,
	prompts driven.PromptStore,
	opts driven.ChatOptions,
) *ChatService {
	return &ChatService{
		corpus:    corpus,
		streamer:  streamer,
		prompts:   prompts,
		extractor: NewCitationExtractor(corpus),
		opts:      opts,
		notify:    make(chan struct{}, 1),
	}
}

// Available returns true if a chat transport is configured.
func (s *ChatService) Available() bool {
	return s.streamer != nil
}

// Send appends the user's message and starts streaming the answer. It
// returns without waiting for the transport: the stream is opened in the
// background, and one that fails to open reaches Pump as a failed
// assistant turn. Only busy, unavailable and blank input are returned.
func (s *ChatService) Send(ctx context.Context, message string) error {
	if s.streamer == nil {
		return domain.ErrLLMUnavailable
	}
	if s.streaming {
		return domain.ErrBusy
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("empty message: %w", domain.ErrInvalidInput)
	}

	messages := s.buildMessages(message)

	s.turns = append(s.turns,
		domain.Turn{ID: uuid.NewString(), Role: domain.RoleUser, Text: message, Final: true},
		domain.Turn{ID: uuid.NewString(), Role: domain.RoleAssistant},
	)
	s.streaming = true

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.pending = nil
	s.mu.Unlock()

	streamCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	logger.Debug("Chat request %d: %d messages to %s", gen, len(messages), s.streamer.ModelName())

	go s.run(streamCtx, gen, messages)
	return nil
}

// run opens the stream and forwards its events. Cancelling ctx aborts an
// open that is still connecting.
func (s *ChatService) run(ctx context.Context, gen uint64, messages []driven.ChatMessage) {
	events, err := s.streamer.StreamChat(ctx, messages, s.opts)
	if err != nil {
		if ctx.Err() == nil {
			logger.Warn("Chat stream failed to open: %v", err)
		}
		s.enqueue(queued{generation: gen, event: driven.StreamEvent{Err: err}})
		return
	}
	s.forward(gen, events)
}

// forward copies transport events into the queue until the channel closes.
func (s *ChatService) forward(gen uint64, events <-chan driven.StreamEvent) {
	for ev := range events {
		if !s.enqueue(queued{generation: gen, event: ev}) {
			// Superseded; drain so the producer can exit.
			for range events {
			}
			return
		}
	}
	s.enqueue(queued{generation: gen, closed: true})
}

func (s *ChatService) enqueue(q queued) bool {
	s.mu.Lock()
	if q.generation != s.generation {
		s.mu.Unlock()
		return false
	}
	s.pending = append(s.pending, q)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// Pump applies queued stream events to the active turn in arrival order.
func (s *ChatService) Pump() bool {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	gen := s.generation
	s.mu.Unlock()

	changed := false
	for _, q := range batch {
		if q.generation != gen || !s.streaming {
			continue
		}
		switch {
		case q.event.Err != nil:
			err := q.event.Err
			s.finalise(func(t *domain.Turn) { t.Err = err.Error() })
		case q.event.Delta != "":
			s.active().Text += q.event.Delta
			if q.event.Done {
				s.finalise(nil)
			}
		case q.event.Done, q.closed:
			s.finalise(nil)
		default:
			continue
		}
		changed = true
	}
	return changed
}

// Cancel stops the in-flight stream. The text received so far is kept
// and the turn is marked final; nothing is appended afterwards.
func (s *ChatService) Cancel() bool {
	if !s.streaming {
		return false
	}

	s.mu.Lock()
	s.generation++
	s.pending = nil
	s.mu.Unlock()

	s.finalise(func(t *domain.Turn) { t.Canceled = true })
	logger.Debug("Chat stream cancelled")
	return true
}

// Updates signals that Pump has work.
func (s *ChatService) Updates() <-chan struct{} {
	return s.notify
}

// Streaming returns true while an answer is in flight.
func (s *ChatService) Streaming() bool {
	return s.streaming
}

// Turns returns the chat log in order.
func (s *ChatService) Turns() []domain.Turn {
	return s.turns
}

// LatestAnswer returns the most recent assistant turn.
func (s *ChatService) LatestAnswer() (domain.Turn, bool) {
	for i := len(s.turns) - 1; i >= 0; i-- {
		if s.turns[i].Role == domain.RoleAssistant {
			return s.turns[i], true
		}
	}
	return domain.Turn{}, false
}

// active returns the assistant turn being streamed.
func (s *ChatService) active() *domain.Turn {
	return &s.turns[len(s.turns)-1]
}

// finalise ends the active turn exactly once.
func (s *ChatService) finalise(mutate func(*domain.Turn)) {
	if !s.streaming {
		return
	}
	t := s.active()
	if mutate != nil {
		mutate(t)
	}
	t.Final = true
	t.Citations = s.extractor.Extract(t.Text)
	s.streaming = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	logger.Debug("Chat turn %s final: %d chars, %d citations", t.ID, len(t.Text), len(t.Citations))
}

// buildMessages assembles the system prompt with the full corpus, the
// prior conversation and the new message. Failed answers with no text
// are left out together with the question that produced them.
func (s *ChatService) buildMessages(message string) []driven.ChatMessage {
	messages := []driven.ChatMessage{{
		Role:    driven.RoleSystem,
		Content: s.systemPrompt(),
	}}

	for _, t := range s.turns {
		switch {
		case t.Role == domain.RoleUser:
			messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: t.Text})
		case t.Text == "":
			if last := len(messages) - 1; messages[last].Role == driven.RoleUser {
				messages = messages[:last]
			}
		default:
			messages = append(messages, driven.ChatMessage{Role: driven.RoleAssistant, Content: t.Text})
		}
	}

	return append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: message})
}

func (s *ChatService) systemPrompt() string {
	template := fallbackSystemPrompt
	if s.prompts != nil {
		p, err := s.prompts.Load(driven.PromptChatSystem)
		switch {
		case err == nil:
			template = p
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Loading chat prompt: %v", err)
		}
	}
	return strings.Replace(template, "%s", s.corpus.Context(), 1)
}
