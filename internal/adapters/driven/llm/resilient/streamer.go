// Package resilient wraps a chat streamer in a circuit breaker so that an
// unreachable provider fails fast instead of stalling every question.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
	"github.com/custodia-labs/finder/internal/logger"
)

// Ensure Streamer implements the interface.
var _ driven.ChatStreamer = (*Streamer)(nil)

// Default breaker settings.
const (
	DefaultFailureThreshold = 3
	DefaultOpenTimeout      = 30 * time.Second
)

// Config tunes the breaker.
type Config struct {
	// FailureThreshold is the number of consecutive open failures that
	// trips the breaker (default: 3).
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before letting a
	// trial request through (default: 30s).
	OpenTimeout time.Duration
}

// eventStream is the result type of a guarded call.
type eventStream = <-chan driven.StreamEvent

// Streamer guards stream opening with a circuit breaker. Failures after a
// stream has started are reported on the stream and do not count.
type Streamer struct {
	inner   driven.ChatStreamer
	breaker *gobreaker.CircuitBreaker[eventStream]
}

// New wraps inner.
func New(inner driven.ChatStreamer, cfg Config) *Streamer {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.OpenTimeout == 0 {
		cfg.OpenTimeout = DefaultOpenTimeout
	}

	settings := gobreaker.Settings{
		Name:        inner.ModelName(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Chat transport for %s: circuit %s -> %s", name, from, to)
		},
	}

	return &Streamer{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[eventStream](settings),
	}
}

// StreamChat opens a stream through the breaker. While the breaker is
// open the call fails immediately with domain.ErrLLMUnavailable.
func (s *Streamer) StreamChat(
	ctx context.Context,
	messages []driven.ChatMessage,
	opts driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	events, err := s.breaker.Execute(func() (eventStream, error) {
		return s.inner.StreamChat(ctx, messages, opts)
	})
	if IsCircuitOpen(err) {
		return nil, fmt.Errorf("%w: too many failed requests, retrying in a moment (%w)", domain.ErrLLMUnavailable, err)
	}
	return events, err
}

// ModelName returns the wrapped streamer's model.
func (s *Streamer) ModelName() string {
	return s.inner.ModelName()
}

// Ping checks connectivity when the wrapped streamer supports it.
func (s *Streamer) Ping(ctx context.Context) error {
	if p, ok := s.inner.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// State reports the breaker state.
func (s *Streamer) State() gobreaker.State {
	return s.breaker.State()
}

// Close releases the wrapped streamer.
func (s *Streamer) Close() error {
	return s.inner.Close()
}

// IsCircuitOpen reports whether err comes from a breaker refusing calls.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
