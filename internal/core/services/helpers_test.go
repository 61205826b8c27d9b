package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/finder/internal/core/domain"
	"github.com/custodia-labs/finder/internal/core/ports/driven"
)

// newTestCorpus builds an index from path -> content pairs.
func newTestCorpus(docs map[string]string) *CorpusIndex {
	raws := make([]domain.RawDocument, 0, len(docs))
	for p, content := range docs {
		raws = append(raws, domain.RawDocument{Path: p, Content: []byte(content)})
	}
	return NewCorpusIndex("/corpus", raws)
}

// numberedLines returns n lines "line 1" .. "line n".
func numberedLines(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	return b.String()
}

// fakeStreamer is a driven.ChatStreamer whose streams are fed by the test.
// Streams open on the chat service's goroutine, so stream and request
// wait for the i-th open.
type fakeStreamer struct {
	mu       sync.Mutex
	openErr  error
	streams  []chan driven.StreamEvent
	requests [][]driven.ChatMessage

	// hang makes StreamChat block until its context is done, like a
	// transport still waiting for response headers.
	hang    bool
	waiting chan struct{}
}

func (f *fakeStreamer) StreamChat(
	ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions,
) (<-chan driven.StreamEvent, error) {
	f.mu.Lock()
	if f.hang {
		waiting := f.waiting
		f.mu.Unlock()
		if waiting != nil {
			close(waiting)
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	defer f.mu.Unlock()
	if f.openErr != nil {
		return nil, f.openErr
	}
	ch := make(chan driven.StreamEvent, 64)
	f.streams = append(f.streams, ch)
	f.requests = append(f.requests, messages)
	return ch, nil
}

func (f *fakeStreamer) ModelName() string { return "fake-model" }

func (f *fakeStreamer) Close() error { return nil }

func (f *fakeStreamer) setOpenErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openErr = err
}

// opened returns the number of streams opened so far.
func (f *fakeStreamer) opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.streams)
}

// waitOpened waits until at least n streams are open.
func (f *fakeStreamer) waitOpened(n int) {
	deadline := time.Now().Add(2 * time.Second)
	for f.opened() < n {
		if time.Now().After(deadline) {
			panic(fmt.Sprintf("stream %d was never opened", n-1))
		}
		time.Sleep(time.Millisecond)
	}
}

// stream returns the channel of the i-th request.
func (f *fakeStreamer) stream(i int) chan driven.StreamEvent {
	f.waitOpened(i + 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streams[i]
}

// request returns the messages of the i-th request.
func (f *fakeStreamer) request(i int) []driven.ChatMessage {
	f.waitOpened(i + 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[i]
}

// answers counts the assistant turns of a chat log.
func answers(turns []domain.Turn) int {
	n := 0
	for _, t := range turns {
		if t.Role == domain.RoleAssistant {
			n++
		}
	}
	return n
}

// pumpUntil pumps the chat service until cond holds.
func pumpUntil(t *testing.T, pump func() bool, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		pump()
		return cond()
	}, 2*time.Second, time.Millisecond)
}

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	LoadFunc func(name string) (string, error)
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(name)
	}
	return "", domain.ErrNotFound
}

func (m *mockPromptStore) Reload() {}
