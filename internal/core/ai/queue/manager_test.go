package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/ai/provider"
)

type stubProvider struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{}
	content string
	err     error
}

func (s *stubProvider) Name() string              { return "stub" }
func (s *stubProvider) GetModel() string          { return "stub-model" }
func (s *stubProvider) GetTimeout() time.Duration { return time.Second }
func (s *stubProvider) Close() error              { return nil }

func (s *stubProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &provider.Response{Content: s.content + req.Messages[0].Content}, nil
}

func TestSubmit(t *testing.T) {
	p := &stubProvider{content: "echo: "}
	m := NewManager(p, 2, 4)
	defer m.Close()

	resp, err := m.Submit(context.Background(), provider.NewTextRequest("hi", 0))
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp.Content)
	assert.Equal(t, 1, m.GetQueueStatus().ProcessedCount)
}

func TestSubmit_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(&stubProvider{err: boom}, 1, 1)
	defer m.Close()

	_, err := m.Submit(context.Background(), provider.NewTextRequest("hi", 0))
	assert.ErrorIs(t, err, boom)
}

func TestSubmit_ContextCancelled(t *testing.T) {
	p := &stubProvider{block: make(chan struct{})}
	m := NewManager(p, 1, 1)
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := m.Submit(ctx, provider.NewTextRequest("hi", 0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnqueue_Full(t *testing.T) {
	p := &stubProvider{block: make(chan struct{})}
	m := NewManager(p, 1, 1)
	defer func() {
		close(p.block)
		m.Close()
	}()

	ctx := context.Background()
	var err error
	// worker 取走一個、隊列再容納一個，之後必定已滿
	for i := 0; i < 3 && err == nil; i++ {
		_, err = m.Enqueue(ctx, provider.NewTextRequest("hi", 0))
		time.Sleep(5 * time.Millisecond)
	}
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestEnqueue_Closed(t *testing.T) {
	m := NewManager(&stubProvider{}, 1, 1)
	m.Close()

	_, err := m.Enqueue(context.Background(), provider.NewTextRequest("hi", 0))
	assert.ErrorIs(t, err, ErrClosed)
}
