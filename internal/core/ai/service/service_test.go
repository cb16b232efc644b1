package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
)

type countingProvider struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (p *countingProvider) Name() string              { return "stub" }
func (p *countingProvider) GetModel() string          { return "stub-model" }
func (p *countingProvider) GetTimeout() time.Duration { return time.Second }
func (p *countingProvider) Close() error              { return nil }

func (p *countingProvider) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &provider.Response{Content: "answer to " + req.Messages[0].Content}, nil
}

func TestGenerate_CachesByNormalizedPrompt(t *testing.T) {
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	p := &countingProvider{}
	s := NewService(p, store, 1, 4, 100)
	defer s.Close()

	ctx := context.Background()
	out, err := s.Generate(ctx, "what is   a whisk?")
	require.NoError(t, err)
	assert.Equal(t, "answer to what is   a whisk?", out)

	out, err = s.Generate(ctx, "  what is a\nwhisk?  ")
	require.NoError(t, err)
	assert.Equal(t, "answer to what is   a whisk?", out)
	assert.Equal(t, 1, p.calls)
}

func TestGenerate_NoCache(t *testing.T) {
	p := &countingProvider{}
	s := NewService(p, nil, 1, 4, 100)
	defer s.Close()

	for i := 0; i < 2; i++ {
		_, err := s.Generate(context.Background(), "hello")
		require.NoError(t, err)
	}
	assert.Equal(t, 2, p.calls)
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("boom")
	s := NewService(&countingProvider{err: boom}, nil, 1, 4, 100)
	defer s.Close()

	_, err := s.Generate(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)

	_, err = s.Generate(context.Background(), "   ")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()

	_, err := NewFromConfig(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrDisabled)

	cfg.LLM.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-test"
	s, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", s.provider.Name())
	assert.NoError(t, s.Close())

	cfg.LLM.Provider = "other"
	_, err = NewFromConfig(context.Background(), cfg, nil)
	assert.Error(t, err)
}
