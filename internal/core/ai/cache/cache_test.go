package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) *CacheManager {
	t.Helper()
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: ttl})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManager_SetGet(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10, time.Minute)

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.True(t, IsMiss(err))

	require.NoError(t, m.Set(ctx, "k", "v"))
	val, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10, 10*time.Millisecond)

	require.NoError(t, m.Set(ctx, "k", "v"))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.True(t, IsMiss(err))
}

func TestManager_EvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 2, time.Minute)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.True(t, IsMiss(err), "b was never read and should be evicted")
	val, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", val)
}

func TestManager_OverwriteWhenFull(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 1, time.Minute)

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))
	val, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}

func TestManager_CloseTwice(t *testing.T) {
	m := NewManager(config.CacheConfig{MaxSize: 1, TTL: time.Minute, CleanupInterval: time.Millisecond})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestKey(t *testing.T) {
	a := Key(NamespaceLLM, "prompt")
	assert.Equal(t, a, Key(NamespaceLLM, "prompt"))
	assert.NotEqual(t, a, Key(NamespaceDictionary, "prompt"))
	assert.NotEqual(t, Key(NamespaceLLM, "ab", "c"), Key(NamespaceLLM, "a", "bc"))
	assert.Contains(t, a, "llm:")
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, 10, time.Minute)

	type item struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}
	require.NoError(t, SetJSON(ctx, m, "k", item{Name: "butter", Tags: []string{"dairy"}}))

	var got item
	require.NoError(t, GetJSON(ctx, m, "k", &got))
	assert.Equal(t, "butter", got.Name)
	assert.Equal(t, []string{"dairy"}, got.Tags)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(ctx, config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 5, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &CacheManager{}, s)
	_ = s.Close()

	_, err = New(ctx, config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, config.CacheConfig{RedisAddr: "127.0.0.1:1", TTL: time.Minute})
	assert.Error(t, err)
}
