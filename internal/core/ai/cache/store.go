// Package cache 模型回覆、外部查詢與頁面的緩存
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// 緩存鍵的命名空間
const (
	NamespaceLLM         = "llm"
	NamespaceDictionary  = "dict"
	NamespaceSubstitutes = "subs"
	NamespacePage        = "page"
)

// Store 緩存後端
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// New 依設定建立後端；停用時回傳 nil
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(ctx, cfg)
	case "", "memory":
		return NewManager(cfg), nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// Key 以命名空間加上內容的 SHA-256 組成緩存鍵
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// IsMiss 判斷是否為未命中
func IsMiss(err error) bool {
	return errors.Is(err, common.ErrCacheMiss)
}

// GetJSON 讀出並解析 JSON 值
func GetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := common.ParseJSON(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return nil
}

// SetJSON 序列化後寫入
func SetJSON(ctx context.Context, s Store, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.Set(ctx, key, string(data))
}
