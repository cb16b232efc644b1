package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/gemini"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrDisabled 未設定模型提供者
var ErrDisabled = errors.New("ai: no llm provider configured")

// Service 經過隊列與緩存的文字生成服務，滿足對話引擎的 LLM 介面
type Service struct {
	provider  provider.Provider
	queue     *queue.Manager
	cache     cache.Store
	maxTokens int
}

// NewService 以現成的提供者建立服務；store 可為 nil
func NewService(p provider.Provider, store cache.Store, workers, queueSize, maxTokens int) *Service {
	return &Service{
		provider:  p,
		queue:     queue.NewManager(p, workers, queueSize),
		cache:     store,
		maxTokens: maxTokens,
	}
}

// NewFromConfig 依 llm.provider 建立服務；provider 為 none 時回傳 ErrDisabled
func NewFromConfig(ctx context.Context, cfg *config.Config, store cache.Store) (*Service, error) {
	pcfg := provider.Config{
		Model:     cfg.LLM.Model,
		Timeout:   cfg.LLM.Timeout,
		MaxTokens: cfg.LLM.MaxTokens,
	}

	var p provider.Provider
	switch cfg.LLM.Provider {
	case "openrouter":
		pcfg.APIKey = cfg.OpenRouter.APIKey
		pcfg.BaseURL = cfg.OpenRouter.BaseURL
		p = openrouter.NewClient(pcfg)
	case "gemini":
		pcfg.APIKey = cfg.Gemini.APIKey
		g, err := gemini.NewClient(ctx, pcfg)
		if err != nil {
			return nil, err
		}
		p = g
	case "", "none":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}

	common.LogInfo("LLM 服務已初始化",
		zap.String("provider", p.Name()),
		zap.String("model", p.GetModel()),
	)
	return NewService(p, store, cfg.LLM.Workers, cfg.LLM.QueueSize, cfg.LLM.MaxTokens), nil
}

// Generate 單一提示詞生成文字
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("ai: empty prompt")
	}

	// 快取鍵忽略空白差異
	key := cache.Key(cache.NamespaceLLM, s.provider.Name(), s.provider.GetModel(), strings.Join(strings.Fields(prompt), " "))
	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			return val, nil
		} else if err != nil && !cache.IsMiss(err) {
			common.LogWarn("讀取模型快取失敗", zap.Error(err))
		}
	}

	start := time.Now()
	resp, err := s.queue.Submit(ctx, provider.NewTextRequest(prompt, s.maxTokens))
	common.LogLLMCall(s.provider.Name(), time.Since(start), err)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("寫入模型快取失敗", zap.Error(err))
		}
	}
	return resp.Content, nil
}

// Status 隊列狀態，健康檢查使用
func (s *Service) Status() *queue.Status {
	return s.queue.GetQueueStatus()
}

// Close 停止隊列並關閉提供者
func (s *Service) Close() error {
	s.queue.Close()
	return s.provider.Close()
}
