package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

const defaultSubstitutesURL = "https://api.spoonacular.com"

// SubstitutesClient Spoonacular 替代食材客戶端
type SubstitutesClient struct {
	client *resty.Client
	apiKey string
	cache  cache.Store
}

var _ dialogue.Substitutes = (*SubstitutesClient)(nil)

type substitutesResponse struct {
	Ingredient  string   `json:"ingredient"`
	Substitutes []string `json:"substitutes"`
	Message     string   `json:"message"`
	Status      string   `json:"status"`
}

// NewSubstitutesClient 建立替代食材客戶端；store 可為 nil
func NewSubstitutesClient(cfg config.SubstitutesConfig, store cache.Store) *SubstitutesClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultSubstitutesURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &SubstitutesClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(base, "/")).
			SetTimeout(timeout),
		apiKey: cfg.APIKey,
		cache:  store,
	}
}

// Substitutes 查詢替代品；服務回報失敗或清單為空時回傳 dialogue.ErrNoResult
func (s *SubstitutesClient) Substitutes(ctx context.Context, ingredient string) ([]string, error) {
	ingredient = strings.ToLower(strings.TrimSpace(ingredient))
	if ingredient == "" {
		return nil, dialogue.ErrNoResult
	}

	key := cache.Key(cache.NamespaceSubstitutes, ingredient)
	if s.cache != nil {
		var cached []string
		if err := cache.GetJSON(ctx, s.cache, key, &cached); err == nil {
			return cached, nil
		}
	}

	var result substitutesResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ingredientName": ingredient,
			"apiKey":         s.apiKey,
		}).
		SetResult(&result).
		Get("/food/ingredients/substitutes")
	if err != nil {
		return nil, fmt.Errorf("substitutes: request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("substitutes: unexpected status %d", resp.StatusCode())
	}
	if result.Status == "failure" || len(result.Substitutes) == 0 {
		return nil, dialogue.ErrNoResult
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, result.Substitutes); err != nil {
			common.LogWarn("寫入替代食材快取失敗", zap.String("ingredient", ingredient), zap.Error(err))
		}
	}
	return result.Substitutes, nil
}
