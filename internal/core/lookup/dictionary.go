// Package lookup 字典與替代食材的外部查詢
package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

const defaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// DictionaryClient dictionaryapi.dev 客戶端
type DictionaryClient struct {
	client *resty.Client
	cache  cache.Store
}

var _ dialogue.Dictionary = (*DictionaryClient)(nil)

type dictionaryEntry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// NewDictionaryClient 建立字典客戶端；store 可為 nil
func NewDictionaryClient(cfg config.DictionaryConfig, store cache.Store) *DictionaryClient {
	base := cfg.BaseURL
	if base == "" {
		base = defaultDictionaryURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &DictionaryClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(base, "/")).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		cache: store,
	}
}

// Define 查詢定義，查無此字時回傳 dialogue.ErrNoResult
func (d *DictionaryClient) Define(ctx context.Context, term string) ([]dialogue.Meaning, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, dialogue.ErrNoResult
	}

	key := cache.Key(cache.NamespaceDictionary, term)
	if d.cache != nil {
		var cached []dialogue.Meaning
		if err := cache.GetJSON(ctx, d.cache, key, &cached); err == nil {
			return cached, nil
		}
	}

	var entries []dictionaryEntry
	resp, err := d.client.R().
		SetContext(ctx).
		SetResult(&entries).
		Get("/" + url.PathEscape(term))
	if err != nil {
		return nil, fmt.Errorf("dictionary: request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, dialogue.ErrNoResult
	}
	if resp.IsError() {
		return nil, fmt.Errorf("dictionary: unexpected status %d", resp.StatusCode())
	}

	meanings := toMeanings(entries)
	if len(meanings) == 0 {
		return nil, dialogue.ErrNoResult
	}

	if d.cache != nil {
		if err := cache.SetJSON(ctx, d.cache, key, meanings); err != nil {
			common.LogWarn("寫入字典快取失敗", zap.String("term", term), zap.Error(err))
		}
	}
	return meanings, nil
}

func toMeanings(entries []dictionaryEntry) []dialogue.Meaning {
	var out []dialogue.Meaning
	for _, e := range entries {
		for _, m := range e.Meanings {
			meaning := dialogue.Meaning{PartOfSpeech: m.PartOfSpeech}
			for _, def := range m.Definitions {
				if text := strings.TrimSpace(def.Definition); text != "" {
					meaning.Definitions = append(meaning.Definitions, text)
				}
			}
			if len(meaning.Definitions) > 0 {
				out = append(out, meaning)
			}
		}
	}
	return out
}
