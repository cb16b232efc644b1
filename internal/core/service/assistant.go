package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/core/extract"
	"recipe-assistant/internal/core/fetch"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/core/session"
	"recipe-assistant/internal/pkg/common"
)

// Assistant 串起頁面下載、食譜擷取、session 與對話引擎
type Assistant struct {
	fetcher   *fetch.Fetcher
	extractor *extract.Extractor
	engine    *dialogue.Engine
	sessions  *session.Store
}

// LoadResult 載入食譜的結果
type LoadResult struct {
	SessionID string
	Recipe    *recipe.Recipe
}

// NewAssistant 建立 Assistant
func NewAssistant(fetcher *fetch.Fetcher, extractor *extract.Extractor, engine *dialogue.Engine, sessions *session.Store) *Assistant {
	return &Assistant{
		fetcher:   fetcher,
		extractor: extractor,
		engine:    engine,
		sessions:  sessions,
	}
}

// Engine 對話引擎，CLI 直接使用
func (a *Assistant) Engine() *dialogue.Engine { return a.engine }

// FetchRecipe 下載並擷取食譜，不建立 session
func (a *Assistant) FetchRecipe(ctx context.Context, rawURL string) (*recipe.Recipe, error) {
	page, err := a.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return a.ParseRecipe("", page.URL, page.HTML)
}

// ParseRecipe 從已取得的 HTML 擷取食譜；name 為空時取頁面標題
func (a *Assistant) ParseRecipe(name, url, rawHTML string) (*recipe.Recipe, error) {
	r, err := a.extractor.Extract(name, url, rawHTML)
	if err != nil {
		return nil, common.ErrInvalidRequest.Wrap(err)
	}
	return r, nil
}

// LoadRecipe 下載食譜；sessionID 仍有效時換掉該 session 的對話，否則開新的 session
func (a *Assistant) LoadRecipe(ctx context.Context, sessionID, rawURL string) (*LoadResult, error) {
	r, err := a.FetchRecipe(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		common.LogWarn("載入食譜失敗", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}
	conv := dialogue.NewConversation(r)

	var sess *session.Session
	if sessionID != "" {
		if existing, err := a.sessions.Get(sessionID); err == nil {
			existing.Replace(conv)
			sess = existing
		}
	}
	if sess == nil {
		if sess, err = a.sessions.Create(conv); err != nil {
			return nil, err
		}
	}
	common.LogInfo("食譜已載入",
		zap.String("session_id", sess.ID),
		zap.String("recipe_name", r.Name()),
		zap.Int("steps", r.Len()),
	)
	return &LoadResult{SessionID: sess.ID, Recipe: r}, nil
}

// Ask 在 session 中回答問題
func (a *Assistant) Ask(ctx context.Context, sessionID, question string) (dialogue.Reply, error) {
	var reply dialogue.Reply
	err := a.withConversation(sessionID, func(conv *dialogue.Conversation) error {
		reply = a.engine.Ask(ctx, conv, question)
		return nil
	})
	return reply, err
}

// Steps 目前 session 食譜的所有步驟
func (a *Assistant) Steps(sessionID string) ([]*recipe.Step, error) {
	var steps []*recipe.Step
	err := a.withConversation(sessionID, func(conv *dialogue.Conversation) error {
		steps = conv.Recipe.Steps()
		return nil
	})
	return steps, err
}

// Methods 所有步驟烹調方法的聯集，已排序
func (a *Assistant) Methods(sessionID string) ([]string, error) {
	var methods []string
	err := a.withConversation(sessionID, func(conv *dialogue.Conversation) error {
		methods = conv.Recipe.AllMethods()
		return nil
	})
	return methods, err
}

// History 對話紀錄
func (a *Assistant) History(sessionID string) ([]dialogue.HistoryEntry, error) {
	var entries []dialogue.HistoryEntry
	err := a.withConversation(sessionID, func(conv *dialogue.Conversation) error {
		entries = conv.History.Entries()
		return nil
	})
	return entries, err
}

// Reset 清空對話並回到第一步
func (a *Assistant) Reset(sessionID string) error {
	return a.withConversation(sessionID, func(conv *dialogue.Conversation) error {
		conv.Reset()
		return nil
	})
}

func (a *Assistant) withConversation(sessionID string, fn func(conv *dialogue.Conversation) error) error {
	if strings.TrimSpace(sessionID) == "" {
		return common.ErrSessionNotFound
	}
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	return sess.Do(func(conv *dialogue.Conversation) error {
		if conv == nil || conv.Recipe == nil {
			return common.ErrNoRecipeLoaded
		}
		return fn(conv)
	})
}
