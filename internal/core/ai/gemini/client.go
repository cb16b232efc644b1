package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"recipe-assistant/internal/core/ai/provider"
)

const providerName = "gemini"

// Client Gemini API 客戶端
type Client struct {
	genAI *genai.Client
	cfg   provider.Config
}

var _ provider.Provider = (*Client)(nil)

// NewClient 建立 Gemini 客戶端
func NewClient(ctx context.Context, cfg provider.Config) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	return &Client{genAI: genAI, cfg: cfg}, nil
}

func (c *Client) Name() string              { return providerName }
func (c *Client) GetModel() string          { return c.cfg.Model }
func (c *Client) GetTimeout() time.Duration { return c.cfg.Timeout }
func (c *Client) Close() error              { return nil }

// Generate 生成回應
func (c *Client) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	system, contents := toContents(req.Messages)
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: no user content in request")
	}

	res, err := c.genAI.Models.GenerateContent(ctx, c.cfg.Model, contents, generateConfig(req, system, c.cfg.MaxTokens))
	if err != nil {
		return nil, fmt.Errorf("gemini: generating content: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, provider.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, provider.ErrEmptyResponse
	}

	out := &provider.Response{Content: text}
	if u := res.UsageMetadata; u != nil {
		out.Usage = provider.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// toContents system 訊息合併為 SystemInstruction，其餘依序轉為對話內容
func toContents(messages []provider.Message) (*genai.Content, []*genai.Content) {
	var system []string
	var contents []*genai.Content
	for _, m := range messages {
		switch m.Role {
		case provider.RoleSystem:
			system = append(system, m.Content)
		case provider.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleModel), contents
}

func generateConfig(req *provider.Request, system *genai.Content, defaultMaxTokens int) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		StopSequences:     req.Stop,
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		cfg.Temperature = &t
	}
	return cfg
}
