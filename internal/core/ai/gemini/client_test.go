package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"recipe-assistant/internal/core/ai/provider"
)

func TestToContents(t *testing.T) {
	system, contents := toContents([]provider.Message{
		{Role: provider.RoleSystem, Content: "be brief"},
		{Role: provider.RoleUser, Content: "what is a whisk?"},
		{Role: provider.RoleAssistant, Content: "a tool"},
	})
	require.NotNil(t, system)
	assert.Equal(t, "be brief", system.Parts[0].Text)

	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, "what is a whisk?", contents[0].Parts[0].Text)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
}

func TestToContents_NoSystem(t *testing.T) {
	system, contents := toContents([]provider.Message{{Role: provider.RoleUser, Content: "hi"}})
	assert.Nil(t, system)
	assert.Len(t, contents, 1)
}

func TestGenerateConfig(t *testing.T) {
	cfg := generateConfig(&provider.Request{Temperature: 0.5}, nil, 800)
	assert.Equal(t, int32(800), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.5, *cfg.Temperature, 0.0001)

	cfg = generateConfig(&provider.Request{MaxTokens: 50}, nil, 800)
	assert.Equal(t, int32(50), cfg.MaxOutputTokens)
	assert.Nil(t, cfg.Temperature)
}
