package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/core/extract"
	"recipe-assistant/internal/core/fetch"
	"recipe-assistant/internal/core/session"
	"recipe-assistant/internal/core/vocab"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

const pancakeHTML = `<html><head><title>Simple Pancakes</title></head><body>
<h2>Ingredients</h2>
<ul>
  <li>2 cups flour</li>
  <li>1 cup milk</li>
</ul>
<h2>Directions</h2>
<ol>
  <li>Whisk the flour and milk in a large bowl.</li>
  <li>Cook over medium heat for 3 minutes.</li>
</ol>
</body></html>`

func newTestAssistant(t *testing.T) (*Assistant, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(pancakeHTML))
	}))
	t.Cleanup(srv.Close)

	fetcher := fetch.NewFetcher(config.FetchConfig{
		AllowedDomains: []string{"127.0.0.1"},
		Timeout:        2 * time.Second,
	}, nil)
	extractor := extract.NewExtractor(extract.NewDefaultEnricher(vocab.Default()))
	sessions := session.NewStore(config.SessionConfig{TTL: time.Hour, MaxSessions: 10})
	t.Cleanup(sessions.Close)

	return NewAssistant(fetcher, extractor, dialogue.NewEngine(dialogue.Options{}), sessions), srv.URL + "/pancakes"
}

func TestAssistant_LoadAndAsk(t *testing.T) {
	a, url := newTestAssistant(t)
	ctx := context.Background()

	res, err := a.LoadRecipe(ctx, "", url)
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, "Simple Pancakes", res.Recipe.Name())
	assert.Equal(t, 2, res.Recipe.Len())

	steps, err := a.Steps(res.SessionID)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].Number)

	reply, err := a.Ask(ctx, res.SessionID, "What's next?")
	require.NoError(t, err)
	assert.Equal(t, dialogue.IntentNextStep, reply.Intent)
	assert.Contains(t, reply.Text, "Cook over medium heat")

	history, err := a.History(res.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, dialogue.IntentNextStep, history[0].Type)
	require.NotNil(t, history[0].StepNumber)
	assert.Equal(t, 2, *history[0].StepNumber)

	require.NoError(t, a.Reset(res.SessionID))
	history, err = a.History(res.SessionID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAssistant_SessionsIndependent(t *testing.T) {
	a, url := newTestAssistant(t)
	ctx := context.Background()

	first, err := a.LoadRecipe(ctx, "", url)
	require.NoError(t, err)
	second, err := a.LoadRecipe(ctx, "", url)
	require.NoError(t, err)

	_, err = a.Ask(ctx, first.SessionID, "What's next?")
	require.NoError(t, err)

	reply, err := a.Ask(ctx, second.SessionID, "What is this step?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Whisk the flour")
}

func TestAssistant_Errors(t *testing.T) {
	a, _ := newTestAssistant(t)
	ctx := context.Background()

	_, err := a.Ask(ctx, "missing", "What's next?")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	_, err = a.Steps("")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	_, err = a.LoadRecipe(ctx, "", "https://example.com/recipe")
	require.Error(t, err)
	assert.Equal(t, common.ErrUnsupportedSite.Code, common.AsCustomError(err).Code)
}

func TestAssistant_ReloadKeepsSession(t *testing.T) {
	a, url := newTestAssistant(t)
	ctx := context.Background()

	first, err := a.LoadRecipe(ctx, "", url)
	require.NoError(t, err)
	_, err = a.Ask(ctx, first.SessionID, "What's next?")
	require.NoError(t, err)

	again, err := a.LoadRecipe(ctx, first.SessionID, url)
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, again.SessionID)

	history, err := a.History(first.SessionID)
	require.NoError(t, err)
	assert.Empty(t, history, "loading a recipe starts a fresh conversation")

	reply, err := a.Ask(ctx, first.SessionID, "What is this step?")
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Whisk the flour")

	// 過期或不存在的 session 會拿到新的 ID
	fresh, err := a.LoadRecipe(ctx, "expired-id", url)
	require.NoError(t, err)
	assert.NotEqual(t, "expired-id", fresh.SessionID)
}
