package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"recipe-assistant/internal/api/handlers/chat"
	"recipe-assistant/internal/api/handlers/health"
	recipeHandler "recipe-assistant/internal/api/handlers/recipe"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/cache"
	aiService "recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/dialogue"
	"recipe-assistant/internal/core/extract"
	"recipe-assistant/internal/core/fetch"
	"recipe-assistant/internal/core/lookup"
	"recipe-assistant/internal/core/service"
	"recipe-assistant/internal/core/session"
	"recipe-assistant/internal/core/vocab"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由使用的服務
type Dependencies struct {
	Assistant *service.Assistant
	Sessions  *session.Store
	// LLM 可為 nil
	LLM *aiService.Service
	// Dedup 可為 nil，此時不做請求去重
	Dedup *middleware.Deduplicator
}

// Build 依設定建立所有服務；close 依相反順序釋放資源
func Build(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		common.LogWarn("快取後端無法使用，改為不使用快取", zap.Error(err))
		store = nil
	}

	llm, err := aiService.NewFromConfig(ctx, cfg, store)
	switch {
	case errors.Is(err, aiService.ErrDisabled):
		common.LogInfo("未設定 LLM，使用固定回覆")
		llm = nil
	case err != nil:
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}

	engineOpts := dialogue.Options{
		Dictionary:  lookup.NewDictionaryClient(cfg.Dictionary, store),
		LLMTimeout:  cfg.LLM.Timeout,
		LLMClassify: llm != nil,
	}
	if cfg.Substitutes.APIKey != "" {
		engineOpts.Substitutes = lookup.NewSubstitutesClient(cfg.Substitutes, store)
	}
	if llm != nil {
		engineOpts.LLM = llm
	}

	sessions := session.NewStore(cfg.Session)
	extractor := extract.NewExtractor(extract.NewDefaultEnricher(vocab.Load(cfg.Vocab.WordNetDir)))
	assistant := service.NewAssistant(fetch.NewFetcher(cfg.Fetch, store), extractor, dialogue.NewEngine(engineOpts), sessions)

	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	cleanup := func() {
		dedup.Stop()
		sessions.Close()
		if llm != nil {
			_ = llm.Close()
		}
		if store != nil {
			_ = store.Close()
		}
	}
	return &Dependencies{Assistant: assistant, Sessions: sessions, LLM: llm, Dedup: dedup}, cleanup, nil
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", middleware.SessionHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	if deps.Dedup != nil {
		router.Use(deps.Dedup.Middleware())
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set(health.ConfigKey, cfg)
		c.Set(health.SessionsKey, deps.Sessions)
		if deps.LLM != nil {
			c.Set(health.LLMKey, deps.LLM)
		}

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeout),
			)
			common.WriteError(c, common.ErrGatewayTimeout, false)
		}
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	recipes := recipeHandler.NewHandler(deps.Assistant, cfg.App.Debug)
	chats := chat.NewHandler(deps.Assistant, cfg.App.Debug)

	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipe")
		{
			recipeGroup.POST("", recipes.HandleLoadRecipe)
			recipeGroup.GET("/steps", recipes.HandleSteps)
			recipeGroup.GET("/methods", recipes.HandleMethods)
		}

		chatGroup := api.Group("/chat")
		{
			chatGroup.POST("/ask", chats.HandleAsk)
			chatGroup.GET("/history", chats.HandleHistory)
		}

		api.DELETE("/session", chats.HandleReset)
	}

	router.NoRoute(func(c *gin.Context) {
		common.WriteError(c, common.NewError(common.ErrCodeNotFound, "route not found", http.StatusNotFound, nil), false)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("llm_enabled", deps.LLM != nil),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}
