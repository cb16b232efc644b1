package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context 鍵，由 router 注入
const (
	ConfigKey   = "config"
	SessionsKey = "sessions"
	LLMKey      = "llm_service"
)

// SessionCounter 回報目前 session 數
type SessionCounter interface {
	Len() int
}

// QueueReporter 回報模型請求隊列狀態
type QueueReporter interface {
	Status() *queue.Status
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	LLM       string                 `json:"llm"`
	Sessions  int                    `json:"sessions"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.Value(ConfigKey).(*config.Config)
	if !ok {
		common.LogError("Configuration not found in context")
		common.WriteError(c, common.ErrInternalError, false)
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		LLM:       cfg.LLM.Provider,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if sessions, ok := c.Value(SessionsKey).(SessionCounter); ok {
		response.Sessions = sessions.Len()
	}
	if llm, ok := c.Value(LLMKey).(QueueReporter); ok {
		response.Queue = llm.Status()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器；需要 session store 已注入
func ReadinessCheck(c *gin.Context) {
	if _, ok := c.Value(SessionsKey).(SessionCounter); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
