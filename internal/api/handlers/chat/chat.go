package chat

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/service"
	"recipe-assistant/internal/pkg/common"
)

// AskRequest 使用者問題
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// Handler 對話處理程序
type Handler struct {
	assistant *service.Assistant
	debug     bool
}

// NewHandler 創建對話處理程序
func NewHandler(assistant *service.Assistant, debug bool) *Handler {
	return &Handler{assistant: assistant, debug: debug}
}

// HandleAsk 回答問題，回應為 {answer, suggestions}
func (h *Handler) HandleAsk(c *gin.Context) {
	requestID := requestid.Get(c)

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		common.WriteError(c, common.NewError(common.ErrCodeInvalidRequest, "missing 'question' field", http.StatusBadRequest, err), h.debug)
		return
	}

	sessionID := middleware.SessionID(c)
	reply, err := h.assistant.Ask(c.Request.Context(), sessionID, req.Question)
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}

	common.LogInfo("問題已回答",
		zap.String("request_id", requestID),
		zap.String("session_id", sessionID),
		zap.String("intent", string(reply.Intent)),
		zap.Bool("recorded", reply.Recorded),
	)
	c.JSON(http.StatusOK, reply.Answer)
}

// HandleHistory 匯出對話紀錄
func (h *Handler) HandleHistory(c *gin.Context) {
	entries, err := h.assistant.History(middleware.SessionID(c))
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

// HandleReset 清空對話紀錄並回到第一步
func (h *Handler) HandleReset(c *gin.Context) {
	if err := h.assistant.Reset(middleware.SessionID(c)); err != nil {
		common.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
