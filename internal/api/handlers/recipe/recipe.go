package recipe

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/service"
	"recipe-assistant/internal/pkg/common"
)

// LoadRequest 以網址載入食譜
type LoadRequest struct {
	URL string `json:"url" binding:"required"`
}

// LoadResponse 載入結果與新的 session
type LoadResponse struct {
	Status     string `json:"status"`
	SessionID  string `json:"session_id"`
	RecipeURL  string `json:"recipe_url"`
	RecipeName string `json:"recipe_name"`
	NumSteps   int    `json:"num_steps"`
}

// Handler 食譜處理程序
type Handler struct {
	assistant *service.Assistant
	debug     bool
}

// NewHandler 創建新的食譜處理程序
func NewHandler(assistant *service.Assistant, debug bool) *Handler {
	return &Handler{assistant: assistant, debug: debug}
}

// HandleLoadRecipe 下載並解析食譜；帶著有效 session 時沿用，否則回傳新的 session
func (h *Handler) HandleLoadRecipe(c *gin.Context) {
	requestID := requestid.Get(c)

	var req LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, common.NewError(common.ErrCodeInvalidRequest, "missing or invalid 'url' field", http.StatusBadRequest, err), h.debug)
		return
	}

	res, err := h.assistant.LoadRecipe(c.Request.Context(), middleware.SessionID(c), req.URL)
	if err != nil {
		common.LogWarn("食譜載入失敗",
			zap.Error(err),
			zap.String("url", req.URL),
			zap.String("request_id", requestID),
		)
		common.WriteError(c, err, h.debug)
		return
	}

	c.Header(middleware.SessionHeader, res.SessionID)
	c.JSON(http.StatusOK, LoadResponse{
		Status:     "saved",
		SessionID:  res.SessionID,
		RecipeURL:  res.Recipe.URL(),
		RecipeName: res.Recipe.Name(),
		NumSteps:   res.Recipe.Len(),
	})
}

// HandleSteps 列出所有步驟
func (h *Handler) HandleSteps(c *gin.Context) {
	steps, err := h.assistant.Steps(middleware.SessionID(c))
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}
	if len(steps) == 0 {
		common.WriteError(c, common.NewError(common.ErrCodeNotFound, "no steps saved", http.StatusNotFound, nil), h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

// HandleMethods 列出整份食譜用到的烹調方法
func (h *Handler) HandleMethods(c *gin.Context) {
	methods, err := h.assistant.Methods(middleware.SessionID(c))
	if err != nil {
		common.WriteError(c, err, h.debug)
		return
	}
	c.JSON(http.StatusOK, gin.H{"methods": methods})
}
