package recipe

import (
	"net/http"

	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DraftRequest AI 食譜草稿請求
type DraftRequest struct {
	DishName string `json:"dish_name" binding:"required"`
	Servings int    `json:"servings,omitempty"`
}

// HandleDraft 由 AI 產生食譜草稿，再經過正規化
func (h *Handler) HandleDraft(c *gin.Context) {
	requestID := getRequestID(c)

	if !h.drafts.Enabled() {
		h.respondError(c, requestID, common.ErrAIDisabled)
		return
	}

	var req DraftRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	common.LogInfo("開始處理食譜草稿請求",
		zap.String("request_id", requestID),
		zap.String("dish_name", req.DishName),
		zap.Int("servings", req.Servings),
	)

	result, err := h.drafts.Draft(c.Request.Context(), req.DishName, req.Servings)
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
