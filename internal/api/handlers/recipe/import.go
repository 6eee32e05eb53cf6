package recipe

import (
	"net/http"

	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportRequest 從網址匯入食譜
type ImportRequest struct {
	URL             string `json:"url" binding:"required"`
	ConvertToMetric *bool  `json:"convert_to_metric,omitempty"`
}

// HandleImport 下載網頁、擷取 schema.org 食譜並正規化
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := getRequestID(c)

	var req ImportRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	common.LogInfo("開始匯入食譜",
		zap.String("request_id", requestID),
		zap.String("url", req.URL),
	)

	result, err := h.importer.Import(c.Request.Context(), req.URL, h.convertFlag(req.ConvertToMetric))
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
