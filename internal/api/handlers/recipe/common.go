package recipe

import (
	"context"
	"errors"
	"net/http"

	recipeService "recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecipeImporter 從網址匯入食譜
type RecipeImporter interface {
	Import(ctx context.Context, rawURL string, convertToMetric bool) (*recipeService.Result, error)
}

// Options 處理器選項
type Options struct {
	ConvertInstructions bool // 請求未指定 convert_to_metric 時的預設值
	ShowDetails         bool // 錯誤響應是否附上原始錯誤
}

// Handler 食譜正規化處理程序
type Handler struct {
	normalizer *recipeService.NormalizeService
	importer   RecipeImporter
	drafts     *recipeService.DraftService
	opts       Options
}

// NewHandler 創建新的食譜處理程序
func NewHandler(normalizer *recipeService.NormalizeService, importer RecipeImporter, drafts *recipeService.DraftService, opts Options) *Handler {
	return &Handler{
		normalizer: normalizer,
		importer:   importer,
		drafts:     drafts,
		opts:       opts,
	}
}

// getRequestID 取得請求 ID，沒有時生成一個
func getRequestID(c *gin.Context) string {
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// convertFlag 請求未指定時使用預設值
func (h *Handler) convertFlag(flag *bool) bool {
	if flag == nil {
		return h.opts.ConvertInstructions
	}
	return *flag
}

// bindJSON 解析請求體，失敗時已寫出錯誤響應
func (h *Handler) bindJSON(c *gin.Context, requestID string, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, requestID, common.ErrTooLarge)
			return false
		}
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		h.respondError(c, requestID, common.ErrInvalidRequest.Wrap(err))
		return false
	}
	return true
}

// respondError 將錯誤轉成統一的 JSON 響應
func (h *Handler) respondError(c *gin.Context, requestID string, err error) {
	switch {
	case common.IsValidationError(err):
		err = common.ErrInvalidRequest.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		err = common.ErrGatewayTimeout.Wrap(err)
	case errors.Is(err, context.Canceled):
		err = common.ErrRequestTimeout.Wrap(err)
	}

	status, resp := common.ToResponse(err, h.opts.ShowDetails)
	if status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("code", resp.Code),
		)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}
