package recipe

import (
	"net/http"

	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IngredientsRequest 食材清單正規化請求
type IngredientsRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// InstructionsRequest 步驟正規化請求
type InstructionsRequest struct {
	Lines           []string `json:"lines" binding:"required"`
	ConvertToMetric *bool    `json:"convert_to_metric,omitempty"`
}

// RecipeRequest 整份食譜正規化請求
type RecipeRequest struct {
	Name            string   `json:"name"`
	SourceURL       string   `json:"source_url,omitempty"`
	Servings        string   `json:"servings,omitempty"`
	Ingredients     []string `json:"ingredients"`
	Instructions    []string `json:"instructions"`
	ConvertToMetric *bool    `json:"convert_to_metric,omitempty"`
}

// toRecipe 轉成食譜內容
func (r RecipeRequest) toRecipe() common.Recipe {
	return common.Recipe{
		Name:         r.Name,
		SourceURL:    r.SourceURL,
		Servings:     r.Servings,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
	}
}

// BatchRequest 批次正規化請求
type BatchRequest struct {
	Recipes         []common.Recipe `json:"recipes" binding:"required"`
	ConvertToMetric *bool           `json:"convert_to_metric,omitempty"`
}

// ParseRequest 單行食材解析請求
type ParseRequest struct {
	Line string `json:"line" binding:"required"`
}

// HandleNormalizeIngredients 清理並換算食材清單
func (h *Handler) HandleNormalizeIngredients(c *gin.Context) {
	requestID := getRequestID(c)

	var req IngredientsRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	result, err := h.normalizer.NormalizeIngredients(c.Request.Context(), req.Lines)
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}

	common.LogDebug("食材正規化完成",
		zap.String("request_id", requestID),
		zap.Int("lines", len(result.Lines)),
		zap.Bool("cached", result.Cached),
	)
	c.JSON(http.StatusOK, result)
}

// HandleNormalizeInstructions 清理步驟並可選擇換算成公制
func (h *Handler) HandleNormalizeInstructions(c *gin.Context) {
	requestID := getRequestID(c)

	var req InstructionsRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	result, err := h.normalizer.NormalizeInstructions(c.Request.Context(), req.Lines, h.convertFlag(req.ConvertToMetric))
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleNormalizeRecipe 正規化整份食譜
func (h *Handler) HandleNormalizeRecipe(c *gin.Context) {
	requestID := getRequestID(c)

	var req RecipeRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	r := req.toRecipe()
	if r.LineCount() == 0 {
		h.respondError(c, requestID, common.NewValidationError("ingredients or instructions are required"))
		return
	}

	result, err := h.normalizer.NormalizeRecipe(c.Request.Context(), r, h.convertFlag(req.ConvertToMetric))
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleNormalizeBatch 並行正規化多份食譜
func (h *Handler) HandleNormalizeBatch(c *gin.Context) {
	requestID := getRequestID(c)

	var req BatchRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	result, err := h.normalizer.NormalizeBatch(c.Request.Context(), req.Recipes, h.convertFlag(req.ConvertToMetric))
	if err != nil {
		h.respondError(c, requestID, err)
		return
	}

	common.LogInfo("批次正規化完成",
		zap.String("request_id", requestID),
		zap.String("batch_id", result.ID),
		zap.Int("recipes", len(result.Items)),
	)
	c.JSON(http.StatusOK, result)
}

// HandleParseIngredient 解析單行食材的數量、單位與名稱
func (h *Handler) HandleParseIngredient(c *gin.Context) {
	requestID := getRequestID(c)

	var req ParseRequest
	if !h.bindJSON(c, requestID, &req) {
		return
	}

	c.JSON(http.StatusOK, h.normalizer.ParseIngredient(req.Line))
}
