package recipe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

const (
	defaultServings = 4
	maxServings     = 50
)

// Generator 文字生成模型
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DraftService 以 AI 草擬食譜，再交給正規化服務統一成公制
type DraftService struct {
	generator  Generator
	normalizer *NormalizeService
}

// draftKey 草稿緩存鍵的內容
type draftKey struct {
	Dish     string `json:"dish"`
	Servings int    `json:"servings"`
}

// draftPayload 模型回傳的 JSON
type draftPayload struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// NewDraftService 創建食譜草擬服務，generator 為 nil 時 Draft 一律回傳 ErrAIDisabled
func NewDraftService(generator Generator, normalizer *NormalizeService) *DraftService {
	return &DraftService{
		generator:  generator,
		normalizer: normalizer,
	}
}

// Enabled 是否已設定生成模型
func (s *DraftService) Enabled() bool {
	return s != nil && s.generator != nil
}

// Draft 依菜名與份量草擬食譜，回傳正規化後的結果
func (s *DraftService) Draft(ctx context.Context, dishName string, servings int) (*Result, error) {
	if !s.Enabled() {
		return nil, common.ErrAIDisabled
	}

	dishName = strings.TrimSpace(dishName)
	if dishName == "" {
		return nil, common.NewValidationError("dish_name is required")
	}
	if servings <= 0 {
		servings = defaultServings
	}
	if servings > maxServings {
		return nil, common.NewValidationError(fmt.Sprintf("servings must be at most %d", maxServings))
	}

	key := s.normalizer.cacheKey("draft", draftKey{Dish: strings.ToLower(dishName), Servings: servings})
	var cached Result
	if s.normalizer.cache.GetJSON(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	content, err := s.generator.Generate(ctx, buildDraftPrompt(dishName, servings))
	if err != nil {
		return nil, common.ErrAIServiceError.Wrap(err)
	}

	draft, err := parseDraft(content)
	if err != nil {
		common.LogWarn("AI 食譜草稿解析失敗",
			zap.Error(err),
			zap.String("dish_name", dishName),
			zap.Int("content_length", len(content)),
		)
		return nil, common.ErrAIInvalidContent.Wrap(err)
	}

	r := common.Recipe{
		Name:         draft.Name,
		Servings:     strconv.Itoa(servings),
		Ingredients:  draft.Ingredients,
		Instructions: draft.Instructions,
	}
	if r.Name == "" {
		r.Name = dishName
	}

	result, err := s.normalizer.NormalizeRecipe(ctx, r, true)
	if err != nil {
		return nil, err
	}
	s.normalizer.store(ctx, key, result)
	return result, nil
}

// buildDraftPrompt 組合草擬食譜的提示
func buildDraftPrompt(dishName string, servings int) string {
	var sb strings.Builder
	sb.WriteString("Write a home-cooking recipe.\n")
	sb.WriteString(fmt.Sprintf("Dish: %s\n", dishName))
	sb.WriteString(fmt.Sprintf("Servings: %d\n", servings))
	sb.WriteString("Return a single JSON object and nothing else, in this shape:\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"name\": \"dish name\",\n")
	sb.WriteString("  \"ingredients\": [\"1 cup flour\", \"2 tbsp butter\"],\n")
	sb.WriteString("  \"instructions\": [\"Preheat oven to 350°F.\", \"Mix the flour and butter.\"]\n")
	sb.WriteString("}\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- One ingredient per string, quantity first.\n")
	sb.WriteString("- One step per string, no numbering.\n")
	sb.WriteString("- Do not wrap the JSON in code fences.\n")
	return sb.String()
}

// parseDraft 從模型回應取出 JSON 並驗證必要欄位
func parseDraft(content string) (*draftPayload, error) {
	text, err := common.ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var draft draftPayload
	if err := common.ParseJSON(text, &draft); err != nil {
		// 部分模型會省略鍵的雙引號
		if err2 := common.ParseJSON(common.QuoteJSONKeys(text), &draft); err2 != nil {
			return nil, fmt.Errorf("failed to parse draft: %w", err)
		}
	}
	if len(draft.Ingredients) == 0 {
		return nil, fmt.Errorf("draft has no ingredients")
	}
	if len(draft.Instructions) == 0 {
		return nil, fmt.Errorf("draft has no instructions")
	}
	return &draft, nil
}
