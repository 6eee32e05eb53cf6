package recipe

import (
	"context"
	"strconv"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/measure"
	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

// NormalizeService 食譜量測正規化服務：引擎之上加上緩存、統計與批次處理
type NormalizeService struct {
	engine       *measure.Engine
	cache        *cache.Manager
	workers      int
	maxBatchSize int
}

// ServiceOptions 服務設定
type ServiceOptions struct {
	Engine       measure.Options
	Workers      int
	MaxBatchSize int
}

// NewNormalizeService 創建正規化服務，cacheManager 可為 nil
func NewNormalizeService(opts ServiceOptions, cacheManager *cache.Manager) *NormalizeService {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = 50
	}
	return &NormalizeService{
		engine:       measure.New(opts.Engine),
		cache:        cacheManager,
		workers:      opts.Workers,
		maxBatchSize: opts.MaxBatchSize,
	}
}

// Engine 取得底層引擎
func (s *NormalizeService) Engine() *measure.Engine {
	return s.engine
}

// ParseIngredient 清理並解析單行食材
func (s *NormalizeService) ParseIngredient(line string) measure.ParsedIngredientLine {
	return s.engine.ParseIngredient(measure.CleanIngredient(line))
}

// NormalizeIngredients 清理並換算食材清單
func (s *NormalizeService) NormalizeIngredients(ctx context.Context, lines []string) (*LinesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.cacheKey("ingredients", lines)
	var cached LinesResult
	if s.cache.GetJSON(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	out, stats := s.normalizeIngredients(lines)
	result := &LinesResult{Lines: out, Stats: stats}
	s.store(ctx, key, result)

	common.LogDebug("食材正規化完成",
		zap.Int("lines", len(lines)),
		zap.Int("converted", stats.IngredientsConverted),
		zap.Int("dropped", stats.Dropped),
	)
	return result, nil
}

// NormalizeInstructions 清理步驟，convertToMetric 為 true 時一併換算量測與溫度
func (s *NormalizeService) NormalizeInstructions(ctx context.Context, lines []string, convertToMetric bool) (*LinesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.cacheKey("instructions:"+strconv.FormatBool(convertToMetric), lines)
	var cached LinesResult
	if s.cache.GetJSON(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	out, stats := s.normalizeInstructions(lines, convertToMetric)
	result := &LinesResult{Lines: out, Stats: stats}
	s.store(ctx, key, result)

	common.LogDebug("步驟正規化完成",
		zap.Int("lines", len(lines)),
		zap.Int("converted", stats.InstructionsConverted),
		zap.Bool("convert_to_metric", convertToMetric),
	)
	return result, nil
}

// NormalizeRecipe 正規化整份食譜，名稱與來源等欄位原樣保留
func (s *NormalizeService) NormalizeRecipe(ctx context.Context, r common.Recipe, convertToMetric bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := s.cacheKey("recipe:"+strconv.FormatBool(convertToMetric), r)
	var cached Result
	if s.cache.GetJSON(ctx, key, &cached) {
		cached.Cached = true
		return &cached, nil
	}

	result := s.normalizeRecipe(r, convertToMetric)
	s.store(ctx, key, result)

	common.LogInfo("食譜正規化完成",
		zap.String("name", r.Name),
		zap.Int("ingredients", result.Stats.Ingredients),
		zap.Int("ingredients_converted", result.Stats.IngredientsConverted),
		zap.Int("instructions", result.Stats.Instructions),
		zap.Int("instructions_converted", result.Stats.InstructionsConverted),
		zap.Int("passthrough", result.Stats.Passthrough()),
	)
	return result, nil
}

func (s *NormalizeService) normalizeRecipe(r common.Recipe, convertToMetric bool) *Result {
	ingredients, ingStats := s.normalizeIngredients(r.Ingredients)
	instructions, insStats := s.normalizeInstructions(r.Instructions, convertToMetric)

	out := r
	out.Ingredients = ingredients
	out.Instructions = instructions

	var stats Stats
	stats.add(ingStats)
	stats.add(insStats)
	return &Result{Recipe: out, Stats: stats}
}

// normalizeIngredients 與 Engine.ConvertRecipeIngredients 相同的流程，另外計算統計
func (s *NormalizeService) normalizeIngredients(lines []string) ([]string, Stats) {
	var stats Stats
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := measure.CleanIngredient(line)
		if cleaned == "" {
			stats.Dropped++
			continue
		}
		parsed := s.engine.ParseIngredient(cleaned)
		if parsed.Converted != "" {
			stats.IngredientsConverted++
			cleaned = parsed.Converted
		}
		out = append(out, cleaned)
	}
	stats.Ingredients = len(out)
	return out, stats
}

// normalizeInstructions 與 Engine.CleanRecipeInstructions 相同的流程，另外計算統計
func (s *NormalizeService) normalizeInstructions(lines []string, convertToMetric bool) ([]string, Stats) {
	var stats Stats
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := measure.CleanInstruction(line)
		if cleaned == "" {
			stats.Dropped++
			continue
		}
		if convertToMetric {
			if converted := s.engine.ConvertInstructionMeasurements(cleaned); converted != cleaned {
				stats.InstructionsConverted++
				cleaned = converted
			}
		}
		out = append(out, cleaned)
	}
	stats.Instructions = len(out)
	return out, stats
}

// cacheKey 以內容與引擎選項計算緩存鍵
func (s *NormalizeService) cacheKey(kind string, payload interface{}) string {
	data, _ := common.ToJSON(payload)
	opts := strconv.FormatBool(s.engine.Options().DensityConversion)
	return kind + ":" + common.HashKey(data, opts)
}

// store 寫入緩存，失敗只記錄
func (s *NormalizeService) store(ctx context.Context, key string, v interface{}) {
	if err := s.cache.SetJSON(ctx, key, v); err != nil {
		common.LogWarn("快取寫入失敗", zap.Error(err))
	}
}
