package importer

import (
	"context"
	"fmt"

	"recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

// PageFetcher 網頁來源
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Service 從網址匯入食譜並正規化
type Service struct {
	fetcher    PageFetcher
	normalizer *recipe.NormalizeService
}

// NewService 創建匯入服務
func NewService(fetcher PageFetcher, normalizer *recipe.NormalizeService) *Service {
	return &Service{
		fetcher:    fetcher,
		normalizer: normalizer,
	}
}

// Import 下載、擷取並正規化食譜
func (s *Service) Import(ctx context.Context, rawURL string, convertToMetric bool) (*recipe.Result, error) {
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	r, err := ExtractRecipe(page)
	if err != nil {
		common.LogWarn("網頁中找不到食譜資料",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, err
	}
	r.SourceURL = rawURL

	common.LogInfo("食譜匯入完成",
		zap.String("url", rawURL),
		zap.String("name", r.Name),
		zap.Int("ingredients", len(r.Ingredients)),
		zap.Int("instructions", len(r.Instructions)),
	)
	return s.normalizer.NormalizeRecipe(ctx, *r, convertToMetric)
}
