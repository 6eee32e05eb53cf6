package api

import (
	"time"

	"recipe-normalizer/internal/api/handlers/health"
	recipeHandler "recipe-normalizer/internal/api/handlers/recipe"
	"recipe-normalizer/internal/api/middleware"
	"recipe-normalizer/internal/core/ai/openrouter"
	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/core/importer"
	"recipe-normalizer/internal/core/measure"
	recipeService "recipe-normalizer/internal/core/recipe"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由，cacheManager 可為 nil（緩存停用）
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制與超時
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cacheManager != nil),
		zap.Int("workers", cfg.Normalizer.Workers),
		zap.Bool("density_conversion", cfg.Normalizer.DensityConversion),
		zap.Bool("ai_enabled", cfg.OpenRouter.Enabled),
	)

	// 初始化服務
	normalizer := recipeService.NewNormalizeService(recipeService.ServiceOptions{
		Engine:       measure.Options{DensityConversion: cfg.Normalizer.DensityConversion},
		Workers:      cfg.Normalizer.Workers,
		MaxBatchSize: cfg.Normalizer.MaxBatchSize,
	}, cacheManager)

	importSvc := importer.NewService(importer.NewFetcher(cfg.Importer), normalizer)

	// 未啟用 AI 時 generator 保持 nil 介面
	var generator recipeService.Generator
	if cfg.OpenRouter.Enabled {
		generator = openrouter.NewClient(cfg.OpenRouter)
	}
	draftSvc := recipeService.NewDraftService(generator, normalizer)

	handler := recipeHandler.NewHandler(normalizer, importSvc, draftSvc, recipeHandler.Options{
		ConvertInstructions: cfg.Normalizer.ConvertInstructions,
		ShowDetails:         cfg.App.Debug,
	})
	healthHandler := health.NewHandler(cfg, cacheManager)

	// 健康檢查路由
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(cfg.RateLimit))
	}
	api.Use(middleware.Deduplication(cfg.DedupWindow))
	{
		normalizeGroup := api.Group("/normalize")
		{
			normalizeGroup.POST("/ingredients", handler.HandleNormalizeIngredients)
			normalizeGroup.POST("/instructions", handler.HandleNormalizeInstructions)
			normalizeGroup.POST("/recipe", handler.HandleNormalizeRecipe)
			normalizeGroup.POST("/batch", handler.HandleNormalizeBatch)
			normalizeGroup.POST("/parse", handler.HandleParseIngredient)
		}

		api.POST("/import", handler.HandleImport)
		api.POST("/draft", handler.HandleDraft)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", cacheManager != nil),
		zap.Bool("ai_enabled", draftSvc.Enabled()),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}
