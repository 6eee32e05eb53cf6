package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-normalizer/internal/core/cache"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// readyTimeout 就緒檢查的逾時
const readyTimeout = 2 * time.Second

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Uptime     string                 `json:"uptime"`
	Runtime    map[string]interface{} `json:"runtime"`
	Normalizer NormalizerStatus       `json:"normalizer"`
	Cache      cache.Stats            `json:"cache"`
}

// NormalizerStatus 正規化服務設定
type NormalizerStatus struct {
	Workers           int  `json:"workers"`
	MaxBatchSize      int  `json:"max_batch_size"`
	DensityConversion bool `json:"density_conversion"`
	AIEnabled         bool `json:"ai_enabled"`
}

// Handler 健康檢查處理器
type Handler struct {
	cfg     *config.Config
	cache   *cache.Manager
	started time.Time
}

// NewHandler 創建健康檢查處理器，cacheManager 可為 nil
func NewHandler(cfg *config.Config, cacheManager *cache.Manager) *Handler {
	return &Handler{
		cfg:     cfg,
		cache:   cacheManager,
		started: time.Now(),
	}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.cfg.App.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Normalizer: NormalizerStatus{
			Workers:           h.cfg.Normalizer.Workers,
			MaxBatchSize:      h.cfg.Normalizer.MaxBatchSize,
			DensityConversion: h.cfg.Normalizer.DensityConversion,
			AIEnabled:         h.cfg.OpenRouter.Enabled,
		},
		Cache: h.cache.Stats(),
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：啟用 Redis 時需能連線
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.cache.Ping(ctx); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "cache unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
