package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// redisPingTimeout 啟動時檢查 Redis 連線的逾時
const redisPingTimeout = 3 * time.Second

// Manager 兩層緩存：行程內 LRU（有 TTL），可選的 Redis 共享層。
// nil Manager 代表緩存停用，所有方法皆可安全呼叫。
type Manager struct {
	local   *expirable.LRU[string, []byte]
	redis   *redis.Client
	prefix  string
	ttl     time.Duration
	maxSize int

	hits      atomic.Int64
	misses    atomic.Int64
	redisHits atomic.Int64
	errors    atomic.Int64
}

// Stats 緩存統計
type Stats struct {
	Enabled   bool    `json:"enabled"`
	Redis     bool    `json:"redis"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	RedisHits int64   `json:"redis_hits"`
	Errors    int64   `json:"errors"`
	HitRatio  float64 `json:"hit_ratio"`
}

// NewManager 創建新的緩存管理器，cache.enabled 為 false 時回傳 nil
func NewManager(cfg *config.Config) (*Manager, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	m := &Manager{
		local:   expirable.NewLRU[string, []byte](cfg.Cache.MaxSize, nil, cfg.Cache.TTL),
		prefix:  cfg.Redis.KeyPrefix,
		ttl:     cfg.Cache.TTL,
		maxSize: cfg.Cache.MaxSize,
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		m.redis = client
	}

	common.LogInfo("快取管理員已初始化",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Bool("redis", m.redis != nil),
	)

	return m, nil
}

// Get 取得緩存值，先查本地再查 Redis，Redis 命中時回填本地
func (m *Manager) Get(ctx context.Context, key string) ([]byte, bool) {
	if m == nil {
		return nil, false
	}

	if value, ok := m.local.Get(key); ok {
		m.hits.Add(1)
		return value, true
	}

	if m.redis != nil {
		value, err := m.redis.Get(ctx, m.prefix+key).Bytes()
		switch {
		case err == nil:
			m.hits.Add(1)
			m.redisHits.Add(1)
			m.local.Add(key, value)
			return value, true
		case !errors.Is(err, redis.Nil):
			m.errors.Add(1)
			common.LogWarn("Redis 讀取失敗", zap.Error(err))
		}
	}

	m.misses.Add(1)
	return nil, false
}

// Set 寫入緩存，Redis 寫入失敗只記錄，不影響本地緩存
func (m *Manager) Set(ctx context.Context, key string, value []byte) error {
	if m == nil {
		return nil
	}

	m.local.Add(key, value)

	if m.redis != nil {
		if err := m.redis.Set(ctx, m.prefix+key, value, m.ttl).Err(); err != nil {
			m.errors.Add(1)
			return fmt.Errorf("failed to set cache: %w", err)
		}
	}
	return nil
}

// GetJSON 取得並解析 JSON 緩存值，解析失敗視為未命中
func (m *Manager) GetJSON(ctx context.Context, key string, v interface{}) bool {
	data, ok := m.Get(ctx, key)
	if !ok {
		return false
	}
	if err := common.ParseJSONBytes(data, v); err != nil {
		m.errors.Add(1)
		common.LogWarn("快取內容解析失敗", zap.Error(err))
		return false
	}
	return true
}

// SetJSON 以 JSON 寫入緩存
func (m *Manager) SetJSON(ctx context.Context, key string, v interface{}) error {
	if m == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return m.Set(ctx, key, data)
}

// Stats 獲取緩存統計信息
func (m *Manager) Stats() Stats {
	if m == nil {
		return Stats{}
	}

	hits, misses := m.hits.Load(), m.misses.Load()
	stats := Stats{
		Enabled:   true,
		Redis:     m.redis != nil,
		Size:      m.local.Len(),
		MaxSize:   m.maxSize,
		Hits:      hits,
		Misses:    misses,
		RedisHits: m.redisHits.Load(),
		Errors:    m.errors.Load(),
	}
	if total := hits + misses; total > 0 {
		stats.HitRatio = float64(hits) / float64(total)
	}
	return stats
}

// Ping 檢查 Redis 連線，未啟用 Redis 時回傳 nil
func (m *Manager) Ping(ctx context.Context) error {
	if m == nil || m.redis == nil {
		return nil
	}
	return m.redis.Ping(ctx).Err()
}

// Close 關閉緩存管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}

	m.local.Purge()
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.hits.Load()),
		zap.Int64("未命中次數", m.misses.Load()),
	)
	if m.redis != nil {
		return m.redis.Close()
	}
	return nil
}
