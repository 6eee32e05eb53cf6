package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"recipe-normalizer/internal/pkg/common"
)

// dedupMaxEntries 去重指紋最多保留的數量
const dedupMaxEntries = 10000

// Deduplication 請求去重中間件：window 內相同路徑與請求體的 POST 直接回 429
func Deduplication(window time.Duration) gin.HandlerFunc {
	if window <= 0 {
		window = time.Second
	}
	seen := expirable.NewLRU[string, time.Time](dedupMaxEntries, nil, window)

	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost || c.Request.Body == nil {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				abortWithError(c, common.ErrTooLarge)
				return
			}
			common.LogError("Failed to read request body", zap.Error(err))
			abortWithError(c, common.ErrInvalidRequest.Wrap(err))
			return
		}
		// 恢復請求體
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		// 生成請求指紋
		fingerprint := common.HashKey(c.ClientIP(), c.Request.URL.Path, string(body))
		if _, exists := seen.Get(fingerprint); exists {
			common.LogInfo("Duplicate request rejected",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			abortWithError(c, common.ErrTooManyRequests)
			return
		}
		seen.Add(fingerprint, time.Now())

		c.Next()
	}
}
