package importer

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher 下載食譜網頁，限制逾時與內容大小
type Fetcher struct {
	client  *resty.Client
	maxBody int64
}

// NewFetcher 創建網頁下載器
func NewFetcher(cfg config.ImporterConfig) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	return &Fetcher{
		client:  client,
		maxBody: cfg.MaxBodyBytes,
	}
}

// Fetch 下載網頁內容，只接受 http/https
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, common.ErrInvalidURL
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u.String())
	if err != nil {
		return nil, common.ErrFetchFailed.Wrap(err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, common.ErrFetchFailed.Wrap(fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	// 多讀一個位元組判斷是否超過上限
	data, err := io.ReadAll(io.LimitReader(body, f.maxBody+1))
	if err != nil {
		return nil, common.ErrFetchFailed.Wrap(err)
	}
	if int64(len(data)) > f.maxBody {
		common.LogWarn("食譜網頁超出大小限制",
			zap.String("url", u.String()),
			zap.Int64("max_body_bytes", f.maxBody),
		)
		return nil, common.ErrPageTooLarge
	}

	common.LogDebug("食譜網頁下載完成",
		zap.String("url", u.String()),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}
