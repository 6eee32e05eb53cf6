package recipe

import (
	"context"
	"sync"

	"recipe-normalizer/internal/pkg/common"

	"go.uber.org/zap"
)

// batchJob 批次中的單一工作
type batchJob struct {
	index  int
	recipe common.Recipe
}

// NormalizeBatch 以固定數量的 worker 並行正規化多份食譜，結果順序與輸入一致。
// ctx 取消時停止派送新工作並回傳 ctx.Err()。
func (s *NormalizeService) NormalizeBatch(ctx context.Context, recipes []common.Recipe, convertToMetric bool) (*BatchResult, error) {
	if len(recipes) > s.maxBatchSize {
		return nil, common.ErrBatchTooLarge
	}

	batch := &BatchResult{
		ID:    common.GenerateUUID(),
		Items: make([]BatchItem, len(recipes)),
	}
	if len(recipes) == 0 {
		return batch, nil
	}

	workers := s.workers
	if workers > len(recipes) {
		workers = len(recipes)
	}

	jobs := make(chan batchJob)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				item := BatchItem{Index: job.index}
				result, err := s.NormalizeRecipe(ctx, job.recipe, convertToMetric)
				if err != nil {
					item.Error = err.Error()
				} else {
					item.Result = result
				}
				// 每個 index 只由一個 worker 寫入
				batch.Items[job.index] = item
			}
		}()
	}

dispatch:
	for i, r := range recipes {
		select {
		case jobs <- batchJob{index: i, recipe: r}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		common.LogWarn("批次正規化已取消",
			zap.String("batch_id", batch.ID),
			zap.Error(err),
		)
		return nil, err
	}

	for _, item := range batch.Items {
		if item.Result != nil {
			batch.Stats.add(item.Result.Stats)
		}
	}

	common.LogInfo("批次正規化完成",
		zap.String("batch_id", batch.ID),
		zap.Int("recipes", len(recipes)),
		zap.Int("workers", workers),
	)
	return batch, nil
}
