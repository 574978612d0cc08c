package optimize

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BatchResult is the outcome for one batch item. A failed item keeps
// its original text as the safe fallback and carries the error.
type BatchResult struct {
	Original  string
	Optimized string
	Err       string
}

// Failed reports whether the item's rewrite failed
func (r BatchResult) Failed() bool {
	return r.Err != ""
}

// Batch rewrites items strictly in order, one at a time. A failed item
// never aborts the run: its result keeps the original text and records
// the error. onProgress, when set, fires after every item. Cancelling
// the context stops further calls; results produced so far are
// returned.
func (o *Optimizer) Batch(ctx context.Context, items []Request, onProgress func(done, total int)) []BatchResult {
	results := make([]BatchResult, 0, len(items))
	total := len(items)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}

		optimized, err := o.Optimize(ctx, item)
		if err != nil {
			o.logger.Warn("batch item failed",
				zap.Int("index", i),
				zap.String("text", item.Text),
				zap.Error(err))
			results = append(results, BatchResult{
				Original:  item.Text,
				Optimized: item.Text,
				Err:       err.Error(),
			})
		} else {
			results = append(results, BatchResult{
				Original:  item.Text,
				Optimized: optimized,
			})
		}

		if onProgress != nil {
			onProgress(i+1, total)
		}

		if i < total-1 {
			select {
			case <-ctx.Done():
			case <-time.After(o.delay):
			}
		}
	}

	return results
}
