package datasource

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/tickertop/tickertop/pkg/models"
	"github.com/tickertop/tickertop/pkg/utils"
)

// GetQuotes fetches quotes for the given symbols in parallel, bounded by the
// client's concurrency limit. Symbols that fail validation are recorded as
// failures without a network call. The returned batch contains exactly one
// outcome per distinct input symbol; completion order is not preserved.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) models.BatchResult {
	var batch models.BatchResult
	if len(symbols) == 0 {
		return batch
	}

	seen := make(map[string]bool, len(symbols))
	var valid []string
	for _, sym := range symbols {
		if seen[sym] {
			continue
		}
		seen[sym] = true
		if utils.ValidateSymbol(sym) {
			valid = append(valid, sym)
		} else {
			batch.Failures = append(batch.Failures, models.FetchFailure{
				Symbol: sym,
				Reason: ErrInvalidSymbol.Error(),
			})
		}
	}

	sem := semaphore.NewWeighted(int64(c.maxConcurrency))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, sym := range valid {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()

			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				batch.Failures = append(batch.Failures, models.FetchFailure{Symbol: sym, Reason: err.Error()})
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			quote, err := c.FetchQuote(ctx, sym)
			if err != nil {
				c.log.Debug("quote fetch failed", zap.String("symbol", sym), zap.Error(err))
				mu.Lock()
				batch.Failures = append(batch.Failures, models.FetchFailure{Symbol: sym, Reason: err.Error()})
				mu.Unlock()
				return
			}

			// Chart metadata never carries market cap; backfill it on the
			// same task so the batch is complete when all permits drain.
			if quote.MarketCap == 0 {
				if cap, ok := c.fetchMarketCap(ctx, sym); ok {
					quote.MarketCap = cap
				}
			}

			mu.Lock()
			batch.Quotes = append(batch.Quotes, quote)
			mu.Unlock()
		}(sym)
	}

	wg.Wait()
	return batch
}
