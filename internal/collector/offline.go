package collector

import (
	"context"
	"fmt"

	"SignalDesk/internal/model"
)

// BarLoader reads previously stored daily bars.
type BarLoader interface {
	LoadBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
}

// OfflineFetcher serves bars from the local bar store, the last tier of every
// provider chain.
type OfflineFetcher struct {
	store BarLoader
}

// NewOfflineFetcher wraps a bar store.
func NewOfflineFetcher(store BarLoader) *OfflineFetcher {
	return &OfflineFetcher{store: store}
}

func (f *OfflineFetcher) Name() string { return "offline" }

func (f *OfflineFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	bars, err := f.store.LoadBars(ctx, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("offline load %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("offline %s: %w", symbol, ErrSymbolNotFound)
	}
	return bars, nil
}
