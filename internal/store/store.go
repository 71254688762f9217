package store

import (
	"context"
	"time"

	"SignalDesk/internal/model"
)

// BarStore keeps daily bars for offline use. It holds provider data only;
// indicators and signals are recomputed per request and never written here.
type BarStore interface {
	UpsertBars(ctx context.Context, symbol, source string, bars []model.OHLCV) (int, error)
	LoadBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Prune(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) UpsertBars(_ context.Context, _, _ string, bars []model.OHLCV) (int, error) {
	return 0, nil
}
func (n *NoopStore) LoadBars(context.Context, string, int) ([]model.OHLCV, error) { return nil, nil }
func (n *NoopStore) Prune(context.Context, time.Time) (int64, error)              { return 0, nil }
func (n *NoopStore) Close() error                                                 { return nil }
