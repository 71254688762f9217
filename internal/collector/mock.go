package collector

import (
	"context"
	"time"

	"SignalDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Source    string
	Price     float64
	DailyData []model.OHLCV
	Err       error
	Calls     int
}

func (m *MockFetcher) Name() string {
	if m.Source != "" {
		return m.Source
	}
	return "mock"
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice == 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
