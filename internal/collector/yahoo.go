package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"SignalDesk/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	now       func() time.Time
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher() *YahooFetcher {
	return &YahooFetcher{
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"NDX":    "^NDX",
			"KOSPI":  "^KS11",
			"KOSDAQ": "^KQ11",
		},
		now: time.Now,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// FetchDailyBars reads enough calendar days to cover `days` trading sessions.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := f.now()
	start := end.AddDate(0, 0, -calendarSpan(days))

	iter := chart.Get(&chart.Params{
		Symbol:   f.yahooSymbol(symbol),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var bars []model.OHLCV
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   toFloat(bar.Open),
			High:   toFloat(bar.High),
			Low:    toFloat(bar.Low),
			Close:  toFloat(bar.Close),
			Volume: float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		if notFoundMessage(err.Error()) {
			return nil, fmt.Errorf("yahoo chart %s: %w (%v)", symbol, ErrSymbolNotFound, err)
		}
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrSymbolNotFound)
	}
	return bars, ctx.Err()
}

// notFoundMessage recognizes the chart API's unknown or delisted ticker errors.
func notFoundMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no data found") || strings.Contains(msg, "delisted")
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// calendarSpan converts trading sessions to calendar days with room for
// weekends and holidays.
func calendarSpan(days int) int {
	if days <= 0 {
		days = 120
	}
	return days*7/5 + 14
}
