package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"

	"SignalDesk/internal/model"
)

// candleSource is the part of the quote context the fetcher uses.
type candleSource interface {
	Candlesticks(ctx context.Context, symbol string, period quote.Period, count int32, adjustType quote.AdjustType) ([]*quote.Candlestick, error)
	Close() error
}

// LongportFetcher reads daily candlesticks from the Longport quote API. The
// quote connection is opened on first use; a failed attempt is retried on
// the next call.
type LongportFetcher struct {
	appKey, appSecret, accessToken string

	mu    sync.Mutex
	conn  candleSource
	dial  func() (candleSource, error)
}

// NewLongportFetcher creates a Longport fetcher.
func NewLongportFetcher(appKey, appSecret, accessToken string) *LongportFetcher {
	f := &LongportFetcher{appKey: appKey, appSecret: appSecret, accessToken: accessToken}
	f.dial = f.dialQuote
	return f
}

func (f *LongportFetcher) Name() string { return "longport" }

func (f *LongportFetcher) dialQuote() (candleSource, error) {
	if f.appKey == "" || f.appSecret == "" || f.accessToken == "" {
		return nil, errors.New("longport API credentials not configured")
	}
	conf, err := lpconfig.New(lpconfig.WithConfigKey(f.appKey, f.appSecret, f.accessToken))
	if err != nil {
		return nil, fmt.Errorf("longport config: %w", err)
	}
	qc, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, fmt.Errorf("longport connect: %w", err)
	}
	return qc, nil
}

// connect returns the open quote context, dialing when there is none.
func (f *LongportFetcher) connect() (candleSource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		return f.conn, nil
	}
	qc, err := f.dial()
	if err != nil {
		return nil, err
	}
	f.conn = qc
	return qc, nil
}

// LongportSymbol maps a ticker to Longport's CODE.MARKET form. Bare tickers
// are taken as US listings; Yahoo-style .HK codes lose their leading zeros.
func LongportSymbol(symbol string) string {
	s := strings.ToUpper(symbol)
	code, market, ok := strings.Cut(s, ".")
	if !ok {
		return s + ".US"
	}
	switch market {
	case "HK":
		if trimmed := strings.TrimLeft(code, "0"); trimmed != "" {
			code = trimmed
		}
	case "SS":
		market = "SH"
	}
	return code + "." + market
}

func (f *LongportFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	qc, err := f.connect()
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 120
	}
	sticks, err := qc.Candlesticks(ctx, LongportSymbol(symbol), quote.PeriodDay, int32(days), quote.AdjustTypeNo)
	if err != nil {
		return nil, fmt.Errorf("longport candlesticks %s: %w", symbol, err)
	}
	if len(sticks) == 0 {
		return nil, fmt.Errorf("longport %s: %w", symbol, ErrSymbolNotFound)
	}

	bars := make([]model.OHLCV, 0, len(sticks))
	for _, stick := range sticks {
		if stick == nil || stick.Open == nil || stick.High == nil || stick.Low == nil || stick.Close == nil {
			continue
		}
		open, _ := stick.Open.Float64()
		high, _ := stick.High.Float64()
		low, _ := stick.Low.Float64()
		closePrice, _ := stick.Close.Float64()
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(stick.Timestamp, 0).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: float64(stick.Volume),
		})
	}
	return bars, nil
}

// Close releases the quote connection if one was opened.
func (f *LongportFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		if err := f.conn.Close(); err != nil {
			log.Printf("[WARN] longport close: %v", err)
		}
		f.conn = nil
	}
}
