package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"SignalDesk/internal/model"
)

// FinnhubFetcher implements Fetcher using the Finnhub /stock/candle endpoint.
type FinnhubFetcher struct {
	client *resty.Client
	apiKey string
	now    func() time.Time
}

// NewFinnhubFetcher creates a Finnhub fetcher against baseURL.
func NewFinnhubFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *FinnhubFetcher {
	client := resty.NewWithClient(newHTTPClient(proxyURL, timeout))
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")
	// keep the key out of URLs, which surface in transport errors
	client.SetHeader("X-Finnhub-Token", apiKey)
	return &FinnhubFetcher{client: client, apiKey: apiKey, now: time.Now}
}

func (f *FinnhubFetcher) Name() string { return "finnhub" }

// finnhubCandles is the column-oriented candle response.
type finnhubCandles struct {
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Volume []float64 `json:"v"`
}

func (f *FinnhubFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if f.apiKey == "" {
		return nil, errors.New("finnhub API key not configured")
	}
	to := f.now()
	from := to.AddDate(0, 0, -calendarSpan(days))

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbol":     symbol,
			"resolution": "D",
			"from":       strconv.FormatInt(from.Unix(), 10),
			"to":         strconv.FormatInt(to.Unix(), 10),
		}).
		Get("/stock/candle")
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch %s: %w", symbol, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("finnhub: %w", ErrRateLimited)
	default:
		return nil, fmt.Errorf("finnhub: status %d, body: %s", resp.StatusCode(), resp.String())
	}

	var candles finnhubCandles
	if err := json.Unmarshal(resp.Body(), &candles); err != nil {
		return nil, fmt.Errorf("finnhub decode: %w", err)
	}
	switch candles.Status {
	case "ok":
	case "no_data":
		return nil, fmt.Errorf("finnhub %s: %w", symbol, ErrSymbolNotFound)
	default:
		return nil, fmt.Errorf("finnhub %s: unexpected status %q", symbol, candles.Status)
	}

	n := len(candles.Time)
	if len(candles.Open) != n || len(candles.High) != n || len(candles.Low) != n || len(candles.Close) != n || len(candles.Volume) != n {
		return nil, fmt.Errorf("finnhub %s: ragged candle columns", symbol)
	}
	bars := make([]model.OHLCV, 0, n)
	for i, ts := range candles.Time {
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   candles.Open[i],
			High:   candles.High[i],
			Low:    candles.Low[i],
			Close:  candles.Close[i],
			Volume: candles.Volume[i],
		})
	}
	return bars, nil
}
