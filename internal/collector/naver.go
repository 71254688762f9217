package collector

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"SignalDesk/internal/model"
)

// NaverFetcher scrapes the KRX daily price table from Naver Finance.
type NaverFetcher struct {
	client *resty.Client
	pages  int
}

// NewNaverFetcher creates a Naver fetcher reading up to `pages` table pages
// (ten sessions each).
func NewNaverFetcher(baseURL, proxyURL string, pages int, timeout time.Duration) *NaverFetcher {
	client := resty.NewWithClient(newHTTPClient(proxyURL, timeout))
	client.SetBaseURL(baseURL)
	client.SetHeader("User-Agent", "Mozilla/5.0")
	if pages <= 0 {
		pages = 5
	}
	return &NaverFetcher{client: client, pages: pages}
}

func (f *NaverFetcher) Name() string { return "naver" }

// PadCode zero-pads a numeric KRX code to six digits.
func PadCode(code string) string {
	if len(code) >= 6 {
		return code
	}
	return strings.Repeat("0", 6-len(code)) + code
}

func (f *NaverFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	code := PadCode(symbol)
	pages := f.pages
	if need := (days + 9) / 10; days > 0 && need < pages {
		pages = need
	}

	var bars []model.OHLCV
	for page := 1; page <= pages; page++ {
		rows, err := f.fetchPage(ctx, code, page)
		if err != nil {
			if len(bars) > 0 {
				break
			}
			return nil, err
		}
		if len(rows) == 0 {
			break
		}
		bars = append(bars, rows...)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("naver %s: %w", code, ErrSymbolNotFound)
	}
	return bars, nil
}

func (f *NaverFetcher) fetchPage(ctx context.Context, code string, page int) ([]model.OHLCV, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"code": code, "page": strconv.Itoa(page)}).
		Get("/item/sise_day.naver")
	if err != nil {
		return nil, fmt.Errorf("naver fetch %s page %d: %w", code, page, err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("naver: %w", ErrRateLimited)
	default:
		return nil, fmt.Errorf("naver: status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("naver parse: %w", err)
	}
	return parseDailyTable(doc), nil
}

// parseDailyTable reads rows of date, close, change, open, high, low, volume.
// Rows without an open column get (high+low+close)/3.
func parseDailyTable(doc *goquery.Document) []model.OHLCV {
	var bars []model.OHLCV
	doc.Find("table.type2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 6 {
			return
		}
		cell := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }

		date, err := time.Parse("2006.01.02", cell(0))
		if err != nil {
			return
		}
		var open, high, low, vol float64
		closePrice := parseNumber(cell(1))
		if cells.Length() >= 7 {
			open, high, low, vol = parseNumber(cell(3)), parseNumber(cell(4)), parseNumber(cell(5)), parseNumber(cell(6))
		} else {
			high, low, vol = parseNumber(cell(3)), parseNumber(cell(4)), parseNumber(cell(5))
			open = (high + low + closePrice) / 3
		}
		bars = append(bars, model.OHLCV{
			Time: date, Open: open, High: high, Low: low, Close: closePrice, Volume: vol,
		})
	})
	return bars
}

// parseNumber reads "1,234" style numbers; anything unreadable is 0.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
