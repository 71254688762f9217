package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

var (
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrRateLimited    = errors.New("rate limited by provider")
	ErrNoData         = errors.New("no data from any provider")
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9.^=\-]{1,20}$`)

// NormalizeSymbol trims the symbol and checks its shape.
func NormalizeSymbol(symbol string) (string, error) {
	s := strings.TrimSpace(symbol)
	if s == "" {
		return "", fmt.Errorf("%w: symbol required", ErrInvalidSymbol)
	}
	if !symbolPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSymbol, s)
	}
	return s, nil
}

// IsDomesticCode reports whether symbol is a KRX-style numeric code of at
// most six digits.
func IsDomesticCode(symbol string) bool {
	if symbol == "" || len(symbol) > 6 {
		return false
	}
	for _, r := range symbol {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// newHTTPClient returns a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
