package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// Observer receives per-provider fetch outcomes.
type Observer interface {
	ObserveFetch(provider, result string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveFetch(string, string, time.Duration) {}

// Router picks a provider chain by symbol shape and falls back along it.
type Router struct {
	Domestic []Fetcher // numeric KRX codes
	Overseas []Fetcher // everything else
	observer Observer
}

// NewRouter builds a router. Nil fetchers are dropped so disabled providers
// can be passed straight through.
func NewRouter(domestic, overseas []Fetcher, obs Observer) *Router {
	if obs == nil {
		obs = noopObserver{}
	}
	return &Router{Domestic: compact(domestic), Overseas: compact(overseas), observer: obs}
}

func compact(fs []Fetcher) []Fetcher {
	out := make([]Fetcher, 0, len(fs))
	for _, f := range fs {
		if f != nil {
			out = append(out, f)
		}
	}
	return out
}

// Chain returns the providers tried for symbol, in order.
func (r *Router) Chain(symbol string) []Fetcher {
	if IsDomesticCode(symbol) {
		return r.Domestic
	}
	return r.Overseas
}

// ChainName joins the provider names of a chain.
func ChainName(chain []Fetcher) string {
	names := make([]string, len(chain))
	for i, f := range chain {
		names[i] = f.Name()
	}
	return strings.Join(names, ",")
}

// Fetch walks the chain until a provider returns a usable series. It returns
// the sanitized bars and the name of the provider that served them.
func (r *Router) Fetch(ctx context.Context, symbol string, days int) ([]model.OHLCV, string, error) {
	chain := r.Chain(symbol)
	if len(chain) == 0 {
		return nil, "", fmt.Errorf("%w: no provider enabled for %s", ErrNoData, symbol)
	}
	if IsDomesticCode(symbol) {
		symbol = PadCode(symbol)
	}

	var errs []error
	allNotFound := true
	for _, f := range chain {
		start := time.Now()
		bars, err := f.FetchDailyBars(ctx, symbol, days)
		if err == nil {
			bars = Sanitize(bars, days)
			if len(bars) == 0 {
				err = fmt.Errorf("%s: no usable rows: %w", f.Name(), ErrSymbolNotFound)
			}
		}
		if err == nil {
			r.observer.ObserveFetch(f.Name(), "ok", time.Since(start))
			return bars, f.Name(), nil
		}

		r.observer.ObserveFetch(f.Name(), fetchResult(err), time.Since(start))
		errs = append(errs, fmt.Errorf("%s: %w", f.Name(), err))
		if !errors.Is(err, ErrSymbolNotFound) {
			allNotFound = false
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", errors.Join(append(errs, ctxErr)...)
		}
	}

	joined := errors.Join(errs...)
	if allNotFound {
		return nil, "", errors.Join(ErrNoData, joined)
	}
	return nil, "", fmt.Errorf("all providers failed for %s: %w", symbol, joined)
}

func fetchResult(err error) string {
	switch {
	case errors.Is(err, ErrSymbolNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
