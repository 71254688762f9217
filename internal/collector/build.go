package collector

import (
	"log"

	"SignalDesk/internal/config"
)

// Providers is the set of fetchers built from config.
type Providers struct {
	Router   *Router
	longport *LongportFetcher
}

// Close releases long-lived provider connections.
func (p *Providers) Close() {
	if p.longport != nil {
		p.longport.Close()
	}
}

// BuildProviders creates the enabled fetchers and arranges them into the
// domestic and overseas chains. offline may be nil.
func BuildProviders(cfg *config.Config, offline BarLoader, obs Observer) *Providers {
	pc := cfg.Providers
	retry := DefaultRetryConfig()
	retry.MaxRetries = pc.Retries

	p := &Providers{}
	var yahoo, finnhub, naver, longport, off Fetcher

	if pc.Yahoo.On() {
		yahoo = WithRetry(NewYahooFetcher(), retry)
	}
	if pc.Finnhub.On() && pc.Finnhub.APIKey != "" {
		finnhub = WithRetry(NewFinnhubFetcher(pc.Finnhub.BaseURL, pc.Finnhub.APIKey, cfg.Proxy, pc.Timeout), retry)
	}
	if pc.Naver.On() {
		naver = WithRetry(NewNaverFetcher(pc.Naver.BaseURL, cfg.Proxy, pc.Naver.Pages, pc.Timeout), retry)
	}
	if pc.Longport.On() && pc.Longport.AppKey != "" {
		p.longport = NewLongportFetcher(pc.Longport.AppKey, pc.Longport.AppSecret, pc.Longport.AccessToken)
		longport = WithRetry(p.longport, retry)
	}
	if pc.Offline.On() && offline != nil {
		off = NewOfflineFetcher(offline)
	}

	p.Router = NewRouter(
		[]Fetcher{naver, off},
		[]Fetcher{yahoo, longport, finnhub, off},
		obs,
	)
	log.Printf("[INFO] providers: domestic=[%s] overseas=[%s]",
		ChainName(p.Router.Domestic), ChainName(p.Router.Overseas))
	return p
}
