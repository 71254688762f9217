package collector

import (
	"context"
	"log"
	"time"

	"SignalDesk/internal/model"
)

// CacheObserver receives cache hit/miss events.
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// Collector resolves a symbol to a clean daily series: cache first, then the
// provider chain.
type Collector struct {
	Router *Router
	Cache  Cache
	TTL    time.Duration

	observer CacheObserver
	now      func() time.Time
}

// NewCollector creates a new Collector. cache may be nil.
func NewCollector(router *Router, cache Cache, ttl time.Duration, obs CacheObserver) *Collector {
	if cache == nil {
		cache = NewNoopCache()
	}
	return &Collector{Router: router, Cache: cache, TTL: ttl, observer: obs, now: time.Now}
}

// Collect validates the symbol and fetches its most recent `days` daily bars.
func (c *Collector) Collect(ctx context.Context, symbol string, days int) (*model.Fetched, error) {
	symbol, err := NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if IsDomesticCode(symbol) {
		symbol = PadCode(symbol)
	}
	key := CacheKey(ChainName(c.Router.Chain(symbol)), symbol, days)

	if cached, ok, err := c.Cache.Get(ctx, key); err != nil {
		log.Printf("[WARN] cache get %s: %v", key, err)
	} else if ok && len(cached.Bars) > 0 {
		c.hit(true)
		return cached, nil
	}
	c.hit(false)

	bars, source, err := c.Router.Fetch(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	fetched := &model.Fetched{Symbol: symbol, Source: source, Bars: bars, FetchedAt: c.now()}

	if c.TTL > 0 {
		if err := c.Cache.Set(ctx, key, fetched, c.TTL); err != nil {
			log.Printf("[WARN] cache set %s: %v", key, err)
		}
	}
	return fetched, nil
}

func (c *Collector) hit(ok bool) {
	if c.observer == nil {
		return
	}
	if ok {
		c.observer.CacheHit()
	} else {
		c.observer.CacheMiss()
	}
}
