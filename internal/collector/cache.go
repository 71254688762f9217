package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"SignalDesk/internal/model"
)

// Cache stores fetched series between requests.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Fetched, bool, error)
	Set(ctx context.Context, key string, f *model.Fetched, ttl time.Duration) error
	Close() error
}

// NoopCache never hits.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(context.Context, string) (*model.Fetched, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, *model.Fetched, time.Duration) error { return nil }
func (NoopCache) Close() error { return nil }

// RedisCache keeps series as JSON strings with a TTL.
type RedisCache struct {
	client *goredis.Client
}

// NewRedisCache connects and pings the server.
func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[INFO] redis cache connected to %s (db=%d)", addr, db)
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromClient wraps an existing client, e.g. in tests.
func NewRedisCacheFromClient(client *goredis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.Fetched, bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var f model.Fetched
	if err := json.Unmarshal([]byte(data), &f); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached series: %w", err)
	}
	return &f, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, f *model.Fetched, ttl time.Duration) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}
	return c.client.Set(ctx, key, string(data), ttl).Err()
}

func (c *RedisCache) Close() error { return c.client.Close() }

// CacheKey builds the cache key of a series request.
func CacheKey(chain, symbol string, days int) string {
	return fmt.Sprintf("signaldesk:bars:%s:%s:%d", chain, symbol, days)
}
