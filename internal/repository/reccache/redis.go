package reccache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/domain"
)

// Compile-time check: RedisCache implements Cache.
var _ Cache = (*RedisCache)(nil)

const defaultKeyPrefix = "bookrec:rec_cache:"

// RedisConfig holds connection parameters for a Redis-backed cache.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisCache shares recommendation entries across instances via Redis.
// TTL is enforced server-side with SET EX; the entry bound is left to
// Redis eviction policy. Cache errors degrade to misses, never failures.
type RedisCache struct {
	client     rueidis.Client
	keyPrefix  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	hits       atomic.Uint64
	misses     atomic.Uint64
}

// NewRedisCache creates a Redis-backed recommendation cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"); nil disables it.
func NewRedisCache(cfg RedisConfig, cacheTotal *prometheus.CounterVec, logger *zap.Logger) (*RedisCache, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &RedisCache{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		ttl:        cfg.TTL,
		cacheTotal: cacheTotal,
		logger:     logger,
	}, nil
}

// Get returns the cached results for key. Any transport or decode error
// is logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]domain.EnhancedResult, bool) {
	cmd := c.client.B().Get().Key(c.keyPrefix + key).Build()
	data, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if !rueidis.IsRedisNil(err) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		c.miss()
		return nil, false
	}

	var results []domain.EnhancedResult
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		c.miss()
		return nil, false
	}

	c.hits.Add(1)
	c.incCache("hit")
	return results, true
}

// Put stores results under key with the configured TTL. Errors are
// logged; a failed write never fails the request.
func (c *RedisCache) Put(ctx context.Context, key string, results []domain.EnhancedResult) {
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}

	cmd := c.client.B().Set().Key(c.keyPrefix + key).Value(string(data)).Ex(c.ttl).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Stats reports per-process hit/miss counts. Entry counts live in Redis
// and are not reported here.
func (c *RedisCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Close shuts down the client.
func (c *RedisCache) Close() {
	c.client.Close()
}

func (c *RedisCache) miss() {
	c.misses.Add(1)
	c.incCache("miss")
}

func (c *RedisCache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}
