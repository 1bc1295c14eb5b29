package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/usecase"
)

const rateCacheKey = "fincore:central_exchange_rate"

// RateCache decorates a usecase.RateOracle with a Redis read-through
// cache. The central rate changes a few times a day at most, while
// every cross-currency entry normalizes through it; a short TTL keeps
// the settings table off the hot path without serving stale rates for
// long.
type RateCache struct {
	client *redis.Client
	source usecase.RateOracle
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRateCache creates a cache over the authoritative rate source.
func NewRateCache(client *redis.Client, source usecase.RateOracle, ttl time.Duration, logger zerolog.Logger) *RateCache {
	return &RateCache{
		client: client,
		source: source,
		ttl:    ttl,
		logger: logger,
	}
}

// CentralExchangeRate returns the cached rate, falling through to the
// source on a miss. Cache failures degrade to the source; they never
// fail the read.
func (c *RateCache) CentralExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	value, err := c.client.Get(ctx, rateCacheKey).Result()
	if err == nil {
		rate, parseErr := decimal.NewFromString(value)
		if parseErr == nil {
			return rate, nil
		}
		c.logger.Warn().Str("value", value).Msg("discarding unparsable cached exchange rate")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Msg("exchange rate cache read failed, falling through")
	}

	rate, err := c.source.CentralExchangeRate(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := c.client.Set(ctx, rateCacheKey, rate.String(), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("exchange rate cache write failed")
	}

	return rate, nil
}

// Invalidate drops the cached rate, forcing the next read through to
// the source. Called when an operator updates the rate setting.
func (c *RateCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, rateCacheKey).Err()
}
