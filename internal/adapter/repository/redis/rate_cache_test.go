package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type stubRateSource struct {
	rate  decimal.Decimal
	err   error
	calls int
}

func (s *stubRateSource) CentralExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	s.calls++
	return s.rate, s.err
}

func newTestCache(t *testing.T, source *stubRateSource) (*RateCache, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRateCache(client, source, time.Minute, zerolog.Nop()), s
}

func TestRateCacheReadThrough(t *testing.T) {
	source := &stubRateSource{rate: decimal.RequireFromString("121.50")}
	cache, _ := newTestCache(t, source)
	ctx := context.Background()

	rate, err := cache.CentralExchangeRate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("121.50")) {
		t.Fatalf("got %s", rate)
	}
	if source.calls != 1 {
		t.Fatalf("expected one source read, got %d", source.calls)
	}

	// second read served from the cache
	if _, err := cache.CentralExchangeRate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cached read, source called %d times", source.calls)
	}
}

func TestRateCacheExpiry(t *testing.T) {
	source := &stubRateSource{rate: decimal.NewFromInt(120)}
	cache, s := newTestCache(t, source)
	ctx := context.Background()

	if _, err := cache.CentralExchangeRate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.FastForward(2 * time.Minute)

	if _, err := cache.CentralExchangeRate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected source re-read after expiry, got %d calls", source.calls)
	}
}

func TestRateCacheInvalidate(t *testing.T) {
	source := &stubRateSource{rate: decimal.NewFromInt(120)}
	cache, _ := newTestCache(t, source)
	ctx := context.Background()

	if _, err := cache.CentralExchangeRate(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	source.rate = decimal.NewFromInt(125)
	rate, err := cache.CentralExchangeRate(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(125)) {
		t.Fatalf("expected fresh rate after invalidation, got %s", rate)
	}
}

func TestRateCacheSourceErrorPropagates(t *testing.T) {
	source := &stubRateSource{err: errors.New("settings store down")}
	cache, _ := newTestCache(t, source)

	if _, err := cache.CentralExchangeRate(context.Background()); err == nil {
		t.Fatalf("expected source error")
	}
}

func TestRateCacheFallsThroughWhenRedisDown(t *testing.T) {
	source := &stubRateSource{rate: decimal.NewFromInt(120)}
	cache, s := newTestCache(t, source)
	s.Close()

	rate, err := cache.CentralExchangeRate(context.Background())
	if err != nil {
		t.Fatalf("expected fallthrough to source, got %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("got %s", rate)
	}
}
