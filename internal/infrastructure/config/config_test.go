package config_test

import (
	"testing"
	"time"

	"github.com/merkato/fincore/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("INTERNAL_CREDENTIAL_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.AmountMatchTolerance != "0.01" {
		t.Fatalf("expected default tolerance 0.01, got %s", cfg.AmountMatchTolerance)
	}

	if cfg.SystemUserID != "system" {
		t.Fatalf("expected default system user id, got %s", cfg.SystemUserID)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("AMOUNT_MATCH_TOLERANCE", "0.02")
	t.Setenv("RATE_CACHE_TTL", "30s")
	t.Setenv("INTERNAL_CREDENTIAL_SECRET", "top-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.AmountMatchTolerance != "0.02" {
		t.Fatalf("expected tolerance override, got %s", cfg.AmountMatchTolerance)
	}

	if cfg.RateCacheTTL != 30*time.Second {
		t.Fatalf("expected rate cache TTL override, got %s", cfg.RateCacheTTL)
	}

	if cfg.InternalCredentialSecret != "top-secret" {
		t.Fatalf("expected credential secret override, got %q", cfg.InternalCredentialSecret)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
