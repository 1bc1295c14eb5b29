package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Setting keys.
const (
	settingPreventNegativeBalance = "prevent_negative_balance"
	settingCentralExchangeRate    = "central_exchange_rate"
)

// SettingsRepository implements usecase.SettingsRepository and serves
// as the authoritative usecase.RateOracle source. Rate reads are
// typically wrapped by the Redis cache decorator.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// PreventNegativeBalance reads the negative-balance protection flag.
// A missing row means protection is on; turning it off takes an
// explicit setting.
func (r *SettingsRepository) PreventNegativeBalance(ctx context.Context) (bool, error) {
	value, err := r.get(ctx, settingPreventNegativeBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return true, nil
		}

		return false, err
	}

	return value != "false", nil
}

// CentralExchangeRate reads the single ETB-per-USD rate every
// cross-currency normalization uses.
func (r *SettingsRepository) CentralExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	value, err := r.get(ctx, settingCentralExchangeRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("central exchange rate is not configured")
		}

		return decimal.Zero, err
	}

	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("central exchange rate %q is not a number: %w", value, err)
	}

	return rate, nil
}

// Set upserts a setting value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO system_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)

	return err
}

func (r *SettingsRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, `
		SELECT value FROM system_settings WHERE key = $1`, key,
	).Scan(&value)

	return value, err
}
