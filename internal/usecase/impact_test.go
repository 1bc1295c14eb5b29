package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
	"github.com/merkato/fincore/internal/usecase/mocks"
)

func newCalculator() *usecase.ImpactCalculator {
	rates := mocks.NewMockRateOracle(decimal.NewFromInt(120)) // 120 ETB per USD
	return usecase.NewImpactCalculator(rates, decimal.NewFromFloat(0.01))
}

func noResolve(id string) (*domain.CapitalEntry, error) {
	return nil, domain.ErrEntryNotFound
}

func TestImpactCalculator_Impact(t *testing.T) {
	calc := newCalculator()

	original := &domain.CapitalEntry{
		ID:        "e-1",
		Type:      domain.EntryTypeCapitalOut,
		AmountUSD: decimal.NewFromInt(250),
	}
	resolve := func(id string) (*domain.CapitalEntry, error) {
		if id == "e-1" {
			return original, nil
		}
		return nil, domain.ErrEntryNotFound
	}

	tests := []struct {
		name  string
		entry *domain.CapitalEntry
		want  decimal.Decimal
	}{
		{
			name:  "capital in adds",
			entry: &domain.CapitalEntry{Type: domain.EntryTypeCapitalIn, AmountUSD: decimal.NewFromInt(100)},
			want:  decimal.NewFromInt(100),
		},
		{
			name:  "capital out subtracts",
			entry: &domain.CapitalEntry{Type: domain.EntryTypeCapitalOut, AmountUSD: decimal.NewFromInt(100)},
			want:  decimal.NewFromInt(-100),
		},
		{
			name:  "reclass moves nothing",
			entry: &domain.CapitalEntry{Type: domain.EntryTypeReclass, AmountUSD: decimal.NewFromInt(100)},
			want:  decimal.Zero,
		},
		{
			name:  "reverse negates the referenced impact",
			entry: &domain.CapitalEntry{Type: domain.EntryTypeReverse, Reference: "e-1", AmountUSD: decimal.NewFromInt(250)},
			want:  decimal.NewFromInt(250),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.Impact(tt.entry, resolve)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestImpactCalculator_ReversePlusOriginalIsZero(t *testing.T) {
	calc := newCalculator()

	for _, typ := range []domain.EntryType{domain.EntryTypeCapitalIn, domain.EntryTypeCapitalOut, domain.EntryTypeReclass} {
		original := &domain.CapitalEntry{ID: "orig", Type: typ, AmountUSD: decimal.NewFromInt(317)}
		reverse := &domain.CapitalEntry{ID: "rev", Type: domain.EntryTypeReverse, Reference: "orig"}

		resolve := func(id string) (*domain.CapitalEntry, error) {
			if id == "orig" {
				return original, nil
			}
			return nil, domain.ErrEntryNotFound
		}

		a, err := calc.Impact(original, resolve)
		require.NoError(t, err)
		b, err := calc.Impact(reverse, resolve)
		require.NoError(t, err)

		assert.True(t, a.Add(b).IsZero(), "impact(%s)+impact(reverse) = %s, want 0", typ, a.Add(b))
	}
}

func TestImpactCalculator_ReverseErrors(t *testing.T) {
	calc := newCalculator()

	t.Run("missing reference", func(t *testing.T) {
		_, err := calc.Impact(&domain.CapitalEntry{Type: domain.EntryTypeReverse}, noResolve)
		var refErr *domain.ReferenceIntegrityError
		require.ErrorAs(t, err, &refErr)
	})

	t.Run("unresolvable reference", func(t *testing.T) {
		_, err := calc.Impact(&domain.CapitalEntry{Type: domain.EntryTypeReverse, Reference: "ghost"}, noResolve)
		var refErr *domain.ReferenceIntegrityError
		require.ErrorAs(t, err, &refErr)
	})

	t.Run("reverse of a reverse is rejected", func(t *testing.T) {
		inner := &domain.CapitalEntry{ID: "r-1", Type: domain.EntryTypeReverse, Reference: "e-0"}
		resolve := func(id string) (*domain.CapitalEntry, error) {
			if id == "r-1" {
				return inner, nil
			}
			return nil, domain.ErrEntryNotFound
		}

		_, err := calc.Impact(&domain.CapitalEntry{Type: domain.EntryTypeReverse, Reference: "r-1"}, resolve)
		var refErr *domain.ReferenceIntegrityError
		require.ErrorAs(t, err, &refErr)
	})
}

func TestImpactCalculator_UnknownTypeIsFatal(t *testing.T) {
	calc := newCalculator()

	_, err := calc.Impact(&domain.CapitalEntry{Type: "dividend", AmountUSD: decimal.NewFromInt(10)}, noResolve)

	var unknownErr *domain.UnknownEntryTypeError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "dividend", unknownErr.Type)
}

func TestImpactCalculator_Balance(t *testing.T) {
	calc := newCalculator()

	entries := []*domain.CapitalEntry{
		{ID: "1", Type: domain.EntryTypeCapitalIn, AmountUSD: decimal.NewFromInt(1000)},
		{ID: "2", Type: domain.EntryTypeCapitalOut, AmountUSD: decimal.NewFromInt(300)},
		{ID: "3", Type: domain.EntryTypeReclass, AmountUSD: decimal.NewFromInt(9999)},
		{ID: "4", Type: domain.EntryTypeReverse, Reference: "2"},
	}

	balance, err := calc.Balance(entries)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(balance), "got %s", balance)
}

func TestImpactCalculator_NormalizeUSD(t *testing.T) {
	calc := newCalculator()
	ctx := context.Background()

	t.Run("usd passes through", func(t *testing.T) {
		got, err := calc.NormalizeUSD(ctx, decimal.NewFromInt(42), domain.CurrencyUSD)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(42).Equal(got))
	})

	t.Run("etb divides by the central rate", func(t *testing.T) {
		got, err := calc.NormalizeUSD(ctx, decimal.NewFromInt(1200), domain.CurrencyETB)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(got), "got %s", got)
	})

	t.Run("unknown currency rejected", func(t *testing.T) {
		_, err := calc.NormalizeUSD(ctx, decimal.NewFromInt(10), "EUR")
		require.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
	})

	t.Run("rate oracle failure propagates", func(t *testing.T) {
		rates := mocks.NewMockRateOracle(decimal.Zero)
		rates.CentralExchangeRateFunc = func(ctx context.Context) (decimal.Decimal, error) {
			return decimal.Zero, errors.New("oracle down")
		}
		c := usecase.NewImpactCalculator(rates, decimal.NewFromFloat(0.01))

		_, err := c.NormalizeUSD(ctx, decimal.NewFromInt(10), domain.CurrencyETB)
		require.Error(t, err)
	})
}

func TestImpactCalculator_ValidateAmountMatch(t *testing.T) {
	calc := newCalculator()
	ctx := context.Background()

	tests := []struct {
		name        string
		entryUSD    decimal.Decimal
		refAmount   decimal.Decimal
		refCurrency domain.Currency
		wantErr     bool
	}{
		{
			name:        "exact match",
			entryUSD:    decimal.NewFromInt(100),
			refAmount:   decimal.NewFromInt(100),
			refCurrency: domain.CurrencyUSD,
		},
		{
			name:        "within one percent",
			entryUSD:    decimal.NewFromFloat(100.9),
			refAmount:   decimal.NewFromInt(100),
			refCurrency: domain.CurrencyUSD,
		},
		{
			name:        "beyond one percent",
			entryUSD:    decimal.NewFromFloat(101.5),
			refAmount:   decimal.NewFromInt(100),
			refCurrency: domain.CurrencyUSD,
			wantErr:     true,
		},
		{
			name:        "cross currency through the central rate",
			entryUSD:    decimal.NewFromInt(10),
			refAmount:   decimal.NewFromInt(1200),
			refCurrency: domain.CurrencyETB,
		},
		{
			name:        "cross currency mismatch",
			entryUSD:    decimal.NewFromInt(11),
			refAmount:   decimal.NewFromInt(1200),
			refCurrency: domain.CurrencyETB,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := calc.ValidateAmountMatch(ctx, tt.entryUSD, tt.refAmount, tt.refCurrency)
			if tt.wantErr {
				var mismatch *domain.AmountMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.True(t, mismatch.Tolerance.Equal(decimal.NewFromFloat(0.01)))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestImpactCalculator_NormalizeUSDConsultsOracleOncePerConversion(t *testing.T) {
	ctrl := gomock.NewController(t)
	rates := mocks.NewGomockRateOracle(ctrl)
	calc := usecase.NewImpactCalculator(rates, decimal.NewFromFloat(0.01))
	ctx := context.Background()

	rates.EXPECT().
		CentralExchangeRate(gomock.Any()).
		Return(decimal.NewFromInt(120), nil).
		Times(1)

	got, err := calc.NormalizeUSD(ctx, decimal.NewFromInt(240), domain.CurrencyETB)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2)))

	// USD amounts never touch the oracle.
	got, err = calc.NormalizeUSD(ctx, decimal.NewFromInt(7), domain.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
}
