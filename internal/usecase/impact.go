package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// EntryResolver resolves a capital entry by id when computing the
// impact of a Reverse entry.
type EntryResolver func(id string) (*domain.CapitalEntry, error)

// ImpactCalculator maps a capital entry to its signed effect on the
// capital balance and validates entry amounts against the operations
// they settle. All impacts are expressed in USD, fixed at entry
// creation time, so the mapping stays a pure function of the entry's
// stored fields.
type ImpactCalculator struct {
	rates     RateOracle
	tolerance decimal.Decimal
}

// NewImpactCalculator creates a calculator with the given relative
// amount-matching tolerance (0.01 = 1%).
func NewImpactCalculator(rates RateOracle, tolerance decimal.Decimal) *ImpactCalculator {
	return &ImpactCalculator{
		rates:     rates,
		tolerance: tolerance,
	}
}

// Impact computes the signed USD effect of entry on the capital
// balance. A Reverse entry negates the impact of the entry it
// references; a Reverse referencing another Reverse is rejected rather
// than recursed into.
func (c *ImpactCalculator) Impact(entry *domain.CapitalEntry, resolve EntryResolver) (decimal.Decimal, error) {
	switch entry.Type {
	case domain.EntryTypeCapitalIn:
		return entry.AmountUSD, nil

	case domain.EntryTypeCapitalOut:
		return entry.AmountUSD.Neg(), nil

	case domain.EntryTypeReclass:
		// Re-labels money without moving it.
		return decimal.Zero, nil

	case domain.EntryTypeReverse:
		if entry.Reference == "" {
			return decimal.Zero, &domain.ReferenceIntegrityError{
				Reference: entry.Reference,
				Reason:    "reverse entry has no reference",
			}
		}

		original, err := resolve(entry.Reference)
		if err != nil {
			return decimal.Zero, &domain.ReferenceIntegrityError{
				Reference: entry.Reference,
				Reason:    fmt.Sprintf("referenced entry could not be resolved: %v", err),
			}
		}

		if original.Type == domain.EntryTypeReverse {
			return decimal.Zero, &domain.ReferenceIntegrityError{
				Reference: entry.Reference,
				Reason:    "reverse entry cannot reference another reverse entry",
			}
		}

		impact, err := c.Impact(original, resolve)
		if err != nil {
			return decimal.Zero, err
		}

		return impact.Neg(), nil
	}

	return decimal.Zero, &domain.UnknownEntryTypeError{Type: string(entry.Type)}
}

// Balance re-aggregates the signed impact of every entry, oldest first.
// Reverse references resolve against the supplied slice only.
func (c *ImpactCalculator) Balance(entries []*domain.CapitalEntry) (decimal.Decimal, error) {
	byID := make(map[string]*domain.CapitalEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	resolve := func(id string) (*domain.CapitalEntry, error) {
		e, ok := byID[id]
		if !ok {
			return nil, domain.ErrEntryNotFound
		}
		return e, nil
	}

	balance := decimal.Zero
	for _, e := range entries {
		impact, err := c.Impact(e, resolve)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(impact)
	}

	return balance, nil
}

// NormalizeUSD converts an amount in the given currency to USD through
// the central exchange rate (ETB per USD). Client-supplied rates never
// reach this path.
func (c *ImpactCalculator) NormalizeUSD(ctx context.Context, amount decimal.Decimal, currency domain.Currency) (decimal.Decimal, error) {
	switch currency {
	case domain.CurrencyUSD:
		return amount, nil
	case domain.CurrencyETB:
		rate, err := c.rates.CentralExchangeRate(ctx)
		if err != nil {
			return decimal.Zero, fmt.Errorf("central exchange rate unavailable: %w", err)
		}
		if rate.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("central exchange rate %s is not positive", rate.String())
		}
		return amount.Div(rate), nil
	}
	return decimal.Zero, domain.ErrUnsupportedCurrency
}

// ValidateAmountMatch checks the entry's USD-normalized amount against
// the referenced operation's recorded amount within the relative
// tolerance band. Both sides normalize through the central rate.
func (c *ImpactCalculator) ValidateAmountMatch(
	ctx context.Context,
	entryAmountUSD decimal.Decimal,
	refAmount decimal.Decimal,
	refCurrency domain.Currency,
) error {
	refUSD, err := c.NormalizeUSD(ctx, refAmount, refCurrency)
	if err != nil {
		return err
	}

	if refUSD.IsZero() {
		if entryAmountUSD.IsZero() {
			return nil
		}
		return &domain.AmountMismatchError{
			EntryAmountUSD:     entryAmountUSD,
			ReferenceAmountUSD: refUSD,
			Tolerance:          c.tolerance,
		}
	}

	diff := entryAmountUSD.Sub(refUSD).Abs()
	if diff.Div(refUSD.Abs()).GreaterThan(c.tolerance) {
		return &domain.AmountMismatchError{
			EntryAmountUSD:     entryAmountUSD,
			ReferenceAmountUSD: refUSD,
			Tolerance:          c.tolerance,
		}
	}

	return nil
}
