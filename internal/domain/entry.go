package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a capital ledger entry. The type determines the
// sign of the entry's effect on the capital balance.
type EntryType string

const (
	EntryTypeCapitalIn  EntryType = "capital_in"
	EntryTypeCapitalOut EntryType = "capital_out"
	EntryTypeReclass    EntryType = "reclass"
	EntryTypeReverse    EntryType = "reverse"
)

// Valid reports whether t is a known entry type.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypeCapitalIn, EntryTypeCapitalOut, EntryTypeReclass, EntryTypeReverse:
		return true
	}
	return false
}

// Currency is the declared payment currency of an entry.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyETB Currency = "ETB"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyETB
}

// ReferenceKind identifies what an entry's Reference field points at.
type ReferenceKind string

const (
	ReferenceKindNone       ReferenceKind = ""
	ReferenceKindPurchase   ReferenceKind = "purchase"
	ReferenceKindExpense    ReferenceKind = "expense"
	ReferenceKindShipping   ReferenceKind = "shipping"
	ReferenceKindSalesOrder ReferenceKind = "sales_order"
	// ReferenceKindEntry marks a Reverse entry pointing at the capital
	// entry it negates.
	ReferenceKindEntry ReferenceKind = "entry"
	// ReferenceKindReinvestment marks a capital inflow spawned by a
	// revenue-pool reinvestment.
	ReferenceKindReinvestment ReferenceKind = "reinvestment"
)

// CapitalEntry is a single immutable record in the capital ledger.
// Entries are never updated after creation; corrections are expressed
// as a new Reverse entry pointing at the original via Reference.
type CapitalEntry struct {
	CreatedAt     time.Time
	ID            string
	Code          string
	Type          EntryType
	Amount        decimal.Decimal
	AmountUSD     decimal.Decimal
	Currency      Currency
	ReferenceKind ReferenceKind
	Reference     string
	Description   string
	CreatedBy     string
}

// Validate checks the structural invariants of an entry before it is
// considered for insertion.
func (e *CapitalEntry) Validate() error {
	if !e.Type.Valid() {
		return &UnknownEntryTypeError{Type: string(e.Type)}
	}

	if !e.Currency.Valid() {
		return ErrUnsupportedCurrency
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositiveAmount
	}

	if e.Type == EntryTypeReverse && e.Reference == "" {
		return &ReferenceIntegrityError{
			Reference: e.Reference,
			Reason:    "reverse entry requires a reference to the entry it negates",
		}
	}

	if e.Reference != "" && e.ReferenceKind == ReferenceKindNone {
		return &ReferenceIntegrityError{
			Reference: e.Reference,
			Reason:    "reference set without a reference kind",
		}
	}

	return nil
}

// RequiresAmountMatch reports whether the entry settles an external
// operation and must therefore pass amount-matching validation against
// the referenced operation's recorded amount.
func (e *CapitalEntry) RequiresAmountMatch() bool {
	switch e.ReferenceKind {
	case ReferenceKindPurchase, ReferenceKindExpense, ReferenceKindShipping, ReferenceKindSalesOrder:
		return e.Reference != ""
	}
	return false
}
