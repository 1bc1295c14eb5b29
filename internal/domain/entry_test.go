package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validEntry() *CapitalEntry {
	return &CapitalEntry{
		ID:       "e-1",
		Type:     EntryTypeCapitalIn,
		Amount:   decimal.NewFromInt(100),
		Currency: CurrencyUSD,
	}
}

func TestCapitalEntryValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid entry", func(t *testing.T) {
		if err := validEntry().Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		e := validEntry()
		e.Type = "dividend"
		var unknownErr *UnknownEntryTypeError
		if err := e.Validate(); !errors.As(err, &unknownErr) {
			t.Fatalf("expected UnknownEntryTypeError, got %v", err)
		}
	})

	t.Run("unsupported currency rejected", func(t *testing.T) {
		e := validEntry()
		e.Currency = "EUR"
		if err := e.Validate(); !errors.Is(err, ErrUnsupportedCurrency) {
			t.Fatalf("expected ErrUnsupportedCurrency, got %v", err)
		}
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		e := validEntry()
		e.Amount = decimal.Zero
		if err := e.Validate(); !errors.Is(err, ErrNonPositiveAmount) {
			t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
		}
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		e := validEntry()
		e.Amount = decimal.NewFromInt(-5)
		if err := e.Validate(); !errors.Is(err, ErrNonPositiveAmount) {
			t.Fatalf("expected ErrNonPositiveAmount, got %v", err)
		}
	})

	t.Run("reverse without reference rejected", func(t *testing.T) {
		e := validEntry()
		e.Type = EntryTypeReverse
		var refErr *ReferenceIntegrityError
		if err := e.Validate(); !errors.As(err, &refErr) {
			t.Fatalf("expected ReferenceIntegrityError, got %v", err)
		}
	})

	t.Run("reference without kind rejected", func(t *testing.T) {
		e := validEntry()
		e.Reference = "purchase-1"
		var refErr *ReferenceIntegrityError
		if err := e.Validate(); !errors.As(err, &refErr) {
			t.Fatalf("expected ReferenceIntegrityError, got %v", err)
		}
	})
}

func TestRequiresAmountMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      ReferenceKind
		reference string
		want      bool
	}{
		{ReferenceKindPurchase, "p-1", true},
		{ReferenceKindExpense, "x-1", true},
		{ReferenceKindShipping, "s-1", true},
		{ReferenceKindSalesOrder, "o-1", true},
		{ReferenceKindPurchase, "", false},
		{ReferenceKindEntry, "e-1", false},
		{ReferenceKindReinvestment, "r-1", false},
		{ReferenceKindNone, "", false},
	}

	for _, tt := range tests {
		e := validEntry()
		e.ReferenceKind = tt.kind
		e.Reference = tt.reference
		if got := e.RequiresAmountMatch(); got != tt.want {
			t.Errorf("kind=%q reference=%q: got %v, want %v", tt.kind, tt.reference, got, tt.want)
		}
	}
}

func TestEntryTypeValid(t *testing.T) {
	t.Parallel()

	for _, typ := range []EntryType{EntryTypeCapitalIn, EntryTypeCapitalOut, EntryTypeReclass, EntryTypeReverse} {
		if !typ.Valid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}
	if EntryType("dividend").Valid() {
		t.Error("expected unknown type to be invalid")
	}
	if EntryType("").Valid() {
		t.Error("expected empty type to be invalid")
	}
}
