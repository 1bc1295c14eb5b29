package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidatePeriod(t *testing.T) {
	t.Parallel()

	valid := []string{"2024-01", "2024-12", "1999-06"}
	for _, p := range valid {
		if err := ValidatePeriod(p); err != nil {
			t.Errorf("expected %q to be valid, got %v", p, err)
		}
	}

	invalid := []string{"", "2024", "2024-13", "2024-00", "2024-1", "24-01", "2024/01", "2024-01-15"}
	for _, p := range invalid {
		if err := ValidatePeriod(p); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("expected %q to be invalid, got %v", p, err)
		}
	}
}

func TestPeriodOf(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	if got := PeriodOf(at); got != "2024-03" {
		t.Fatalf("got %q, want 2024-03", got)
	}

	// local time east of UTC must not roll into the next month
	tz := time.FixedZone("EAT", 3*60*60)
	at = time.Date(2024, time.April, 1, 1, 0, 0, 0, tz)
	if got := PeriodOf(at); got != "2024-03" {
		t.Fatalf("got %q, want 2024-03 for 01:00 EAT", got)
	}
}

func TestSignFor(t *testing.T) {
	t.Parallel()

	if !SignFor(RevenueCustomerReceipt).Equal(decimal.NewFromInt(1)) {
		t.Error("receipts must be positive")
	}

	negative := []RevenueEntryType{RevenueCustomerRefund, RevenueWithdrawal, RevenueReinvestOut, RevenueTransferFee}
	for _, typ := range negative {
		if !SignFor(typ).Equal(decimal.NewFromInt(-1)) {
			t.Errorf("expected %q to be negative", typ)
		}
	}
}

func TestRevenueEntryTypeValid(t *testing.T) {
	t.Parallel()

	for _, typ := range []RevenueEntryType{
		RevenueCustomerReceipt, RevenueCustomerRefund, RevenueWithdrawal,
		RevenueReinvestOut, RevenueTransferFee,
	} {
		if !typ.Valid() {
			t.Errorf("expected %q to be valid", typ)
		}
	}
	if RevenueEntryType("interest").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}
