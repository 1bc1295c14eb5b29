package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOperationAllowlists(t *testing.T) {
	t.Parallel()

	critical := []OperationType{
		OperationCapitalEntry,
		OperationPurchase,
		OperationSaleOrder,
		OperationFinancialAdjustment,
		OperationRoleChange,
		OperationSystemSetting,
		OperationRevenueWithdrawal,
		OperationReinvestment,
	}
	for _, op := range critical {
		if !IsCriticalOperation(op) {
			t.Errorf("expected %q to be critical", op)
		}
		if IsInternalSkipAllowed(op) {
			t.Errorf("critical operation %q must never be skip-eligible", op)
		}
	}

	skippable := []OperationType{
		OperationRevenueReceipt,
		OperationRevenueRefund,
		OperationExpense,
		OperationInventoryAdjust,
	}
	for _, op := range skippable {
		if !IsInternalSkipAllowed(op) {
			t.Errorf("expected %q to be skip-eligible", op)
		}
		if IsCriticalOperation(op) {
			t.Errorf("skip-eligible operation %q must not be critical", op)
		}
	}

	if IsCriticalOperation("data_export") || IsInternalSkipAllowed("data_export") {
		t.Error("unknown operation types belong to neither allowlist")
	}
}

func TestFingerprintMatches(t *testing.T) {
	t.Parallel()

	base := Fingerprint{
		OperationType: OperationCapitalEntry,
		EntityID:      "entry-1",
		Amount:        decimal.NewFromInt(100),
		Currency:      CurrencyUSD,
		RequesterID:   "user-7",
	}

	if !base.Matches(base) {
		t.Fatal("fingerprint must match itself")
	}

	// decimal equality, not representation equality
	same := base
	same.Amount = decimal.RequireFromString("100.00")
	if !base.Matches(same) {
		t.Error("100 and 100.00 must match")
	}

	mutations := []func(*Fingerprint){
		func(f *Fingerprint) { f.OperationType = OperationPurchase },
		func(f *Fingerprint) { f.EntityID = "entry-2" },
		func(f *Fingerprint) { f.Amount = decimal.NewFromInt(101) },
		func(f *Fingerprint) { f.Currency = CurrencyETB },
		func(f *Fingerprint) { f.RequesterID = "user-8" },
	}
	for i, mutate := range mutations {
		other := base
		mutate(&other)
		if base.Matches(other) {
			t.Errorf("mutation %d: expected fingerprints to differ", i)
		}
	}
}

func TestPayloadOperationTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		payload OperationPayload
		wantOp  OperationType
		wantID  string
	}{
		{CapitalEntryPayload{EntryID: "e-1"}, OperationCapitalEntry, "e-1"},
		{PurchasePayload{PurchaseID: "p-1"}, OperationPurchase, "p-1"},
		{SaleOrderPayload{OrderID: "o-1"}, OperationSaleOrder, "o-1"},
		{RoleChangePayload{UserID: "u-1"}, OperationRoleChange, "u-1"},
		{SettingChangePayload{Key: "prevent_negative_balance"}, OperationSystemSetting, "prevent_negative_balance"},
		{RevenueEntryPayload{Op: OperationRevenueWithdrawal, RecordID: "w-1"}, OperationRevenueWithdrawal, "w-1"},
		{ExpensePayload{ExpenseID: "x-1"}, OperationExpense, "x-1"},
	}

	for _, tt := range tests {
		if got := tt.payload.OperationType(); got != tt.wantOp {
			t.Errorf("%T: operation type %q, want %q", tt.payload, got, tt.wantOp)
		}
		if got := tt.payload.EntityID(); got != tt.wantID {
			t.Errorf("%T: entity id %q, want %q", tt.payload, got, tt.wantID)
		}
	}
}

func TestRoleChangePayloadTargetsUser(t *testing.T) {
	t.Parallel()

	var payload OperationPayload = RoleChangePayload{UserID: "u-1", NewRole: "admin"}

	targeting, ok := payload.(UserTargeting)
	if !ok {
		t.Fatal("role change must expose its target user")
	}
	if targeting.TargetUserID() != "u-1" {
		t.Fatalf("target user %q, want u-1", targeting.TargetUserID())
	}
}
