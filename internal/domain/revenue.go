package domain

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// RevenueEntryType classifies a revenue ledger entry. Receipts carry a
// positive signed amount; every other type carries a negative one.
type RevenueEntryType string

const (
	RevenueCustomerReceipt RevenueEntryType = "customer_receipt"
	RevenueCustomerRefund  RevenueEntryType = "customer_refund"
	RevenueWithdrawal      RevenueEntryType = "withdrawal"
	RevenueReinvestOut     RevenueEntryType = "reinvest_out"
	RevenueTransferFee     RevenueEntryType = "transfer_fee"
)

// Valid reports whether t is a known revenue entry type.
func (t RevenueEntryType) Valid() bool {
	switch t {
	case RevenueCustomerReceipt, RevenueCustomerRefund, RevenueWithdrawal,
		RevenueReinvestOut, RevenueTransferFee:
		return true
	}
	return false
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePeriod checks an accounting period key ("YYYY-MM").
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return ErrInvalidPeriod
	}
	return nil
}

// PeriodOf derives the accounting period key for a point in time.
func PeriodOf(at time.Time) string {
	return at.UTC().Format("2006-01")
}

// RevenueEntry is a single immutable record in the revenue ledger.
// AmountUSD is signed: the entry type fixes the sign at creation.
type RevenueEntry struct {
	CreatedAt      time.Time
	ID             string
	Code           string
	Type           RevenueEntryType
	AmountUSD      decimal.Decimal
	CustomerID     string
	SalesOrderID   string
	WithdrawalID   string
	ReinvestmentID string
	Period         string
	PeriodClosed   bool
	CreatedBy      string
}

// SignFor returns the sign factor the revenue ledger applies to a
// stored magnitude for the given type.
func SignFor(t RevenueEntryType) decimal.Decimal {
	if t == RevenueCustomerReceipt {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(-1)
}

// RevenueSummary is the period-keyed materialized view over the
// revenue ledger. It is recomputed from scratch on every mutation to
// the period, never incrementally patched.
type RevenueSummary struct {
	ComputedAt           time.Time
	Period               string
	Receipts             decimal.Decimal
	Refunds              decimal.Decimal
	Withdrawals          decimal.Decimal
	Reinvestments        decimal.Decimal
	TransferFees         decimal.Decimal
	NetAccountingRevenue decimal.Decimal
	WithdrawableBalance  decimal.Decimal
	Closed               bool
}

// SameAmounts reports whether two summary rows agree on every sum and
// on the closed flag, ignoring when they were computed.
func (s *RevenueSummary) SameAmounts(other *RevenueSummary) bool {
	return s.Period == other.Period &&
		s.Closed == other.Closed &&
		s.Receipts.Equal(other.Receipts) &&
		s.Refunds.Equal(other.Refunds) &&
		s.Withdrawals.Equal(other.Withdrawals) &&
		s.Reinvestments.Equal(other.Reinvestments) &&
		s.TransferFees.Equal(other.TransferFees) &&
		s.NetAccountingRevenue.Equal(other.NetAccountingRevenue) &&
		s.WithdrawableBalance.Equal(other.WithdrawableBalance)
}

// WithdrawalRecord represents cash leaving the revenue pool.
type WithdrawalRecord struct {
	CreatedAt   time.Time
	ID          string
	Code        string
	AmountUSD   decimal.Decimal
	Description string
	CreatedBy   string
}

// Reinvestment moves revenue-pool cash back into capital. One user
// action produces up to three linked records: the negative revenue
// entry, a capital CapitalIn entry, and (if a fee was charged) an
// operating-expense record. They commit together or not at all.
type Reinvestment struct {
	CreatedAt      time.Time
	ID             string
	Code           string
	AmountUSD      decimal.Decimal
	TransferFeeUSD decimal.Decimal
	CapitalEntryID string
	ExpenseID      string
	Description    string
	CreatedBy      string
}

// OperatingExpense is the expense record spawned by a reinvestment
// transfer fee. The wider expense subsystem owns the full shape; the
// ledger engine only creates fee-linked rows.
type OperatingExpense struct {
	CreatedAt      time.Time
	ID             string
	Code           string
	AmountUSD      decimal.Decimal
	ReinvestmentID string
	Description    string
	CreatedBy      string
}
