package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// CapitalEntryResponse represents a capital entry in API responses.
type CapitalEntryResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	AmountUSD     decimal.Decimal `json:"amount_usd"`
	Currency      string          `json:"currency"`
	ReferenceKind string          `json:"reference_kind,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CapitalEntryFromDomain converts a domain capital entry to a response.
func CapitalEntryFromDomain(e *domain.CapitalEntry) *CapitalEntryResponse {
	return &CapitalEntryResponse{
		ID:            e.ID,
		Code:          e.Code,
		Type:          string(e.Type),
		Amount:        e.Amount,
		AmountUSD:     e.AmountUSD,
		Currency:      string(e.Currency),
		ReferenceKind: string(e.ReferenceKind),
		Reference:     e.Reference,
		Description:   e.Description,
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// CapitalEntriesFromDomain converts domain capital entries to responses.
func CapitalEntriesFromDomain(entries []*domain.CapitalEntry) []*CapitalEntryResponse {
	result := make([]*CapitalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = CapitalEntryFromDomain(e)
	}
	return result
}

// BalanceResponse represents the capital balance in API responses.
type BalanceResponse struct {
	BalanceUSD decimal.Decimal `json:"balance_usd"`
}

// RevenueEntryResponse represents a revenue entry in API responses.
type RevenueEntryResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	CustomerID     string          `json:"customer_id,omitempty"`
	SalesOrderID   string          `json:"sales_order_id,omitempty"`
	WithdrawalID   string          `json:"withdrawal_id,omitempty"`
	ReinvestmentID string          `json:"reinvestment_id,omitempty"`
	Period         string          `json:"period"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RevenueEntryFromDomain converts a domain revenue entry to a response.
func RevenueEntryFromDomain(e *domain.RevenueEntry) *RevenueEntryResponse {
	return &RevenueEntryResponse{
		ID:             e.ID,
		Code:           e.Code,
		Type:           string(e.Type),
		AmountUSD:      e.AmountUSD,
		CustomerID:     e.CustomerID,
		SalesOrderID:   e.SalesOrderID,
		WithdrawalID:   e.WithdrawalID,
		ReinvestmentID: e.ReinvestmentID,
		Period:         e.Period,
		CreatedBy:      e.CreatedBy,
		CreatedAt:      e.CreatedAt,
	}
}

// RevenueSummaryResponse represents a per-period revenue summary.
type RevenueSummaryResponse struct {
	Period               string          `json:"period"`
	Receipts             decimal.Decimal `json:"receipts"`
	Refunds              decimal.Decimal `json:"refunds"`
	Withdrawals          decimal.Decimal `json:"withdrawals"`
	Reinvestments        decimal.Decimal `json:"reinvestments"`
	TransferFees         decimal.Decimal `json:"transfer_fees"`
	NetAccountingRevenue decimal.Decimal `json:"net_accounting_revenue"`
	WithdrawableBalance  decimal.Decimal `json:"withdrawable_balance"`
	Closed               bool            `json:"closed"`
	ComputedAt           time.Time       `json:"computed_at"`
}

// RevenueSummaryFromDomain converts a domain summary to a response.
func RevenueSummaryFromDomain(s *domain.RevenueSummary) *RevenueSummaryResponse {
	return &RevenueSummaryResponse{
		Period:               s.Period,
		Receipts:             s.Receipts,
		Refunds:              s.Refunds,
		Withdrawals:          s.Withdrawals,
		Reinvestments:        s.Reinvestments,
		TransferFees:         s.TransferFees,
		NetAccountingRevenue: s.NetAccountingRevenue,
		WithdrawableBalance:  s.WithdrawableBalance,
		Closed:               s.Closed,
		ComputedAt:           s.ComputedAt,
	}
}

// WithdrawalResponse represents a withdrawal record in API responses.
type WithdrawalResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
	Description string          `json:"description,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// WithdrawalFromDomain converts a domain withdrawal record to a response.
func WithdrawalFromDomain(w *domain.WithdrawalRecord) *WithdrawalResponse {
	return &WithdrawalResponse{
		ID:          w.ID,
		Code:        w.Code,
		AmountUSD:   w.AmountUSD,
		Description: w.Description,
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
	}
}

// ReinvestmentResponse represents a reinvestment in API responses.
type ReinvestmentResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	TransferFeeUSD decimal.Decimal `json:"transfer_fee_usd"`
	CapitalEntryID string          `json:"capital_entry_id"`
	ExpenseID      string          `json:"expense_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ReinvestmentFromDomain converts a domain reinvestment to a response.
func ReinvestmentFromDomain(r *domain.Reinvestment) *ReinvestmentResponse {
	return &ReinvestmentResponse{
		ID:             r.ID,
		Code:           r.Code,
		AmountUSD:      r.AmountUSD,
		TransferFeeUSD: r.TransferFeeUSD,
		CapitalEntryID: r.CapitalEntryID,
		ExpenseID:      r.ExpenseID,
		Description:    r.Description,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
