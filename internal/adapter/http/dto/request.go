package dto

import (
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// ApprovalFields carries the approval evidence attached to every
// mutating request: either a grant id, or a sanctioned skip with its
// justification and internal credential.
type ApprovalFields struct {
	GrantID            string `json:"grant_id,omitempty"`
	SkipApproval       bool   `json:"skip_approval,omitempty"`
	SkipJustification  string `json:"skip_justification,omitempty"`
	InternalCredential string `json:"internal_credential,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (a ApprovalFields) ToUseCaseInput() usecase.ApprovalRequest {
	return usecase.ApprovalRequest{
		GrantID:            a.GrantID,
		SkipApproval:       a.SkipApproval,
		SkipJustification:  a.SkipJustification,
		InternalCredential: a.InternalCredential,
	}
}

// CreateCapitalEntryRequest represents a request to create a capital entry.
type CreateCapitalEntryRequest struct {
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ReferenceKind string          `json:"reference_kind,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedBy     string          `json:"created_by"`
	Approval      ApprovalFields  `json:"approval"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCapitalEntryRequest) ToUseCaseInput() usecase.CreateCapitalEntryInput {
	return usecase.CreateCapitalEntryInput{
		Type:          domain.EntryType(r.Type),
		Amount:        r.Amount,
		Currency:      domain.Currency(r.Currency),
		ReferenceKind: domain.ReferenceKind(r.ReferenceKind),
		Reference:     r.Reference,
		Description:   r.Description,
		CreatedBy:     r.CreatedBy,
		Approval:      r.Approval.ToUseCaseInput(),
	}
}

// DeleteCapitalEntryRequest represents a request to delete a capital entry.
type DeleteCapitalEntryRequest struct {
	RequestedBy string         `json:"requested_by"`
	Approval    ApprovalFields `json:"approval"`
}

// RecordReceiptRequest represents a customer receipt.
type RecordReceiptRequest struct {
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	CustomerID   string          `json:"customer_id"`
	SalesOrderID string          `json:"sales_order_id,omitempty"`
	Period       string          `json:"period"`
	CreatedBy    string          `json:"created_by"`
	Approval     ApprovalFields  `json:"approval"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordReceiptRequest) ToUseCaseInput() usecase.ReceiptInput {
	return usecase.ReceiptInput{
		AmountUSD:    r.AmountUSD,
		CustomerID:   r.CustomerID,
		SalesOrderID: r.SalesOrderID,
		Period:       r.Period,
		CreatedBy:    r.CreatedBy,
		Approval:     r.Approval.ToUseCaseInput(),
	}
}

// RecordRefundRequest represents a customer refund.
type RecordRefundRequest struct {
	AmountUSD    decimal.Decimal `json:"amount_usd"`
	CustomerID   string          `json:"customer_id"`
	SalesOrderID string          `json:"sales_order_id,omitempty"`
	Period       string          `json:"period"`
	CreatedBy    string          `json:"created_by"`
	Approval     ApprovalFields  `json:"approval"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordRefundRequest) ToUseCaseInput() usecase.RefundInput {
	return usecase.RefundInput{
		AmountUSD:    r.AmountUSD,
		CustomerID:   r.CustomerID,
		SalesOrderID: r.SalesOrderID,
		Period:       r.Period,
		CreatedBy:    r.CreatedBy,
		Approval:     r.Approval.ToUseCaseInput(),
	}
}

// RecordWithdrawalRequest represents a withdrawal from the revenue pool.
type RecordWithdrawalRequest struct {
	AmountUSD   decimal.Decimal `json:"amount_usd"`
	Description string          `json:"description,omitempty"`
	Period      string          `json:"period"`
	CreatedBy   string          `json:"created_by"`
	Approval    ApprovalFields  `json:"approval"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordWithdrawalRequest) ToUseCaseInput() usecase.WithdrawalInput {
	return usecase.WithdrawalInput{
		AmountUSD:   r.AmountUSD,
		Description: r.Description,
		Period:      r.Period,
		CreatedBy:   r.CreatedBy,
		Approval:    r.Approval.ToUseCaseInput(),
	}
}

// RecordReinvestmentRequest represents a reinvestment of revenue into capital.
type RecordReinvestmentRequest struct {
	AmountUSD      decimal.Decimal `json:"amount_usd"`
	TransferFeeUSD decimal.Decimal `json:"transfer_fee_usd,omitempty"`
	Description    string          `json:"description,omitempty"`
	Period         string          `json:"period"`
	CreatedBy      string          `json:"created_by"`
	Approval       ApprovalFields  `json:"approval"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordReinvestmentRequest) ToUseCaseInput() usecase.ReinvestmentInput {
	return usecase.ReinvestmentInput{
		AmountUSD:      r.AmountUSD,
		TransferFeeUSD: r.TransferFeeUSD,
		Description:    r.Description,
		Period:         r.Period,
		CreatedBy:      r.CreatedBy,
		Approval:       r.Approval.ToUseCaseInput(),
	}
}
