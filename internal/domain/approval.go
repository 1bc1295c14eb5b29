package domain

import (
	"github.com/shopspring/decimal"
)

// OperationType identifies a privileged mutation for approval purposes.
type OperationType string

const (
	OperationCapitalEntry        OperationType = "capital_entry"
	OperationPurchase            OperationType = "purchase"
	OperationSaleOrder           OperationType = "sale_order"
	OperationFinancialAdjustment OperationType = "financial_adjustment"
	OperationRoleChange          OperationType = "role_change"
	OperationSystemSetting       OperationType = "system_setting"
	OperationRevenueReceipt      OperationType = "revenue_receipt"
	OperationRevenueRefund       OperationType = "revenue_refund"
	OperationRevenueWithdrawal   OperationType = "revenue_withdrawal"
	OperationReinvestment        OperationType = "reinvestment"
	OperationExpense             OperationType = "expense"
	OperationInventoryAdjust     OperationType = "inventory_adjust"
)

// criticalOperations can never bypass approval, even with an internal
// credential. A skip request for any of these is a security violation.
var criticalOperations = map[OperationType]bool{
	OperationCapitalEntry:        true,
	OperationPurchase:            true,
	OperationSaleOrder:           true,
	OperationFinancialAdjustment: true,
	OperationRoleChange:          true,
	OperationSystemSetting:       true,
	OperationRevenueWithdrawal:   true,
	OperationReinvestment:        true,
}

// internalSkipOperations may bypass approval when the caller presents
// a valid internal system credential. Deliberately much smaller than
// the full operation set.
var internalSkipOperations = map[OperationType]bool{
	OperationRevenueReceipt:  true,
	OperationRevenueRefund:   true,
	OperationExpense:         true,
	OperationInventoryAdjust: true,
}

// IsCriticalOperation reports whether t is on the critical allowlist.
func IsCriticalOperation(t OperationType) bool {
	return criticalOperations[t]
}

// IsInternalSkipAllowed reports whether t is on the internal-skip allowlist.
func IsInternalSkipAllowed(t OperationType) bool {
	return internalSkipOperations[t]
}

// GrantStatus is the lifecycle state of an approval grant.
type GrantStatus string

const (
	GrantStatusIssued   GrantStatus = "issued"
	GrantStatusConsumed GrantStatus = "consumed"
	GrantStatusExpired  GrantStatus = "expired"
)

// Fingerprint binds a grant to the exact operation it was issued for.
// A grant issued for operation A can never authorize operation B.
type Fingerprint struct {
	OperationType OperationType
	EntityID      string
	Amount        decimal.Decimal
	Currency      Currency
	RequesterID   string
}

// Matches reports whether two fingerprints describe the same operation.
func (f Fingerprint) Matches(other Fingerprint) bool {
	return f.OperationType == other.OperationType &&
		f.EntityID == other.EntityID &&
		f.Amount.Equal(other.Amount) &&
		f.Currency == other.Currency &&
		f.RequesterID == other.RequesterID
}

// ApprovalGrant is a pre-issued, single-use authorization for one
// privileged operation. Consumed at most once.
type ApprovalGrant struct {
	ID          string
	Fingerprint Fingerprint
	Status      GrantStatus
	ConsumedBy  string
}

// OperationPayload is implemented by the closed set of per-operation
// structs carried in an approval context. Each payload knows its own
// operation type and the entity id the grant was bound to.
type OperationPayload interface {
	OperationType() OperationType
	EntityID() string
}

// UserTargeting is implemented by payloads that mutate an identity.
// The approval gate refuses such operations against the reserved
// system account.
type UserTargeting interface {
	TargetUserID() string
}

// CapitalEntryPayload authorizes creation of one capital ledger entry.
type CapitalEntryPayload struct {
	EntryID string
}

func (p CapitalEntryPayload) OperationType() OperationType { return OperationCapitalEntry }
func (p CapitalEntryPayload) EntityID() string             { return p.EntryID }

// PurchasePayload authorizes a purchase mutation.
type PurchasePayload struct {
	PurchaseID string
	SupplierID string
}

func (p PurchasePayload) OperationType() OperationType { return OperationPurchase }
func (p PurchasePayload) EntityID() string             { return p.PurchaseID }

// SaleOrderPayload authorizes a sales order mutation.
type SaleOrderPayload struct {
	OrderID    string
	CustomerID string
}

func (p SaleOrderPayload) OperationType() OperationType { return OperationSaleOrder }
func (p SaleOrderPayload) EntityID() string             { return p.OrderID }

// RoleChangePayload authorizes changing a user's role.
type RoleChangePayload struct {
	UserID  string
	NewRole string
}

func (p RoleChangePayload) OperationType() OperationType { return OperationRoleChange }
func (p RoleChangePayload) EntityID() string             { return p.UserID }
func (p RoleChangePayload) TargetUserID() string         { return p.UserID }

// SettingChangePayload authorizes changing a system setting.
type SettingChangePayload struct {
	Key string
}

func (p SettingChangePayload) OperationType() OperationType { return OperationSystemSetting }
func (p SettingChangePayload) EntityID() string             { return p.Key }

// RevenueEntryPayload authorizes a revenue-ledger mutation. The Op
// field selects which of the four revenue operations it covers.
type RevenueEntryPayload struct {
	Op       OperationType
	RecordID string
}

func (p RevenueEntryPayload) OperationType() OperationType { return p.Op }
func (p RevenueEntryPayload) EntityID() string             { return p.RecordID }

// ExpensePayload authorizes an operating-expense mutation.
type ExpensePayload struct {
	ExpenseID string
}

func (p ExpensePayload) OperationType() OperationType { return OperationExpense }
func (p ExpensePayload) EntityID() string             { return p.ExpenseID }
