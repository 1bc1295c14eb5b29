package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Entry errors
	ErrEntryNotFound       = errors.New("capital entry not found")
	ErrUnsupportedCurrency = errors.New("currency must be USD or ETB")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrEntryReferenced     = errors.New("entry is referenced by another entry and cannot be deleted")

	// Revenue errors
	ErrRevenueEntryNotFound = errors.New("revenue entry not found")
	ErrPeriodClosed         = errors.New("accounting period is closed")
	ErrInvalidPeriod        = errors.New("accounting period must be formatted YYYY-MM")

	// Approval errors
	ErrGrantNotFound = errors.New("approval grant not found")
	ErrGrantConsumed = errors.New("approval grant already consumed")
	ErrGrantExpired  = errors.New("approval grant expired")

	// Identity errors
	ErrSystemUserImmutable = errors.New("system account cannot be the target of this operation")
	ErrCredentialInvalid   = errors.New("internal credential is invalid")
	ErrCredentialExpired   = errors.New("internal credential expired")

	// ErrTransientConflict marks retryable contention (deadlocks,
	// serialization failures, lock timeouts). Callers retry with
	// backoff; everything else is a definitive rejection.
	ErrTransientConflict = errors.New("transient conflict")
)

// UnknownEntryTypeError is a programmer error: an entry type reached
// the impact calculator that the calculator does not know. It must
// never degrade to a silent zero impact.
type UnknownEntryTypeError struct {
	Type string
}

func (e *UnknownEntryTypeError) Error() string {
	return fmt.Sprintf("unknown capital entry type %q", e.Type)
}

// SecurityViolationError is raised by the approval gate for bypass
// attempts, forged or reused grants, and invalid internal credentials.
// It is always audited at critical severity and is never retryable.
type SecurityViolationError struct {
	OperationType OperationType
	ActorID       string
	Reason        string
}

func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("security violation: %s (operation=%s actor=%s)", e.Reason, e.OperationType, e.ActorID)
}

// ApprovalRequiredError tells the caller the operation is blocked until
// a grant is obtained. It is caller-actionable, not a system fault.
type ApprovalRequiredError struct {
	OperationType OperationType
	Amount        decimal.Decimal
	Currency      Currency
}

func (e *ApprovalRequiredError) Error() string {
	return fmt.Sprintf(
		"approval required for %s of %s %s: obtain an approval grant and retry with its id",
		e.OperationType, e.Amount.String(), e.Currency,
	)
}

// InsufficientBalanceError rejects a capital entry whose impact would
// drive the protected balance negative.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient capital balance: available=%s requested=%s",
		e.Available.String(), e.Requested.String(),
	)
}

// InsufficientWithdrawableError rejects a withdrawal or reinvestment
// exceeding the live withdrawable balance of the revenue pool.
type InsufficientWithdrawableError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientWithdrawableError) Error() string {
	return fmt.Sprintf(
		"insufficient withdrawable balance: available=%s requested=%s",
		e.Available.String(), e.Requested.String(),
	)
}

// ReferenceIntegrityError rejects an entry whose reference cannot be
// resolved or forms an unsupported chain.
type ReferenceIntegrityError struct {
	Reference string
	Reason    string
}

func (e *ReferenceIntegrityError) Error() string {
	return fmt.Sprintf("reference integrity: %s (reference=%q)", e.Reason, e.Reference)
}

// AmountMismatchError rejects an entry whose USD-normalized amount
// deviates from the referenced operation's recorded amount beyond the
// relative tolerance band.
type AmountMismatchError struct {
	EntryAmountUSD     decimal.Decimal
	ReferenceAmountUSD decimal.Decimal
	Tolerance          decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf(
		"amount mismatch: entry=%s referenced=%s exceeds tolerance=%s",
		e.EntryAmountUSD.String(), e.ReferenceAmountUSD.String(), e.Tolerance.String(),
	)
}

// IsTransient reports whether err is retryable contention.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientConflict)
}
