package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// ResourceLocker serializes all writers of one named logical resource.
// The lock is scoped to the given transaction and released automatically
// when the transaction commits or rolls back.
type ResourceLocker interface {
	AcquireTx(ctx context.Context, tx Transaction, resourceKey string) error
}

// CapitalEntryRepository defines data access for capital ledger entries.
type CapitalEntryRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.CapitalEntry) error
	GetByID(ctx context.Context, id string) (*domain.CapitalEntry, error)
	GetByIDTx(ctx context.Context, tx Transaction, id string) (*domain.CapitalEntry, error)
	// ListTx returns every entry in the ledger, oldest first. The
	// balance guard re-aggregates over the full history inside the
	// serializing lock.
	ListTx(ctx context.Context, tx Transaction) ([]*domain.CapitalEntry, error)
	List(ctx context.Context) ([]*domain.CapitalEntry, error)
	CountReferencingTx(ctx context.Context, tx Transaction, id string) (int64, error)
	DeleteTx(ctx context.Context, tx Transaction, id string) error
}

// RevenueEntryRepository defines data access for revenue ledger entries.
type RevenueEntryRepository interface {
	CreateTx(ctx context.Context, tx Transaction, entry *domain.RevenueEntry) error
	// SumByTypeTx aggregates signed amounts per entry type for one
	// accounting period, from scratch.
	SumByTypeTx(ctx context.Context, tx Transaction, period string) (map[domain.RevenueEntryType]decimal.Decimal, error)
	// WithdrawableTx is the live signed sum over the entire revenue
	// ledger, all periods. The withdrawal guard never trusts the
	// possibly-stale summary row.
	WithdrawableTx(ctx context.Context, tx Transaction) (decimal.Decimal, error)
	PeriodClosedTx(ctx context.Context, tx Transaction, period string) (bool, error)
}

// RevenueSummaryRepository persists the period-keyed materialized view.
type RevenueSummaryRepository interface {
	UpsertTx(ctx context.Context, tx Transaction, summary *domain.RevenueSummary) error
	Get(ctx context.Context, period string) (*domain.RevenueSummary, error)
}

// WithdrawalRepository defines data access for withdrawal records.
type WithdrawalRepository interface {
	CreateTx(ctx context.Context, tx Transaction, w *domain.WithdrawalRecord) error
	GetByID(ctx context.Context, id string) (*domain.WithdrawalRecord, error)
}

// ReinvestmentRepository defines data access for reinvestment records.
type ReinvestmentRepository interface {
	CreateTx(ctx context.Context, tx Transaction, r *domain.Reinvestment) error
	GetByID(ctx context.Context, id string) (*domain.Reinvestment, error)
}

// ExpenseRepository creates the operating-expense rows spawned by
// reinvestment transfer fees.
type ExpenseRepository interface {
	CreateTx(ctx context.Context, tx Transaction, e *domain.OperatingExpense) error
}

// OperationRepository resolves the recorded amount of the external
// operation an entry settles (purchase, expense, shipping leg, sales
// order). Used only for amount-matching validation.
type OperationRepository interface {
	RecordedAmount(ctx context.Context, kind domain.ReferenceKind, id string) (decimal.Decimal, domain.Currency, error)
}

// SequenceRepository reads the current maximum entry code for a prefix
// with a locking read, inside the caller's transaction.
type SequenceRepository interface {
	MaxCodeTx(ctx context.Context, tx Transaction, prefix string) (string, error)
}

// SettingsRepository reads system settings.
type SettingsRepository interface {
	PreventNegativeBalance(ctx context.Context) (bool, error)
}

// ApprovalOracle is the external authority over approval requirements
// and grants. An oracle outage fails closed, never open.
type ApprovalOracle interface {
	RequiresApproval(ctx context.Context, fp domain.Fingerprint) (bool, error)
	ValidateGrant(ctx context.Context, grantID string, fp domain.Fingerprint) error
	// ConsumeGrant atomically flips the grant to consumed, bound to the
	// operation id. A second consumption of the same grant must fail.
	ConsumeGrant(ctx context.Context, grantID string, fp domain.Fingerprint, operationID string) error
}

// RateOracle supplies the single central exchange rate (ETB per USD)
// used for every cross-currency normalization. Client-supplied rates
// are never accepted.
type RateOracle interface {
	CentralExchangeRate(ctx context.Context) (decimal.Decimal, error)
}

// AuditSink appends compliance records. Best effort: a sink failure is
// escalated as a critical system log entry by the caller, never as a
// failure of the business operation.
type AuditSink interface {
	Append(ctx context.Context, record *domain.AuditRecord) error
}

// CredentialVerifier validates the internal system credential presented
// with a sanctioned approval skip.
type CredentialVerifier interface {
	VerifyInternalCredential(token string) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier retries an operation on transient conflicts with exponential
// backoff plus jitter, bounded at a fixed attempt count.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
