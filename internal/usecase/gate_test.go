package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
	"github.com/merkato/fincore/internal/usecase/mocks"
)

const internalToken = "internal-secret"

type gateFixture struct {
	oracle *mocks.MockApprovalOracle
	audit  *mocks.MockAuditSink
	gate   *usecase.ApprovalGate
}

func newGateFixture() *gateFixture {
	oracle := mocks.NewMockApprovalOracle()
	audit := mocks.NewMockAuditSink()
	gate := usecase.NewApprovalGate(
		oracle,
		audit,
		mocks.NewMockCredentialVerifier(internalToken),
		domain.NewSystemUserGuard("system"),
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
		nil,
	)
	return &gateFixture{oracle: oracle, audit: audit, gate: gate}
}

func (f *gateFixture) lastAudit(t *testing.T) *domain.AuditRecord {
	t.Helper()
	records := f.audit.Records()
	require.NotEmpty(t, records)
	return records[len(records)-1]
}

func capitalContext() usecase.ApprovalContext {
	return usecase.ApprovalContext{
		Payload:     domain.CapitalEntryPayload{EntryID: "entry-1"},
		Amount:      decimal.NewFromInt(1000),
		Currency:    domain.CurrencyUSD,
		RequesterID: "user-7",
		OperationID: "op-1",
	}
}

func TestApprovalGate_SkipOnCriticalOperationIsViolation(t *testing.T) {
	f := newGateFixture()

	ac := capitalContext()
	ac.SkipApproval = true
	ac.SkipJustification = "automated import"
	ac.InternalCredential = internalToken

	err := f.gate.Enforce(context.Background(), ac)

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.OperationCapitalEntry, violation.OperationType)
	assert.Equal(t, "user-7", violation.ActorID)

	rec := f.lastAudit(t)
	assert.Equal(t, domain.AuditSeverityCritical, rec.Severity)
	assert.Equal(t, domain.AuditDecisionRejected, rec.Decision)
}

func TestApprovalGate_SkipOutsideAllowlistIsViolation(t *testing.T) {
	f := newGateFixture()

	// not on the critical list, but not skip-eligible either
	ac := usecase.ApprovalContext{
		Payload:            domain.RevenueEntryPayload{Op: domain.OperationType("data_export"), RecordID: "exp-1"},
		Amount:             decimal.NewFromInt(50),
		Currency:           domain.CurrencyUSD,
		RequesterID:        "user-7",
		SkipApproval:       true,
		InternalCredential: internalToken,
	}

	err := f.gate.Enforce(context.Background(), ac)

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.AuditSeverityCritical, f.lastAudit(t).Severity)
}

func TestApprovalGate_SkipWithBadCredentialIsViolation(t *testing.T) {
	f := newGateFixture()

	ac := usecase.ApprovalContext{
		Payload:            domain.RevenueEntryPayload{Op: domain.OperationRevenueReceipt, RecordID: "rcpt-1"},
		Amount:             decimal.NewFromInt(50),
		Currency:           domain.CurrencyUSD,
		RequesterID:        "user-7",
		SkipApproval:       true,
		SkipJustification:  "payment webhook",
		InternalCredential: "forged",
	}

	err := f.gate.Enforce(context.Background(), ac)

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.AuditSeverityCritical, f.lastAudit(t).Severity)
}

func TestApprovalGate_SanctionedSkipIsAuditedWarning(t *testing.T) {
	f := newGateFixture()

	ac := usecase.ApprovalContext{
		Payload:            domain.RevenueEntryPayload{Op: domain.OperationRevenueReceipt, RecordID: "rcpt-1"},
		Amount:             decimal.NewFromInt(50),
		Currency:           domain.CurrencyUSD,
		RequesterID:        "svc-payments",
		SkipApproval:       true,
		SkipJustification:  "payment webhook",
		InternalCredential: internalToken,
	}

	require.NoError(t, f.gate.Enforce(context.Background(), ac))

	rec := f.lastAudit(t)
	assert.Equal(t, domain.AuditSeverityWarning, rec.Severity)
	assert.Equal(t, domain.AuditDecisionApprovedBySkip, rec.Decision)
	assert.Contains(t, rec.Reason, "payment webhook")
}

func TestApprovalGate_GrantValidatedAndConsumed(t *testing.T) {
	f := newGateFixture()

	ac := capitalContext()
	ac.GrantID = "grant-1"

	fp := domain.Fingerprint{
		OperationType: domain.OperationCapitalEntry,
		EntityID:      "entry-1",
		Amount:        decimal.NewFromInt(1000),
		Currency:      domain.CurrencyUSD,
		RequesterID:   "user-7",
	}
	f.oracle.IssueGrant("grant-1", fp)

	require.NoError(t, f.gate.Enforce(context.Background(), ac))

	rec := f.lastAudit(t)
	assert.Equal(t, domain.AuditDecisionApprovedByGrant, rec.Decision)

	// single use: a replay with the same grant is rejected
	err := f.gate.Enforce(context.Background(), ac)
	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
}

func TestApprovalGate_GrantFingerprintMismatchRejected(t *testing.T) {
	f := newGateFixture()

	fp := domain.Fingerprint{
		OperationType: domain.OperationCapitalEntry,
		EntityID:      "entry-1",
		Amount:        decimal.NewFromInt(500), // issued for a different amount
		Currency:      domain.CurrencyUSD,
		RequesterID:   "user-7",
	}
	f.oracle.IssueGrant("grant-1", fp)

	ac := capitalContext()
	ac.GrantID = "grant-1"

	err := f.gate.Enforce(context.Background(), ac)

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, domain.AuditSeverityCritical, f.lastAudit(t).Severity)
}

func TestApprovalGate_UnknownGrantRejected(t *testing.T) {
	f := newGateFixture()

	ac := capitalContext()
	ac.GrantID = "no-such-grant"

	err := f.gate.Enforce(context.Background(), ac)

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
}

func TestApprovalGate_OracleDecides(t *testing.T) {
	t.Run("approval required", func(t *testing.T) {
		f := newGateFixture()
		f.oracle.RequiresApprovalResult = true

		err := f.gate.Enforce(context.Background(), capitalContext())

		var required *domain.ApprovalRequiredError
		require.ErrorAs(t, err, &required)
		assert.Equal(t, domain.OperationCapitalEntry, required.OperationType)
		assert.Equal(t, domain.AuditDecisionNeedsApproval, f.lastAudit(t).Decision)
	})

	t.Run("approval not required", func(t *testing.T) {
		f := newGateFixture()
		f.oracle.RequiresApprovalResult = false

		require.NoError(t, f.gate.Enforce(context.Background(), capitalContext()))
		assert.Equal(t, domain.AuditDecisionNotRequired, f.lastAudit(t).Decision)
	})
}

func TestApprovalGate_OracleOutageFailsClosed(t *testing.T) {
	f := newGateFixture()
	f.oracle.RequiresApprovalFunc = func(ctx context.Context, fp domain.Fingerprint) (bool, error) {
		return false, errors.New("oracle unreachable")
	}

	err := f.gate.Enforce(context.Background(), capitalContext())

	var violation *domain.SecurityViolationError
	require.ErrorAs(t, err, &violation)
	assert.Contains(t, violation.Reason, "failing closed")
}

func TestApprovalGate_SystemUserTargetBlocked(t *testing.T) {
	f := newGateFixture()

	ac := usecase.ApprovalContext{
		Payload:     domain.RoleChangePayload{UserID: "system", NewRole: "admin"},
		RequesterID: "user-7",
	}

	err := f.gate.Enforce(context.Background(), ac)

	require.ErrorIs(t, err, domain.ErrSystemUserImmutable)
	rec := f.lastAudit(t)
	assert.Equal(t, domain.AuditSeverityCritical, rec.Severity)
}

func TestApprovalGate_AuditSinkFailureDoesNotBlock(t *testing.T) {
	f := newGateFixture()
	f.audit.AppendFunc = func(ctx context.Context, record *domain.AuditRecord) error {
		return errors.New("audit store down")
	}

	require.NoError(t, f.gate.Enforce(context.Background(), capitalContext()))
}
