package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// ApprovalContext describes one privileged mutation attempt presented
// to the gate.
type ApprovalContext struct {
	Payload     domain.OperationPayload
	Amount      decimal.Decimal
	Currency    domain.Currency
	RequesterID string
	OperationID string

	// GrantID references a pre-issued approval grant, if the caller
	// holds one.
	GrantID string

	// SkipApproval requests the internal bypass path. Only honored for
	// operation types on the internal-skip allowlist, with a valid
	// internal credential and a justification.
	SkipApproval       bool
	SkipJustification  string
	InternalCredential string
}

func (c ApprovalContext) fingerprint() domain.Fingerprint {
	return domain.Fingerprint{
		OperationType: c.Payload.OperationType(),
		EntityID:      c.Payload.EntityID(),
		Amount:        c.Amount,
		Currency:      c.Currency,
		RequesterID:   c.RequesterID,
	}
}

// ApprovalGate is the security boundary in front of every privileged
// financial mutation. It decides whether the operation may proceed,
// consuming grants atomically and auditing every branch.
type ApprovalGate struct {
	oracle      ApprovalOracle
	audit       AuditSink
	credentials CredentialVerifier
	systemGuard *domain.SystemUserGuard
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     GateMetrics
}

// GateMetrics counts gate outcomes. A nil-safe no-op implementation is
// acceptable in tests.
type GateMetrics interface {
	GateDecision(op domain.OperationType, decision domain.AuditDecision)
	SecurityViolation(op domain.OperationType)
	AuditTrailFailure()
}

// NewApprovalGate creates the gate with its collaborators.
func NewApprovalGate(
	oracle ApprovalOracle,
	audit AuditSink,
	credentials CredentialVerifier,
	systemGuard *domain.SystemUserGuard,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics GateMetrics,
) *ApprovalGate {
	return &ApprovalGate{
		oracle:      oracle,
		audit:       audit,
		credentials: credentials,
		systemGuard: systemGuard,
		idGen:       idGen,
		logger:      logger,
		metrics:     metrics,
	}
}

// Enforce authorizes the operation described by ctx or rejects it.
//
// Branches, in order:
//  1. identity-mutating payloads are checked against the reserved
//     system account;
//  2. a skip request is honored only off the critical allowlist, on
//     the internal-skip allowlist, with a valid internal credential;
//  3. a presented grant is validated against the exact operation
//     fingerprint and atomically consumed;
//  4. otherwise the approval oracle decides whether a grant is needed.
//
// Every denying or exceptionally-allowing branch is audited. An oracle
// outage fails closed.
func (g *ApprovalGate) Enforce(ctx context.Context, ac ApprovalContext) error {
	op := ac.Payload.OperationType()

	if t, ok := ac.Payload.(domain.UserTargeting); ok {
		if err := g.systemGuard.AssertNotSystemUser(t.TargetUserID(), string(op)); err != nil {
			g.violation(ctx, ac, "operation targets the reserved system account")
			return err
		}
	}

	if ac.SkipApproval {
		return g.enforceSkip(ctx, ac)
	}

	if ac.GrantID != "" {
		return g.enforceGrant(ctx, ac)
	}

	required, err := g.oracle.RequiresApproval(ctx, ac.fingerprint())
	if err != nil {
		// fail closed: an unreachable oracle blocks the operation
		g.violation(ctx, ac, "approval oracle unavailable: "+err.Error())
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "approval oracle unavailable, failing closed",
		}
	}

	if required {
		g.record(ctx, ac, domain.AuditSeverityInfo, domain.AuditDecisionNeedsApproval,
			"operation requires a pre-issued approval grant")
		return &domain.ApprovalRequiredError{
			OperationType: op,
			Amount:        ac.Amount,
			Currency:      ac.Currency,
		}
	}

	g.record(ctx, ac, domain.AuditSeverityInfo, domain.AuditDecisionNotRequired,
		"approval not required for this operation")
	return nil
}

func (g *ApprovalGate) enforceSkip(ctx context.Context, ac ApprovalContext) error {
	op := ac.Payload.OperationType()

	if domain.IsCriticalOperation(op) {
		g.violation(ctx, ac, "approval bypass attempted on a critical operation type")
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "approval cannot be skipped for critical operations",
		}
	}

	if !domain.IsInternalSkipAllowed(op) {
		g.violation(ctx, ac, "approval skip requested for an operation type outside the internal allowlist")
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "operation type is not eligible for internal skip",
		}
	}

	if err := g.credentials.VerifyInternalCredential(ac.InternalCredential); err != nil {
		g.violation(ctx, ac, "invalid internal credential presented with skip request")
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "internal credential rejected",
		}
	}

	// Skip is an audited exception, never a silent bypass.
	g.record(ctx, ac, domain.AuditSeverityWarning, domain.AuditDecisionApprovedBySkip,
		"approval skipped with internal credential: "+ac.SkipJustification)
	return nil
}

func (g *ApprovalGate) enforceGrant(ctx context.Context, ac ApprovalContext) error {
	op := ac.Payload.OperationType()
	fp := ac.fingerprint()

	if err := g.oracle.ValidateGrant(ctx, ac.GrantID, fp); err != nil {
		g.violation(ctx, ac, "grant validation failed: "+err.Error())
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "approval grant is not valid for this operation",
		}
	}

	if err := g.oracle.ConsumeGrant(ctx, ac.GrantID, fp, ac.OperationID); err != nil {
		g.violation(ctx, ac, "grant consumption failed: "+err.Error())
		return &domain.SecurityViolationError{
			OperationType: op,
			ActorID:       ac.RequesterID,
			Reason:        "approval grant could not be consumed",
		}
	}

	g.record(ctx, ac, domain.AuditSeverityInfo, domain.AuditDecisionApprovedByGrant,
		"approval grant validated and consumed")
	return nil
}

func (g *ApprovalGate) violation(ctx context.Context, ac ApprovalContext, reason string) {
	op := ac.Payload.OperationType()

	g.logger.Error().
		Str("operation_type", string(op)).
		Str("entity_id", ac.Payload.EntityID()).
		Str("requester_id", ac.RequesterID).
		Str("reason", reason).
		Msg("critical security violation")

	if g.metrics != nil {
		g.metrics.SecurityViolation(op)
	}

	g.record(ctx, ac, domain.AuditSeverityCritical, domain.AuditDecisionRejected, reason)
}

func (g *ApprovalGate) record(
	ctx context.Context,
	ac ApprovalContext,
	severity domain.AuditSeverity,
	decision domain.AuditDecision,
	reason string,
) {
	if g.metrics != nil {
		g.metrics.GateDecision(ac.Payload.OperationType(), decision)
	}

	rec := &domain.AuditRecord{
		ID:            g.idGen.Generate(),
		Severity:      severity,
		ActorID:       ac.RequesterID,
		OperationType: ac.Payload.OperationType(),
		EntityID:      ac.Payload.EntityID(),
		Decision:      decision,
		Reason:        reason,
		Detail: domain.JSON{
			"amount":       ac.Amount.String(),
			"currency":     string(ac.Currency),
			"operation_id": ac.OperationID,
			"grant_id":     ac.GrantID,
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := g.audit.Append(ctx, rec); err != nil {
		// An unaudited financial mutation is a compliance incident to
		// flag, not a reason to abort money movement.
		g.logger.Error().
			Err(err).
			Str("operation_type", string(rec.OperationType)).
			Str("decision", string(rec.Decision)).
			Msg("audit trail broken: audit record could not be appended")

		if g.metrics != nil {
			g.metrics.AuditTrailFailure()
		}
	}
}
