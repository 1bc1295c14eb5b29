package domain

import (
	"encoding/json"
	"time"
)

// AuditSeverity ranks audit records. Violations are critical, sanctioned
// approval skips are warnings, normal gate outcomes are info.
type AuditSeverity string

const (
	AuditSeverityInfo     AuditSeverity = "info"
	AuditSeverityWarning  AuditSeverity = "warning"
	AuditSeverityCritical AuditSeverity = "critical"
)

// AuditDecision is the gate outcome recorded with each audit record.
type AuditDecision string

const (
	AuditDecisionBlockedCritical AuditDecision = "blocked_critical"
	AuditDecisionNeedsApproval   AuditDecision = "needs_approval"
	AuditDecisionApprovedByGrant AuditDecision = "approved_by_grant"
	AuditDecisionApprovedBySkip  AuditDecision = "approved_by_skip"
	AuditDecisionNotRequired     AuditDecision = "approval_not_required"
	AuditDecisionRejected        AuditDecision = "rejected"
)

// AuditRecord is one append-only line in the compliance trail.
type AuditRecord struct {
	CreatedAt     time.Time
	ID            string
	Severity      AuditSeverity
	ActorID       string
	OperationType OperationType
	EntityID      string
	Decision      AuditDecision
	Reason        string
	Detail        JSON
}

// JSON is free-form structured detail attached to an audit record.
type JSON map[string]any

// MarshalDetail converts a value to audit detail, degrading to an
// error marker rather than failing the audit write.
func MarshalDetail(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal detail"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal detail"}
	}

	return result
}
