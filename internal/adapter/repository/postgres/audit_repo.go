package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merkato/fincore/internal/domain"
)

// AuditRepository implements usecase.AuditSink: append-only persistence
// for the compliance trail.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Append inserts one audit record.
func (r *AuditRepository) Append(ctx context.Context, record *domain.AuditRecord) error {
	var detailJSON []byte
	if record.Detail != nil {
		var err error
		detailJSON, err = json.Marshal(record.Detail)
		if err != nil {
			return err
		}
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO audit_records (
			id, severity, actor_id, operation_type, entity_id,
			decision, reason, detail, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID,
		string(record.Severity),
		record.ActorID,
		string(record.OperationType),
		record.EntityID,
		string(record.Decision),
		record.Reason,
		detailJSON,
		timeToPgTimestamptz(record.CreatedAt),
	)

	return err
}

// ListBySeverity retrieves recent audit records at one severity, newest
// first.
func (r *AuditRepository) ListBySeverity(ctx context.Context, severity domain.AuditSeverity, limit int) ([]*domain.AuditRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, severity, actor_id, operation_type, entity_id,
		       decision, reason, detail, created_at
		FROM audit_records
		WHERE severity = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(severity), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var (
			record        domain.AuditRecord
			sev           string
			operationType string
			decision      string
			detailJSON    []byte
		)

		err := rows.Scan(
			&record.ID,
			&sev,
			&record.ActorID,
			&operationType,
			&record.EntityID,
			&decision,
			&record.Reason,
			&detailJSON,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		record.Severity = domain.AuditSeverity(sev)
		record.OperationType = domain.OperationType(operationType)
		record.Decision = domain.AuditDecision(decision)
		if detailJSON != nil {
			_ = json.Unmarshal(detailJSON, &record.Detail)
		}

		records = append(records, &record)
	}

	return records, rows.Err()
}
