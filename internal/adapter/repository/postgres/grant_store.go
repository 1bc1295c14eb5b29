package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merkato/fincore/internal/domain"
)

// GrantStore implements usecase.ApprovalOracle over PostgreSQL. Grants
// are issued out of band by the approval workflow; this store answers
// whether an operation needs one, validates the binding and consumes
// grants atomically.
type GrantStore struct {
	pool *pgxpool.Pool
}

// NewGrantStore creates a new GrantStore.
func NewGrantStore(pool *pgxpool.Pool) *GrantStore {
	return &GrantStore{pool: pool}
}

// RequiresApproval decides whether the fingerprinted operation needs a
// pre-issued grant. Critical operation types always do; other types
// only when an approval policy row sets a threshold the amount meets.
func (s *GrantStore) RequiresApproval(ctx context.Context, fp domain.Fingerprint) (bool, error) {
	if domain.IsCriticalOperation(fp.OperationType) {
		return true, nil
	}

	var threshold pgtype.Numeric
	err := s.pool.QueryRow(ctx, `
		SELECT threshold_usd FROM approval_policies
		WHERE operation_type = $1`, string(fp.OperationType),
	).Scan(&threshold)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return fp.Amount.GreaterThanOrEqual(numericToDecimal(threshold)), nil
}

// ValidateGrant checks that the grant exists, is still issued, has not
// expired and is bound to exactly this operation.
func (s *GrantStore) ValidateGrant(ctx context.Context, grantID string, fp domain.Fingerprint) error {
	grant, _, err := s.getGrant(ctx, grantID)
	if err != nil {
		return err
	}

	switch grant.Status {
	case domain.GrantStatusConsumed:
		return domain.ErrGrantConsumed
	case domain.GrantStatusExpired:
		return domain.ErrGrantExpired
	}

	if !grant.Fingerprint.Matches(fp) {
		return fmt.Errorf("grant %s is bound to a different operation", grantID)
	}

	return nil
}

// ConsumeGrant atomically flips an issued grant to consumed, bound to
// the operation id. The conditional update is the single point of
// serialization: of two racing consumers exactly one sees a row
// affected.
func (s *GrantStore) ConsumeGrant(ctx context.Context, grantID string, fp domain.Fingerprint, operationID string) error {
	if err := s.ValidateGrant(ctx, grantID, fp); err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE approval_grants
		SET status = $1, consumed_by = $2, consumed_at = NOW()
		WHERE id = $3 AND status = $4 AND (expires_at IS NULL OR expires_at > NOW())`,
		string(domain.GrantStatusConsumed),
		operationID,
		grantID,
		string(domain.GrantStatusIssued),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGrantConsumed
	}

	return nil
}

// Issue persists a freshly approved grant.
func (s *GrantStore) Issue(ctx context.Context, grant *domain.ApprovalGrant, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO approval_grants (
			id, operation_type, entity_id, amount, currency,
			requester_id, status, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8)`,
		grant.ID,
		string(grant.Fingerprint.OperationType),
		grant.Fingerprint.EntityID,
		decimalToNumeric(grant.Fingerprint.Amount),
		string(grant.Fingerprint.Currency),
		grant.Fingerprint.RequesterID,
		string(domain.GrantStatusIssued),
		timeToPgTimestamptz(expiresAt),
	)

	return err
}

func (s *GrantStore) getGrant(ctx context.Context, grantID string) (*domain.ApprovalGrant, time.Time, error) {
	var (
		grant         domain.ApprovalGrant
		operationType string
		currency      string
		amount        pgtype.Numeric
		status        string
		consumedBy    pgtype.Text
		expiresAt     pgtype.Timestamptz
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, operation_type, entity_id, amount, currency,
		       requester_id, status, consumed_by, expires_at
		FROM approval_grants
		WHERE id = $1`, grantID,
	).Scan(
		&grant.ID,
		&operationType,
		&grant.Fingerprint.EntityID,
		&amount,
		&currency,
		&grant.Fingerprint.RequesterID,
		&status,
		&consumedBy,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, domain.ErrGrantNotFound
		}

		return nil, time.Time{}, err
	}

	grant.Fingerprint.OperationType = domain.OperationType(operationType)
	grant.Fingerprint.Currency = domain.Currency(currency)
	grant.Fingerprint.Amount = numericToDecimal(amount)
	grant.Status = domain.GrantStatus(status)
	grant.ConsumedBy = consumedBy.String

	if grant.Status == domain.GrantStatusIssued && expiresAt.Valid && expiresAt.Time.Before(time.Now()) {
		grant.Status = domain.GrantStatusExpired
	}

	return &grant, expiresAt.Time, nil
}
