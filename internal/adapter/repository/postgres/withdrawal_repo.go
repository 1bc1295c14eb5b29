package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// WithdrawalRepository implements usecase.WithdrawalRepository.
type WithdrawalRepository struct {
	pool *pgxpool.Pool
}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository(pool *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{pool: pool}
}

// CreateTx inserts a withdrawal record inside the caller's transaction.
func (r *WithdrawalRepository) CreateTx(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRecord) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO revenue_withdrawals (
			id, code, amount_usd, description, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		w.ID,
		w.Code,
		decimalToNumeric(w.AmountUSD),
		w.Description,
		w.CreatedBy,
		timeToPgTimestamptz(w.CreatedAt),
	)

	return err
}

// GetByID retrieves a withdrawal record by ID.
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.WithdrawalRecord, error) {
	var (
		w         domain.WithdrawalRecord
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, code, amount_usd, description, created_by, created_at
		FROM revenue_withdrawals
		WHERE id = $1`, id,
	).Scan(&w.ID, &w.Code, &amount, &w.Description, &w.CreatedBy, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRevenueEntryNotFound
		}

		return nil, err
	}

	w.AmountUSD = numericToDecimal(amount)
	w.CreatedAt = createdAt.Time

	return &w, nil
}
