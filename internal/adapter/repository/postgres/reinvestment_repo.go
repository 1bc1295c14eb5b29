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

// ReinvestmentRepository implements usecase.ReinvestmentRepository.
type ReinvestmentRepository struct {
	pool *pgxpool.Pool
}

// NewReinvestmentRepository creates a new ReinvestmentRepository.
func NewReinvestmentRepository(pool *pgxpool.Pool) *ReinvestmentRepository {
	return &ReinvestmentRepository{pool: pool}
}

// CreateTx inserts a reinvestment record inside the caller's
// transaction.
func (r *ReinvestmentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, rv *domain.Reinvestment) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO reinvestments (
			id, code, amount_usd, transfer_fee_usd, capital_entry_id,
			expense_id, description, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rv.ID,
		rv.Code,
		decimalToNumeric(rv.AmountUSD),
		decimalToNumeric(rv.TransferFeeUSD),
		rv.CapitalEntryID,
		rv.ExpenseID,
		rv.Description,
		rv.CreatedBy,
		timeToPgTimestamptz(rv.CreatedAt),
	)

	return err
}

// GetByID retrieves a reinvestment record by ID.
func (r *ReinvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Reinvestment, error) {
	var (
		rv        domain.Reinvestment
		amount    pgtype.Numeric
		fee       pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT id, code, amount_usd, transfer_fee_usd, capital_entry_id,
		       expense_id, description, created_by, created_at
		FROM reinvestments
		WHERE id = $1`, id,
	).Scan(
		&rv.ID, &rv.Code, &amount, &fee, &rv.CapitalEntryID,
		&rv.ExpenseID, &rv.Description, &rv.CreatedBy, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRevenueEntryNotFound
		}

		return nil, err
	}

	rv.AmountUSD = numericToDecimal(amount)
	rv.TransferFeeUSD = numericToDecimal(fee)
	rv.CreatedAt = createdAt.Time

	return &rv, nil
}
