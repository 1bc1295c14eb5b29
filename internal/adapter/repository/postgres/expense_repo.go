package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// CreateTx inserts an operating-expense row inside the caller's
// transaction.
func (r *ExpenseRepository) CreateTx(ctx context.Context, tx usecase.Transaction, e *domain.OperatingExpense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO operating_expenses (
			id, code, amount_usd, reinvestment_id, description,
			created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID,
		e.Code,
		decimalToNumeric(e.AmountUSD),
		e.ReinvestmentID,
		e.Description,
		e.CreatedBy,
		timeToPgTimestamptz(e.CreatedAt),
	)

	return err
}
