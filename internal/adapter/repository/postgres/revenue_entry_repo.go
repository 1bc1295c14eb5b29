package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// RevenueEntryRepository implements usecase.RevenueEntryRepository.
type RevenueEntryRepository struct {
	pool *pgxpool.Pool
}

// NewRevenueEntryRepository creates a new RevenueEntryRepository.
func NewRevenueEntryRepository(pool *pgxpool.Pool) *RevenueEntryRepository {
	return &RevenueEntryRepository{pool: pool}
}

// CreateTx inserts a new revenue entry inside the caller's transaction.
func (r *RevenueEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.RevenueEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO revenue_entries (
			id, code, type, amount_usd, customer_id, sales_order_id,
			withdrawal_id, reinvestment_id, period, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.Code,
		string(entry.Type),
		decimalToNumeric(entry.AmountUSD),
		entry.CustomerID,
		entry.SalesOrderID,
		entry.WithdrawalID,
		entry.ReinvestmentID,
		entry.Period,
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// SumByTypeTx aggregates signed amounts per entry type for one period.
// Types with no entries come back as zero rather than missing.
func (r *RevenueEntryRepository) SumByTypeTx(ctx context.Context, tx usecase.Transaction, period string) (map[domain.RevenueEntryType]decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	sums := map[domain.RevenueEntryType]decimal.Decimal{
		domain.RevenueCustomerReceipt: decimal.Zero,
		domain.RevenueCustomerRefund:  decimal.Zero,
		domain.RevenueWithdrawal:      decimal.Zero,
		domain.RevenueReinvestOut:     decimal.Zero,
		domain.RevenueTransferFee:     decimal.Zero,
	}

	rows, err := pgxTx.Query(ctx, `
		SELECT type, COALESCE(SUM(amount_usd), 0)
		FROM revenue_entries
		WHERE period = $1
		GROUP BY type`, period)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryType string
			sum       pgtype.Numeric
		)
		if err := rows.Scan(&entryType, &sum); err != nil {
			return nil, err
		}
		sums[domain.RevenueEntryType(entryType)] = numericToDecimal(sum)
	}

	return sums, rows.Err()
}

// WithdrawableTx is the live signed sum over the whole ledger.
func (r *RevenueEntryRepository) WithdrawableTx(ctx context.Context, tx usecase.Transaction) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var total pgtype.Numeric
	err := pgxTx.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount_usd), 0)
		FROM revenue_entries`).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// PeriodClosedTx reports whether the period has been closed to new
// entries.
func (r *RevenueEntryRepository) PeriodClosedTx(ctx context.Context, tx usecase.Transaction, period string) (bool, error) {
	pgxTx := tx.(*Tx).PgxTx()

	var closed bool
	err := pgxTx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM revenue_periods
			WHERE period = $1 AND closed
		)`, period).Scan(&closed)

	return closed, err
}

// ClosePeriod marks a period closed to new entries.
func (r *RevenueEntryRepository) ClosePeriod(ctx context.Context, period string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO revenue_periods (period, closed)
		VALUES ($1, TRUE)
		ON CONFLICT (period) DO UPDATE SET closed = TRUE`, period)

	return err
}
