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

// RevenueSummaryRepository implements usecase.RevenueSummaryRepository.
type RevenueSummaryRepository struct {
	pool *pgxpool.Pool
}

// NewRevenueSummaryRepository creates a new RevenueSummaryRepository.
func NewRevenueSummaryRepository(pool *pgxpool.Pool) *RevenueSummaryRepository {
	return &RevenueSummaryRepository{pool: pool}
}

// UpsertTx replaces the summary row for the period inside the caller's
// transaction.
func (r *RevenueSummaryRepository) UpsertTx(ctx context.Context, tx usecase.Transaction, summary *domain.RevenueSummary) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO revenue_summaries (
			period, receipts, refunds, withdrawals, reinvestments,
			transfer_fees, net_accounting_revenue, withdrawable_balance,
			closed, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (period) DO UPDATE SET
			receipts = EXCLUDED.receipts,
			refunds = EXCLUDED.refunds,
			withdrawals = EXCLUDED.withdrawals,
			reinvestments = EXCLUDED.reinvestments,
			transfer_fees = EXCLUDED.transfer_fees,
			net_accounting_revenue = EXCLUDED.net_accounting_revenue,
			withdrawable_balance = EXCLUDED.withdrawable_balance,
			closed = EXCLUDED.closed,
			computed_at = EXCLUDED.computed_at`,
		summary.Period,
		decimalToNumeric(summary.Receipts),
		decimalToNumeric(summary.Refunds),
		decimalToNumeric(summary.Withdrawals),
		decimalToNumeric(summary.Reinvestments),
		decimalToNumeric(summary.TransferFees),
		decimalToNumeric(summary.NetAccountingRevenue),
		decimalToNumeric(summary.WithdrawableBalance),
		summary.Closed,
		timeToPgTimestamptz(summary.ComputedAt),
	)

	return err
}

// Get retrieves the summary row for a period.
func (r *RevenueSummaryRepository) Get(ctx context.Context, period string) (*domain.RevenueSummary, error) {
	var (
		summary       domain.RevenueSummary
		receipts      pgtype.Numeric
		refunds       pgtype.Numeric
		withdrawals   pgtype.Numeric
		reinvestments pgtype.Numeric
		fees          pgtype.Numeric
		net           pgtype.Numeric
		withdrawable  pgtype.Numeric
		computedAt    pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, `
		SELECT period, receipts, refunds, withdrawals, reinvestments,
		       transfer_fees, net_accounting_revenue, withdrawable_balance,
		       closed, computed_at
		FROM revenue_summaries
		WHERE period = $1`, period,
	).Scan(
		&summary.Period,
		&receipts,
		&refunds,
		&withdrawals,
		&reinvestments,
		&fees,
		&net,
		&withdrawable,
		&summary.Closed,
		&computedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRevenueEntryNotFound
		}

		return nil, err
	}

	summary.Receipts = numericToDecimal(receipts)
	summary.Refunds = numericToDecimal(refunds)
	summary.Withdrawals = numericToDecimal(withdrawals)
	summary.Reinvestments = numericToDecimal(reinvestments)
	summary.TransferFees = numericToDecimal(fees)
	summary.NetAccountingRevenue = numericToDecimal(net)
	summary.WithdrawableBalance = numericToDecimal(withdrawable)
	summary.ComputedAt = computedAt.Time

	return &summary, nil
}
