package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// operationTables maps a reference kind to where the referenced
// operation's recorded amount lives.
var operationTables = map[domain.ReferenceKind]struct {
	table     string
	amountCol string
}{
	domain.ReferenceKindPurchase:   {table: "purchases", amountCol: "total_amount"},
	domain.ReferenceKindExpense:    {table: "operating_expenses", amountCol: "amount_usd"},
	domain.ReferenceKindShipping:   {table: "shipping_legs", amountCol: "cost_amount"},
	domain.ReferenceKindSalesOrder: {table: "sales_orders", amountCol: "total_amount"},
}

// OperationRepository implements usecase.OperationRepository: it
// resolves the recorded amount of the external operation a capital
// entry settles, for amount-matching validation.
type OperationRepository struct {
	pool *pgxpool.Pool
}

// NewOperationRepository creates a new OperationRepository.
func NewOperationRepository(pool *pgxpool.Pool) *OperationRepository {
	return &OperationRepository{pool: pool}
}

// RecordedAmount returns the referenced operation's amount and
// currency. Operating expenses are stored USD-normalized; the other
// operation tables carry their own currency column.
func (r *OperationRepository) RecordedAmount(ctx context.Context, kind domain.ReferenceKind, id string) (decimal.Decimal, domain.Currency, error) {
	target, ok := operationTables[kind]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("reference kind %q does not settle an external operation", kind)
	}

	if kind == domain.ReferenceKindExpense {
		var amount pgtype.Numeric
		err := r.pool.QueryRow(ctx,
			`SELECT amount_usd FROM operating_expenses WHERE id = $1`, id,
		).Scan(&amount)
		if err != nil {
			return decimal.Zero, "", notFoundOr(err, kind, id)
		}

		return numericToDecimal(amount), domain.CurrencyUSD, nil
	}

	var (
		amount   pgtype.Numeric
		currency string
	)
	err := r.pool.QueryRow(ctx, fmt.Sprintf(
		`SELECT %s, currency FROM %s WHERE id = $1`, target.amountCol, target.table,
	), id).Scan(&amount, &currency)
	if err != nil {
		return decimal.Zero, "", notFoundOr(err, kind, id)
	}

	return numericToDecimal(amount), domain.Currency(currency), nil
}

func notFoundOr(err error, kind domain.ReferenceKind, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s not found", kind, id)
	}

	return err
}
