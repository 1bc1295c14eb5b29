package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/merkato/fincore/internal/usecase"
)

// codeTables maps an entry-code prefix to the table its numbered rows
// live in. The sequence generator holds a per-prefix advisory lock
// while reading, so the plain max read cannot race another allocator.
var codeTables = map[string]string{
	usecase.PrefixCapital:      "capital_entries",
	usecase.PrefixRevenue:      "revenue_entries",
	usecase.PrefixWithdrawal:   "revenue_withdrawals",
	usecase.PrefixReinvestment: "reinvestments",
	usecase.PrefixExpense:      "operating_expenses",
	usecase.PrefixPurchase:     "purchases",
	usecase.PrefixPayment:      "payments",
}

// SequenceRepository implements usecase.SequenceRepository.
type SequenceRepository struct {
	pool *pgxpool.Pool
}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository(pool *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{pool: pool}
}

// MaxCodeTx reads the current maximum code for a prefix inside the
// caller's transaction. Codes are fixed-width so the lexicographic
// maximum is the numeric maximum; width overflow is ordered by length
// first.
func (r *SequenceRepository) MaxCodeTx(ctx context.Context, tx usecase.Transaction, prefix string) (string, error) {
	table, ok := codeTables[prefix]
	if !ok {
		return "", fmt.Errorf("unknown entry code prefix %q", prefix)
	}

	pgxTx := tx.(*Tx).PgxTx()

	var code string
	err := pgxTx.QueryRow(ctx, `
		SELECT code FROM `+table+`
		WHERE code LIKE $1
		ORDER BY LENGTH(code) DESC, code DESC
		LIMIT 1`, prefix+"-%",
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", err
	}

	return code, nil
}
