package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same
// queries run inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const capitalEntryColumns = `
	id, code, type, amount, amount_usd, currency,
	reference_kind, reference, description, created_by, created_at
`

// CapitalEntryRepository implements usecase.CapitalEntryRepository.
type CapitalEntryRepository struct {
	pool *pgxpool.Pool
}

// NewCapitalEntryRepository creates a new CapitalEntryRepository.
func NewCapitalEntryRepository(pool *pgxpool.Pool) *CapitalEntryRepository {
	return &CapitalEntryRepository{pool: pool}
}

// CreateTx inserts a new entry inside the caller's transaction.
func (r *CapitalEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO capital_entries (`+capitalEntryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		entry.ID,
		entry.Code,
		string(entry.Type),
		decimalToNumeric(entry.Amount),
		decimalToNumeric(entry.AmountUSD),
		string(entry.Currency),
		string(entry.ReferenceKind),
		entry.Reference,
		entry.Description,
		entry.CreatedBy,
		timeToPgTimestamptz(entry.CreatedAt),
	)

	return err
}

// GetByID retrieves an entry by ID.
func (r *CapitalEntryRepository) GetByID(ctx context.Context, id string) (*domain.CapitalEntry, error) {
	return r.getByID(ctx, r.pool, id)
}

// GetByIDTx retrieves an entry by ID inside the caller's transaction,
// seeing that transaction's own uncommitted writes.
func (r *CapitalEntryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.CapitalEntry, error) {
	return r.getByID(ctx, tx.(*Tx).PgxTx(), id)
}

func (r *CapitalEntryRepository) getByID(ctx context.Context, q querier, id string) (*domain.CapitalEntry, error) {
	row := q.QueryRow(ctx, `
		SELECT `+capitalEntryColumns+`
		FROM capital_entries
		WHERE id = $1`, id)

	entry, err := scanCapitalEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return entry, nil
}

// ListTx returns every entry oldest first, inside the caller's
// transaction.
func (r *CapitalEntryRepository) ListTx(ctx context.Context, tx usecase.Transaction) ([]*domain.CapitalEntry, error) {
	return r.list(ctx, tx.(*Tx).PgxTx())
}

// List returns every entry oldest first.
func (r *CapitalEntryRepository) List(ctx context.Context) ([]*domain.CapitalEntry, error) {
	return r.list(ctx, r.pool)
}

func (r *CapitalEntryRepository) list(ctx context.Context, q querier) ([]*domain.CapitalEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT `+capitalEntryColumns+`
		FROM capital_entries
		ORDER BY created_at, code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CapitalEntry
	for rows.Next() {
		entry, err := scanCapitalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountReferencingTx counts entries whose Reference points at id,
// inside the caller's transaction.
func (r *CapitalEntryRepository) CountReferencingTx(ctx context.Context, tx usecase.Transaction, id string) (int64, error) {
	var n int64
	err := tx.(*Tx).PgxTx().QueryRow(ctx, `
		SELECT COUNT(*)
		FROM capital_entries
		WHERE reference_kind = $1 AND reference = $2`,
		string(domain.ReferenceKindEntry), id,
	).Scan(&n)

	return n, err
}

// DeleteTx removes an entry by ID inside the caller's transaction.
func (r *CapitalEntryRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := tx.(*Tx).PgxTx().Exec(ctx, `DELETE FROM capital_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

func scanCapitalEntry(row pgx.Row) (*domain.CapitalEntry, error) {
	var (
		entry         domain.CapitalEntry
		entryType     string
		currency      string
		referenceKind string
		amount        pgtype.Numeric
		amountUSD     pgtype.Numeric
		createdAt     pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.Code,
		&entryType,
		&amount,
		&amountUSD,
		&currency,
		&referenceKind,
		&entry.Reference,
		&entry.Description,
		&entry.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Type = domain.EntryType(entryType)
	entry.Currency = domain.Currency(currency)
	entry.ReferenceKind = domain.ReferenceKind(referenceKind)
	entry.Amount = numericToDecimal(amount)
	entry.AmountUSD = numericToDecimal(amountUSD)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
