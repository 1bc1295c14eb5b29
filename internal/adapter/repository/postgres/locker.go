package postgres

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/merkato/fincore/internal/usecase"
)

// AdvisoryLocker implements usecase.ResourceLocker on top of
// transaction-scoped PostgreSQL advisory locks. The lock key is the
// 63-bit FNV-1a hash of the resource name; pg_advisory_xact_lock blocks
// until acquired and releases automatically when the transaction ends,
// so there is no unlock path to get wrong.
type AdvisoryLocker struct{}

// NewAdvisoryLocker creates a new AdvisoryLocker.
func NewAdvisoryLocker() *AdvisoryLocker {
	return &AdvisoryLocker{}
}

// AcquireTx blocks until the lock for resourceKey is held by tx.
func (l *AdvisoryLocker) AcquireTx(ctx context.Context, tx usecase.Transaction, resourceKey string) error {
	pgxTx := tx.(*Tx).PgxTx()

	if _, err := pgxTx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey(resourceKey)); err != nil {
		return fmt.Errorf("acquire advisory lock %q: %w", resourceKey, err)
	}

	return nil
}

// lockKey hashes a resource name into the signed 64-bit key space
// pg_advisory_xact_lock accepts, with the sign bit cleared so keys stay
// stable across languages that lack unsigned integers.
func lockKey(resourceKey string) int64 {
	h := fnv.New64a()
	h.Write([]byte(resourceKey))

	return int64(h.Sum64() &^ (uint64(1) << 63))
}
