package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SequenceGenerator produces strictly-increasing, human-readable entry
// codes ("PUR-000123") that are safe under concurrent writers. Codes
// are zero-padded to six digits so lexicographic order equals numeric
// order.
type SequenceGenerator struct {
	txManager TransactionManager
	locker    ResourceLocker
	seqRepo   SequenceRepository

	retryInterval time.Duration
}

// NewSequenceGenerator creates a generator over the given store.
func NewSequenceGenerator(txManager TransactionManager, locker ResourceLocker, seqRepo SequenceRepository) *SequenceGenerator {
	return &SequenceGenerator{
		txManager:     txManager,
		locker:        locker,
		seqRepo:       seqRepo,
		retryInterval: 50 * time.Millisecond,
	}
}

// NextTx allocates the next code for prefix inside the caller's
// transaction. The per-prefix advisory lock is held until the
// transaction ends, so the caller must persist a row carrying the code
// in the same transaction for the sequence to stay gapless.
func (g *SequenceGenerator) NextTx(ctx context.Context, tx Transaction, prefix string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= sequenceRetries; attempt++ {
		code, err := g.nextOnce(ctx, tx, prefix)
		if err == nil {
			return code, nil
		}

		lastErr = err
		// linear backoff between attempts
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * g.retryInterval):
		}
	}

	// Numbers must never be skipped silently or duplicated.
	return "", fmt.Errorf("sequence %s exhausted %d attempts: %w", prefix, sequenceRetries, lastErr)
}

// Next allocates a code in its own transaction. Intended for callers
// that persist the numbered row themselves before the transaction the
// generator opened would matter; primarily an operator convenience.
func (g *SequenceGenerator) Next(ctx context.Context, prefix string) (string, error) {
	tx, err := g.txManager.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	code, err := g.NextTx(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	return code, nil
}

func (g *SequenceGenerator) nextOnce(ctx context.Context, tx Transaction, prefix string) (string, error) {
	if err := g.locker.AcquireTx(ctx, tx, LockSequencePrefix+prefix); err != nil {
		return "", err
	}

	maxCode, err := g.seqRepo.MaxCodeTx(ctx, tx, prefix)
	if err != nil {
		return "", err
	}

	next := parseSuffix(maxCode, prefix) + 1

	return FormatCode(prefix, next), nil
}

// FormatCode renders a sequence number as a fixed-width entry code.
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix, n)
}

// parseSuffix extracts the numeric suffix of the current maximum code.
// A missing or unparsable code falls back to 0 so the sequence starts
// at 1.
func parseSuffix(code, prefix string) int64 {
	if code == "" {
		return 0
	}

	suffix := strings.TrimPrefix(code, prefix+"-")
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil || n < 0 {
		return 0
	}

	return n
}
