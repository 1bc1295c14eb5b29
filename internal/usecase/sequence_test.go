package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merkato/fincore/internal/usecase"
	"github.com/merkato/fincore/internal/usecase/mocks"
)

func newSequenceGenerator() (*usecase.SequenceGenerator, *mocks.MockTransactionManager) {
	txManager := mocks.NewMockTransactionManager()
	gen := usecase.NewSequenceGenerator(txManager, mocks.NewMockResourceLocker(), mocks.NewMockSequenceRepository())
	return gen, txManager
}

func TestSequenceGenerator_FormatCode(t *testing.T) {
	assert.Equal(t, "PUR-000001", usecase.FormatCode("PUR", 1))
	assert.Equal(t, "CAP-012345", usecase.FormatCode("CAP", 12345))
	assert.Equal(t, "WD-1000000", usecase.FormatCode("WD", 1000000), "width grows past six digits instead of truncating")
}

func TestSequenceGenerator_StartsAtOne(t *testing.T) {
	gen, _ := newSequenceGenerator()

	code, err := gen.Next(context.Background(), "PUR")
	require.NoError(t, err)
	assert.Equal(t, "PUR-000001", code)
}

func TestSequenceGenerator_PrefixesAreIndependent(t *testing.T) {
	gen, _ := newSequenceGenerator()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		code, err := gen.Next(ctx, "PUR")
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PUR-%06d", i), code)
	}

	code, err := gen.Next(ctx, "PAY")
	require.NoError(t, err)
	assert.Equal(t, "PAY-000001", code, "each prefix numbers independently")
}

func TestSequenceGenerator_SameTransactionSeesOwnAllocations(t *testing.T) {
	gen, txManager := newSequenceGenerator()
	ctx := context.Background()

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	first, err := gen.NextTx(ctx, tx, "REV")
	require.NoError(t, err)
	second, err := gen.NextTx(ctx, tx, "REV")
	require.NoError(t, err)

	assert.Equal(t, "REV-000001", first)
	assert.Equal(t, "REV-000002", second)

	require.NoError(t, tx.Commit(ctx))

	next, err := gen.Next(ctx, "REV")
	require.NoError(t, err)
	assert.Equal(t, "REV-000003", next)
}

func TestSequenceGenerator_RolledBackAllocationIsReused(t *testing.T) {
	gen, txManager := newSequenceGenerator()
	ctx := context.Background()

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)

	code, err := gen.NextTx(ctx, tx, "EXP")
	require.NoError(t, err)
	assert.Equal(t, "EXP-000001", code)

	require.NoError(t, tx.Rollback(ctx))

	// the abandoned number is handed out again, no gaps
	code, err = gen.Next(ctx, "EXP")
	require.NoError(t, err)
	assert.Equal(t, "EXP-000001", code)
}

// 100 goroutines race for codes under one prefix. Every allocation must
// be distinct and the final set contiguous from 1.
func TestSequenceGenerator_ConcurrentAllocationsAreDistinct(t *testing.T) {
	gen, _ := newSequenceGenerator()
	ctx := context.Background()

	const n = 100

	var wg sync.WaitGroup
	codes := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := gen.Next(ctx, "PUR")
			if err == nil {
				codes <- code
			}
		}()
	}
	wg.Wait()
	close(codes)

	var got []string
	for code := range codes {
		got = append(got, code)
	}
	require.Len(t, got, n)

	sort.Strings(got)
	for i, code := range got {
		assert.Equal(t, fmt.Sprintf("PUR-%06d", i+1), code)
	}
}
