// Package mocks provides in-memory implementations of the usecase
// interfaces. The transaction and locker mocks model read-your-own-
// writes and release-on-commit semantics closely enough that the
// concurrency and atomicity properties of the ledger are exercised for
// real.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// MockTransaction buffers writes until commit. Commit hooks apply the
// writes; completion hooks (lock releases) always run afterwards, on
// commit and rollback alike.
type MockTransaction struct {
	mu         sync.Mutex
	onCommit   []func()
	onComplete []func()
	done       bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// OnCommit registers a hook applying a buffered write at commit time.
func (t *MockTransaction) OnCommit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onCommit = append(t.onCommit, fn)
}

// OnComplete registers a hook that runs when the transaction ends,
// regardless of outcome. Lock releases live here.
func (t *MockTransaction) OnComplete(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = append(t.onComplete, fn)
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true

	for _, fn := range t.onCommit {
		fn()
	}
	for _, fn := range t.onComplete {
		fn()
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true

	for _, fn := range t.onComplete {
		fn()
	}
	return nil
}

// MockTransactionManager hands out MockTransactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockResourceLocker serializes callers per resource key with real
// mutexes released when the owning transaction ends. Re-acquiring a key
// already held by the same transaction is a no-op, matching advisory
// transaction locks.
type MockResourceLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	held  map[*MockTransaction]map[string]bool

	AcquireTxFunc func(ctx context.Context, tx usecase.Transaction, resourceKey string) error
}

func NewMockResourceLocker() *MockResourceLocker {
	return &MockResourceLocker{
		locks: make(map[string]*sync.Mutex),
		held:  make(map[*MockTransaction]map[string]bool),
	}
}

func (m *MockResourceLocker) AcquireTx(ctx context.Context, tx usecase.Transaction, resourceKey string) error {
	if m.AcquireTxFunc != nil {
		return m.AcquireTxFunc(ctx, tx, resourceKey)
	}

	mtx, ok := tx.(*MockTransaction)
	if !ok {
		return fmt.Errorf("mock locker requires a MockTransaction, got %T", tx)
	}

	m.mu.Lock()
	if m.held[mtx][resourceKey] {
		m.mu.Unlock()
		return nil
	}

	lock, ok := m.locks[resourceKey]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[resourceKey] = lock
	}
	m.mu.Unlock()

	lock.Lock()

	m.mu.Lock()
	if m.held[mtx] == nil {
		m.held[mtx] = make(map[string]bool)
	}
	m.held[mtx][resourceKey] = true
	m.mu.Unlock()

	mtx.OnComplete(func() {
		m.mu.Lock()
		delete(m.held[mtx], resourceKey)
		if len(m.held[mtx]) == 0 {
			delete(m.held, mtx)
		}
		m.mu.Unlock()
		lock.Unlock()
	})

	return nil
}

// MockCapitalEntryRepository stores capital entries in memory with
// per-transaction pending buffers.
type MockCapitalEntryRepository struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]*domain.CapitalEntry
	pending map[*MockTransaction][]*domain.CapitalEntry

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalEntry) error
	DeleteTxFunc func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockCapitalEntryRepository() *MockCapitalEntryRepository {
	return &MockCapitalEntryRepository{
		entries: make(map[string]*domain.CapitalEntry),
		pending: make(map[*MockTransaction][]*domain.CapitalEntry),
	}
}

func (m *MockCapitalEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalEntry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}

	mtx := tx.(*MockTransaction)

	m.mu.Lock()
	m.pending[mtx] = append(m.pending[mtx], entry)
	m.mu.Unlock()

	mtx.OnCommit(func() {
		m.mu.Lock()
		m.entries[entry.ID] = entry
		m.order = append(m.order, entry.ID)
		m.mu.Unlock()
	})
	mtx.OnComplete(func() {
		m.mu.Lock()
		delete(m.pending, mtx)
		m.mu.Unlock()
	})

	return nil
}

// Seed inserts an entry directly, bypassing transactions.
func (m *MockCapitalEntryRepository) Seed(entry *domain.CapitalEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
}

func (m *MockCapitalEntryRepository) GetByID(ctx context.Context, id string) (*domain.CapitalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func (m *MockCapitalEntryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id string) (*domain.CapitalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	if mtx, ok := tx.(*MockTransaction); ok {
		for _, e := range m.pending[mtx] {
			if e.ID == id {
				return e, nil
			}
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockCapitalEntryRepository) ListTx(ctx context.Context, tx usecase.Transaction) ([]*domain.CapitalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.CapitalEntry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	if mtx, ok := tx.(*MockTransaction); ok {
		out = append(out, m.pending[mtx]...)
	}
	return out, nil
}

func (m *MockCapitalEntryRepository) List(ctx context.Context) ([]*domain.CapitalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.CapitalEntry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out, nil
}

func (m *MockCapitalEntryRepository) CountReferencingTx(ctx context.Context, tx usecase.Transaction, id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, e := range m.entries {
		if e.Reference == id {
			n++
		}
	}
	if mtx, ok := tx.(*MockTransaction); ok {
		for _, e := range m.pending[mtx] {
			if e.Reference == id {
				n++
			}
		}
	}
	return n, nil
}

func (m *MockCapitalEntryRepository) DeleteTx(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteTxFunc != nil {
		return m.DeleteTxFunc(ctx, tx, id)
	}

	m.mu.RLock()
	_, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrEntryNotFound
	}

	tx.(*MockTransaction).OnCommit(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.entries, id)
		for i, eid := range m.order {
			if eid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	})
	return nil
}

// MockRevenueEntryRepository stores revenue entries in memory with
// per-transaction pending buffers.
type MockRevenueEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.RevenueEntry
	pending map[*MockTransaction][]*domain.RevenueEntry
	closed  map[string]bool

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.RevenueEntry) error
}

func NewMockRevenueEntryRepository() *MockRevenueEntryRepository {
	return &MockRevenueEntryRepository{
		pending: make(map[*MockTransaction][]*domain.RevenueEntry),
		closed:  make(map[string]bool),
	}
}

func (m *MockRevenueEntryRepository) CreateTx(ctx context.Context, tx usecase.Transaction, entry *domain.RevenueEntry) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, entry)
	}

	mtx := tx.(*MockTransaction)

	m.mu.Lock()
	m.pending[mtx] = append(m.pending[mtx], entry)
	m.mu.Unlock()

	mtx.OnCommit(func() {
		m.mu.Lock()
		m.entries = append(m.entries, entry)
		m.mu.Unlock()
	})
	mtx.OnComplete(func() {
		m.mu.Lock()
		delete(m.pending, mtx)
		m.mu.Unlock()
	})

	return nil
}

func (m *MockRevenueEntryRepository) visible(tx usecase.Transaction) []*domain.RevenueEntry {
	out := make([]*domain.RevenueEntry, 0, len(m.entries))
	out = append(out, m.entries...)
	if mtx, ok := tx.(*MockTransaction); ok {
		out = append(out, m.pending[mtx]...)
	}
	return out
}

func (m *MockRevenueEntryRepository) SumByTypeTx(ctx context.Context, tx usecase.Transaction, period string) (map[domain.RevenueEntryType]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sums := map[domain.RevenueEntryType]decimal.Decimal{
		domain.RevenueCustomerReceipt: decimal.Zero,
		domain.RevenueCustomerRefund:  decimal.Zero,
		domain.RevenueWithdrawal:      decimal.Zero,
		domain.RevenueReinvestOut:     decimal.Zero,
		domain.RevenueTransferFee:     decimal.Zero,
	}

	for _, e := range m.visible(tx) {
		if e.Period == period {
			sums[e.Type] = sums[e.Type].Add(e.AmountUSD)
		}
	}
	return sums, nil
}

func (m *MockRevenueEntryRepository) WithdrawableTx(ctx context.Context, tx usecase.Transaction) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, e := range m.visible(tx) {
		total = total.Add(e.AmountUSD)
	}
	return total, nil
}

func (m *MockRevenueEntryRepository) PeriodClosedTx(ctx context.Context, tx usecase.Transaction, period string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed[period], nil
}

// ClosePeriod marks a period closed, bypassing transactions.
func (m *MockRevenueEntryRepository) ClosePeriod(period string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed[period] = true
}

// Entries returns the committed entries.
func (m *MockRevenueEntryRepository) Entries() []*domain.RevenueEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.RevenueEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

// MockRevenueSummaryRepository stores summary rows per period.
type MockRevenueSummaryRepository struct {
	mu        sync.RWMutex
	summaries map[string]*domain.RevenueSummary

	UpsertTxFunc func(ctx context.Context, tx usecase.Transaction, summary *domain.RevenueSummary) error
}

func NewMockRevenueSummaryRepository() *MockRevenueSummaryRepository {
	return &MockRevenueSummaryRepository{
		summaries: make(map[string]*domain.RevenueSummary),
	}
}

func (m *MockRevenueSummaryRepository) UpsertTx(ctx context.Context, tx usecase.Transaction, summary *domain.RevenueSummary) error {
	if m.UpsertTxFunc != nil {
		return m.UpsertTxFunc(ctx, tx, summary)
	}

	mtx := tx.(*MockTransaction)
	mtx.OnCommit(func() {
		m.mu.Lock()
		m.summaries[summary.Period] = summary
		m.mu.Unlock()
	})
	return nil
}

func (m *MockRevenueSummaryRepository) Get(ctx context.Context, period string) (*domain.RevenueSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.summaries[period]
	if !ok {
		return nil, domain.ErrRevenueEntryNotFound
	}
	return s, nil
}

// MockWithdrawalRepository stores withdrawal records.
type MockWithdrawalRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.WithdrawalRecord

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRecord) error
}

func NewMockWithdrawalRepository() *MockWithdrawalRepository {
	return &MockWithdrawalRepository{records: make(map[string]*domain.WithdrawalRecord)}
}

func (m *MockWithdrawalRepository) CreateTx(ctx context.Context, tx usecase.Transaction, w *domain.WithdrawalRecord) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, w)
	}

	tx.(*MockTransaction).OnCommit(func() {
		m.mu.Lock()
		m.records[w.ID] = w
		m.mu.Unlock()
	})
	return nil
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id string) (*domain.WithdrawalRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.records[id]
	if !ok {
		return nil, domain.ErrRevenueEntryNotFound
	}
	return w, nil
}

// MockReinvestmentRepository stores reinvestment records.
type MockReinvestmentRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Reinvestment

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, r *domain.Reinvestment) error
}

func NewMockReinvestmentRepository() *MockReinvestmentRepository {
	return &MockReinvestmentRepository{records: make(map[string]*domain.Reinvestment)}
}

func (m *MockReinvestmentRepository) CreateTx(ctx context.Context, tx usecase.Transaction, r *domain.Reinvestment) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, r)
	}

	tx.(*MockTransaction).OnCommit(func() {
		m.mu.Lock()
		m.records[r.ID] = r
		m.mu.Unlock()
	})
	return nil
}

func (m *MockReinvestmentRepository) GetByID(ctx context.Context, id string) (*domain.Reinvestment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return nil, domain.ErrRevenueEntryNotFound
	}
	return r, nil
}

// MockExpenseRepository stores operating-expense records.
type MockExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.OperatingExpense

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, e *domain.OperatingExpense) error
}

func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{expenses: make(map[string]*domain.OperatingExpense)}
}

func (m *MockExpenseRepository) CreateTx(ctx context.Context, tx usecase.Transaction, e *domain.OperatingExpense) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, e)
	}

	tx.(*MockTransaction).OnCommit(func() {
		m.mu.Lock()
		m.expenses[e.ID] = e
		m.mu.Unlock()
	})
	return nil
}

// Expenses returns the committed expense records.
func (m *MockExpenseRepository) Expenses() []*domain.OperatingExpense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OperatingExpense, 0, len(m.expenses))
	for _, e := range m.expenses {
		out = append(out, e)
	}
	return out
}

// MockOperationRepository resolves recorded amounts for external
// operations an entry settles.
type MockOperationRepository struct {
	mu      sync.RWMutex
	amounts map[string]recordedAmount

	RecordedAmountFunc func(ctx context.Context, kind domain.ReferenceKind, id string) (decimal.Decimal, domain.Currency, error)
}

type recordedAmount struct {
	amount   decimal.Decimal
	currency domain.Currency
}

func NewMockOperationRepository() *MockOperationRepository {
	return &MockOperationRepository{amounts: make(map[string]recordedAmount)}
}

// SetRecordedAmount registers the recorded amount of an external
// operation.
func (m *MockOperationRepository) SetRecordedAmount(id string, amount decimal.Decimal, currency domain.Currency) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[id] = recordedAmount{amount: amount, currency: currency}
}

func (m *MockOperationRepository) RecordedAmount(ctx context.Context, kind domain.ReferenceKind, id string) (decimal.Decimal, domain.Currency, error) {
	if m.RecordedAmountFunc != nil {
		return m.RecordedAmountFunc(ctx, kind, id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.amounts[id]
	if !ok {
		return decimal.Zero, "", fmt.Errorf("operation %s/%s not found", kind, id)
	}
	return rec.amount, rec.currency, nil
}

// MockSequenceRepository models the locking read over maximum entry
// codes. Numbers allocated inside a transaction are visible to later
// reads in the same transaction, and advance the shared maximum only
// when the transaction commits, exactly as numbered row inserts would.
type MockSequenceRepository struct {
	mu       sync.Mutex
	counters map[string]int64
	pending  map[*MockTransaction]map[string]int64

	MaxCodeTxFunc func(ctx context.Context, tx usecase.Transaction, prefix string) (string, error)
}

func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{
		counters: make(map[string]int64),
		pending:  make(map[*MockTransaction]map[string]int64),
	}
}

func (m *MockSequenceRepository) MaxCodeTx(ctx context.Context, tx usecase.Transaction, prefix string) (string, error) {
	if m.MaxCodeTxFunc != nil {
		return m.MaxCodeTxFunc(ctx, tx, prefix)
	}

	mtx, _ := tx.(*MockTransaction)

	m.mu.Lock()
	current := m.counters[prefix]
	if mtx != nil {
		if p, ok := m.pending[mtx][prefix]; ok && p > current {
			current = p
		}

		// the caller will allocate current+1 and insert it before the
		// transaction ends
		if m.pending[mtx] == nil {
			m.pending[mtx] = make(map[string]int64)
		}
		m.pending[mtx][prefix] = current + 1
	}
	m.mu.Unlock()

	if mtx != nil {
		mtx.OnCommit(func() {
			m.mu.Lock()
			if p := m.pending[mtx][prefix]; p > m.counters[prefix] {
				m.counters[prefix] = p
			}
			m.mu.Unlock()
		})
		mtx.OnComplete(func() {
			m.mu.Lock()
			delete(m.pending, mtx)
			m.mu.Unlock()
		})
	}

	if current == 0 {
		return "", nil
	}
	return usecase.FormatCode(prefix, current), nil
}

// MockSettingsRepository holds the negative-balance protection flag.
type MockSettingsRepository struct {
	mu                     sync.RWMutex
	preventNegativeBalance bool

	PreventNegativeBalanceFunc func(ctx context.Context) (bool, error)
}

func NewMockSettingsRepository(preventNegative bool) *MockSettingsRepository {
	return &MockSettingsRepository{preventNegativeBalance: preventNegative}
}

func (m *MockSettingsRepository) PreventNegativeBalance(ctx context.Context) (bool, error) {
	if m.PreventNegativeBalanceFunc != nil {
		return m.PreventNegativeBalanceFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preventNegativeBalance, nil
}

// MockApprovalOracle is an in-memory grant store with single-use
// consumption.
type MockApprovalOracle struct {
	mu     sync.Mutex
	grants map[string]*domain.ApprovalGrant

	// RequiresApprovalResult is returned by RequiresApproval when no
	// override func is set.
	RequiresApprovalResult bool

	RequiresApprovalFunc func(ctx context.Context, fp domain.Fingerprint) (bool, error)
	ValidateGrantFunc    func(ctx context.Context, grantID string, fp domain.Fingerprint) error
	ConsumeGrantFunc     func(ctx context.Context, grantID string, fp domain.Fingerprint, operationID string) error
}

func NewMockApprovalOracle() *MockApprovalOracle {
	return &MockApprovalOracle{grants: make(map[string]*domain.ApprovalGrant)}
}

// IssueGrant registers an issued grant bound to fp.
func (m *MockApprovalOracle) IssueGrant(id string, fp domain.Fingerprint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[id] = &domain.ApprovalGrant{ID: id, Fingerprint: fp, Status: domain.GrantStatusIssued}
}

func (m *MockApprovalOracle) RequiresApproval(ctx context.Context, fp domain.Fingerprint) (bool, error) {
	if m.RequiresApprovalFunc != nil {
		return m.RequiresApprovalFunc(ctx, fp)
	}
	return m.RequiresApprovalResult, nil
}

func (m *MockApprovalOracle) ValidateGrant(ctx context.Context, grantID string, fp domain.Fingerprint) error {
	if m.ValidateGrantFunc != nil {
		return m.ValidateGrantFunc(ctx, grantID, fp)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grants[grantID]
	if !ok {
		return domain.ErrGrantNotFound
	}
	if g.Status == domain.GrantStatusConsumed {
		return domain.ErrGrantConsumed
	}
	if g.Status == domain.GrantStatusExpired {
		return domain.ErrGrantExpired
	}
	if !g.Fingerprint.Matches(fp) {
		return fmt.Errorf("grant %s bound to a different operation", grantID)
	}
	return nil
}

func (m *MockApprovalOracle) ConsumeGrant(ctx context.Context, grantID string, fp domain.Fingerprint, operationID string) error {
	if m.ConsumeGrantFunc != nil {
		return m.ConsumeGrantFunc(ctx, grantID, fp, operationID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grants[grantID]
	if !ok {
		return domain.ErrGrantNotFound
	}
	if g.Status != domain.GrantStatusIssued {
		return domain.ErrGrantConsumed
	}
	if !g.Fingerprint.Matches(fp) {
		return fmt.Errorf("grant %s bound to a different operation", grantID)
	}

	g.Status = domain.GrantStatusConsumed
	g.ConsumedBy = operationID
	return nil
}

// MockRateOracle returns a fixed central exchange rate.
type MockRateOracle struct {
	Rate decimal.Decimal

	CentralExchangeRateFunc func(ctx context.Context) (decimal.Decimal, error)
}

func NewMockRateOracle(rate decimal.Decimal) *MockRateOracle {
	return &MockRateOracle{Rate: rate}
}

func (m *MockRateOracle) CentralExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	if m.CentralExchangeRateFunc != nil {
		return m.CentralExchangeRateFunc(ctx)
	}
	return m.Rate, nil
}

// MockAuditSink collects audit records.
type MockAuditSink struct {
	mu      sync.Mutex
	records []*domain.AuditRecord

	AppendFunc func(ctx context.Context, record *domain.AuditRecord) error
}

func NewMockAuditSink() *MockAuditSink {
	return &MockAuditSink{}
}

func (m *MockAuditSink) Append(ctx context.Context, record *domain.AuditRecord) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, record)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

// Records returns the collected audit records.
func (m *MockAuditSink) Records() []*domain.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditRecord, len(m.records))
	copy(out, m.records)
	return out
}

// MockCredentialVerifier accepts one configured token.
type MockCredentialVerifier struct {
	ValidToken string

	VerifyFunc func(token string) error
}

func NewMockCredentialVerifier(validToken string) *MockCredentialVerifier {
	return &MockCredentialVerifier{ValidToken: validToken}
}

func (m *MockCredentialVerifier) VerifyInternalCredential(token string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	if token == "" || token != m.ValidToken {
		return fmt.Errorf("invalid internal credential")
	}
	return nil
}

// MockIDGenerator generates deterministic sequential ids.
type MockIDGenerator struct {
	counter atomic.Int64

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("id-%06d", m.counter.Add(1))
}

// MockRetrier runs the operation once, or retries transients a few
// times without sleeping when RetryTransients is set.
type MockRetrier struct {
	RetryTransients bool

	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}

	if !m.RetryTransients {
		return operation()
	}

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		err = operation()
		if err == nil || !domain.IsTransient(err) {
			return err
		}
	}
	return err
}
