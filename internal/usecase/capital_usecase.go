package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// LedgerMetrics counts capital ledger activity.
type LedgerMetrics interface {
	CapitalEntryCreated(entryType domain.EntryType)
	CapitalEntryRejected(reason string)
	ObserveCapitalEntryAmount(usd decimal.Decimal)
}

// CapitalLedger owns the capital balance invariants. Entries are
// created through the approval gate and the impact calculator inside
// one serialized transaction.
type CapitalLedger struct {
	txManager TransactionManager
	locker    ResourceLocker
	entryRepo CapitalEntryRepository
	opRepo    OperationRepository
	settings  SettingsRepository
	gate      *ApprovalGate
	calc      *ImpactCalculator
	seq       *SequenceGenerator
	idGen     IDGenerator
	retrier   Retrier
	logger    zerolog.Logger
	metrics   LedgerMetrics
}

// NewCapitalLedger wires the ledger with its collaborators.
func NewCapitalLedger(
	txManager TransactionManager,
	locker ResourceLocker,
	entryRepo CapitalEntryRepository,
	opRepo OperationRepository,
	settings SettingsRepository,
	gate *ApprovalGate,
	calc *ImpactCalculator,
	seq *SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
	logger zerolog.Logger,
	metrics LedgerMetrics,
) *CapitalLedger {
	return &CapitalLedger{
		txManager: txManager,
		locker:    locker,
		entryRepo: entryRepo,
		opRepo:    opRepo,
		settings:  settings,
		gate:      gate,
		calc:      calc,
		seq:       seq,
		idGen:     idGen,
		retrier:   retrier,
		logger:    logger,
		metrics:   metrics,
	}
}

// ApprovalRequest carries the caller's authorization material for one
// privileged mutation.
type ApprovalRequest struct {
	GrantID            string
	SkipApproval       bool
	SkipJustification  string
	InternalCredential string
}

// CreateCapitalEntryInput describes a new capital ledger entry. For a
// Reverse entry the amount and currency are taken from the referenced
// entry; the caller supplies only the reference.
type CreateCapitalEntryInput struct {
	Type          domain.EntryType
	Amount        decimal.Decimal
	Currency      domain.Currency
	ReferenceKind domain.ReferenceKind
	Reference     string
	Description   string
	CreatedBy     string
	Approval      ApprovalRequest
}

// CreateEntry authorizes, validates and persists one capital entry.
//
// Inside a single transaction serialized on the capital balance lock:
// amount matching against the referenced operation, the
// negative-balance guard over a full live re-aggregation, and the
// insert itself. Under concurrent callers the lock totally orders the
// guard against every other writer, so two insertions can never
// jointly drive the balance negative.
func (l *CapitalLedger) CreateEntry(ctx context.Context, input CreateCapitalEntryInput) (*domain.CapitalEntry, error) {
	if !input.Type.Valid() {
		return nil, &domain.UnknownEntryTypeError{Type: string(input.Type)}
	}

	if input.Type != domain.EntryTypeReverse {
		if !input.Currency.Valid() {
			return nil, domain.ErrUnsupportedCurrency
		}
		if input.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, domain.ErrNonPositiveAmount
		}
	} else if input.Reference == "" {
		return nil, &domain.ReferenceIntegrityError{
			Reason: "reverse entry requires a reference to the entry it negates",
		}
	}

	entryID := l.idGen.Generate()

	err := l.gate.Enforce(ctx, ApprovalContext{
		Payload:            domain.CapitalEntryPayload{EntryID: entryID},
		Amount:             input.Amount,
		Currency:           input.Currency,
		RequesterID:        input.CreatedBy,
		OperationID:        entryID,
		GrantID:            input.Approval.GrantID,
		SkipApproval:       input.Approval.SkipApproval,
		SkipJustification:  input.Approval.SkipJustification,
		InternalCredential: input.Approval.InternalCredential,
	})
	if err != nil {
		l.reject("approval")
		return nil, err
	}

	var entry *domain.CapitalEntry

	// Only the locked transaction section retries on transient
	// conflicts. Gate outcomes are definitive and the consumed grant
	// stays bound to this operation id across retries.
	err = l.retrier.Retry(ctx, func() error {
		var txErr error
		entry, txErr = l.createLocked(ctx, entryID, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.CapitalEntryCreated(entry.Type)
		l.metrics.ObserveCapitalEntryAmount(entry.AmountUSD)
	}

	l.logger.Info().
		Str("entry_id", entry.ID).
		Str("code", entry.Code).
		Str("type", string(entry.Type)).
		Str("amount_usd", entry.AmountUSD.String()).
		Msg("capital entry created")

	return entry, nil
}

func (l *CapitalLedger) createLocked(ctx context.Context, entryID string, input CreateCapitalEntryInput) (*domain.CapitalEntry, error) {
	tx, err := l.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := l.locker.AcquireTx(ctx, tx, LockCapitalBalance); err != nil {
		return nil, err
	}

	entry, err := l.buildEntryTx(ctx, tx, entryID, input)
	if err != nil {
		return nil, err
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if entry.RequiresAmountMatch() {
		refAmount, refCurrency, err := l.opRepo.RecordedAmount(ctx, entry.ReferenceKind, entry.Reference)
		if err != nil {
			return nil, &domain.ReferenceIntegrityError{
				Reference: entry.Reference,
				Reason:    "referenced operation could not be resolved: " + err.Error(),
			}
		}

		if err := l.calc.ValidateAmountMatch(ctx, entry.AmountUSD, refAmount, refCurrency); err != nil {
			l.reject("amount_mismatch")
			return nil, err
		}
	}

	impact, err := l.calc.Impact(entry, l.txResolver(ctx, tx))
	if err != nil {
		return nil, err
	}

	if impact.IsNegative() {
		if err := l.guardBalanceTx(ctx, tx, impact); err != nil {
			return nil, err
		}
	}

	code, err := l.seq.NextTx(ctx, tx, PrefixCapital)
	if err != nil {
		return nil, err
	}
	entry.Code = code

	if err := l.entryRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return entry, nil
}

// txResolver resolves referenced entries through the transaction so a
// Reverse created in the same transaction sees its target.
func (l *CapitalLedger) txResolver(ctx context.Context, tx Transaction) EntryResolver {
	return func(id string) (*domain.CapitalEntry, error) {
		return l.entryRepo.GetByIDTx(ctx, tx, id)
	}
}

func (l *CapitalLedger) buildEntryTx(ctx context.Context, tx Transaction, entryID string, input CreateCapitalEntryInput) (*domain.CapitalEntry, error) {
	entry := &domain.CapitalEntry{
		ID:            entryID,
		Type:          input.Type,
		Amount:        input.Amount,
		Currency:      input.Currency,
		ReferenceKind: input.ReferenceKind,
		Reference:     input.Reference,
		Description:   input.Description,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     time.Now().UTC(),
	}

	if input.Type == domain.EntryTypeReverse {
		original, err := l.entryRepo.GetByIDTx(ctx, tx, input.Reference)
		if err != nil {
			return nil, &domain.ReferenceIntegrityError{
				Reference: input.Reference,
				Reason:    "referenced entry could not be resolved: " + err.Error(),
			}
		}

		if original.Type == domain.EntryTypeReverse {
			return nil, &domain.ReferenceIntegrityError{
				Reference: input.Reference,
				Reason:    "reverse entry cannot reference another reverse entry",
			}
		}

		entry.ReferenceKind = domain.ReferenceKindEntry
		entry.Amount = original.Amount
		entry.Currency = original.Currency
		entry.AmountUSD = original.AmountUSD
		return entry, nil
	}

	usd, err := l.calc.NormalizeUSD(ctx, input.Amount, input.Currency)
	if err != nil {
		return nil, err
	}
	entry.AmountUSD = usd

	return entry, nil
}

// guardBalanceTx recomputes the whole balance from the entry history
// inside the serializing lock and rejects the mutation if it would go
// negative. Recomputed every time, never cached: O(n) per check is
// acceptable because inserts are not a hot path, and a full replay is
// self-healing.
func (l *CapitalLedger) guardBalanceTx(ctx context.Context, tx Transaction, impact decimal.Decimal) error {
	prevent, err := l.settings.PreventNegativeBalance(ctx)
	if err != nil {
		return err
	}
	if !prevent {
		return nil
	}

	entries, err := l.entryRepo.ListTx(ctx, tx)
	if err != nil {
		return err
	}

	balance, err := l.calc.Balance(entries)
	if err != nil {
		return err
	}

	if balance.Add(impact).IsNegative() {
		l.reject("insufficient_balance")
		return &domain.InsufficientBalanceError{
			Available: balance,
			Requested: impact.Neg(),
		}
	}

	return nil
}

// Balance replays the full entry history and returns the current
// capital balance in USD.
func (l *CapitalLedger) Balance(ctx context.Context) (decimal.Decimal, error) {
	entries, err := l.entryRepo.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	return l.calc.Balance(entries)
}

// GetEntry retrieves one entry by id.
func (l *CapitalLedger) GetEntry(ctx context.Context, id string) (*domain.CapitalEntry, error) {
	return l.entryRepo.GetByID(ctx, id)
}

// ListEntries returns every capital entry in ledger order.
func (l *CapitalLedger) ListEntries(ctx context.Context) ([]*domain.CapitalEntry, error) {
	return l.entryRepo.List(ctx)
}

// DeleteEntry removes an entry that has no signed influence on any
// other entry and that nothing references. Serialized on the capital
// balance lock like every other writer.
func (l *CapitalLedger) DeleteEntry(ctx context.Context, id, requestedBy string, approval ApprovalRequest) error {
	entry, err := l.entryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = l.gate.Enforce(ctx, ApprovalContext{
		Payload:            domain.CapitalEntryPayload{EntryID: entry.ID},
		Amount:             entry.Amount,
		Currency:           entry.Currency,
		RequesterID:        requestedBy,
		OperationID:        "delete:" + entry.ID,
		GrantID:            approval.GrantID,
		SkipApproval:       approval.SkipApproval,
		SkipJustification:  approval.SkipJustification,
		InternalCredential: approval.InternalCredential,
	})
	if err != nil {
		return err
	}

	return l.retrier.Retry(ctx, func() error {
		tx, err := l.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := l.locker.AcquireTx(ctx, tx, LockCapitalBalance); err != nil {
			return err
		}

		refs, err := l.entryRepo.CountReferencingTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrEntryReferenced
		}

		if err := l.entryRepo.DeleteTx(ctx, tx, id); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

// recordReinvestmentInflowTx appends the CapitalIn entry spawned by a
// revenue reinvestment, inside the caller's transaction. The caller
// already passed the gate for the reinvestment itself; this derived
// write still takes the capital lock so balance readers stay ordered.
func (l *CapitalLedger) recordReinvestmentInflowTx(
	ctx context.Context,
	tx Transaction,
	reinvestmentID string,
	amountUSD decimal.Decimal,
	description, createdBy string,
) (*domain.CapitalEntry, error) {
	if err := l.locker.AcquireTx(ctx, tx, LockCapitalBalance); err != nil {
		return nil, err
	}

	code, err := l.seq.NextTx(ctx, tx, PrefixCapital)
	if err != nil {
		return nil, err
	}

	entry := &domain.CapitalEntry{
		ID:            l.idGen.Generate(),
		Code:          code,
		Type:          domain.EntryTypeCapitalIn,
		Amount:        amountUSD,
		AmountUSD:     amountUSD,
		Currency:      domain.CurrencyUSD,
		ReferenceKind: domain.ReferenceKindReinvestment,
		Reference:     reinvestmentID,
		Description:   description,
		CreatedBy:     createdBy,
		CreatedAt:     time.Now().UTC(),
	}

	if err := l.entryRepo.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if l.metrics != nil {
		l.metrics.CapitalEntryCreated(entry.Type)
	}

	return entry, nil
}

func (l *CapitalLedger) reject(reason string) {
	if l.metrics != nil {
		l.metrics.CapitalEntryRejected(reason)
	}
}
