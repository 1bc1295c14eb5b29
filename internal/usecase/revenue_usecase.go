package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/domain"
)

// RevenueMetrics counts revenue ledger activity.
type RevenueMetrics interface {
	RevenueEntryCreated(entryType domain.RevenueEntryType)
	SummaryRecomputed(period string)
}

// RevenueEngine maintains the independent revenue ledger and derives
// the per-period withdrawable-balance summary from its five entry
// types. Withdrawals and reinvestments are guarded by a live aggregate,
// never by the possibly-stale summary row.
//
// Lock ordering: the revenue lock is always taken before the capital
// lock (reinvestment takes both in one transaction).
type RevenueEngine struct {
	txManager TransactionManager
	locker    ResourceLocker
	revRepo   RevenueEntryRepository
	sumRepo   RevenueSummaryRepository
	wdRepo    WithdrawalRepository
	rvRepo    ReinvestmentRepository
	expRepo   ExpenseRepository
	capital   *CapitalLedger
	gate      *ApprovalGate
	seq       *SequenceGenerator
	idGen     IDGenerator
	retrier   Retrier
	logger    zerolog.Logger
	metrics   RevenueMetrics
}

// NewRevenueEngine wires the engine with its collaborators.
func NewRevenueEngine(
	txManager TransactionManager,
	locker ResourceLocker,
	revRepo RevenueEntryRepository,
	sumRepo RevenueSummaryRepository,
	wdRepo WithdrawalRepository,
	rvRepo ReinvestmentRepository,
	expRepo ExpenseRepository,
	capital *CapitalLedger,
	gate *ApprovalGate,
	seq *SequenceGenerator,
	idGen IDGenerator,
	retrier Retrier,
	logger zerolog.Logger,
	metrics RevenueMetrics,
) *RevenueEngine {
	return &RevenueEngine{
		txManager: txManager,
		locker:    locker,
		revRepo:   revRepo,
		sumRepo:   sumRepo,
		wdRepo:    wdRepo,
		rvRepo:    rvRepo,
		expRepo:   expRepo,
		capital:   capital,
		gate:      gate,
		seq:       seq,
		idGen:     idGen,
		retrier:   retrier,
		logger:    logger,
		metrics:   metrics,
	}
}

// ReceiptInput records cash received from a customer.
type ReceiptInput struct {
	AmountUSD    decimal.Decimal
	CustomerID   string
	SalesOrderID string
	Period       string
	CreatedBy    string
	Approval     ApprovalRequest
}

// RefundInput records cash returned to a customer.
type RefundInput struct {
	AmountUSD    decimal.Decimal
	CustomerID   string
	SalesOrderID string
	Period       string
	CreatedBy    string
	Approval     ApprovalRequest
}

// WithdrawalInput records cash taken out of the revenue pool.
type WithdrawalInput struct {
	AmountUSD   decimal.Decimal
	Description string
	Period      string
	CreatedBy   string
	Approval    ApprovalRequest
}

// ReinvestmentInput moves revenue-pool cash back into capital, less an
// optional transfer fee.
type ReinvestmentInput struct {
	AmountUSD      decimal.Decimal
	TransferFeeUSD decimal.Decimal
	Description    string
	Period         string
	CreatedBy      string
	Approval       ApprovalRequest
}

// RecordReceipt appends a customer_receipt entry and recomputes the
// period summary.
func (e *RevenueEngine) RecordReceipt(ctx context.Context, input ReceiptInput) (*domain.RevenueEntry, error) {
	if input.AmountUSD.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}

	entryID := e.idGen.Generate()
	if err := e.enforce(ctx, domain.OperationRevenueReceipt, entryID, input.AmountUSD, input.CreatedBy, input.Approval); err != nil {
		return nil, err
	}

	// built inside the retry closure so a code allocated by a rolled
	// back attempt is never carried into the next one
	var entry *domain.RevenueEntry

	err := e.retrier.Retry(ctx, func() error {
		entry = &domain.RevenueEntry{
			ID:           entryID,
			Type:         domain.RevenueCustomerReceipt,
			AmountUSD:    input.AmountUSD,
			CustomerID:   input.CustomerID,
			SalesOrderID: input.SalesOrderID,
			Period:       periodOrNow(input.Period),
			CreatedBy:    input.CreatedBy,
			CreatedAt:    time.Now().UTC(),
		}
		return e.appendLocked(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordRefund appends a customer_refund entry (signed negative) and
// recomputes the period summary.
func (e *RevenueEngine) RecordRefund(ctx context.Context, input RefundInput) (*domain.RevenueEntry, error) {
	if input.AmountUSD.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}

	entryID := e.idGen.Generate()
	if err := e.enforce(ctx, domain.OperationRevenueRefund, entryID, input.AmountUSD, input.CreatedBy, input.Approval); err != nil {
		return nil, err
	}

	var entry *domain.RevenueEntry

	err := e.retrier.Retry(ctx, func() error {
		entry = &domain.RevenueEntry{
			ID:           entryID,
			Type:         domain.RevenueCustomerRefund,
			AmountUSD:    input.AmountUSD.Neg(),
			CustomerID:   input.CustomerID,
			SalesOrderID: input.SalesOrderID,
			Period:       periodOrNow(input.Period),
			CreatedBy:    input.CreatedBy,
			CreatedAt:    time.Now().UTC(),
		}
		return e.appendLocked(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordWithdrawal records cash leaving the revenue pool. The amount
// is checked against the live withdrawable balance inside the
// serialized transaction; the withdrawal record and the negative
// ledger entry commit together.
func (e *RevenueEngine) RecordWithdrawal(ctx context.Context, input WithdrawalInput) (*domain.WithdrawalRecord, error) {
	if input.AmountUSD.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}

	withdrawalID := e.idGen.Generate()
	if err := e.enforce(ctx, domain.OperationRevenueWithdrawal, withdrawalID, input.AmountUSD, input.CreatedBy, input.Approval); err != nil {
		return nil, err
	}

	var record *domain.WithdrawalRecord

	err := e.retrier.Retry(ctx, func() error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := e.locker.AcquireTx(ctx, tx, LockRevenueLedger); err != nil {
			return err
		}

		if err := e.guardWithdrawableTx(ctx, tx, input.AmountUSD); err != nil {
			return err
		}

		code, err := e.seq.NextTx(ctx, tx, PrefixWithdrawal)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		record = &domain.WithdrawalRecord{
			ID:          withdrawalID,
			Code:        code,
			AmountUSD:   input.AmountUSD,
			Description: input.Description,
			CreatedBy:   input.CreatedBy,
			CreatedAt:   now,
		}

		if err := e.wdRepo.CreateTx(ctx, tx, record); err != nil {
			return err
		}

		entry := &domain.RevenueEntry{
			ID:           e.idGen.Generate(),
			Type:         domain.RevenueWithdrawal,
			AmountUSD:    input.AmountUSD.Neg(),
			WithdrawalID: withdrawalID,
			Period:       periodOrNow(input.Period),
			CreatedBy:    input.CreatedBy,
			CreatedAt:    now,
		}

		return e.appendTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// RecordReinvestment moves cash from the revenue pool back into
// capital. One user action, up to five linked writes in one
// transaction: the reinvestment record, the reinvest_out entry, the
// capital CapitalIn entry and, when a fee was charged, the transfer_fee
// entry plus the operating-expense record. All commit together or none
// do: capital inflow can never appear without its equal-and-opposite
// revenue outflow.
func (e *RevenueEngine) RecordReinvestment(ctx context.Context, input ReinvestmentInput) (*domain.Reinvestment, error) {
	if input.AmountUSD.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrNonPositiveAmount
	}
	if input.TransferFeeUSD.IsNegative() {
		return nil, domain.ErrNonPositiveAmount
	}

	reinvestmentID := e.idGen.Generate()
	if err := e.enforce(ctx, domain.OperationReinvestment, reinvestmentID, input.AmountUSD, input.CreatedBy, input.Approval); err != nil {
		return nil, err
	}

	var record *domain.Reinvestment

	err := e.retrier.Retry(ctx, func() error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := e.locker.AcquireTx(ctx, tx, LockRevenueLedger); err != nil {
			return err
		}

		total := input.AmountUSD.Add(input.TransferFeeUSD)
		if err := e.guardWithdrawableTx(ctx, tx, total); err != nil {
			return err
		}

		code, err := e.seq.NextTx(ctx, tx, PrefixReinvestment)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		period := periodOrNow(input.Period)

		record = &domain.Reinvestment{
			ID:             reinvestmentID,
			Code:           code,
			AmountUSD:      input.AmountUSD,
			TransferFeeUSD: input.TransferFeeUSD,
			Description:    input.Description,
			CreatedBy:      input.CreatedBy,
			CreatedAt:      now,
		}

		capEntry, err := e.capital.recordReinvestmentInflowTx(
			ctx, tx, reinvestmentID, input.AmountUSD,
			"reinvestment "+code, input.CreatedBy,
		)
		if err != nil {
			return err
		}
		record.CapitalEntryID = capEntry.ID

		if input.TransferFeeUSD.IsPositive() {
			expCode, err := e.seq.NextTx(ctx, tx, PrefixExpense)
			if err != nil {
				return err
			}

			expense := &domain.OperatingExpense{
				ID:             e.idGen.Generate(),
				Code:           expCode,
				AmountUSD:      input.TransferFeeUSD,
				ReinvestmentID: reinvestmentID,
				Description:    "transfer fee for reinvestment " + code,
				CreatedBy:      input.CreatedBy,
				CreatedAt:      now,
			}

			if err := e.expRepo.CreateTx(ctx, tx, expense); err != nil {
				return err
			}
			record.ExpenseID = expense.ID

			feeEntry := &domain.RevenueEntry{
				ID:             e.idGen.Generate(),
				Type:           domain.RevenueTransferFee,
				AmountUSD:      input.TransferFeeUSD.Neg(),
				ReinvestmentID: reinvestmentID,
				Period:         period,
				CreatedBy:      input.CreatedBy,
				CreatedAt:      now,
			}

			if err := e.createEntryTx(ctx, tx, feeEntry); err != nil {
				return err
			}
		}

		if err := e.rvRepo.CreateTx(ctx, tx, record); err != nil {
			return err
		}

		outEntry := &domain.RevenueEntry{
			ID:             e.idGen.Generate(),
			Type:           domain.RevenueReinvestOut,
			AmountUSD:      input.AmountUSD.Neg(),
			ReinvestmentID: reinvestmentID,
			Period:         period,
			CreatedBy:      input.CreatedBy,
			CreatedAt:      now,
		}

		return e.appendTx(ctx, tx, outEntry)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("reinvestment_id", record.ID).
		Str("code", record.Code).
		Str("amount_usd", record.AmountUSD.String()).
		Str("fee_usd", record.TransferFeeUSD.String()).
		Msg("reinvestment recorded")

	return record, nil
}

// RecomputeSummary re-aggregates all five entry-type sums for the
// period from scratch, derives the withdrawable balance and upserts the
// summary row. Idempotent: a second run with no new entries produces
// the same row.
func (e *RevenueEngine) RecomputeSummary(ctx context.Context, period string) (*domain.RevenueSummary, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}

	var summary *domain.RevenueSummary

	err := e.retrier.Retry(ctx, func() error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := e.locker.AcquireTx(ctx, tx, LockRevenueLedger); err != nil {
			return err
		}

		summary, err = e.recomputeSummaryTx(ctx, tx, period)
		if err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// GetSummary returns the persisted summary row for a period.
func (e *RevenueEngine) GetSummary(ctx context.Context, period string) (*domain.RevenueSummary, error) {
	if err := domain.ValidatePeriod(period); err != nil {
		return nil, err
	}
	return e.sumRepo.Get(ctx, period)
}

// WithdrawableBalance returns the live signed sum over the whole
// revenue ledger.
func (e *RevenueEngine) WithdrawableBalance(ctx context.Context) (decimal.Decimal, error) {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(ctx)

	balance, err := e.revRepo.WithdrawableTx(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// appendLocked opens a transaction, serializes on the revenue lock and
// appends the entry.
func (e *RevenueEngine) appendLocked(ctx context.Context, entry *domain.RevenueEntry) error {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := e.locker.AcquireTx(ctx, tx, LockRevenueLedger); err != nil {
		return err
	}

	return e.appendTx(ctx, tx, entry)
}

// appendTx creates the entry, recomputes its period summary and
// commits.
func (e *RevenueEngine) appendTx(ctx context.Context, tx Transaction, entry *domain.RevenueEntry) error {
	if err := e.createEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	if _, err := e.recomputeSummaryTx(ctx, tx, entry.Period); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	if e.metrics != nil {
		e.metrics.RevenueEntryCreated(entry.Type)
	}

	return nil
}

// createEntryTx validates common entry invariants and persists the
// entry without recomputing the summary.
func (e *RevenueEngine) createEntryTx(ctx context.Context, tx Transaction, entry *domain.RevenueEntry) error {
	if !entry.Type.Valid() {
		return &domain.UnknownEntryTypeError{Type: string(entry.Type)}
	}
	if err := domain.ValidatePeriod(entry.Period); err != nil {
		return err
	}

	closed, err := e.revRepo.PeriodClosedTx(ctx, tx, entry.Period)
	if err != nil {
		return err
	}
	if closed {
		return domain.ErrPeriodClosed
	}

	if entry.Code == "" {
		code, err := e.seq.NextTx(ctx, tx, PrefixRevenue)
		if err != nil {
			return err
		}
		entry.Code = code
	}

	return e.revRepo.CreateTx(ctx, tx, entry)
}

func (e *RevenueEngine) recomputeSummaryTx(ctx context.Context, tx Transaction, period string) (*domain.RevenueSummary, error) {
	sums, err := e.revRepo.SumByTypeTx(ctx, tx, period)
	if err != nil {
		return nil, err
	}

	periodClosed, err := e.revRepo.PeriodClosedTx(ctx, tx, period)
	if err != nil {
		return nil, err
	}

	receipts := sums[domain.RevenueCustomerReceipt]
	refunds := sums[domain.RevenueCustomerRefund]
	withdrawals := sums[domain.RevenueWithdrawal]
	reinvestments := sums[domain.RevenueReinvestOut]
	fees := sums[domain.RevenueTransferFee]

	summary := &domain.RevenueSummary{
		Period:        period,
		Closed:        periodClosed,
		Receipts:      receipts,
		Refunds:       refunds,
		Withdrawals:   withdrawals,
		Reinvestments: reinvestments,
		TransferFees:  fees,
		// receipts and refunds carry their signs already; the sums
		// collapse to plain addition
		NetAccountingRevenue: receipts.Add(refunds),
		WithdrawableBalance:  receipts.Add(refunds).Add(withdrawals).Add(reinvestments).Add(fees),
		ComputedAt:           time.Now().UTC(),
	}

	// an unchanged recompute keeps the previous timestamp so the row
	// stays identical run over run
	prev, err := e.sumRepo.Get(ctx, period)
	switch {
	case err == nil:
		if prev.SameAmounts(summary) {
			summary.ComputedAt = prev.ComputedAt
		}
	case errors.Is(err, domain.ErrRevenueEntryNotFound):
	default:
		return nil, err
	}

	if err := e.sumRepo.UpsertTx(ctx, tx, summary); err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.SummaryRecomputed(period)
	}

	return summary, nil
}

// guardWithdrawableTx rejects amounts exceeding the live withdrawable
// balance, derived inside the serialized transaction.
func (e *RevenueEngine) guardWithdrawableTx(ctx context.Context, tx Transaction, requested decimal.Decimal) error {
	available, err := e.revRepo.WithdrawableTx(ctx, tx)
	if err != nil {
		return err
	}

	if requested.GreaterThan(available) {
		return &domain.InsufficientWithdrawableError{
			Available: available,
			Requested: requested,
		}
	}

	return nil
}

func (e *RevenueEngine) enforce(
	ctx context.Context,
	op domain.OperationType,
	recordID string,
	amount decimal.Decimal,
	requesterID string,
	approval ApprovalRequest,
) error {
	return e.gate.Enforce(ctx, ApprovalContext{
		Payload:            domain.RevenueEntryPayload{Op: op, RecordID: recordID},
		Amount:             amount,
		Currency:           domain.CurrencyUSD,
		RequesterID:        requesterID,
		OperationID:        recordID,
		GrantID:            approval.GrantID,
		SkipApproval:       approval.SkipApproval,
		SkipJustification:  approval.SkipJustification,
		InternalCredential: approval.InternalCredential,
	})
}

func periodOrNow(period string) string {
	if period == "" {
		return domain.PeriodOf(time.Now())
	}
	return period
}
