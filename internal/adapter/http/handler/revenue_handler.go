package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/merkato/fincore/internal/adapter/http/dto"
	"github.com/merkato/fincore/internal/domain"
	"github.com/merkato/fincore/internal/usecase"
)

// RevenueService is the revenue engine surface the handler needs.
type RevenueService interface {
	RecordReceipt(ctx context.Context, input usecase.ReceiptInput) (*domain.RevenueEntry, error)
	RecordRefund(ctx context.Context, input usecase.RefundInput) (*domain.RevenueEntry, error)
	RecordWithdrawal(ctx context.Context, input usecase.WithdrawalInput) (*domain.WithdrawalRecord, error)
	RecordReinvestment(ctx context.Context, input usecase.ReinvestmentInput) (*domain.Reinvestment, error)
	GetSummary(ctx context.Context, period string) (*domain.RevenueSummary, error)
	RecomputeSummary(ctx context.Context, period string) (*domain.RevenueSummary, error)
	WithdrawableBalance(ctx context.Context) (decimal.Decimal, error)
}

// RevenueHandler handles revenue ledger HTTP requests.
type RevenueHandler struct {
	engine RevenueService
}

// NewRevenueHandler creates a new RevenueHandler.
func NewRevenueHandler(engine RevenueService) *RevenueHandler {
	return &RevenueHandler{engine: engine}
}

// RecordReceipt records a customer receipt.
func (h *RevenueHandler) RecordReceipt(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.engine.RecordReceipt(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record receipt", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.RevenueEntryFromDomain(entry))
}

// RecordRefund records a customer refund.
func (h *RevenueHandler) RecordRefund(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.engine.RecordRefund(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record refund", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.RevenueEntryFromDomain(entry))
}

// RecordWithdrawal records a withdrawal from the revenue pool.
func (h *RevenueHandler) RecordWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordWithdrawalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	withdrawal, err := h.engine.RecordWithdrawal(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record withdrawal", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.WithdrawalFromDomain(withdrawal))
}

// RecordReinvestment moves revenue-pool cash back into capital.
func (h *RevenueHandler) RecordReinvestment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordReinvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	reinvestment, err := h.engine.RecordReinvestment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record reinvestment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ReinvestmentFromDomain(reinvestment))
}

// GetSummary returns the stored summary for a period.
func (h *RevenueHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	if period == "" {
		writeError(w, http.StatusBadRequest, "missing period", "")
		return
	}

	summary, err := h.engine.GetSummary(r.Context(), period)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get summary", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RevenueSummaryFromDomain(summary))
}

// RecomputeSummary rebuilds the summary for a period from the entries.
func (h *RevenueHandler) RecomputeSummary(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	if period == "" {
		writeError(w, http.StatusBadRequest, "missing period", "")
		return
	}

	summary, err := h.engine.RecomputeSummary(r.Context(), period)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to recompute summary", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.RevenueSummaryFromDomain(summary))
}

// WithdrawableBalance returns the live withdrawable balance of the pool.
func (h *RevenueHandler) WithdrawableBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.engine.WithdrawableBalance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute withdrawable balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{BalanceUSD: balance})
}
