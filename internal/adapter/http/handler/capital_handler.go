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

// CapitalService is the capital ledger surface the handler needs.
type CapitalService interface {
	CreateEntry(ctx context.Context, input usecase.CreateCapitalEntryInput) (*domain.CapitalEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.CapitalEntry, error)
	ListEntries(ctx context.Context) ([]*domain.CapitalEntry, error)
	DeleteEntry(ctx context.Context, id, requestedBy string, approval usecase.ApprovalRequest) error
	Balance(ctx context.Context) (decimal.Decimal, error)
}

// CapitalHandler handles capital ledger HTTP requests.
type CapitalHandler struct {
	ledger CapitalService
}

// NewCapitalHandler creates a new CapitalHandler.
func NewCapitalHandler(ledger CapitalService) *CapitalHandler {
	return &CapitalHandler{ledger: ledger}
}

// Create creates a new capital entry.
func (h *CapitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCapitalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledger.CreateEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to create capital entry", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.CapitalEntryFromDomain(entry))
}

// Get retrieves a capital entry by ID.
func (h *CapitalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.ledger.GetEntry(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get capital entry", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalEntryFromDomain(entry))
}

// List lists all capital entries in ledger order.
func (h *CapitalHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledger.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list capital entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CapitalEntriesFromDomain(entries))
}

// Delete removes an unreferenced capital entry.
func (h *CapitalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.DeleteCapitalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.ledger.DeleteEntry(r.Context(), id, req.RequestedBy, req.Approval.ToUseCaseInput()); err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to delete capital entry", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Balance returns the current capital balance in USD.
func (h *CapitalHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledger.Balance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{BalanceUSD: balance})
}
