package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/merkato/fincore/internal/adapter/http/dto"
	"github.com/merkato/fincore/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var (
		unknownType     *domain.UnknownEntryTypeError
		securityErr     *domain.SecurityViolationError
		approvalErr     *domain.ApprovalRequiredError
		balanceErr      *domain.InsufficientBalanceError
		withdrawableErr *domain.InsufficientWithdrawableError
		referenceErr    *domain.ReferenceIntegrityError
		amountMismatch  *domain.AmountMismatchError
	)

	switch {
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrRevenueEntryNotFound),
		errors.Is(err, domain.ErrGrantNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrUnsupportedCurrency),
		errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrEntryReferenced),
		errors.Is(err, domain.ErrGrantConsumed),
		errors.Is(err, domain.ErrGrantExpired):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSystemUserImmutable):
		return http.StatusForbidden
	case errors.As(err, &securityErr):
		return http.StatusForbidden
	case errors.As(err, &approvalErr):
		return http.StatusForbidden
	case errors.As(err, &balanceErr),
		errors.As(err, &withdrawableErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &amountMismatch),
		errors.As(err, &referenceErr),
		errors.As(err, &unknownType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
