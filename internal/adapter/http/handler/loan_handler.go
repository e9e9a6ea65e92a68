package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// LoanHandler handles loans.
type LoanHandler struct {
	loanUC  *usecase.LoanUseCase
	metrics *metrics.Metrics
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(loanUC *usecase.LoanUseCase, m *metrics.Metrics) *LoanHandler {
	return &LoanHandler{loanUC: loanUC, metrics: m}
}

// Take grants a loan to the authenticated account.
func (h *LoanHandler) Take(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TakeLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	loan, err := h.loanUC.Take(r.Context(), claims.AccountID, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to take loan", err.Error())
		return
	}

	h.metrics.LoansTaken.Inc()

	writeJSON(w, http.StatusCreated, dto.LoanFromDomain(loan))
}

// Repay pays off the authenticated account's active loan.
func (h *LoanHandler) Repay(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entry, err := h.loanUC.Repay(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to repay loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Active returns the authenticated account's active loan.
func (h *LoanHandler) Active(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	loan, err := h.loanUC.ActiveLoan(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get loan", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoanFromDomain(loan))
}
