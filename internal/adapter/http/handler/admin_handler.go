package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// AdminHandler handles administrative operations: balance adjustments,
// blocking, forced background ticks and the ledger consistency check.
type AdminHandler struct {
	accountUC  *usecase.AccountUseCase
	ledgerUC   *usecase.LedgerUseCase
	exchangeUC *usecase.ExchangeUseCase
	depositUC  *usecase.DepositUseCase
	metrics    *metrics.Metrics
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	accountUC *usecase.AccountUseCase,
	ledgerUC *usecase.LedgerUseCase,
	exchangeUC *usecase.ExchangeUseCase,
	depositUC *usecase.DepositUseCase,
	m *metrics.Metrics,
) *AdminHandler {
	return &AdminHandler{
		accountUC:  accountUC,
		ledgerUC:   ledgerUC,
		exchangeUC: exchangeUC,
		depositUC:  depositUC,
		metrics:    m,
	}
}

// AdjustBalance credits or debits an account by a signed amount.
func (h *AdminHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.ledgerUC.AdjustBalance(r.Context(), req.ToUseCaseInput(claims.AccountID, accountID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to adjust balance", err.Error())
		return
	}

	h.metrics.AccountOperations.WithLabelValues("adjust_balance").Inc()

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// SetBlocked blocks or unblocks an account.
func (h *AdminHandler) SetBlocked(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.SetBlockedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.accountUC.SetBlocked(r.Context(), claims.AccountID, accountID, req.Blocked); err != nil {
		writeError(w, mapDomainError(err), "failed to set blocked", err.Error())
		return
	}

	h.metrics.AccountOperations.WithLabelValues("set_blocked").Inc()

	w.WriteHeader(http.StatusNoContent)
}

// RunMarketTick forces one market price tick outside the schedule.
func (h *AdminHandler) RunMarketTick(w http.ResponseWriter, r *http.Request) {
	prices, err := h.exchangeUC.RunMarketTick(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "market tick failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MarketTickResponse{Prices: prices})
}

// RunDepositTick forces one deposit maturation sweep outside the
// schedule.
func (h *AdminHandler) RunDepositTick(w http.ResponseWriter, r *http.Request) {
	matured, err := h.depositUC.RunMaturationTick(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "deposit tick failed", err.Error())
		return
	}

	result := make([]dto.MaturedDepositResponse, len(matured))
	for i, m := range matured {
		result[i] = dto.MaturedDepositResponse{
			AccountID: m.AccountID,
			Principal: m.Principal,
			Payout:    m.Payout,
		}
	}

	writeJSON(w, http.StatusOK, dto.DepositTickResponse{Matured: result})
}

// CheckConsistency verifies that every balance equals the signed sum of
// its ledger entries.
func (h *AdminHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	consistent, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{Consistent: consistent})
}
