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

// LedgerHandler handles transfers, statements and reversals.
type LedgerHandler struct {
	ledgerUC   *usecase.LedgerUseCase
	reversalUC *usecase.ReversalUseCase
	metrics    *metrics.Metrics
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase, reversalUC *usecase.ReversalUseCase, m *metrics.Metrics) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC, reversalUC: reversalUC, metrics: m}
}

// Transfer moves money from the authenticated account to another account
// by username.
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerUC.Transfer(r.Context(), req.ToUseCaseInput(claims.AccountID))
	if err != nil {
		h.metrics.TransferErrors.WithLabelValues(errorType(err)).Inc()
		writeError(w, mapDomainError(err), "failed to transfer", err.Error())
		return
	}

	h.metrics.TransfersCreated.Inc()
	amount, _ := req.Amount.Float64()
	h.metrics.TransferAmount.Observe(amount)

	writeJSON(w, http.StatusCreated, dto.TransferFromResult(result))
}

// Statement lists the authenticated account's ledger entries, newest
// first.
func (h *LedgerHandler) Statement(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.ledgerUC.Statement(r.Context(), usecase.StatementInput{
		AccountID: claims.AccountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// GetEntry retrieves a single ledger entry by ID.
func (h *LedgerHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	entry, err := h.ledgerUC.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Revoke compensates a ledger entry. Transfers are reversed on both legs;
// purchases are refunded with stock restored.
func (h *LedgerHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	result, err := h.reversalUC.Revoke(r.Context(), claims.AccountID, entryID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to revoke entry", err.Error())
		return
	}

	h.metrics.EntriesReversed.Inc()

	writeJSON(w, http.StatusCreated, dto.EntriesFromDomain(result.Entries))
}
