package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/usecase"
)

// DepositHandler handles savings deposits. Every deposit runs for the
// same configured term.
type DepositHandler struct {
	depositUC *usecase.DepositUseCase
	term      time.Duration
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC *usecase.DepositUseCase, term time.Duration) *DepositHandler {
	return &DepositHandler{depositUC: depositUC, term: term}
}

// Open locks part of the balance into a deposit until it matures.
func (h *DepositHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.OpenDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.depositUC.OpenDeposit(r.Context(), usecase.OpenDepositInput{
		AccountID: claims.AccountID,
		Amount:    req.Amount,
		Term:      h.term,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to open deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
