package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/usecase"
)

// InsuranceHandler handles insurance options and purchases.
type InsuranceHandler struct {
	insuranceUC *usecase.InsuranceUseCase
}

// NewInsuranceHandler creates a new InsuranceHandler.
func NewInsuranceHandler(insuranceUC *usecase.InsuranceUseCase) *InsuranceHandler {
	return &InsuranceHandler{insuranceUC: insuranceUC}
}

// Options lists the purchasable coverage periods.
func (h *InsuranceHandler) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.insuranceUC.ListOptions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list insurance options", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.InsuranceOptionsFromDomain(options))
}

// Buy purchases a coverage period, extending the account's insurance.
func (h *InsuranceHandler) Buy(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.BuyInsuranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entry, err := h.insuranceUC.Buy(r.Context(), claims.AccountID, req.OptionID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to buy insurance", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
