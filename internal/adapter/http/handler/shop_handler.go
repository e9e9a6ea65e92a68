package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// ShopHandler handles the shop catalog and checkout.
type ShopHandler struct {
	shopUC  *usecase.ShopUseCase
	metrics *metrics.Metrics
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopUC *usecase.ShopUseCase, m *metrics.Metrics) *ShopHandler {
	return &ShopHandler{shopUC: shopUC, metrics: m}
}

// Catalog lists shop items, most popular first.
func (h *ShopHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.shopUC.ListCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list catalog", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ShopItemsFromDomain(items))
}

// Checkout buys a cart of items in one atomic purchase.
func (h *ShopHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.shopUC.Checkout(r.Context(), req.ToUseCaseInput(claims.AccountID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to checkout", err.Error())
		return
	}

	h.metrics.PurchasesCompleted.Inc()

	writeJSON(w, http.StatusCreated, dto.CheckoutResponse{
		Entry: dto.EntryFromDomain(result.Entry),
		Total: result.Total,
	})
}
