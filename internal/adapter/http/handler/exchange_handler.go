package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// ExchangeHandler handles the asset board, price history, holdings and
// trades.
type ExchangeHandler struct {
	exchangeUC *usecase.ExchangeUseCase
	metrics    *metrics.Metrics
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeUC *usecase.ExchangeUseCase, m *metrics.Metrics) *ExchangeHandler {
	return &ExchangeHandler{exchangeUC: exchangeUC, metrics: m}
}

// Board lists all assets with their current prices.
func (h *ExchangeHandler) Board(w http.ResponseWriter, r *http.Request) {
	assets, err := h.exchangeUC.Board(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list assets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AssetsFromDomain(assets))
}

// History returns an asset's recent price history in chronological order.
func (h *ExchangeHandler) History(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "missing ticker", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)

	points, err := h.exchangeUC.History(r.Context(), ticker, limit)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get price history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PricePointsFromDomain(points))
}

// Holdings lists the authenticated account's asset positions.
func (h *ExchangeHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	holdings, err := h.exchangeUC.Holdings(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list holdings", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HoldingsFromDomain(holdings))
}

// Buy purchases asset units at the current price.
func (h *ExchangeHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.exchangeUC.Buy, "buy")
}

// Sell sells asset units at the current price.
func (h *ExchangeHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.exchangeUC.Sell, "sell")
}

func (h *ExchangeHandler) trade(
	w http.ResponseWriter,
	r *http.Request,
	execute func(context.Context, usecase.TradeInput) (*usecase.TradeResult, error),
	side string,
) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := execute(r.Context(), req.ToUseCaseInput(claims.AccountID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to execute trade", err.Error())
		return
	}

	h.metrics.TradesExecuted.WithLabelValues(side).Inc()

	writeJSON(w, http.StatusCreated, dto.TradeFromResult(result))
}
