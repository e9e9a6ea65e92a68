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

// AuctionHandler handles the named auctions.
type AuctionHandler struct {
	auctionUC *usecase.AuctionUseCase
	metrics   *metrics.Metrics
}

// NewAuctionHandler creates a new AuctionHandler.
func NewAuctionHandler(auctionUC *usecase.AuctionUseCase, m *metrics.Metrics) *AuctionHandler {
	return &AuctionHandler{auctionUC: auctionUC, metrics: m}
}

// Get returns an auction with its bid history.
func (h *AuctionHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing auction key", "")
		return
	}

	view, err := h.auctionUC.Get(r.Context(), key)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get auction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AuctionViewFromUseCase(view))
}

// Start opens a new auction round.
func (h *AuctionHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing auction key", "")
		return
	}

	var req dto.StartAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	auction, err := h.auctionUC.StartAuction(r.Context(), req.ToUseCaseInput(claims.AccountID, key))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to start auction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuctionFromDomain(auction))
}

// Bid places a bid on an active auction. No money moves until the round
// closes.
func (h *AuctionHandler) Bid(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing auction key", "")
		return
	}

	var req dto.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	bid, err := h.auctionUC.PlaceBid(r.Context(), claims.AccountID, key, req.Amount)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to place bid", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.BidResponse{
		AccountID: bid.AccountID,
		Amount:    bid.Amount,
		CreatedAt: bid.CreatedAt,
	})
}

// Close ends the round and settles the highest bid.
func (h *AuctionHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	key := chi.URLParam(r, "key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing auction key", "")
		return
	}

	result, err := h.auctionUC.CloseAuction(r.Context(), claims.AccountID, key)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to close auction", err.Error())
		return
	}

	h.metrics.AuctionsClosed.WithLabelValues(closeOutcome(result)).Inc()

	writeJSON(w, http.StatusOK, dto.CloseAuctionResponse{
		Auction:          dto.AuctionFromDomain(result.Auction),
		WinnerID:         result.WinnerID,
		Amount:           result.Amount,
		SettlementFailed: result.SettlementFailed,
	})
}

// WonLots lists the authenticated account's settled auction wins.
func (h *AuctionHandler) WonLots(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	lots, err := h.auctionUC.WonLots(r.Context(), claims.AccountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list won lots", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WonLotsFromDomain(lots))
}

func closeOutcome(result *usecase.CloseResult) string {
	switch {
	case result.SettlementFailed:
		return "settlement_failed"
	case result.WinnerID != nil:
		return "settled"
	default:
		return "no_bids"
	}
}
