package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/infrastructure/auth"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	accountUC  *usecase.AccountUseCase
	jwtManager *auth.JWTManager
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accountUC *usecase.AccountUseCase, jwtManager *auth.JWTManager, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{accountUC: accountUC, jwtManager: jwtManager, metrics: m}
}

// Register creates a new account and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register", err.Error())
		return
	}

	h.metrics.AccountsCreated.Inc()

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{
		Token:   token,
		Account: dto.AccountFromDomain(account),
	})
}

// Login authenticates an account and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failed").Inc()
		writeError(w, mapDomainError(err), "failed to authenticate", err.Error())
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("succeeded").Inc()

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		Token:   token,
		Account: dto.AccountFromDomain(account),
	})
}
