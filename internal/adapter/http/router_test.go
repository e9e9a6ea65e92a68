package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/adapter/http/dto"
	"github.com/ceobank/backend/internal/adapter/http/handler"
	apimiddleware "github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/infrastructure/auth"
	"github.com/ceobank/backend/internal/infrastructure/fanout"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
	"github.com/ceobank/backend/internal/usecase/mocks"
)

// Prometheus collectors register globally, so the package shares one
// instance across tests.
var testMetrics = metrics.New()

var testJWTManager = auth.NewJWTManager("test-secret", time.Hour)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	txManager := mocks.NewMockTransactionManager()
	accounts := mocks.NewMockAccountRepository()
	entries := mocks.NewMockEntryRepository()
	idGen := mocks.NewMockIDGenerator()
	retrier := mocks.NewMockRetrier()
	cache := mocks.NewMockCache()
	bus := mocks.NewMockEventBus()
	outbox := mocks.NewMockOutboxRepository()

	ledgerUC := usecase.NewLedgerUseCase(
		txManager,
		accounts,
		entries,
		mocks.NewMockLedgerRepository(),
		outbox,
		mocks.NewMockAuditRepository(),
		mocks.NewMockNotificationRepository(),
		idGen,
		retrier,
		bus,
	)
	reversalUC := usecase.NewReversalUseCase(
		txManager, accounts, entries, mocks.NewMockShopRepository(),
		mocks.NewMockAuditRepository(), idGen, ledgerUC,
	)
	accountUC := usecase.NewAccountUseCase(
		txManager, accounts, mocks.NewMockAuditRepository(), idGen, ledgerUC,
		decimal.NewFromInt(100), 10,
	)
	shopUC := usecase.NewShopUseCase(
		txManager, accounts, mocks.NewMockShopRepository(), idGen, retrier, cache, ledgerUC, bus,
	)
	exchangeUC := usecase.NewExchangeUseCase(
		txManager, accounts, mocks.NewMockAssetRepository(), mocks.NewMockHoldingRepository(),
		outbox, idGen, retrier, cache, ledgerUC, bus, nil,
	)
	depositUC := usecase.NewDepositUseCase(txManager, accounts, idGen, ledgerUC, decimal.RequireFromString("1.10"))
	loanUC := usecase.NewLoanUseCase(
		txManager, accounts, mocks.NewMockLoanRepository(), idGen, ledgerUC,
		decimal.NewFromInt(1000), decimal.NewFromInt(5),
	)
	insuranceUC := usecase.NewInsuranceUseCase(txManager, accounts, mocks.NewMockInsuranceRepository(), ledgerUC)
	auctionUC := usecase.NewAuctionUseCase(
		txManager, accounts, mocks.NewMockAuctionRepository(), outbox,
		mocks.NewMockAuditRepository(), idGen, ledgerUC, bus,
	)
	notificationUC := usecase.NewNotificationUseCase(mocks.NewMockNotificationRepository())

	hub := fanout.NewHub(zerolog.Nop())

	cfg := RouterConfig{
		AuthHandler:         handler.NewAuthHandler(accountUC, testJWTManager, testMetrics),
		AccountHandler:      handler.NewAccountHandler(accountUC),
		LedgerHandler:       handler.NewLedgerHandler(ledgerUC, reversalUC, testMetrics),
		ShopHandler:         handler.NewShopHandler(shopUC, testMetrics),
		ExchangeHandler:     handler.NewExchangeHandler(exchangeUC, testMetrics),
		DepositHandler:      handler.NewDepositHandler(depositUC, 5*time.Minute),
		LoanHandler:         handler.NewLoanHandler(loanUC, testMetrics),
		InsuranceHandler:    handler.NewInsuranceHandler(insuranceUC),
		AuctionHandler:      handler.NewAuctionHandler(auctionUC, testMetrics),
		NotificationHandler: handler.NewNotificationHandler(notificationUC),
		EventsHandler:       handler.NewEventsHandler(hub, testMetrics),
		AdminHandler:        handler.NewAdminHandler(accountUC, ledgerUC, exchangeUC, depositUC, testMetrics),
		HealthHandler:       &handler.HealthHandler{},

		JWTManager: testJWTManager,
		Logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func issueToken(t *testing.T, admin bool) string {
	t.Helper()
	token, err := testJWTManager.Generate(&domain.Account{ID: "acc-1", Username: "alice", Admin: admin})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RequiresAuthentication(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestNewRouter_RegisterThenMe(t *testing.T) {
	router := NewRouter(newRouterConfig())

	body, _ := json.Marshal(dto.RegisterRequest{Username: "alice", Password: "secret1"})
	registerReq := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	registerRec := httptest.NewRecorder()
	router.ServeHTTP(registerRec, registerReq)

	if registerRec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", registerRec.Code, registerRec.Body.String())
	}

	var tokenResp dto.TokenResponse
	if err := json.Unmarshal(registerRec.Body.Bytes(), &tokenResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+tokenResp.Token)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, meReq)

	if meRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", meRec.Code, meRec.Body.String())
	}

	var account dto.AccountResponse
	if err := json.Unmarshal(meRec.Body.Bytes(), &account); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if account.Username != "alice" {
		t.Fatalf("expected alice, got %s", account.Username)
	}
}

func TestNewRouter_AdminRoutesRequireAdmin(t *testing.T) {
	router := NewRouter(newRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/ticks/market", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, false))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/ticks/market", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, true))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimit = 1
		cfg.RateBurst = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	body, _ := json.Marshal(dto.RegisterRequest{Username: "bob", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatalf("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/me",
		"POST /api/v1/transfers",
		"POST /api/v1/entries/{id}/revoke",
		"POST /api/v1/shop/checkout",
		"POST /api/v1/exchange/buy",
		"POST /api/v1/deposits",
		"POST /api/v1/loans",
		"POST /api/v1/insurance/buy",
		"POST /api/v1/auctions/{key}/bids",
		"GET /api/v1/events",
		"POST /api/v1/admin/ticks/market",
		"POST /api/v1/admin/ticks/deposits",
		"GET /api/v1/admin/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}
