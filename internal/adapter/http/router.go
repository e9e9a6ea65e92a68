package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ceobank/backend/internal/adapter/http/handler"
	"github.com/ceobank/backend/internal/adapter/http/middleware"
	"github.com/ceobank/backend/internal/infrastructure/auth"
	"github.com/ceobank/backend/internal/infrastructure/metrics"
	"github.com/ceobank/backend/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	AccountHandler      *handler.AccountHandler
	LedgerHandler       *handler.LedgerHandler
	ShopHandler         *handler.ShopHandler
	ExchangeHandler     *handler.ExchangeHandler
	DepositHandler      *handler.DepositHandler
	LoanHandler         *handler.LoanHandler
	InsuranceHandler    *handler.InsuranceHandler
	AuctionHandler      *handler.AuctionHandler
	NotificationHandler *handler.NotificationHandler
	EventsHandler       *handler.EventsHandler
	AdminHandler        *handler.AdminHandler
	HealthHandler       *handler.HealthHandler

	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.Metrics).Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	authMiddleware := middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Public routes
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", cfg.AccountHandler.Me)
			r.Get("/me/entries", cfg.LedgerHandler.Statement)
			r.Get("/me/holdings", cfg.ExchangeHandler.Holdings)
			r.Get("/me/loan", cfg.LoanHandler.Active)
			r.Get("/me/won-lots", cfg.AuctionHandler.WonLots)

			r.Post("/transfers", cfg.LedgerHandler.Transfer)
			r.Get("/entries/{id}", cfg.LedgerHandler.GetEntry)
			r.Post("/entries/{id}/revoke", cfg.LedgerHandler.Revoke)

			r.Get("/shop/items", cfg.ShopHandler.Catalog)
			r.Post("/shop/checkout", cfg.ShopHandler.Checkout)

			r.Get("/exchange/assets", cfg.ExchangeHandler.Board)
			r.Get("/exchange/assets/{ticker}/history", cfg.ExchangeHandler.History)
			r.Post("/exchange/buy", cfg.ExchangeHandler.Buy)
			r.Post("/exchange/sell", cfg.ExchangeHandler.Sell)

			r.Post("/deposits", cfg.DepositHandler.Open)

			r.Post("/loans", cfg.LoanHandler.Take)
			r.Post("/loans/repay", cfg.LoanHandler.Repay)

			r.Get("/insurance/options", cfg.InsuranceHandler.Options)
			r.Post("/insurance/buy", cfg.InsuranceHandler.Buy)

			r.Get("/auctions/{key}", cfg.AuctionHandler.Get)
			r.Post("/auctions/{key}/bids", cfg.AuctionHandler.Bid)

			r.Get("/notifications", cfg.NotificationHandler.List)
			r.Post("/notifications/{id}/read", cfg.NotificationHandler.MarkRead)

			r.Get("/events", cfg.EventsHandler.Stream)

			// Admin routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/accounts", cfg.AccountHandler.List)
				r.Get("/accounts/{id}", cfg.AccountHandler.Get)
				r.Post("/admin/accounts/{id}/adjust", cfg.AdminHandler.AdjustBalance)
				r.Post("/admin/accounts/{id}/blocked", cfg.AdminHandler.SetBlocked)
				r.Post("/admin/auctions/{key}/start", cfg.AuctionHandler.Start)
				r.Post("/admin/auctions/{key}/close", cfg.AuctionHandler.Close)
				r.Post("/admin/ticks/market", cfg.AdminHandler.RunMarketTick)
				r.Post("/admin/ticks/deposits", cfg.AdminHandler.RunDepositTick)
				r.Get("/admin/consistency", cfg.AdminHandler.CheckConsistency)
			})
		})
	})

	return r
}
