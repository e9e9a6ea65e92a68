package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TransfersCreated  prometheus.Counter
	EntriesReversed   prometheus.Counter
	TransferAmount    prometheus.Histogram
	TransferErrors    *prometheus.CounterVec
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Economy metrics
	PurchasesCompleted prometheus.Counter
	TradesExecuted     *prometheus.CounterVec
	MarketTicks        prometheus.Counter
	DepositsMatured    prometheus.Counter
	LoansTaken         prometheus.Counter
	AuctionsClosed     *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Event metrics
	OutboxPublished prometheus.Counter
	SSESubscribers  prometheus.Gauge
	EventsDropped   prometheus.Counter

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransfersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		EntriesReversed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_entries_reversed_total",
			Help: "Total number of ledger entries reversed",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ceobank_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Economy metrics
		PurchasesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_purchases_completed_total",
			Help: "Total number of completed shop checkouts",
		}),
		TradesExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_trades_executed_total",
				Help: "Total number of exchange trades by side",
			},
			[]string{"side"},
		),
		MarketTicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_market_ticks_total",
			Help: "Total number of market price ticks",
		}),
		DepositsMatured: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_deposits_matured_total",
			Help: "Total number of matured deposits paid out",
		}),
		LoansTaken: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_loans_taken_total",
			Help: "Total number of loans taken",
		}),
		AuctionsClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_auctions_closed_total",
				Help: "Total number of auction closes by outcome",
			},
			[]string{"outcome"},
		),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ceobank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Event metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_outbox_published_total",
			Help: "Total number of outbox events published",
		}),
		SSESubscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "ceobank_sse_subscribers",
			Help: "Current number of connected event stream subscribers",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ceobank_events_dropped_total",
			Help: "Total number of events dropped on slow subscribers",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceobank_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
