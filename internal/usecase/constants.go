package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// CatalogCacheTTL is how long the shop catalog and exchange board are cached
	CatalogCacheTTL = 5 * time.Second

	// DefaultListLimit and MaxListLimit bound paginated listings
	DefaultListLimit = 20
	MaxListLimit     = 100
)
