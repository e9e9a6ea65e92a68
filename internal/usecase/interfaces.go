package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateDeposit(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, maturesAt *time.Time, earnings decimal.Decimal, updatedAt time.Time) error
	UpdateInsurance(ctx context.Context, tx Transaction, id string, insuredUntil time.Time, updatedAt time.Time) error
	UpdateLoyalty(ctx context.Context, tx Transaction, id string, points int64, updatedAt time.Time) error
	UpdateTotalSent(ctx context.Context, tx Transaction, id string, total decimal.Decimal, updatedAt time.Time) error
	SetBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListDueDepositIDs(ctx context.Context, now time.Time) ([]string, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	GetByGroupForUpdate(ctx context.Context, tx Transaction, groupID string) ([]*domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	SetAnnotation(ctx context.Context, tx Transaction, id, annotation string, updatedAt time.Time) error
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// LedgerRepository defines data access for ledger-wide checks.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all account balances and the
	// signed sum of all ledger entries.
	CheckConsistency(ctx context.Context) (totalBalance, totalSigned decimal.Decimal, err error)
}

// AssetRepository defines data access for exchange assets.
type AssetRepository interface {
	List(ctx context.Context) ([]*domain.Asset, error)
	GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error)
	GetByTickerForUpdate(ctx context.Context, tx Transaction, ticker string) (*domain.Asset, error)
	ListForUpdate(ctx context.Context, tx Transaction) ([]*domain.Asset, error)
	UpdatePrice(ctx context.Context, tx Transaction, id string, price decimal.Decimal, updatedAt time.Time) error
	AddPricePoint(ctx context.Context, tx Transaction, point *domain.PricePoint) error
	History(ctx context.Context, assetID string, limit int) ([]*domain.PricePoint, error)
}

// HoldingRepository defines data access for per-account asset holdings.
type HoldingRepository interface {
	GetForUpdate(ctx context.Context, tx Transaction, accountID, assetID string) (*domain.Holding, error)
	Upsert(ctx context.Context, tx Transaction, holding *domain.Holding) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error)
}

// ShopRepository defines data access for the shop catalog.
type ShopRepository interface {
	List(ctx context.Context) ([]*domain.ShopItem, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.ShopItem, error)
	UpdateStock(ctx context.Context, tx Transaction, id string, quantity, popularity int64, updatedAt time.Time) error
}

// AuctionRepository defines data access for auctions and bids.
type AuctionRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.Auction, error)
	GetByKeyForUpdate(ctx context.Context, tx Transaction, key string) (*domain.Auction, error)
	Update(ctx context.Context, tx Transaction, auction *domain.Auction) error
	CreateBid(ctx context.Context, tx Transaction, bid *domain.Bid) error
	DeleteBids(ctx context.Context, tx Transaction, auctionID string) error
	HighestBid(ctx context.Context, tx Transaction, auctionID string) (*domain.Bid, error)
	ListBids(ctx context.Context, auctionID string, limit int) ([]*domain.Bid, error)
	CreateWonLot(ctx context.Context, tx Transaction, lot *domain.WonLot) error
	ListWonLots(ctx context.Context, accountID string) ([]*domain.WonLot, error)
}

// LoanRepository defines data access for loans.
type LoanRepository interface {
	Create(ctx context.Context, tx Transaction, loan *domain.Loan) error
	GetActiveByAccount(ctx context.Context, accountID string) (*domain.Loan, error)
	GetActiveByAccountForUpdate(ctx context.Context, tx Transaction, accountID string) (*domain.Loan, error)
	MarkRepaid(ctx context.Context, tx Transaction, id string, repaidAt time.Time) error
}

// InsuranceRepository defines data access for insurance options.
type InsuranceRepository interface {
	ListOptions(ctx context.Context) ([]*domain.InsuranceOption, error)
	GetOption(ctx context.Context, id string) (*domain.InsuranceOption, error)
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, tx Transaction, notification *domain.Notification) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, accountID string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Retrier retries an operation on transient database errors such as
// deadlocks and serialization failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// EventBus fans events out to connected subscribers. Publishing never
// blocks and never fails; slow subscribers lose events.
type EventBus interface {
	PublishToAccount(accountID string, event domain.Event)
	PublishGlobal(event domain.Event)
}
