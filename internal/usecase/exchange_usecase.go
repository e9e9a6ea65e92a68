package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

const boardCacheKey = "exchange:board"

// ExchangeUseCase handles asset trading and the market price walk.
type ExchangeUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	assetRepo   AssetRepository
	holdingRepo HoldingRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	ledger      *LedgerUseCase
	bus         EventBus
	randFn      func() float64
}

// NewExchangeUseCase creates a new ExchangeUseCase. randFn may be nil, in
// which case the global math/rand source is used; tests inject a
// deterministic one.
func NewExchangeUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	assetRepo AssetRepository,
	holdingRepo HoldingRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	ledger *LedgerUseCase,
	bus EventBus,
	randFn func() float64,
) *ExchangeUseCase {
	if randFn == nil {
		randFn = rand.Float64
	}
	return &ExchangeUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		assetRepo:   assetRepo,
		holdingRepo: holdingRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		ledger:      ledger,
		bus:         bus,
		randFn:      randFn,
	}
}

// Board returns all assets with current prices, served from cache when
// fresh.
func (uc *ExchangeUseCase) Board(ctx context.Context) ([]*domain.Asset, error) {
	if data, err := uc.cache.Get(ctx, boardCacheKey); err == nil && data != nil {
		var assets []*domain.Asset
		if err := json.Unmarshal(data, &assets); err == nil {
			return assets, nil
		}
	}

	assets, err := uc.assetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(assets); err == nil {
		_ = uc.cache.Set(ctx, boardCacheKey, data, CatalogCacheTTL)
	}

	return assets, nil
}

// History returns the recorded price points for an asset, newest first.
func (uc *ExchangeUseCase) History(ctx context.Context, ticker string, limit int) ([]*domain.PricePoint, error) {
	asset, err := uc.assetRepo.GetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	return uc.assetRepo.History(ctx, asset.ID, limit)
}

// Holdings returns the caller's asset positions.
func (uc *ExchangeUseCase) Holdings(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	return uc.holdingRepo.ListByAccount(ctx, accountID)
}

// TradeInput represents input for a buy or sell order.
type TradeInput struct {
	AccountID string
	Ticker    string
	Quantity  decimal.Decimal
}

// TradeResult carries the ledger entry and the executed price.
type TradeResult struct {
	Entry    *domain.Entry
	Price    decimal.Decimal
	Total    decimal.Decimal
	Quantity decimal.Decimal
}

// Buy purchases quantity units of an asset at its current price.
func (uc *ExchangeUseCase) Buy(ctx context.Context, input TradeInput) (*TradeResult, error) {
	return uc.trade(ctx, input, true)
}

// Sell disposes quantity units of an asset at its current price.
func (uc *ExchangeUseCase) Sell(ctx context.Context, input TradeInput) (*TradeResult, error) {
	return uc.trade(ctx, input, false)
}

func (uc *ExchangeUseCase) trade(ctx context.Context, input TradeInput, buy bool) (*TradeResult, error) {
	if !input.Quantity.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result *TradeResult
	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		result, opErr = uc.tradeOnce(ctx, input, buy)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ExchangeUseCase) tradeOnce(ctx context.Context, input TradeInput, buy bool) (*TradeResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account.Blocked {
		return nil, domain.ErrAccountBlocked
	}

	// Lock the asset row so the executed price cannot move mid-trade.
	asset, err := uc.assetRepo.GetByTickerForUpdate(txCtx, tx, input.Ticker)
	if err != nil {
		return nil, err
	}

	total := domain.MoneyRound(asset.Price.Mul(input.Quantity))
	now := time.Now().UTC()

	holding, err := uc.holdingRepo.GetForUpdate(txCtx, tx, account.ID, asset.ID)
	if err != nil {
		return nil, err
	}
	if holding == nil {
		holding = &domain.Holding{
			ID:        uc.idGen.Generate(),
			AccountID: account.ID,
			AssetID:   asset.ID,
			Quantity:  decimal.Zero,
		}
	}

	var (
		kind        domain.EntryKind
		isCredit    bool
		newQuantity decimal.Decimal
		comment     string
	)
	if buy {
		kind = domain.EntryKindExchangeBuy
		isCredit = false
		newQuantity = holding.Quantity.Add(input.Quantity)
		comment = fmt.Sprintf("Buy %s %s @ %s", input.Quantity, asset.Ticker, asset.Price)
	} else {
		if holding.Quantity.LessThan(input.Quantity) {
			return nil, domain.ErrInsufficientHoldings
		}
		kind = domain.EntryKindExchangeSell
		isCredit = true
		newQuantity = holding.Quantity.Sub(input.Quantity)
		comment = fmt.Sprintf("Sell %s %s @ %s", input.Quantity, asset.Ticker, asset.Price)
	}

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     kind,
		Amount:   total,
		IsCredit: isCredit,
		Comment:  comment,
		Details: map[string]any{
			"ticker":   asset.Ticker,
			"quantity": input.Quantity.String(),
			"price":    asset.Price.String(),
		},
	}, now)
	if err != nil {
		return nil, err
	}

	holding.Quantity = newQuantity
	holding.UpdatedAt = now
	if err := uc.holdingRepo.Upsert(txCtx, tx, holding); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.ledger.publishBalance(account, entry)

	return &TradeResult{
		Entry:    entry,
		Price:    asset.Price,
		Total:    total,
		Quantity: input.Quantity,
	}, nil
}

// AssetPrice is one asset's price after a market tick.
type AssetPrice struct {
	Ticker string          `json:"ticker"`
	Price  decimal.Decimal `json:"price"`
}

// RunMarketTick advances every asset one step of its bounded random walk.
// Each asset moves in its own transaction so one failure never stalls the
// rest of the board; failures are joined into the returned error.
func (uc *ExchangeUseCase) RunMarketTick(ctx context.Context) ([]AssetPrice, error) {
	assets, err := uc.assetRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := make([]AssetPrice, 0, len(assets))

	var errs []error
	for _, asset := range assets {
		price, err := uc.tickAsset(ctx, asset.Ticker, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("tick %s: %w", asset.Ticker, err))
			continue
		}
		updates = append(updates, AssetPrice{Ticker: asset.Ticker, Price: price})
	}

	if len(updates) > 0 {
		uc.announceMarket(ctx, updates, now)
	}

	return updates, errors.Join(errs...)
}

func (uc *ExchangeUseCase) tickAsset(ctx context.Context, ticker string, now time.Time) (decimal.Decimal, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback(txCtx)

	asset, err := uc.assetRepo.GetByTickerForUpdate(txCtx, tx, ticker)
	if err != nil {
		return decimal.Zero, err
	}

	price := asset.NextPrice(uc.randFn())

	if err := uc.assetRepo.UpdatePrice(txCtx, tx, asset.ID, price, now); err != nil {
		return decimal.Zero, err
	}

	point := &domain.PricePoint{
		ID:         uc.idGen.Generate(),
		AssetID:    asset.ID,
		Price:      price,
		RecordedAt: now,
	}
	if err := uc.assetRepo.AddPricePoint(txCtx, tx, point); err != nil {
		return decimal.Zero, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// announceMarket publishes one batched market update: a durable outbox
// event plus a global fan-out message. The board cache is invalidated so
// the next read sees fresh prices.
func (uc *ExchangeUseCase) announceMarket(ctx context.Context, updates []AssetPrice, now time.Time) {
	prices := make(map[string]any, len(updates))
	for _, u := range updates {
		prices[u.Ticker] = u.Price.String()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	if tx, err := uc.txManager.Begin(txCtx); err == nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   "market",
			AggregateType: "market",
			EventType:     domain.EventTypeMarketUpdate,
			Payload:       map[string]any{"prices": prices},
			CreatedAt:     now,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err == nil {
			_ = tx.Commit(txCtx)
		} else {
			_ = tx.Rollback(txCtx)
		}
	}

	_ = uc.cache.Delete(ctx, boardCacheKey)

	uc.bus.PublishGlobal(domain.Event{
		Type:    domain.EventTypeMarketUpdate,
		Payload: map[string]any{"prices": prices},
		At:      now,
	})
}
