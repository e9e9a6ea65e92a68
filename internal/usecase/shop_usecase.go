package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
)

const catalogCacheKey = "shop:catalog"

// loyaltyDivisor converts money spent into loyalty points: one point per
// ten spent, floored.
var loyaltyDivisor = decimal.NewFromInt(10)

// ShopUseCase handles the item catalog and checkout.
type ShopUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	shopRepo    ShopRepository
	idGen       IDGenerator
	retrier     Retrier
	cache       Cache
	ledger      *LedgerUseCase
	bus         EventBus
}

// NewShopUseCase creates a new ShopUseCase.
func NewShopUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	shopRepo ShopRepository,
	idGen IDGenerator,
	retrier Retrier,
	cache Cache,
	ledger *LedgerUseCase,
	bus EventBus,
) *ShopUseCase {
	return &ShopUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		shopRepo:    shopRepo,
		idGen:       idGen,
		retrier:     retrier,
		cache:       cache,
		ledger:      ledger,
		bus:         bus,
	}
}

// ListCatalog returns all shop items, served from cache when fresh.
func (uc *ShopUseCase) ListCatalog(ctx context.Context) ([]*domain.ShopItem, error) {
	if data, err := uc.cache.Get(ctx, catalogCacheKey); err == nil && data != nil {
		var items []*domain.ShopItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	}

	items, err := uc.shopRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		_ = uc.cache.Set(ctx, catalogCacheKey, data, CatalogCacheTTL)
	}

	return items, nil
}

// CheckoutInput represents input for a cart checkout.
type CheckoutInput struct {
	AccountID string
	Lines     []domain.CartLine
}

// CheckoutResult carries the purchase entry and the total charged.
type CheckoutResult struct {
	Entry *domain.Entry
	Total decimal.Decimal
}

// Checkout purchases all cart lines atomically: one debit entry, stock
// decremented, popularity and loyalty points bumped. Retried on deadlock.
func (uc *ShopUseCase) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if len(input.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidAmount
		}
	}

	var result *CheckoutResult
	err := uc.retrier.Retry(ctx, func() error {
		var opErr error
		result, opErr = uc.checkoutOnce(ctx, input)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *ShopUseCase) checkoutOnce(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
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

	qtyByID := make(map[string]int64, len(input.Lines))
	ids := make([]string, 0, len(input.Lines))
	for _, line := range input.Lines {
		if _, seen := qtyByID[line.ItemID]; !seen {
			ids = append(ids, line.ItemID)
		}
		qtyByID[line.ItemID] += line.Quantity
	}
	sort.Strings(ids)

	items, err := uc.shopRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(items) != len(ids) {
		return nil, domain.ErrItemNotFound
	}

	total := decimal.Zero
	var names []string
	details := make([]any, 0, len(items))
	for _, item := range items {
		qty := qtyByID[item.ID]
		if !item.Available(qty) {
			return nil, domain.ErrItemUnavailable
		}
		total = total.Add(item.EffectivePrice().Mul(decimal.NewFromInt(qty)))
		names = append(names, item.Name)
		details = append(details, map[string]any{
			"itemId":   item.ID,
			"name":     item.Name,
			"quantity": qty,
			"price":    item.EffectivePrice().String(),
		})
	}
	total = domain.MoneyRound(total)

	now := time.Now().UTC()

	entry, err := uc.ledger.applyDeltaTx(txCtx, tx, account, delta{
		Kind:     domain.EntryKindPurchase,
		Amount:   total,
		IsCredit: false,
		Comment:  "Purchase: " + strings.Join(names, ", "),
		Details:  map[string]any{"items": details},
	}, now)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		qty := qtyByID[item.ID]
		if err := uc.shopRepo.UpdateStock(txCtx, tx, item.ID, item.Quantity-qty, item.Popularity+qty, now); err != nil {
			return nil, err
		}
	}

	points := total.Div(loyaltyDivisor).Floor().IntPart()
	if points > 0 {
		if err := uc.accountRepo.UpdateLoyalty(txCtx, tx, account.ID, account.LoyaltyPoints+points, now); err != nil {
			return nil, err
		}
		account.LoyaltyPoints += points
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	_ = uc.cache.Delete(ctx, catalogCacheKey)

	uc.ledger.publishBalance(account, entry)
	uc.bus.PublishGlobal(domain.Event{
		Type: domain.EventTypeCatalogUpdate,
		At:   now,
	})

	return &CheckoutResult{Entry: entry, Total: total}, nil
}
