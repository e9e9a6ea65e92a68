package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByUsernameFunc     func(ctx context.Context, username string) (*domain.Account, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	UpdateDepositFunc     func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, maturesAt *time.Time, earnings decimal.Decimal, updatedAt time.Time) error
	UpdateInsuranceFunc   func(ctx context.Context, tx usecase.Transaction, id string, insuredUntil time.Time, updatedAt time.Time) error
	UpdateLoyaltyFunc     func(ctx context.Context, tx usecase.Transaction, id string, points int64, updatedAt time.Time) error
	UpdateTotalSentFunc   func(ctx context.Context, tx usecase.Transaction, id string, total decimal.Decimal, updatedAt time.Time) error
	SetBlockedFunc        func(ctx context.Context, id string, blocked bool, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	ListDueDepositIDsFunc func(ctx context.Context, now time.Time) ([]string, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put seeds an account into the mock store.
func (m *MockAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Username == username {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateDeposit(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, maturesAt *time.Time, earnings decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateDepositFunc != nil {
		return m.UpdateDepositFunc(ctx, tx, id, amount, maturesAt, earnings, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.DepositAmount = amount
		acc.DepositMaturesAt = maturesAt
		acc.DepositEarnings = earnings
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateInsurance(ctx context.Context, tx usecase.Transaction, id string, insuredUntil time.Time, updatedAt time.Time) error {
	if m.UpdateInsuranceFunc != nil {
		return m.UpdateInsuranceFunc(ctx, tx, id, insuredUntil, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.InsuredUntil = &insuredUntil
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateLoyalty(ctx context.Context, tx usecase.Transaction, id string, points int64, updatedAt time.Time) error {
	if m.UpdateLoyaltyFunc != nil {
		return m.UpdateLoyaltyFunc(ctx, tx, id, points, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.LoyaltyPoints = points
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) UpdateTotalSent(ctx context.Context, tx usecase.Transaction, id string, total decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateTotalSentFunc != nil {
		return m.UpdateTotalSentFunc(ctx, tx, id, total, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.TotalSent = total
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) SetBlocked(ctx context.Context, id string, blocked bool, updatedAt time.Time) error {
	if m.SetBlockedFunc != nil {
		return m.SetBlockedFunc(ctx, id, blocked, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Blocked = blocked
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) ListDueDepositIDs(ctx context.Context, now time.Time) ([]string, error) {
	if m.ListDueDepositIDsFunc != nil {
		return m.ListDueDepositIDsFunc(ctx, now)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for _, acc := range m.accounts {
		if acc.DepositDue(now) {
			ids = append(ids, acc.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry
	order   []string

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error)
	GetByGroupForUpdateFunc func(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.Entry, error)
	ListByAccountFunc       func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	SetAnnotationFunc       func(ctx context.Context, tx usecase.Transaction, id, annotation string, updatedAt time.Time) error
	SumByAccountFunc        func(ctx context.Context, accountID string) (decimal.Decimal, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

// All returns every created entry in creation order.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.entries[id])
	}
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.order = append(m.order, entry.ID)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockEntryRepository) GetByGroupForUpdate(ctx context.Context, tx usecase.Transaction, groupID string) ([]*domain.Entry, error) {
	if m.GetByGroupForUpdateFunc != nil {
		return m.GetByGroupForUpdateFunc(ctx, tx, groupID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if e.GroupID != nil && *e.GroupID == groupID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Entry
	for i := len(m.order) - 1; i >= 0; i-- {
		e := m.entries[m.order[i]]
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockEntryRepository) SetAnnotation(ctx context.Context, tx usecase.Transaction, id, annotation string, updatedAt time.Time) error {
	if m.SetAnnotationFunc != nil {
		return m.SetAnnotationFunc(ctx, tx, id, annotation, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[id]; ok {
		e.Annotation = annotation
	}
	return nil
}

func (m *MockEntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, id := range m.order {
		e := m.entries[id]
		if e.AccountID == accountID {
			sum = sum.Add(e.Signed())
		}
	}
	return sum, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockAssetRepository is a mock implementation of AssetRepository.
type MockAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]*domain.Asset
	points []*domain.PricePoint

	ListFunc                 func(ctx context.Context) ([]*domain.Asset, error)
	GetByTickerFunc          func(ctx context.Context, ticker string) (*domain.Asset, error)
	GetByTickerForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ticker string) (*domain.Asset, error)
	ListForUpdateFunc        func(ctx context.Context, tx usecase.Transaction) ([]*domain.Asset, error)
	UpdatePriceFunc          func(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, updatedAt time.Time) error
	AddPricePointFunc        func(ctx context.Context, tx usecase.Transaction, point *domain.PricePoint) error
	HistoryFunc              func(ctx context.Context, assetID string, limit int) ([]*domain.PricePoint, error)
}

func NewMockAssetRepository() *MockAssetRepository {
	return &MockAssetRepository{
		assets: make(map[string]*domain.Asset),
	}
}

// Put seeds an asset into the mock store.
func (m *MockAssetRepository) Put(asset *domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[asset.Ticker] = asset
}

// PricePoints returns every recorded price point.
func (m *MockAssetRepository) PricePoints() []*domain.PricePoint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.PricePoint(nil), m.points...)
}

func (m *MockAssetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tickers []string
	for t := range m.assets {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	out := make([]*domain.Asset, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, m.assets[t])
	}
	return out, nil
}

func (m *MockAssetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	if m.GetByTickerFunc != nil {
		return m.GetByTickerFunc(ctx, ticker)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.assets[ticker]; ok {
		return a, nil
	}
	return nil, domain.ErrAssetNotFound
}

func (m *MockAssetRepository) GetByTickerForUpdate(ctx context.Context, tx usecase.Transaction, ticker string) (*domain.Asset, error) {
	if m.GetByTickerForUpdateFunc != nil {
		return m.GetByTickerForUpdateFunc(ctx, tx, ticker)
	}
	return m.GetByTicker(ctx, ticker)
}

func (m *MockAssetRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction) ([]*domain.Asset, error) {
	if m.ListForUpdateFunc != nil {
		return m.ListForUpdateFunc(ctx, tx)
	}
	return m.List(ctx)
}

func (m *MockAssetRepository) UpdatePrice(ctx context.Context, tx usecase.Transaction, id string, price decimal.Decimal, updatedAt time.Time) error {
	if m.UpdatePriceFunc != nil {
		return m.UpdatePriceFunc(ctx, tx, id, price, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assets {
		if a.ID == id {
			a.Price = price
			a.UpdatedAt = updatedAt
		}
	}
	return nil
}

func (m *MockAssetRepository) AddPricePoint(ctx context.Context, tx usecase.Transaction, point *domain.PricePoint) error {
	if m.AddPricePointFunc != nil {
		return m.AddPricePointFunc(ctx, tx, point)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, point)
	return nil
}

func (m *MockAssetRepository) History(ctx context.Context, assetID string, limit int) ([]*domain.PricePoint, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, assetID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PricePoint
	for i := len(m.points) - 1; i >= 0 && len(out) < limit; i-- {
		if m.points[i].AssetID == assetID {
			out = append(out, m.points[i])
		}
	}
	return out, nil
}

// MockHoldingRepository is a mock implementation of HoldingRepository.
type MockHoldingRepository struct {
	mu       sync.RWMutex
	holdings map[string]*domain.Holding

	GetForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, accountID, assetID string) (*domain.Holding, error)
	UpsertFunc        func(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error
	ListByAccountFunc func(ctx context.Context, accountID string) ([]*domain.Holding, error)
}

func NewMockHoldingRepository() *MockHoldingRepository {
	return &MockHoldingRepository{
		holdings: make(map[string]*domain.Holding),
	}
}

func holdingKey(accountID, assetID string) string {
	return accountID + "/" + assetID
}

// Put seeds a holding into the mock store.
func (m *MockHoldingRepository) Put(h *domain.Holding) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holdingKey(h.AccountID, h.AssetID)] = h
}

func (m *MockHoldingRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, accountID, assetID string) (*domain.Holding, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, accountID, assetID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holdings[holdingKey(accountID, assetID)], nil
}

func (m *MockHoldingRepository) Upsert(ctx context.Context, tx usecase.Transaction, holding *domain.Holding) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, holding)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings[holdingKey(holding.AccountID, holding.AssetID)] = holding
	return nil
}

func (m *MockHoldingRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Holding, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Holding
	for _, h := range m.holdings {
		if h.AccountID == accountID {
			out = append(out, h)
		}
	}
	return out, nil
}

// MockShopRepository is a mock implementation of ShopRepository.
type MockShopRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.ShopItem

	ListFunc              func(ctx context.Context) ([]*domain.ShopItem, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.ShopItem, error)
	UpdateStockFunc       func(ctx context.Context, tx usecase.Transaction, id string, quantity, popularity int64, updatedAt time.Time) error
}

func NewMockShopRepository() *MockShopRepository {
	return &MockShopRepository{
		items: make(map[string]*domain.ShopItem),
	}
}

// Put seeds an item into the mock store.
func (m *MockShopRepository) Put(item *domain.ShopItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

// Item returns the stored item by ID, or nil.
func (m *MockShopRepository) Item(id string) *domain.ShopItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[id]
}

func (m *MockShopRepository) List(ctx context.Context) ([]*domain.ShopItem, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.ShopItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *MockShopRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.ShopItem, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ShopItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockShopRepository) UpdateStock(ctx context.Context, tx usecase.Transaction, id string, quantity, popularity int64, updatedAt time.Time) error {
	if m.UpdateStockFunc != nil {
		return m.UpdateStockFunc(ctx, tx, id, quantity, popularity, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		item.Quantity = quantity
		item.Popularity = popularity
		item.UpdatedAt = updatedAt
	}
	return nil
}

// MockAuctionRepository is a mock implementation of AuctionRepository.
type MockAuctionRepository struct {
	mu       sync.RWMutex
	auctions map[string]*domain.Auction
	bids     []*domain.Bid
	lots     []*domain.WonLot

	GetByKeyFunc          func(ctx context.Context, key string) (*domain.Auction, error)
	GetByKeyForUpdateFunc func(ctx context.Context, tx usecase.Transaction, key string) (*domain.Auction, error)
	UpdateFunc            func(ctx context.Context, tx usecase.Transaction, auction *domain.Auction) error
	CreateBidFunc         func(ctx context.Context, tx usecase.Transaction, bid *domain.Bid) error
	DeleteBidsFunc        func(ctx context.Context, tx usecase.Transaction, auctionID string) error
	HighestBidFunc        func(ctx context.Context, tx usecase.Transaction, auctionID string) (*domain.Bid, error)
	ListBidsFunc          func(ctx context.Context, auctionID string, limit int) ([]*domain.Bid, error)
	CreateWonLotFunc      func(ctx context.Context, tx usecase.Transaction, lot *domain.WonLot) error
	ListWonLotsFunc       func(ctx context.Context, accountID string) ([]*domain.WonLot, error)
}

func NewMockAuctionRepository() *MockAuctionRepository {
	return &MockAuctionRepository{
		auctions: make(map[string]*domain.Auction),
	}
}

// Put seeds an auction into the mock store.
func (m *MockAuctionRepository) Put(a *domain.Auction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auctions[a.Key] = a
}

// Lots returns every recorded won lot.
func (m *MockAuctionRepository) Lots() []*domain.WonLot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.WonLot(nil), m.lots...)
}

func (m *MockAuctionRepository) GetByKey(ctx context.Context, key string) (*domain.Auction, error) {
	if m.GetByKeyFunc != nil {
		return m.GetByKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.auctions[key]; ok {
		return a, nil
	}
	return nil, domain.ErrAuctionNotFound
}

func (m *MockAuctionRepository) GetByKeyForUpdate(ctx context.Context, tx usecase.Transaction, key string) (*domain.Auction, error) {
	if m.GetByKeyForUpdateFunc != nil {
		return m.GetByKeyForUpdateFunc(ctx, tx, key)
	}
	return m.GetByKey(ctx, key)
}

func (m *MockAuctionRepository) Update(ctx context.Context, tx usecase.Transaction, auction *domain.Auction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, auction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auctions[auction.Key] = auction
	return nil
}

func (m *MockAuctionRepository) CreateBid(ctx context.Context, tx usecase.Transaction, bid *domain.Bid) error {
	if m.CreateBidFunc != nil {
		return m.CreateBidFunc(ctx, tx, bid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bids = append(m.bids, bid)
	return nil
}

func (m *MockAuctionRepository) DeleteBids(ctx context.Context, tx usecase.Transaction, auctionID string) error {
	if m.DeleteBidsFunc != nil {
		return m.DeleteBidsFunc(ctx, tx, auctionID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.bids[:0]
	for _, b := range m.bids {
		if b.AuctionID != auctionID {
			kept = append(kept, b)
		}
	}
	m.bids = kept
	return nil
}

func (m *MockAuctionRepository) HighestBid(ctx context.Context, tx usecase.Transaction, auctionID string) (*domain.Bid, error) {
	if m.HighestBidFunc != nil {
		return m.HighestBidFunc(ctx, tx, auctionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var highest *domain.Bid
	for _, b := range m.bids {
		if b.AuctionID != auctionID {
			continue
		}
		if highest == nil || b.Amount.GreaterThan(highest.Amount) {
			highest = b
		}
	}
	return highest, nil
}

func (m *MockAuctionRepository) ListBids(ctx context.Context, auctionID string, limit int) ([]*domain.Bid, error) {
	if m.ListBidsFunc != nil {
		return m.ListBidsFunc(ctx, auctionID, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Bid
	for i := len(m.bids) - 1; i >= 0 && len(out) < limit; i-- {
		if m.bids[i].AuctionID == auctionID {
			out = append(out, m.bids[i])
		}
	}
	return out, nil
}

func (m *MockAuctionRepository) CreateWonLot(ctx context.Context, tx usecase.Transaction, lot *domain.WonLot) error {
	if m.CreateWonLotFunc != nil {
		return m.CreateWonLotFunc(ctx, tx, lot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lots = append(m.lots, lot)
	return nil
}

func (m *MockAuctionRepository) ListWonLots(ctx context.Context, accountID string) ([]*domain.WonLot, error) {
	if m.ListWonLotsFunc != nil {
		return m.ListWonLotsFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.WonLot
	for _, lot := range m.lots {
		if lot.AccountID == accountID {
			out = append(out, lot)
		}
	}
	return out, nil
}

// MockLoanRepository is a mock implementation of LoanRepository.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.Loan

	CreateFunc                      func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetActiveByAccountFunc          func(ctx context.Context, accountID string) (*domain.Loan, error)
	GetActiveByAccountForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Loan, error)
	MarkRepaidFunc                  func(ctx context.Context, tx usecase.Transaction, id string, repaidAt time.Time) error
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		loans: make(map[string]*domain.Loan),
	}
}

// Put seeds a loan into the mock store.
func (m *MockLoanRepository) Put(l *domain.Loan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[l.ID] = l
}

func (m *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
	return nil
}

func (m *MockLoanRepository) GetActiveByAccount(ctx context.Context, accountID string) (*domain.Loan, error) {
	if m.GetActiveByAccountFunc != nil {
		return m.GetActiveByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.loans {
		if l.AccountID == accountID && l.Active() {
			return l, nil
		}
	}
	return nil, domain.ErrNoActiveLoan
}

func (m *MockLoanRepository) GetActiveByAccountForUpdate(ctx context.Context, tx usecase.Transaction, accountID string) (*domain.Loan, error) {
	if m.GetActiveByAccountForUpdateFunc != nil {
		return m.GetActiveByAccountForUpdateFunc(ctx, tx, accountID)
	}
	return m.GetActiveByAccount(ctx, accountID)
}

func (m *MockLoanRepository) MarkRepaid(ctx context.Context, tx usecase.Transaction, id string, repaidAt time.Time) error {
	if m.MarkRepaidFunc != nil {
		return m.MarkRepaidFunc(ctx, tx, id, repaidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.loans[id]; ok {
		l.RepaidAt = &repaidAt
	}
	return nil
}

// MockInsuranceRepository is a mock implementation of InsuranceRepository.
type MockInsuranceRepository struct {
	mu      sync.RWMutex
	options map[string]*domain.InsuranceOption

	ListOptionsFunc func(ctx context.Context) ([]*domain.InsuranceOption, error)
	GetOptionFunc   func(ctx context.Context, id string) (*domain.InsuranceOption, error)
}

func NewMockInsuranceRepository() *MockInsuranceRepository {
	return &MockInsuranceRepository{
		options: make(map[string]*domain.InsuranceOption),
	}
}

// Put seeds an option into the mock store.
func (m *MockInsuranceRepository) Put(o *domain.InsuranceOption) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[o.ID] = o
}

func (m *MockInsuranceRepository) ListOptions(ctx context.Context) ([]*domain.InsuranceOption, error) {
	if m.ListOptionsFunc != nil {
		return m.ListOptionsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.InsuranceOption
	for _, o := range m.options {
		out = append(out, o)
	}
	return out, nil
}

func (m *MockInsuranceRepository) GetOption(ctx context.Context, id string) (*domain.InsuranceOption, error) {
	if m.GetOptionFunc != nil {
		return m.GetOptionFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.options[id]; ok {
		return o, nil
	}
	return nil, domain.ErrInsuranceOptionNotFound
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*domain.Notification

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, notification *domain.Notification) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error)
	MarkReadFunc      func(ctx context.Context, id, accountID string) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

// All returns every created notification.
func (m *MockNotificationRepository) All() []*domain.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Notification(nil), m.notifications...)
}

func (m *MockNotificationRepository) Create(ctx context.Context, tx usecase.Transaction, notification *domain.Notification) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, notification)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *MockNotificationRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Notification, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifications[i].AccountID == accountID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, accountID string) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.AccountID == accountID {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// All returns every created outbox event.
func (m *MockOutboxRepository) All() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc        func(ctx context.Context, log *domain.AuditLog) error
	CreateTxFunc      func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.AuditLog, error)
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// All returns every created audit log.
func (m *MockAuditRepository) All() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.AuditLog, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.AccountID == accountID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func NewMockTransaction() *MockTransaction {
	return &MockTransaction{}
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return NewMockTransaction(), nil
}

// MockIDGenerator is a mock implementation of IDGenerator producing
// sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return "id-" + strconv.Itoa(m.next)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		items: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.items[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockEventBus is a mock implementation of EventBus recording every
// published event.
type MockEventBus struct {
	mu     sync.RWMutex
	Events []domain.Event

	PublishToAccountFunc func(accountID string, event domain.Event)
	PublishGlobalFunc    func(event domain.Event)
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{}
}

func (m *MockEventBus) PublishToAccount(accountID string, event domain.Event) {
	if m.PublishToAccountFunc != nil {
		m.PublishToAccountFunc(accountID, event)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	event.AccountID = accountID
	m.Events = append(m.Events, event)
}

func (m *MockEventBus) PublishGlobal(event domain.Event) {
	if m.PublishGlobalFunc != nil {
		m.PublishGlobalFunc(event)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns a copy of the recorded events.
func (m *MockEventBus) Published() []domain.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Event(nil), m.Events...)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.Mutex
	values map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		values: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.values[key]; ok {
		return true, existing, nil
	}
	m.values[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = response
	return nil
}
