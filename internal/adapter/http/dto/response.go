package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

// AccountResponse represents an account in API responses. The password
// hash never leaves the server.
type AccountResponse struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	Admin            bool            `json:"admin"`
	Blocked          bool            `json:"blocked"`
	Balance          decimal.Decimal `json:"balance"`
	LoyaltyPoints    int64           `json:"loyalty_points"`
	DepositAmount    decimal.Decimal `json:"deposit_amount"`
	DepositMaturesAt *time.Time      `json:"deposit_matures_at,omitempty"`
	DepositEarnings  decimal.Decimal `json:"deposit_earnings"`
	InsuredUntil     *time.Time      `json:"insured_until,omitempty"`
	TotalSent        decimal.Decimal `json:"total_sent"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:               a.ID,
		Username:         a.Username,
		Admin:            a.Admin,
		Blocked:          a.Blocked,
		Balance:          a.Balance,
		LoyaltyPoints:    a.LoyaltyPoints,
		DepositAmount:    a.DepositAmount,
		DepositMaturesAt: a.DepositMaturesAt,
		DepositEarnings:  a.DepositEarnings,
		InsuredUntil:     a.InsuredUntil,
		TotalSent:        a.TotalSent,
		CreatedAt:        a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TokenResponse is returned on successful registration or login.
type TokenResponse struct {
	Token   string           `json:"token"`
	Account *AccountResponse `json:"account"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	Kind           string          `json:"kind"`
	Amount         decimal.Decimal `json:"amount"`
	IsCredit       bool            `json:"is_credit"`
	Comment        string          `json:"comment,omitempty"`
	Details        map[string]any  `json:"details,omitempty"`
	CounterpartyID *string         `json:"counterparty_id,omitempty"`
	GroupID        *string         `json:"group_id,omitempty"`
	Annotation     string          `json:"annotation,omitempty"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	CreatedAt      time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:             e.ID,
		AccountID:      e.AccountID,
		Kind:           string(e.Kind),
		Amount:         e.Amount,
		IsCredit:       e.IsCredit,
		Comment:        e.Comment,
		Details:        e.Details,
		CounterpartyID: e.CounterpartyID,
		GroupID:        e.GroupID,
		Annotation:     e.Annotation,
		BalanceAfter:   e.BalanceAfter,
		CreatedAt:      e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// TransferResponse represents a completed transfer.
type TransferResponse struct {
	GroupID  string         `json:"group_id"`
	OutEntry *EntryResponse `json:"out_entry"`
	InEntry  *EntryResponse `json:"in_entry"`
}

// TransferFromResult converts a transfer result to a response.
func TransferFromResult(r *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		GroupID:  r.GroupID,
		OutEntry: EntryFromDomain(r.OutEntry),
		InEntry:  EntryFromDomain(r.InEntry),
	}
}

// AssetResponse represents an exchange asset.
type AssetResponse struct {
	Ticker    string          `json:"ticker"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AssetFromDomain converts a domain asset to a response.
func AssetFromDomain(a *domain.Asset) *AssetResponse {
	return &AssetResponse{
		Ticker:    a.Ticker,
		Name:      a.Name,
		Kind:      string(a.Kind),
		Price:     a.Price,
		UpdatedAt: a.UpdatedAt,
	}
}

// AssetsFromDomain converts domain assets to responses.
func AssetsFromDomain(assets []*domain.Asset) []*AssetResponse {
	result := make([]*AssetResponse, len(assets))
	for i, a := range assets {
		result[i] = AssetFromDomain(a)
	}
	return result
}

// PricePointResponse is one row of an asset's price history.
type PricePointResponse struct {
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// PricePointsFromDomain converts price points to responses.
func PricePointsFromDomain(points []*domain.PricePoint) []*PricePointResponse {
	result := make([]*PricePointResponse, len(points))
	for i, p := range points {
		result[i] = &PricePointResponse{Price: p.Price, RecordedAt: p.RecordedAt}
	}
	return result
}

// HoldingResponse represents one asset position of an account.
type HoldingResponse struct {
	AssetID  string          `json:"asset_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// HoldingsFromDomain converts holdings to responses.
func HoldingsFromDomain(holdings []*domain.Holding) []*HoldingResponse {
	result := make([]*HoldingResponse, len(holdings))
	for i, h := range holdings {
		result[i] = &HoldingResponse{AssetID: h.AssetID, Quantity: h.Quantity}
	}
	return result
}

// TradeResponse represents an executed exchange trade.
type TradeResponse struct {
	Entry    *EntryResponse  `json:"entry"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Quantity decimal.Decimal `json:"quantity"`
}

// TradeFromResult converts a trade result to a response.
func TradeFromResult(r *usecase.TradeResult) *TradeResponse {
	return &TradeResponse{
		Entry:    EntryFromDomain(r.Entry),
		Price:    r.Price,
		Total:    r.Total,
		Quantity: r.Quantity,
	}
}

// ShopItemResponse represents a catalog item.
type ShopItemResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Quantity      int64            `json:"quantity"`
	Category      string           `json:"category,omitempty"`
	Popularity    int64            `json:"popularity"`
}

// ShopItemsFromDomain converts catalog items to responses.
func ShopItemsFromDomain(items []*domain.ShopItem) []*ShopItemResponse {
	result := make([]*ShopItemResponse, len(items))
	for i, item := range items {
		result[i] = &ShopItemResponse{
			ID:            item.ID,
			Name:          item.Name,
			Description:   item.Description,
			Price:         item.Price,
			DiscountPrice: item.DiscountPrice,
			Quantity:      item.Quantity,
			Category:      item.Category,
			Popularity:    item.Popularity,
		}
	}
	return result
}

// CheckoutResponse represents a completed checkout.
type CheckoutResponse struct {
	Entry *EntryResponse  `json:"entry"`
	Total decimal.Decimal `json:"total"`
}

// AuctionResponse represents an auction's state.
type AuctionResponse struct {
	Key         string           `json:"key"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Active      bool             `json:"active"`
	StartPrice  decimal.Decimal  `json:"start_price"`
	EndsAt      *time.Time       `json:"ends_at,omitempty"`
	WinnerID    *string          `json:"winner_id,omitempty"`
	WinningBid  *decimal.Decimal `json:"winning_bid,omitempty"`
	SettledAt   *time.Time       `json:"settled_at,omitempty"`
}

// AuctionFromDomain converts a domain auction to a response.
func AuctionFromDomain(a *domain.Auction) *AuctionResponse {
	return &AuctionResponse{
		Key:         a.Key,
		Title:       a.Title,
		Description: a.Description,
		Active:      a.Active,
		StartPrice:  a.StartPrice,
		EndsAt:      a.EndsAt,
		WinnerID:    a.WinnerID,
		WinningBid:  a.WinningBid,
		SettledAt:   a.SettledAt,
	}
}

// BidResponse represents one bid on an auction.
type BidResponse struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuctionViewResponse is an auction together with its bid history.
type AuctionViewResponse struct {
	Auction *AuctionResponse `json:"auction"`
	Bids    []*BidResponse   `json:"bids"`
}

// AuctionViewFromUseCase converts an auction view to a response.
func AuctionViewFromUseCase(v *usecase.AuctionView) *AuctionViewResponse {
	bids := make([]*BidResponse, len(v.Bids))
	for i, b := range v.Bids {
		bids[i] = &BidResponse{AccountID: b.AccountID, Amount: b.Amount, CreatedAt: b.CreatedAt}
	}
	return &AuctionViewResponse{
		Auction: AuctionFromDomain(v.Auction),
		Bids:    bids,
	}
}

// CloseAuctionResponse represents the outcome of closing an auction.
type CloseAuctionResponse struct {
	Auction          *AuctionResponse `json:"auction"`
	WinnerID         *string          `json:"winner_id,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	SettlementFailed bool             `json:"settlement_failed"`
}

// WonLotResponse represents a settled auction win.
type WonLotResponse struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	WonAt  time.Time       `json:"won_at"`
}

// WonLotsFromDomain converts won lots to responses.
func WonLotsFromDomain(lots []*domain.WonLot) []*WonLotResponse {
	result := make([]*WonLotResponse, len(lots))
	for i, l := range lots {
		result[i] = &WonLotResponse{Title: l.Title, Amount: l.Amount, WonAt: l.WonAt}
	}
	return result
}

// LoanResponse represents a loan.
type LoanResponse struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Payoff       decimal.Decimal `json:"payoff"`
	TakenAt      time.Time       `json:"taken_at"`
	RepaidAt     *time.Time      `json:"repaid_at,omitempty"`
}

// LoanFromDomain converts a domain loan to a response.
func LoanFromDomain(l *domain.Loan) *LoanResponse {
	return &LoanResponse{
		ID:           l.ID,
		Amount:       l.Amount,
		InterestRate: l.InterestRate,
		Payoff:       l.Payoff(),
		TakenAt:      l.TakenAt,
		RepaidAt:     l.RepaidAt,
	}
}

// InsuranceOptionResponse represents a purchasable coverage period.
type InsuranceOptionResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	DurationSeconds int64           `json:"duration_seconds"`
	Cost            decimal.Decimal `json:"cost"`
}

// InsuranceOptionsFromDomain converts insurance options to responses.
func InsuranceOptionsFromDomain(options []*domain.InsuranceOption) []*InsuranceOptionResponse {
	result := make([]*InsuranceOptionResponse, len(options))
	for i, o := range options {
		result[i] = &InsuranceOptionResponse{
			ID:              o.ID,
			Name:            o.Name,
			DurationSeconds: int64(o.Duration.Seconds()),
			Cost:            o.Cost,
		}
	}
	return result
}

// NotificationResponse represents a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsFromDomain converts notifications to responses.
func NotificationsFromDomain(notifications []*domain.Notification) []*NotificationResponse {
	result := make([]*NotificationResponse, len(notifications))
	for i, n := range notifications {
		result[i] = &NotificationResponse{
			ID:        n.ID,
			Text:      n.Text,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
	}
	return result
}

// MarketTickResponse represents the prices after a forced market tick.
type MarketTickResponse struct {
	Prices []usecase.AssetPrice `json:"prices"`
}

// MaturedDepositResponse represents one deposit paid out by a tick.
type MaturedDepositResponse struct {
	AccountID string          `json:"account_id"`
	Principal decimal.Decimal `json:"principal"`
	Payout    decimal.Decimal `json:"payout"`
}

// DepositTickResponse represents the deposits paid out by a forced tick.
type DepositTickResponse struct {
	Matured []MaturedDepositResponse `json:"matured"`
}

// ConsistencyResponse represents the result of a ledger consistency check.
type ConsistencyResponse struct {
	Consistent bool `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
