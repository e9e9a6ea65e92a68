package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ceobank/backend/internal/domain"
	"github.com/ceobank/backend/internal/usecase"
)

// RegisterRequest represents a request to register a new account.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: r.Username,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TransferRequest represents a request to transfer money to another
// account by username.
type TransferRequest struct {
	RecipientUsername string          `json:"recipient_username"`
	Amount            decimal.Decimal `json:"amount"`
	Comment           string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(senderID string) usecase.TransferInput {
	return usecase.TransferInput{
		SenderID:          senderID,
		RecipientUsername: r.RecipientUsername,
		Amount:            r.Amount,
		Comment:           r.Comment,
	}
}

// CheckoutRequest represents a shop checkout request.
type CheckoutRequest struct {
	Lines []CartLineRequest `json:"lines"`
}

// CartLineRequest is one position of a checkout request.
type CartLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *CheckoutRequest) ToUseCaseInput(accountID string) usecase.CheckoutInput {
	lines := make([]domain.CartLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.CartLine{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	return usecase.CheckoutInput{
		AccountID: accountID,
		Lines:     lines,
	}
}

// TradeRequest represents an exchange buy or sell request.
type TradeRequest struct {
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *TradeRequest) ToUseCaseInput(accountID string) usecase.TradeInput {
	return usecase.TradeInput{
		AccountID: accountID,
		Ticker:    r.Ticker,
		Quantity:  r.Quantity,
	}
}

// OpenDepositRequest represents a request to open a deposit.
type OpenDepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TakeLoanRequest represents a request to take a loan.
type TakeLoanRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BuyInsuranceRequest represents a request to buy an insurance option.
type BuyInsuranceRequest struct {
	OptionID string `json:"option_id"`
}

// PlaceBidRequest represents a bid on an auction.
type PlaceBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// StartAuctionRequest represents a request to start an auction round.
type StartAuctionRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	StartPrice      decimal.Decimal `json:"start_price"`
	DurationSeconds int64           `json:"duration_seconds,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StartAuctionRequest) ToUseCaseInput(actorID, key string) usecase.StartAuctionInput {
	return usecase.StartAuctionInput{
		ActorID:     actorID,
		Key:         key,
		Title:       r.Title,
		Description: r.Description,
		StartPrice:  r.StartPrice,
		Duration:    time.Duration(r.DurationSeconds) * time.Second,
	}
}

// AdjustBalanceRequest represents an administrative balance adjustment.
type AdjustBalanceRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AdjustBalanceRequest) ToUseCaseInput(actorID, accountID string) usecase.AdjustBalanceInput {
	return usecase.AdjustBalanceInput{
		ActorID:   actorID,
		AccountID: accountID,
		Amount:    r.Amount,
		Comment:   r.Comment,
	}
}

// SetBlockedRequest represents a request to block or unblock an account.
type SetBlockedRequest struct {
	Blocked bool `json:"blocked"`
}
