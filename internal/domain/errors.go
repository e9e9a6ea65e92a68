package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountBlocked    = errors.New("account is blocked")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrInvalidUsername   = errors.New("username must be 3-32 characters")
	ErrWeakPassword      = errors.New("password must be at least 6 characters")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrSelfTransfer      = errors.New("cannot transfer to own account")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrInvalidAmount     = errors.New("amount must be positive")

	// Ledger entry errors
	ErrEntryNotFound        = errors.New("ledger entry not found")
	ErrAlreadyReversed      = errors.New("ledger entry already reversed")
	ErrNotReversible        = errors.New("ledger entry kind is not reversible")
	ErrCounterpartyNotFound = errors.New("transfer counterparty not found")

	// Shop errors
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemNotFound    = errors.New("shop item not found")
	ErrItemUnavailable = errors.New("shop item unavailable in requested quantity")

	// Exchange errors
	ErrAssetNotFound        = errors.New("asset not found")
	ErrInsufficientHoldings = errors.New("insufficient asset holdings")

	// Auction errors
	ErrAuctionNotFound      = errors.New("auction not found")
	ErrAuctionNotActive     = errors.New("auction is not active")
	ErrAuctionAlreadyActive = errors.New("auction is already active")
	ErrBidTooLow            = errors.New("bid must exceed the current highest bid")
	ErrSettlementFailed     = errors.New("auction settlement failed")

	// Deposit errors
	ErrDepositActive   = errors.New("account already has an active deposit")
	ErrNoActiveDeposit = errors.New("account has no active deposit")

	// Loan errors
	ErrLoanActive   = errors.New("account already has an active loan")
	ErrNoActiveLoan = errors.New("account has no active loan")
	ErrLoanTooLarge = errors.New("loan amount exceeds the allowed maximum")

	// Insurance errors
	ErrInsuranceOptionNotFound = errors.New("insurance option not found")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrForbidden    = errors.New("operation requires admin rights")
)
