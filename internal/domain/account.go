package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a participant of the economy. Its balance only ever changes
// through the ledger: every mutation appends an Entry in the same
// transaction that updates the balance.
type Account struct {
	ID            string
	Username      string
	PasswordHash  string
	Admin         bool
	Blocked       bool
	Balance       decimal.Decimal
	LoyaltyPoints int64

	// Active deposit, if any. A nil DepositMaturesAt means no deposit.
	DepositAmount    decimal.Decimal
	DepositMaturesAt *time.Time
	DepositEarnings  decimal.Decimal

	InsuredUntil *time.Time
	TotalSent    decimal.Decimal
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateDebit checks that debiting amount would not drive the balance
// negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// HasActiveDeposit reports whether a deposit is currently open.
func (a *Account) HasActiveDeposit() bool {
	return a.DepositMaturesAt != nil && a.DepositAmount.IsPositive()
}

// DepositDue reports whether the active deposit has matured at now.
func (a *Account) DepositDue(now time.Time) bool {
	return a.HasActiveDeposit() && !a.DepositMaturesAt.After(now)
}

// Insured reports whether the account holds unexpired insurance.
func (a *Account) Insured(now time.Time) bool {
	return a.InsuredUntil != nil && a.InsuredUntil.After(now)
}
